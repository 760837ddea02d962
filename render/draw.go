// Package render draws planar chains, their obstacles and planned paths to PNG images.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/golang/geo/r2"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/gofont/goregular"

	"go.viam.com/chainplan/collision"
)

var font *truetype.Font

func init() {
	var err error
	font, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

var (
	backgroundColor = color.White
	obstacleColor   = colornames.Firebrick
	linkColor       = colornames.Steelblue
	jointColor      = colornames.Black
	nodeColor       = colornames.Seagreen
	textColor       = colornames.Dimgray
)

// margin is the fraction of the chain's reach left free around it.
const margin = 0.1

// Viewport maps workspace coordinates to image pixels. Center is drawn at the middle of the image
// and the y axis points up.
type Viewport struct {
	Width  int
	Height int
	Center r2.Point
	Scale  float64
}

// NewViewport returns a viewport of the given size that fits a disc of radius reach around center.
func NewViewport(width, height int, reach float64, center r2.Point) Viewport {
	scale := 1.
	if reach > 0 {
		scale = float64(min(width, height)) / (2 * reach * (1 + margin))
	}
	return Viewport{Width: width, Height: height, Center: center, Scale: scale}
}

// ToImage converts a workspace point to image coordinates.
func (v Viewport) ToImage(p r2.Point) (float64, float64) {
	return float64(v.Width)/2 + (p.X-v.Center.X)*v.Scale, float64(v.Height)/2 - (p.Y-v.Center.Y)*v.Scale
}

// NewContext returns a drawing context the size of the viewport, cleared to the background.
func (v Viewport) NewContext() *gg.Context {
	dc := gg.NewContext(v.Width, v.Height)
	dc.SetColor(backgroundColor)
	dc.Clear()
	return dc
}

// DrawObstacles fills every disc.
func DrawObstacles(dc *gg.Context, v Viewport, discs collision.Discs) {
	dc.SetColor(obstacleColor)
	for _, d := range discs {
		x, y := v.ToImage(d.Center)
		dc.DrawCircle(x, y, d.Radius*v.Scale)
		dc.Fill()
	}
}

// DrawPose draws the links of one chain pose with a dot at every joint.
func DrawPose(dc *gg.Context, v Viewport, pose []r2.Point, c color.Color, width float64) {
	dc.SetColor(c)
	dc.SetLineWidth(width)
	for i := 1; i < len(pose); i++ {
		x0, y0 := v.ToImage(pose[i-1])
		x1, y1 := v.ToImage(pose[i])
		dc.DrawLine(x0, y0, x1, y1)
		dc.Stroke()
	}
	dc.SetColor(jointColor)
	for _, p := range pose {
		x, y := v.ToImage(p)
		dc.DrawCircle(x, y, math.Max(width, 2))
		dc.Fill()
	}
}

// DrawPoints marks each point with a small dot.
func DrawPoints(dc *gg.Context, v Viewport, pts []r2.Point, c color.Color) {
	dc.SetColor(c)
	for _, p := range pts {
		x, y := v.ToImage(p)
		dc.DrawPoint(x, y, 1.5)
		dc.Fill()
	}
}

// DrawString writes a string to the given context at a particular point.
func DrawString(dc *gg.Context, text string, p image.Point, c color.Color, size float64) {
	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: size}))
	dc.SetColor(c)
	dc.DrawStringWrapped(text, float64(p.X), float64(p.Y), 0, 0, float64(dc.Width()), 1, 0)
}

// DrawScene draws the obstacles, then every pose in order with later poses drawn darker, then an
// optional caption in the top left corner.
func DrawScene(v Viewport, discs collision.Discs, poses [][]r2.Point, caption string) *gg.Context {
	dc := v.NewContext()
	DrawObstacles(dc, v, discs)
	for i, pose := range poses {
		DrawPose(dc, v, pose, fade(linkColor, i, len(poses)), 2)
	}
	if caption != "" {
		DrawString(dc, caption, image.Point{X: 8, Y: 8}, textColor, 14)
	}
	return dc
}

// fade blends c toward white for poses early in a sequence of n.
func fade(c color.RGBA, i, n int) color.RGBA {
	if n <= 1 {
		return c
	}
	t := 0.7 * (1 - float64(i)/float64(n-1))
	mix := func(ch uint8) uint8 {
		return uint8(float64(ch) + t*(255-float64(ch)))
	}
	return color.RGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: c.A}
}
