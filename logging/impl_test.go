package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"go.viam.com/test"
)

func TestConsoleAppenderFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewBlankLogger("planner")
	logger.AddAppender(NewWriterAppender(&buf))

	logger.Infof("committed %d nodes", 3)
	line, err := buf.ReadString('\n')
	test.That(t, err, test.ShouldBeNil)
	parts := strings.Split(strings.TrimSuffix(line, "\n"), "\t")
	test.That(t, parts, test.ShouldHaveLength, 5)
	stamp, err := time.Parse(DefaultTimeFormatStr, parts[0])
	test.That(t, err, test.ShouldBeNil)
	test.That(t, time.Since(stamp), test.ShouldBeLessThan, time.Minute)
	// blank loggers stamp in UTC, which the layout prints as a bare Z
	test.That(t, parts[0], test.ShouldEndWith, "Z")
	test.That(t, parts[1], test.ShouldEqual, "INFO")
	test.That(t, parts[2], test.ShouldEqual, "planner")
	test.That(t, parts[3], test.ShouldStartWith, "logging/impl_test.go:")
	test.That(t, parts[4], test.ShouldEqual, "committed 3 nodes")

	logger.Debugw("extend", "tree", "start", "node", 4)
	line, err = buf.ReadString('\n')
	test.That(t, err, test.ShouldBeNil)
	parts = strings.Split(strings.TrimSuffix(line, "\n"), "\t")
	test.That(t, parts, test.ShouldHaveLength, 6)
	test.That(t, parts[5], test.ShouldEqual, `{"tree":"start","node":4}`)
}

func TestConsoleAppenderLocalTime(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := NewObservedTestLogger(t)
	logger.AddAppender(NewWriterAppender(&buf))
	logger.Warnw("dangling", "key")

	line, err := buf.ReadString('\n')
	test.That(t, err, test.ShouldBeNil)
	parts := strings.Split(strings.TrimSuffix(line, "\n"), "\t")
	test.That(t, parts, test.ShouldHaveLength, 5)
	stamp, err := time.Parse(DefaultTimeFormatStr, parts[0])
	test.That(t, err, test.ShouldBeNil)
	_, wantOffset := time.Now().Zone()
	_, gotOffset := stamp.Zone()
	test.That(t, gotOffset, test.ShouldEqual, wantOffset)
	test.That(t, parts[2], test.ShouldStartWith, "logging/impl_test.go:")
	test.That(t, parts[4], test.ShouldEqual, `{"key":"unpaired log key"}`)
}

func TestLevels(t *testing.T) {
	logger, observed := NewObservedTestLogger(t)
	logger.SetLevel(WARN)
	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Warn("kept")
	logger.Errorf("kept %s", "too")
	test.That(t, observed.Len(), test.ShouldEqual, 2)
	test.That(t, observed.All()[1].Message, test.ShouldEqual, "kept too")

	sub := logger.Sublogger("rrt")
	test.That(t, sub.GetLevel(), test.ShouldEqual, WARN)
	sub.Warnw("unpaired", "key")
	entries := observed.FilterMessage("unpaired").All()
	test.That(t, entries, test.ShouldHaveLength, 1)
	test.That(t, entries[0].LoggerName, test.ShouldEqual, "rrt")
	test.That(t, logger.Sync(), test.ShouldBeNil)
}

func TestLevelFromString(t *testing.T) {
	for str, want := range map[string]Level{"debug": DEBUG, "INFO": INFO, "warning": WARN, "Error": ERROR} {
		got, err := LevelFromString(str)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, got, test.ShouldEqual, want)
	}
	_, err := LevelFromString("verbose")
	test.That(t, err, test.ShouldNotBeNil)

	var lvl Level
	test.That(t, lvl.UnmarshalJSON([]byte(`"warn"`)), test.ShouldBeNil)
	test.That(t, lvl, test.ShouldEqual, WARN)
	out, err := lvl.MarshalJSON()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(out), test.ShouldEqual, `"warn"`)
}
