package referenceframe

import "fmt"

// DimensionMismatchError is returned when a configuration does not have one angle per joint.
type DimensionMismatchError struct {
	Actual   int
	Expected int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("number of configuration angles does not match the number of joints, have %d need %d", e.Actual, e.Expected)
}

// NewIncorrectDoFError returns an error indicating that the length of a configuration does not match
// the degrees of freedom of the chain it is meant for.
func NewIncorrectDoFError(actual, expected int) error {
	return &DimensionMismatchError{Actual: actual, Expected: expected}
}
