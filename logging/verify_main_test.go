package logging

import (
	"testing"

	"go.viam.com/chainplan/testutils"
)

func TestMain(m *testing.M) {
	testutils.VerifyTestMain(m)
}
