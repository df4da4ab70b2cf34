package logging_test

import (
	"testing"

	"github.com/usnistgov/hybrid-ctrl/core/logging"
	"github.com/usnistgov/hybrid-ctrl/core/testenv"
)

func TestLevel(t *testing.T) {
	assert, _ := testenv.MakeAR(t)
	t.Setenv(logging.EnvPrefix, "W")
	t.Setenv(logging.EnvPrefix+"_LevelTestB", "D")

	a := logging.GetLevel("LevelTestA")
	assert.EqualValues('W', a.Level())
	b := logging.GetLevel("LevelTestB")
	assert.EqualValues('D', b.Level())
	assert.Same(a, logging.GetLevel("LevelTestA"))

	a.SetLevel("error")
	assert.EqualValues('E', a.Level())
	a.SetLevel("Warn")
	assert.EqualValues('W', a.Level())
	a.SetLevel("v")
	assert.EqualValues('V', a.Level())
	a.SetLevel("bogus")
	assert.EqualValues('I', a.Level())

	var found bool
	for _, pl := range logging.ListLevels() {
		if pl.Package() == "LevelTestB" {
			found = true
		}
	}
	assert.True(found)
	assert.NotNil(logging.New("LevelTestA"))
}
