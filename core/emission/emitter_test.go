package emission_test

import (
	"testing"

	"github.com/usnistgov/hybrid-ctrl/core/emission"
	"github.com/usnistgov/hybrid-ctrl/core/testenv"
)

func TestOnCancel(t *testing.T) {
	assert, _ := testenv.MakeAR(t)

	nA, nB := 0, 0
	fA := func(n int) { nA += n }
	fB := func(n int) { nB += n }

	emitter := emission.NewEmitter()
	cA := emitter.On(1, fA)
	cB := emitter.On(1, fB)

	emitter.Emit(1, 1)
	assert.Equal(1, nA)
	assert.Equal(1, nB)

	assert.NoError(cA.Close())
	emitter.Emit(1, 2)
	assert.Equal(1, nA)
	assert.Equal(3, nB)

	assert.NoError(cB.Close())
	emitter.Emit(1, 4)
	assert.Equal(1, nA)
	assert.Equal(3, nB)
}
