package nnduration_test

import (
	"testing"
	"time"

	"github.com/usnistgov/hybrid-ctrl/core/nnduration"
	"github.com/usnistgov/hybrid-ctrl/core/testenv"
	"gopkg.in/yaml.v3"
)

var (
	makeAR   = testenv.MakeAR
	fromJSON = testenv.FromJSON
	toJSON   = testenv.ToJSON
)

func TestMilliseconds(t *testing.T) {
	assert, require := makeAR(t)

	assert.Equal(2816*time.Millisecond, nnduration.Milliseconds(0).DurationOr(2816))

	ms := nnduration.Milliseconds(5274)
	assert.Equal(5274*time.Millisecond, ms.DurationOr(2816))
	assert.Equal(`5274`, toJSON(t, ms))

	var decoded nnduration.Milliseconds
	fromJSON(t, `5274`, &decoded)
	assert.Equal(ms, decoded)

	fromJSON(t, `"5274"`, &decoded)
	assert.Equal(ms, decoded)

	fromJSON(t, `"6s"`, &decoded)
	assert.Equal(nnduration.Milliseconds(6000), decoded)
	assert.Equal(6*time.Second, decoded.Duration())

	var doc struct {
		Settle nnduration.Milliseconds `yaml:"settle"`
	}
	require.NoError(yaml.Unmarshal([]byte("settle: 100ms\n"), &doc))
	assert.Equal(100*time.Millisecond, doc.Settle.Duration())

	assert.Error(yaml.Unmarshal([]byte("settle: -1s\n"), &doc))
}
