package yamlflag_test

import (
	"testing"

	"github.com/usnistgov/hybrid-ctrl/core/testenv"
	"github.com/usnistgov/hybrid-ctrl/core/yamlflag"
)

type doc struct {
	Address string `yaml:"address" json:"address"`
	Racks   int    `yaml:"racks" json:"racks"`
}

func TestYAMLFlag(t *testing.T) {
	assert, require := testenv.MakeAR(t)

	var d doc
	f := yamlflag.New(&d)
	require.NoError(f.Set("address: 10.0.0.1:1239\nracks: 4\n"))
	assert.Equal(doc{Address: "10.0.0.1:1239", Racks: 4}, d)
	assert.Same(&d, f.Get())
	assert.Equal(`{"address":"10.0.0.1:1239","racks":4}`, f.String())

	filename := testenv.WriteTemp(t, "deploy.yaml", "racks: 8\n")
	require.NoError(f.Set("@" + filename))
	assert.Equal(8, d.Racks)

	assert.Error(f.Set("@" + filename + ".missing"))
	assert.Panics(func() { yamlflag.New(d) })
}
