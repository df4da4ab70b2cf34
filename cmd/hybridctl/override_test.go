package main

import (
	"context"
	"strings"
	"testing"

	"github.com/usnistgov/hybrid-ctrl/core/testenv"
)

func TestParseOverride(t *testing.T) {
	assert, require := testenv.MakeAR(t)

	override, e := parseOverride(strings.NewReader(`{"type":"strobe","buffer_size":32,"circuit":"1/0/-1"}`), false)
	require.NoError(e)
	assert.Equal("strobe", override["type"])
	assert.EqualValues(32, override["buffer_size"])

	override, e = parseOverride(strings.NewReader(`{}`), false)
	require.NoError(e)
	assert.Empty(override)

	for _, input := range []string{
		`{"ecn":1}`,
		`{"type":"resize"}`,
		`{"buffer_size":0}`,
		`{"buffer_size":1.5}`,
		`{"circuit":"a/b"}`,
		`{"packet_link_bandwidth":0}`,
	} {
		_, e = parseOverride(strings.NewReader(input), false)
		var se schemaError
		assert.ErrorAs(e, &se, input)
	}

	override, e = parseOverride(strings.NewReader(`{"ecn":1}`), true)
	require.NoError(e)
	assert.EqualValues(1, override["ecn"])

	_, e = parseOverride(strings.NewReader(`{`), true)
	assert.Error(e)
}

func TestHostController(t *testing.T) {
	assert, require := testenv.MakeAR(t)

	hosts, e := makeHostController("")
	require.NoError(e)
	assert.Nil(hosts)

	_, e = makeHostController(`sysctl "unterminated`)
	assert.Error(e)

	hosts, e = makeHostController("true --ignored")
	require.NoError(e)
	assert.NoError(hosts.SetCongestionControl(context.Background(), "cubic"))

	hosts, e = makeHostController("false")
	require.NoError(e)
	assert.Error(hosts.SetCongestionControl(context.Background(), "cubic"))
}
