package counterprom_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/usnistgov/hybrid-ctrl/core/testenv"
	"github.com/usnistgov/hybrid-ctrl/device"
	"github.com/usnistgov/hybrid-ctrl/device/counterprom"
)

func TestExporter(t *testing.T) {
	assert, require := testenv.MakeAR(t)

	reg := prometheus.NewRegistry()
	x, e := counterprom.New(reg)
	require.NoError(e)

	x.Update(device.CounterSnapshot{
		Circuit:    []int64{300, 0},
		PacketUp:   []int64{50, 50},
		PacketDown: []int64{7, 9},
	})

	n, e := testutil.GatherAndCount(reg, counterprom.MetricBytes)
	require.NoError(e)
	assert.Equal(6, n)

	families, e := reg.Gather()
	require.NoError(e)
	values := map[string]float64{}
	for _, family := range families {
		for _, m := range family.GetMetric() {
			key := family.GetName()
			for _, label := range m.GetLabel() {
				key += "," + label.GetValue()
			}
			values[key] = m.GetGauge().GetValue()
		}
	}
	// labels are sorted by name: link, rack
	assert.Equal(300.0, values[counterprom.MetricBytes+",circuit,1"])
	assert.Equal(9.0, values[counterprom.MetricBytes+",packet_down,2"])
	assert.InDelta(0.75, values[counterprom.MetricCircuitFraction], 1e-9)

	_, e = counterprom.New(reg)
	assert.Error(e)
}
