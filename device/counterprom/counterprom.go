// Package counterprom exports hybrid switch byte counters as Prometheus metrics.
package counterprom

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/usnistgov/hybrid-ctrl/device"
)

// Metric names.
const (
	MetricBytes           = "hybridswitch_link_bytes"
	MetricCircuitFraction = "hybridswitch_circuit_fraction"
)

// Link label values.
const (
	LinkCircuit    = "circuit"
	LinkPacketUp   = "packet_up"
	LinkPacketDown = "packet_down"
)

// Exporter publishes the latest CounterSnapshot.
type Exporter struct {
	bytes    *prometheus.GaugeVec
	fraction prometheus.Gauge
}

// New creates an Exporter and registers its metrics.
func New(reg prometheus.Registerer) (*Exporter, error) {
	x := &Exporter{
		bytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: MetricBytes,
			Help: "Bytes counted on each rack link since counters were last cleared.",
		}, []string{"rack", "link"}),
		fraction: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricCircuitFraction,
			Help: "Fraction of uplink bytes carried by circuits.",
		}),
	}
	for _, c := range []prometheus.Collector{x.bytes, x.fraction} {
		if e := reg.Register(c); e != nil {
			return nil, e
		}
	}
	return x, nil
}

// Update publishes a snapshot.
func (x *Exporter) Update(cnt device.CounterSnapshot) {
	for i := 0; i < cnt.Racks(); i++ {
		rack := strconv.Itoa(i + 1)
		x.bytes.WithLabelValues(rack, LinkCircuit).Set(float64(cnt.Circuit[i]))
		x.bytes.WithLabelValues(rack, LinkPacketUp).Set(float64(cnt.PacketUp[i]))
		x.bytes.WithLabelValues(rack, LinkPacketDown).Set(float64(cnt.PacketDown[i]))
	}
	x.fraction.Set(cnt.CircuitFraction())
}
