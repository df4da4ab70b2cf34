package experiment

import (
	"errors"
	"fmt"
	"math"

	"github.com/peterbourgon/mergemap"
	"github.com/usnistgov/hybrid-ctrl/core/jsonhelper"
	"github.com/usnistgov/hybrid-ctrl/schedule"
	"github.com/usnistgov/hybrid-ctrl/timemodel"
	"go.uber.org/multierr"
)

// Config contains the tunables of one experiment run.
// JSON keys are the keys of configuration overrides.
type Config struct {
	// Type selects the schedule policy: normal, disabled, no_circuit, strobe, short_reconfig, circuit, fixed.
	Type string `json:"type"`

	// BufferSize is the capacity of each rack-pair queue, in packets.
	BufferSize int `json:"buffer_size"`

	// TrafficSource selects the traffic estimator input, such as QUEUE or ADU.
	TrafficSource string `json:"traffic_source"`

	// QueueResize enables dynamic buffer resizing ahead of circuit changes.
	QueueResize bool `json:"queue_resize"`

	// InAdvance is how long before a circuit change buffers are resized, in device time.
	InAdvance int64 `json:"in_advance"`

	// CC is the TCP congestion control algorithm of the hosts.
	CC string `json:"cc"`

	// PacketLog enables packet logging on the device.
	PacketLog bool `json:"packet_log"`

	// DivertACKs sends ACKs over the packet network.
	DivertACKs bool `json:"divert_acks"`

	// CircuitLinkDelay is the circuit link propagation delay, in seconds.
	CircuitLinkDelay float64 `json:"circuit_link_delay"`

	// PacketLinkBandwidth is the packet link bandwidth, in Gbps after time dilation.
	PacketLinkBandwidth float64 `json:"packet_link_bandwidth"`

	// HDFS marks runs with HDFS workloads. It only affects the filename.
	HDFS bool `json:"hdfs"`

	// Thresh is the ECN and adaptive scheduler threshold.
	Thresh int64 `json:"thresh"`

	// FixedSchedule is the literal schedule of the "fixed" type.
	FixedSchedule string `json:"fixed_schedule,omitempty"`

	// Circuit is the matching of the "circuit" type. The default comes from Deployment.
	Circuit string `json:"circuit,omitempty"`

	// ReconfigDelay overrides the reconfiguration delay of the "strobe" type, in microseconds.
	ReconfigDelay float64 `json:"reconfig_delay_us,omitempty"`

	// NightLen and DayLen override the "strobe" night and day lengths, in device time.
	NightLen float64 `json:"night_len_us,omitempty"`
	DayLen   float64 `json:"day_len_us,omitempty"`
}

// DefaultPacketLinkGbps is the real bandwidth of packet links.
// The default packet_link_bandwidth is this value scaled by the default TDF.
const DefaultPacketLinkGbps = 10

// DefaultConfig returns default configuration values.
// Each call returns a new map.
func DefaultConfig() map[string]any {
	return map[string]any{
		"type":                  "normal",
		"buffer_size":           16,
		"traffic_source":        "QUEUE",
		"queue_resize":          false,
		"in_advance":            12000,
		"cc":                    "reno",
		"packet_log":            true,
		"divert_acks":           false,
		"circuit_link_delay":    0.000600,
		"packet_link_bandwidth": timemodel.DefaultTDF.DeviceBandwidth(DefaultPacketLinkGbps),
		"hdfs":                  false,
		"thresh":                1000000,
	}
}

// MergeMaps returns a copy of base with keys from override taking precedence.
// Neither argument is modified.
func MergeMaps(base, override map[string]any) map[string]any {
	return mergemap.Merge(cloneMap(base), cloneMap(override))
}

func cloneMap(m map[string]any) map[string]any {
	c := make(map[string]any, len(m))
	for k, v := range m {
		if sub, ok := v.(map[string]any); ok {
			v = cloneMap(sub)
		}
		c[k] = v
	}
	return c
}

// Merge completes an override against DefaultConfig.
// Unknown keys are rejected.
func Merge(override map[string]any) (cfg Config, e error) {
	merged := MergeMaps(DefaultConfig(), override)
	if e = jsonhelper.Roundtrip(merged, &cfg, jsonhelper.DisallowUnknownFields); e != nil {
		return Config{}, fmt.Errorf("%w: %w", schedule.ErrInvalidParameter, e)
	}
	return cfg, nil
}

// Validate checks field values.
func (cfg Config) Validate() error {
	var errs []error
	if cfg.BufferSize <= 0 {
		errs = append(errs, fmt.Errorf("buffer_size %d must be positive", cfg.BufferSize))
	}
	if cfg.TrafficSource == "" {
		errs = append(errs, errors.New("traffic_source missing"))
	}
	if cfg.InAdvance < 0 {
		errs = append(errs, fmt.Errorf("in_advance %d must not be negative", cfg.InAdvance))
	}
	if cfg.CC == "" {
		errs = append(errs, errors.New("cc missing"))
	}
	if cfg.CircuitLinkDelay < 0 {
		errs = append(errs, fmt.Errorf("circuit_link_delay %v must not be negative", cfg.CircuitLinkDelay))
	}
	if !(cfg.PacketLinkBandwidth > 0) {
		errs = append(errs, fmt.Errorf("packet_link_bandwidth %v must be positive", cfg.PacketLinkBandwidth))
	}
	if cfg.Thresh < 0 {
		errs = append(errs, fmt.Errorf("thresh %d must not be negative", cfg.Thresh))
	}
	if e := multierr.Combine(errs...); e != nil {
		return fmt.Errorf("%w: %w", schedule.ErrInvalidParameter, e)
	}
	return nil
}

// Policy resolves Type into a schedule policy.
// defaultCircuit is used by the "circuit" type when Circuit is empty.
func (cfg Config) Policy(defaultCircuit string) (schedule.Policy, error) {
	switch cfg.Type {
	case "normal":
		return schedule.Adaptive{}, nil
	case "disabled":
		return schedule.Disabled{}, nil
	case "no_circuit":
		return schedule.NoCircuit{}, nil
	case "strobe":
		p := schedule.Strobe{
			ReconfigDelay: cfg.ReconfigDelay,
			NightLen:      int64(math.Round(cfg.NightLen)),
			DayLen:        int64(math.Round(cfg.DayLen)),
		}
		if p.ReconfigDelay == 0 {
			p.ReconfigDelay = schedule.StrobeReconfigDelay
		}
		return p, nil
	case "short_reconfig":
		return schedule.ShortReconfig{}, nil
	case "circuit":
		circuit := cfg.Circuit
		if circuit == "" {
			circuit = defaultCircuit
		}
		m, e := schedule.ParseMatching(circuit)
		if e != nil {
			return nil, e
		}
		return schedule.FixedCircuit{Matching: m}, nil
	case "fixed":
		return schedule.FixedSchedule{Literal: cfg.FixedSchedule}, nil
	}
	return nil, fmt.Errorf("%w: unknown type %q", schedule.ErrInvalidParameter, cfg.Type)
}
