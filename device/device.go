// Package device implements the control session of the hybrid switch.
//
// The switch exposes a line-oriented control socket. Each request addresses a handler on a
// processing element, such as "runner.setSchedule", and the device answers synchronously.
// Session owns one connection and serializes all requests on it.
package device

import (
	"errors"
	"fmt"
	"time"

	"github.com/pkg/math"
	"github.com/usnistgov/hybrid-ctrl/core/logging"
	"github.com/usnistgov/hybrid-ctrl/core/nnduration"
	"go.uber.org/multierr"
)

var logger = logging.New("Device")

// Error conditions.
var (
	// ErrConnection indicates the connection was not established or has broken.
	// The session must be discarded.
	ErrConnection = errors.New("device connection error")

	// ErrProtocol indicates a malformed or unparsable response.
	ErrProtocol = errors.New("device protocol error")

	// ErrPartialCounterRead indicates a counter snapshot was discarded because one read failed.
	ErrPartialCounterRead = errors.New("partial counter read")
)

// Defaults.
const (
	DefaultTimeout          = 5000
	DefaultSettleDelay      = 100
	DefaultTranscriptLength = 64
)

// Config contains Session configuration.
type Config struct {
	// Network is "tcp" or "unix". The default is "tcp".
	Network string `json:"network,omitempty" yaml:"network,omitempty"`

	// Address is the control socket address.
	Address string `json:"address" yaml:"address"`

	// Racks is the number of racks. It determines the counters and queues addressed.
	Racks int `json:"racks" yaml:"racks"`

	// Timeout limits each exchange with the device. The default is 5s.
	// The minimum is SettleDelay.
	Timeout nnduration.Milliseconds `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// SettleDelay is the pause after writes the device applies asynchronously. The default is 100ms.
	SettleDelay nnduration.Milliseconds `json:"settleDelay,omitempty" yaml:"settleDelay,omitempty"`

	// TranscriptLength is the number of recent exchanges kept for diagnostics. The default is 64.
	TranscriptLength int `json:"transcriptLength,omitempty" yaml:"transcriptLength,omitempty"`
}

// ApplyDefaults applies defaults.
func (cfg *Config) ApplyDefaults() {
	if cfg.Network == "" {
		cfg.Network = "tcp"
	}
	if cfg.SettleDelay == 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.Timeout = nnduration.Milliseconds(math.MaxInt64(int64(cfg.Timeout), int64(cfg.SettleDelay)))
	if cfg.TranscriptLength <= 0 {
		cfg.TranscriptLength = DefaultTranscriptLength
	}
}

// Validate checks the configuration.
func (cfg Config) Validate() error {
	var errs []error
	switch cfg.Network {
	case "", "tcp", "tcp4", "tcp6", "unix":
	default:
		errs = append(errs, fmt.Errorf("network %q not supported", cfg.Network))
	}
	if cfg.Address == "" {
		errs = append(errs, errors.New("address missing"))
	}
	if cfg.Racks < 1 {
		errs = append(errs, fmt.Errorf("racks %d must be positive", cfg.Racks))
	}
	return multierr.Combine(errs...)
}

func (cfg Config) settleDelay() time.Duration {
	return cfg.SettleDelay.DurationOr(DefaultSettleDelay)
}

// Device is the set of typed operations on the hybrid switch.
// It is implemented by *Session and *Recorder.
type Device interface {
	// Racks returns the number of racks.
	Racks() int

	// ClearCounters clears every queue, link, and traffic matrix counter.
	ClearCounters() error

	// GetCounters reads byte counters of every rack.
	GetCounters() (CounterSnapshot, error)

	// SetQueueResize enables or disables dynamic buffer resizing.
	SetQueueResize(enable bool) error

	// SetQueueCapacity sets the capacity, in packets, of every rack-pair queue.
	SetQueueCapacity(capacity int) error

	// SetTrafficSource selects the traffic estimator input, such as "QUEUE" or "ADU".
	SetTrafficSource(source string) error

	// SetInAdvance sets how long before a reconfiguration the buffers are resized, in device time.
	SetInAdvance(inAdvance int64) error

	// SetAdaptiveThresh sets the threshold of the adaptive scheduler.
	SetAdaptiveThresh(thresh int64) error

	// SetAdaptiveEnabled enables or disables the adaptive scheduler.
	SetAdaptiveEnabled(enable bool) error

	// SetSchedule installs a schedule in wire encoding.
	SetSchedule(wire string) error

	// SetDivertACKs enables or disables diverting ACKs onto the packet network.
	SetDivertACKs(divert bool) error

	// SetCircuitLinkDelay sets the propagation delay of every circuit link, in seconds.
	SetCircuitLinkDelay(seconds float64) error

	// SetPacketLinkBandwidth sets the bandwidth of every packet link, in Gbps.
	SetPacketLinkBandwidth(gbps float64) error

	// OpenLog starts packet logging into a file on the device host.
	OpenLog(filename string) error

	// DisableLog stops packet logging.
	DisableLog() error
}
