// Package experiment applies experiment configurations to the hybrid switch.
//
// An Orchestrator completes a partial configuration against defaults and drives the device
// through a fixed sequence of operations. The order matters to the device: dynamic buffer
// resizing must be off while the explicit buffer size is written, and the adaptive scheduler
// must be off before a fixed schedule is installed.
package experiment

import (
	"context"
	"fmt"
	"sync"

	"github.com/usnistgov/hybrid-ctrl/core/logging"
	"github.com/usnistgov/hybrid-ctrl/device"
	"github.com/usnistgov/hybrid-ctrl/schedule"
	"go.uber.org/zap"
)

var logger = logging.New("Experiment")

// HostController applies host-side settings that the switch does not control.
type HostController interface {
	// SetCongestionControl selects the TCP congestion control algorithm on every host.
	SetCongestionControl(ctx context.Context, cc string) error
}

// HostControllerFunc adapts a function to HostController.
type HostControllerFunc func(ctx context.Context, cc string) error

// SetCongestionControl implements HostController.
func (f HostControllerFunc) SetCongestionControl(ctx context.Context, cc string) error {
	return f(ctx, cc)
}

// Orchestrator applies configurations to one device.
// Any failure leaves the device partially configured; the run must be abandoned,
// and a later Apply starts over from clearing counters.
type Orchestrator struct {
	dev    device.Device
	hosts  HostController
	deploy Deployment

	mutex    sync.Mutex
	current  *Config
	prefix   string
	logFiles []string
}

// New creates an Orchestrator.
// hosts may be nil if congestion control is managed elsewhere.
func New(dev device.Device, deploy Deployment, hosts HostController) (*Orchestrator, error) {
	if deploy.Device.Racks == 0 {
		deploy.Device.Racks = dev.Racks()
	}
	deploy.ApplyDefaults()
	if deploy.Device.Racks != dev.Racks() {
		return nil, fmt.Errorf("%w: deployment has %d racks, device has %d",
			schedule.ErrInvalidTopology, deploy.Device.Racks, dev.Racks())
	}
	if e := deploy.Validate(); e != nil {
		return nil, e
	}
	return &Orchestrator{
		dev:    dev,
		hosts:  hosts,
		deploy: deploy,
	}, nil
}

// Deployment returns the deployment settings with defaults applied.
func (o *Orchestrator) Deployment() Deployment {
	return o.deploy
}

// Current returns the configuration applied by the last successful Apply.
func (o *Orchestrator) Current() (cfg Config, ok bool) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if o.current == nil {
		return Config{}, false
	}
	return *o.current, true
}

// FilenamePrefix returns the filename prefix of the current configuration.
func (o *Orchestrator) FilenamePrefix() string {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return o.prefix
}

// LogFiles returns packet logs opened so far, excluding the device default log.
func (o *Orchestrator) LogFiles() []string {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return append([]string(nil), o.logFiles...)
}

// Plan resolves an override into a complete configuration and the schedule it installs.
// It performs no device I/O.
func (o *Orchestrator) Plan(override map[string]any) (cfg Config, policy schedule.Policy, wire string, e error) {
	if cfg, e = Merge(override); e != nil {
		return
	}
	if e = cfg.Validate(); e != nil {
		return
	}
	if policy, e = cfg.Policy(o.deploy.Circuit); e != nil {
		return
	}
	wire, e = schedule.Encode(policy, o.dev.Racks(), o.deploy.TDF)
	return
}

type step struct {
	name string
	fn   func() error
}

// Apply configures the device for a new run.
func (o *Orchestrator) Apply(ctx context.Context, override map[string]any) error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	cfg, policy, wire, e := o.Plan(override)
	if e != nil {
		return e
	}
	prefix := FilenamePrefix(o.deploy.Timestamp, o.deploy.Script, cfg)
	logEntry := logger.With(zap.String("type", cfg.Type), zap.String("prefix", prefix))
	logEntry.Info("applying configuration", zap.Any("config", cfg))

	dev := o.dev
	steps := []step{
		{"clear counters", dev.ClearCounters},
		{"disable queue resize", func() error { return dev.SetQueueResize(false) }},
		{"set buffer size", func() error { return dev.SetQueueCapacity(cfg.BufferSize) }},
		{"set traffic source", func() error { return dev.SetTrafficSource(cfg.TrafficSource) }},
		{"set queue resize", func() error { return dev.SetQueueResize(cfg.QueueResize) }},
		{"set in-advance", func() error { return dev.SetInAdvance(cfg.InAdvance) }},
		{"set congestion control", func() error { return o.setCC(ctx, cfg.CC) }},
		{"set threshold", func() error { return dev.SetAdaptiveThresh(cfg.Thresh) }},
		{"set schedule", func() error { return o.installSchedule(policy, wire) }},
		{"set links", func() error {
			if e := dev.SetDivertACKs(cfg.DivertACKs); e != nil {
				return e
			}
			if e := dev.SetCircuitLinkDelay(cfg.CircuitLinkDelay); e != nil {
				return e
			}
			return dev.SetPacketLinkBandwidth(cfg.PacketLinkBandwidth)
		}},
	}
	for i, s := range steps {
		logEntry.Debug("step", zap.Int("index", i+1), zap.String("name", s.name))
		if e := s.fn(); e != nil {
			logEntry.Error("configuration aborted", zap.Int("index", i+1), zap.String("name", s.name), zap.Error(e))
			return fmt.Errorf("step %d %s: %w", i+1, s.name, e)
		}
	}

	o.current, o.prefix = &cfg, prefix
	if cfg.PacketLog {
		logPath := o.deploy.LogPath(prefix)
		if e := dev.OpenLog(logPath); e != nil {
			return fmt.Errorf("step 11 open log: %w", e)
		}
		if logPath != o.deploy.DefaultLog {
			o.logFiles = append(o.logFiles, logPath)
		}
		logEntry.Info("packet log opened", zap.String("path", logPath))
	} else if e := dev.DisableLog(); e != nil {
		return fmt.Errorf("step 11 disable log: %w", e)
	}
	return nil
}

func (o *Orchestrator) setCC(ctx context.Context, cc string) error {
	if o.hosts == nil {
		logger.Warn("no host controller, congestion control unchanged", zap.String("cc", cc))
		return nil
	}
	return o.hosts.SetCongestionControl(ctx, cc)
}

func (o *Orchestrator) installSchedule(policy schedule.Policy, wire string) error {
	switch policy.(type) {
	case schedule.Adaptive:
		return o.dev.SetAdaptiveEnabled(true)
	case schedule.Disabled:
		return o.dev.SetAdaptiveEnabled(false)
	case schedule.NoCircuit, schedule.Strobe, schedule.ShortReconfig, schedule.FixedCircuit, schedule.FixedSchedule:
		if e := o.dev.SetAdaptiveEnabled(false); e != nil {
			return e
		}
		return o.dev.SetSchedule(wire)
	}
	return fmt.Errorf("%w: unhandled policy %T", schedule.ErrInvalidParameter, policy)
}
