package experiment

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/usnistgov/hybrid-ctrl/device"
	"github.com/usnistgov/hybrid-ctrl/schedule"
	"github.com/usnistgov/hybrid-ctrl/timemodel"
	"go.uber.org/multierr"
)

// Defaults of the reference deployment.
const (
	DefaultRacks   = 8
	DefaultLogDir  = "/tmp"
	DefaultLogFile = "/tmp/hslog.log"

	// TimestampLayout formats Deployment.Timestamp.
	TimestampLayout = "20060102-150405"
)

// Deployment contains settings that are fixed for the lifetime of the testbed.
type Deployment struct {
	Device device.Config `json:"device" yaml:"device"`

	// TDF is the time dilation factor. The default is 20.
	TDF timemodel.Dilation `json:"tdf,omitempty" yaml:"tdf,omitempty"`

	// Timestamp and Script identify the run in log filenames.
	// The defaults are the current time and the program name.
	Timestamp string `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Script    string `json:"script,omitempty" yaml:"script,omitempty"`

	// LogDir is the directory of packet logs on the device host. The default is /tmp.
	LogDir string `json:"logDir,omitempty" yaml:"logDir,omitempty"`

	// DefaultLog is the log the device writes when none was requested.
	// It is not reported by Orchestrator.LogFiles.
	DefaultLog string `json:"defaultLog,omitempty" yaml:"defaultLog,omitempty"`

	// Circuit is the matching installed by the "circuit" type. The default is a rotation by one rack.
	Circuit string `json:"circuit,omitempty" yaml:"circuit,omitempty"`
}

// ApplyDefaults applies defaults.
func (d *Deployment) ApplyDefaults() {
	if d.Device.Racks == 0 {
		d.Device.Racks = DefaultRacks
	}
	d.Device.ApplyDefaults()
	if d.TDF == 0 {
		d.TDF = timemodel.DefaultTDF
	}
	if d.Timestamp == "" {
		d.Timestamp = time.Now().Format(TimestampLayout)
	}
	if d.Script == "" {
		d.Script = filepath.Base(os.Args[0])
	}
	if d.LogDir == "" {
		d.LogDir = DefaultLogDir
	}
	if d.DefaultLog == "" {
		d.DefaultLog = DefaultLogFile
	}
	if d.Circuit == "" {
		d.Circuit = schedule.Rotation(d.Device.Racks, 1).String()
	}
}

// Validate checks the deployment, excluding the device address.
func (d Deployment) Validate() error {
	var errs []error
	if d.Device.Racks < 1 {
		errs = append(errs, fmt.Errorf("racks %d must be positive", d.Device.Racks))
	}
	if e := d.TDF.Validate(); e != nil {
		errs = append(errs, e)
	}
	if d.Circuit != "" {
		if m, e := schedule.ParseMatching(d.Circuit); e != nil {
			errs = append(errs, fmt.Errorf("circuit: %w", e))
		} else if e := m.Validate(d.Device.Racks); e != nil {
			errs = append(errs, fmt.Errorf("circuit: %w", e))
		}
	}
	return multierr.Combine(errs...)
}
