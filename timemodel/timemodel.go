// Package timemodel converts between experiment time and the dilated time of the emulated network.
package timemodel

import (
	"errors"
	"math"
)

// DefaultTDF is the time dilation factor of the reference deployment.
const DefaultTDF Dilation = 20.0

// ErrDilation indicates an invalid time dilation factor.
var ErrDilation = errors.New("time dilation factor must be positive")

// Dilation is a time dilation factor (TDF).
// The emulated network runs TDF times slower than real time.
// Schedule durations and link parameters sent to the device must be scaled by it.
type Dilation float64

// Validate checks that the factor is positive.
func (tdf Dilation) Validate() error {
	if !(tdf > 0) || math.IsInf(float64(tdf), 0) {
		return ErrDilation
	}
	return nil
}

// DeviceTime converts microseconds of experiment time into device time units.
func (tdf Dilation) DeviceTime(realUs float64) float64 {
	return realUs * float64(tdf)
}

// DeviceTicks is DeviceTime rounded to an integral number of device time units.
func (tdf Dilation) DeviceTicks(realUs float64) int64 {
	return int64(math.Round(tdf.DeviceTime(realUs)))
}

// RealTime converts device time units back into microseconds of experiment time.
func (tdf Dilation) RealTime(deviceUs float64) float64 {
	return deviceUs / float64(tdf)
}

// DeviceBandwidth converts a real link bandwidth into the bandwidth configured on the dilated link.
func (tdf Dilation) DeviceBandwidth(realGbps float64) float64 {
	return realGbps / float64(tdf)
}
