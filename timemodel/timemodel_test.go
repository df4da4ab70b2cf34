package timemodel_test

import (
	"math/rand"
	"testing"

	"github.com/usnistgov/hybrid-ctrl/core/testenv"
	"github.com/usnistgov/hybrid-ctrl/timemodel"
)

func TestDeviceTime(t *testing.T) {
	assert, _ := testenv.MakeAR(t)
	tdf := timemodel.DefaultTDF

	assert.Equal(0.0, tdf.DeviceTime(0))
	assert.Equal(400.0, tdf.DeviceTime(20))
	assert.EqualValues(400, tdf.DeviceTicks(20))
	assert.EqualValues(12, tdf.DeviceTicks(0.6))
	assert.Equal(20.0, tdf.RealTime(400))
	assert.Equal(0.5, tdf.DeviceBandwidth(10))

	for i := 0; i < 100; i++ {
		a, b := float64(rand.Intn(1000000)), float64(rand.Intn(1000000))
		assert.InDelta(tdf.DeviceTime(a)+tdf.DeviceTime(b), tdf.DeviceTime(a+b), 1e-6)
		assert.InDelta(a, tdf.RealTime(tdf.DeviceTime(a)), 1e-6)
	}
}

func TestValidate(t *testing.T) {
	assert, _ := testenv.MakeAR(t)
	assert.NoError(timemodel.DefaultTDF.Validate())
	assert.NoError(timemodel.Dilation(1).Validate())
	assert.ErrorIs(timemodel.Dilation(0).Validate(), timemodel.ErrDilation)
	assert.ErrorIs(timemodel.Dilation(-3).Validate(), timemodel.ErrDilation)
}
