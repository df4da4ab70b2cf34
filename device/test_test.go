package device_test

import (
	"context"
	"testing"

	"github.com/usnistgov/hybrid-ctrl/core/testenv"
	"github.com/usnistgov/hybrid-ctrl/device"
	"github.com/usnistgov/hybrid-ctrl/device/devicetest"
)

var makeAR = testenv.MakeAR

const nRacks = 8

func dialFake(t testing.TB, modify ...func(cfg *device.Config)) (*device.Session, *devicetest.Device) {
	_, require := makeAR(t)
	fake := devicetest.New(t)
	cfg := device.Config{
		Address:     fake.Addr,
		Racks:       nRacks,
		SettleDelay: 1,
	}
	for _, m := range modify {
		m(&cfg)
	}

	s, e := device.Dial(context.Background(), cfg)
	require.NoError(e)
	t.Cleanup(func() { s.Close() })
	return s, fake
}
