package experiment_test

import (
	"testing"

	"github.com/usnistgov/hybrid-ctrl/core/testenv"
	"github.com/usnistgov/hybrid-ctrl/device"
	"github.com/usnistgov/hybrid-ctrl/experiment"
)

var makeAR = testenv.MakeAR

const nRacks = 8

func testDeployment() experiment.Deployment {
	return experiment.Deployment{
		Timestamp: "TS",
		Script:    "script",
	}
}

func newRecorded(t testing.TB, hosts experiment.HostController) (*experiment.Orchestrator, *device.Recorder) {
	_, require := makeAR(t)
	rec := device.NewRecorder(nRacks)
	o, e := experiment.New(rec, testDeployment(), hosts)
	require.NoError(e)
	return o, rec
}
