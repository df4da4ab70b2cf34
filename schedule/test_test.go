package schedule_test

import (
	"github.com/usnistgov/hybrid-ctrl/core/testenv"
)

var makeAR = testenv.MakeAR
