package schedule_test

import (
	"testing"

	"github.com/usnistgov/hybrid-ctrl/schedule"
)

func TestMatching(t *testing.T) {
	assert, require := makeAR(t)

	off := schedule.Off(4)
	assert.Equal("-1/-1/-1/-1", off.String())
	assert.True(off.IsOff())
	assert.False(off.IsPermutation())
	assert.NoError(off.Validate(4))
	_, ok := off.Partner(2)
	assert.False(ok)

	rot := schedule.Rotation(4, 1)
	assert.Equal("1/2/3/0", rot.String())
	assert.True(rot.IsPermutation())
	assert.False(rot.HasFixedPoint())
	partner, ok := rot.Partner(4)
	assert.True(ok)
	assert.Equal(schedule.RackID(1), partner)
	assert.True(schedule.Rotation(4, 4).HasFixedPoint())

	m, e := schedule.ParseMatching("7/0/1/2/3/4/5/6")
	require.NoError(e)
	assert.Equal(schedule.Rotation(8, 7), m)

	_, e = schedule.ParseMatching("")
	assert.ErrorIs(e, schedule.ErrInvalidParameter)
	_, e = schedule.ParseMatching("1/x")
	assert.ErrorIs(e, schedule.ErrInvalidParameter)
	_, e = schedule.ParseMatching("1/-2")
	assert.ErrorIs(e, schedule.ErrInvalidParameter)

	assert.ErrorIs(schedule.Matching{1, 0}.Validate(3), schedule.ErrInvalidParameter)
	assert.ErrorIs(schedule.Matching{0, -1}.Validate(2), schedule.ErrInvalidParameter)
	assert.ErrorIs(schedule.Matching{2, 2, -1}.Validate(3), schedule.ErrInvalidParameter)
	assert.ErrorIs(schedule.Matching{5, -1, -1}.Validate(3), schedule.ErrInvalidParameter)
	assert.NoError(schedule.Matching{1, 0, -1}.Validate(3))
}
