// Package schedule computes circuit rotation schedules for the hybrid switch.
//
// A Schedule is a cycle of slots; each slot holds one Matching of racks for a duration in device time.
// The builders in this package are pure: they perform no I/O and may be called concurrently.
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error conditions.
var (
	ErrInvalidTopology  = errors.New("invalid topology")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Slot is one step of a Schedule.
type Slot struct {
	// Duration in device time units.
	Duration int64
	Matching Matching
}

// Schedule is a sequence of slots replayed cyclically by the device.
type Schedule []Slot

// Cycle returns the total duration of one cycle.
func (sched Schedule) Cycle() (total int64) {
	for _, slot := range sched {
		total += slot.Duration
	}
	return total
}

// Validate checks that the schedule has at least one slot, non-negative durations,
// a positive cycle duration, and matchings of equal length.
func (sched Schedule) Validate() error {
	if len(sched) == 0 {
		return fmt.Errorf("%w: empty schedule", ErrInvalidParameter)
	}
	n := len(sched[0].Matching)
	for i, slot := range sched {
		if slot.Duration < 0 {
			return fmt.Errorf("%w: slot %d has negative duration", ErrInvalidParameter, i)
		}
		if len(slot.Matching) != n {
			return fmt.Errorf("%w: slot %d has %d racks, expected %d", ErrInvalidParameter, i, len(slot.Matching), n)
		}
	}
	if sched.Cycle() <= 0 {
		return fmt.Errorf("%w: cycle duration is zero", ErrInvalidParameter)
	}
	return nil
}

// String returns the wire encoding: slot count, then duration and matching of each slot.
func (sched Schedule) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(sched)))
	for _, slot := range sched {
		b.WriteByte(' ')
		b.WriteString(strconv.FormatInt(slot.Duration, 10))
		b.WriteByte(' ')
		b.WriteString(slot.Matching.String())
	}
	return b.String()
}

// Parse parses the wire encoding of a Schedule.
func Parse(wire string) (sched Schedule, e error) {
	tokens := strings.Fields(wire)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty schedule", ErrInvalidParameter)
	}
	count, e := strconv.Atoi(tokens[0])
	if e != nil || count < 1 {
		return nil, fmt.Errorf("%w: bad slot count %q", ErrInvalidParameter, tokens[0])
	}
	if len(tokens) != 1+2*count {
		return nil, fmt.Errorf("%w: %d slots declared but %d tokens follow", ErrInvalidParameter, count, len(tokens)-1)
	}

	sched = make(Schedule, count)
	for i := range sched {
		duration, matching := tokens[1+2*i], tokens[2+2*i]
		if sched[i].Duration, e = strconv.ParseInt(duration, 10, 64); e != nil {
			return nil, fmt.Errorf("%w: slot %d duration: %v", ErrInvalidParameter, i, e)
		}
		if sched[i].Matching, e = ParseMatching(matching); e != nil {
			return nil, fmt.Errorf("slot %d: %w", i, e)
		}
	}
	return sched, sched.Validate()
}
