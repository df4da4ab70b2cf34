package schedule

import (
	"fmt"

	"github.com/usnistgov/hybrid-ctrl/timemodel"
)

// Fixed parameters of the reference switch.
const (
	// NoCircuitDuration is the slot duration of the all-unconnected schedule.
	NoCircuitDuration = 20000

	// DutyCycle is the ratio of day length to night length in a strobe round.
	DutyCycle = 9

	// StrobeReconfigDelay is the reconfiguration delay of Strobe, in microseconds.
	StrobeReconfigDelay = 20

	// ShortReconfigDelay is the reconfiguration delay of ShortReconfig, in microseconds.
	ShortReconfigDelay = 10

	// circuitHoldUs is the experiment time a FixedCircuit slot lasts before repeating.
	circuitHoldUs = 20 * 10 * 10
)

// Policy selects how the circuit scheduler is configured.
// The set of policies is closed; see the types in this file.
type Policy interface {
	// Tag returns the policy name used in configuration and filenames.
	Tag() string

	policy()
}

// Disabled turns off adaptive scheduling without installing a schedule.
type Disabled struct{}

// NoCircuit installs a schedule with no circuit, forcing all traffic onto the packet path.
type NoCircuit struct{}

// Strobe installs a rotation that connects every ordered rack pair once per cycle.
type Strobe struct {
	// ReconfigDelay is the physical reconfiguration delay in microseconds of experiment time.
	// The night length is ReconfigDelay scaled by the time dilation factor.
	// It must be positive unless NightLen is set.
	ReconfigDelay float64

	// NightLen overrides the night length, in device time units.
	NightLen int64

	// DayLen overrides the day length in device time units.
	// Zero means NightLen*DutyCycle.
	DayLen int64
}

// ShortReconfig is Strobe with the reconfiguration delay of a faster switch.
type ShortReconfig struct{}

// FixedCircuit holds one Matching indefinitely.
type FixedCircuit struct {
	Matching Matching
}

// FixedSchedule installs an experimenter-defined schedule verbatim.
type FixedSchedule struct {
	Literal string
}

// Adaptive enables the device's demand-driven scheduler.
type Adaptive struct{}

func (Disabled) Tag() string      { return "disabled" }
func (NoCircuit) Tag() string     { return "no_circuit" }
func (Strobe) Tag() string        { return "strobe" }
func (ShortReconfig) Tag() string { return "short_reconfig" }
func (FixedCircuit) Tag() string  { return "circuit" }
func (FixedSchedule) Tag() string { return "fixed" }
func (Adaptive) Tag() string      { return "normal" }

func (Disabled) policy()      {}
func (NoCircuit) policy()     {}
func (Strobe) policy()        {}
func (ShortReconfig) policy() {}
func (FixedCircuit) policy()  {}
func (FixedSchedule) policy() {}
func (Adaptive) policy()      {}

// Installs determines whether a policy installs an explicit schedule.
func Installs(p Policy) bool {
	switch p.(type) {
	case Disabled, Adaptive:
		return false
	}
	return true
}

// NoCircuitSchedule builds the single-slot all-unconnected schedule.
func NoCircuitSchedule(nRacks int) (Schedule, error) {
	if nRacks < 1 {
		return nil, fmt.Errorf("%w: %d racks", ErrInvalidTopology, nRacks)
	}
	return Schedule{{Duration: NoCircuitDuration, Matching: Off(nRacks)}}, nil
}

// CircuitSchedule builds a single-slot schedule that holds m.
func CircuitSchedule(m Matching, nRacks int, tdf timemodel.Dilation) (Schedule, error) {
	if nRacks < 2 {
		return nil, fmt.Errorf("%w: %d racks", ErrInvalidTopology, nRacks)
	}
	if e := m.Validate(nRacks); e != nil {
		return nil, e
	}
	return Schedule{{Duration: tdf.DeviceTicks(circuitHoldUs), Matching: m}}, nil
}

// StrobeSchedule builds the strobe rotation.
//
// Round i connects rack j to rack (i+1+j) mod n, for 0 <= i < n-1.
// Each round has a day slot with that matching followed by a night slot with no circuit,
// so the schedule has 2*(n-1) slots.
func StrobeSchedule(p Strobe, nRacks int, tdf timemodel.Dilation) (sched Schedule, e error) {
	if nRacks < 2 {
		return nil, fmt.Errorf("%w: strobe needs at least 2 racks, got %d", ErrInvalidTopology, nRacks)
	}
	night, day, e := p.lengths(tdf)
	if e != nil {
		return nil, e
	}

	off := Off(nRacks)
	sched = make(Schedule, 0, 2*(nRacks-1))
	for i := 0; i < nRacks-1; i++ {
		sched = append(sched,
			Slot{Duration: day, Matching: Rotation(nRacks, i+1)},
			Slot{Duration: night, Matching: off},
		)
	}
	return sched, nil
}

func (p Strobe) lengths(tdf timemodel.Dilation) (night, day int64, e error) {
	switch {
	case p.NightLen < 0 || p.DayLen < 0:
		return 0, 0, fmt.Errorf("%w: negative night or day length", ErrInvalidParameter)
	case p.NightLen > 0:
		night = p.NightLen
	case p.ReconfigDelay > 0:
		night = tdf.DeviceTicks(p.ReconfigDelay)
	default:
		return 0, 0, fmt.Errorf("%w: reconfiguration delay %v must be positive", ErrInvalidParameter, p.ReconfigDelay)
	}

	day = p.DayLen
	if day == 0 {
		day = night * DutyCycle
	}
	if night <= 0 {
		return 0, 0, fmt.Errorf("%w: night length rounds to zero", ErrInvalidParameter)
	}
	return night, day, nil
}

// Build returns the schedule a policy installs.
// It returns nil for policies that do not install a schedule.
func Build(p Policy, nRacks int, tdf timemodel.Dilation) (Schedule, error) {
	switch p := p.(type) {
	case Disabled, Adaptive:
		return nil, nil
	case NoCircuit:
		return NoCircuitSchedule(nRacks)
	case Strobe:
		return StrobeSchedule(p, nRacks, tdf)
	case ShortReconfig:
		return StrobeSchedule(Strobe{ReconfigDelay: ShortReconfigDelay}, nRacks, tdf)
	case FixedCircuit:
		return CircuitSchedule(p.Matching, nRacks, tdf)
	case FixedSchedule:
		if p.Literal == "" {
			return nil, fmt.Errorf("%w: empty fixed schedule", ErrInvalidParameter)
		}
		return Parse(p.Literal)
	}
	return nil, fmt.Errorf("%w: unknown policy %T", ErrInvalidParameter, p)
}

// Encode returns the wire encoding of the schedule a policy installs.
// It returns an empty string for policies that do not install a schedule.
// A FixedSchedule literal is passed through verbatim.
func Encode(p Policy, nRacks int, tdf timemodel.Dilation) (wire string, e error) {
	if fs, ok := p.(FixedSchedule); ok {
		if fs.Literal == "" {
			return "", fmt.Errorf("%w: empty fixed schedule", ErrInvalidParameter)
		}
		return fs.Literal, nil
	}
	sched, e := Build(p, nRacks, tdf)
	if e != nil || sched == nil {
		return "", e
	}
	return sched.String(), nil
}
