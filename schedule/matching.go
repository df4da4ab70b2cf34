package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// Unconnected is the Matching entry of a rack without a circuit.
const Unconnected = -1

// RackID identifies a rack, numbered from 1.
type RackID int

// Index returns the 0-based index used in the wire encoding.
func (id RackID) Index() int {
	return int(id) - 1
}

// Matching assigns each rack its circuit partner during one slot.
// Entry k belongs to rack k+1 and holds the 0-based index of the partner, or Unconnected.
type Matching []int

// Off returns a Matching of n racks where no rack is connected.
func Off(n int) Matching {
	m := make(Matching, n)
	for k := range m {
		m[k] = Unconnected
	}
	return m
}

// Rotation returns the circulant Matching that connects rack k to rack (k+shift) mod n.
func Rotation(n, shift int) Matching {
	m := make(Matching, n)
	for k := range m {
		m[k] = ((k+shift)%n + n) % n
	}
	return m
}

// Partner returns the partner of a rack, or false if it is unconnected.
func (m Matching) Partner(rack RackID) (partner RackID, ok bool) {
	p := m[rack.Index()]
	if p == Unconnected {
		return 0, false
	}
	return RackID(p + 1), true
}

// IsOff determines whether every rack is unconnected.
func (m Matching) IsOff() bool {
	for _, p := range m {
		if p != Unconnected {
			return false
		}
	}
	return true
}

// HasFixedPoint determines whether some rack is connected to itself.
func (m Matching) HasFixedPoint() bool {
	for k, p := range m {
		if p == k {
			return true
		}
	}
	return false
}

// IsPermutation determines whether every rack is connected and no two racks share a partner.
func (m Matching) IsPermutation() bool {
	seen := make([]bool, len(m))
	for _, p := range m {
		if p < 0 || p >= len(m) || seen[p] {
			return false
		}
		seen[p] = true
	}
	return true
}

// Validate checks that m is usable on n racks.
// Entries must be Unconnected or a rack index, no rack may be connected to itself,
// and no two racks may share a partner.
func (m Matching) Validate(n int) error {
	if len(m) != n {
		return fmt.Errorf("%w: matching has %d entries, expected %d", ErrInvalidParameter, len(m), n)
	}
	seen := make([]bool, n)
	for k, p := range m {
		switch {
		case p == Unconnected:
			continue
		case p < 0 || p >= n:
			return fmt.Errorf("%w: rack %d partner %d out of range", ErrInvalidParameter, k+1, p)
		case p == k:
			return fmt.Errorf("%w: rack %d connected to itself", ErrInvalidParameter, k+1)
		case seen[p]:
			return fmt.Errorf("%w: partner %d assigned twice", ErrInvalidParameter, p)
		}
		seen[p] = true
	}
	return nil
}

// String returns the wire encoding, such as "1/2/0" or "-1/-1/-1".
func (m Matching) String() string {
	tokens := make([]string, len(m))
	for k, p := range m {
		tokens[k] = strconv.Itoa(p)
	}
	return strings.Join(tokens, "/")
}

// ParseMatching parses the wire encoding of a Matching.
func ParseMatching(input string) (m Matching, e error) {
	if input == "" {
		return nil, fmt.Errorf("%w: empty matching", ErrInvalidParameter)
	}
	tokens := strings.Split(input, "/")
	m = make(Matching, len(tokens))
	for k, token := range tokens {
		if m[k], e = strconv.Atoi(token); e != nil {
			return nil, fmt.Errorf("%w: matching entry %d: %v", ErrInvalidParameter, k, e)
		}
		if m[k] < Unconnected {
			return nil, fmt.Errorf("%w: matching entry %d is %d", ErrInvalidParameter, k, m[k])
		}
	}
	return m, nil
}
