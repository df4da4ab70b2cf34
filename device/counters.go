package device

import (
	"fmt"
)

// CounterSnapshot contains byte counters of every rack, indexed by rack number minus one.
type CounterSnapshot struct {
	Circuit    []int64 `json:"circuit"`
	PacketUp   []int64 `json:"packetUp"`
	PacketDown []int64 `json:"packetDown"`
}

func makeCounterSnapshot(racks int) CounterSnapshot {
	return CounterSnapshot{
		Circuit:    make([]int64, racks),
		PacketUp:   make([]int64, racks),
		PacketDown: make([]int64, racks),
	}
}

// Racks returns the number of racks in the snapshot.
func (cnt CounterSnapshot) Racks() int {
	return len(cnt.Circuit)
}

// Sub computes the counter increase since prev.
// Both snapshots must cover the same racks.
func (cnt CounterSnapshot) Sub(prev CounterSnapshot) (diff CounterSnapshot) {
	diff = makeCounterSnapshot(cnt.Racks())
	for i := range diff.Circuit {
		diff.Circuit[i] = cnt.Circuit[i] - prev.Circuit[i]
		diff.PacketUp[i] = cnt.PacketUp[i] - prev.PacketUp[i]
		diff.PacketDown[i] = cnt.PacketDown[i] - prev.PacketDown[i]
	}
	return diff
}

// Totals returns the sum of each counter over all racks.
func (cnt CounterSnapshot) Totals() (circuit, packetUp, packetDown int64) {
	for i := range cnt.Circuit {
		circuit += cnt.Circuit[i]
		packetUp += cnt.PacketUp[i]
		packetDown += cnt.PacketDown[i]
	}
	return
}

// CircuitFraction returns the fraction of uplink bytes that were carried by circuits.
// It returns 0 when no bytes were sent.
func (cnt CounterSnapshot) CircuitFraction() float64 {
	circuit, packetUp, _ := cnt.Totals()
	if circuit+packetUp == 0 {
		return 0
	}
	return float64(circuit) / float64(circuit+packetUp)
}

func (cnt CounterSnapshot) String() string {
	circuit, packetUp, packetDown := cnt.Totals()
	return fmt.Sprintf("%d racks, circuit %dB, packet-up %dB, packet-down %dB", cnt.Racks(), circuit, packetUp, packetDown)
}
