package device

import (
	"fmt"
	"strconv"

	"github.com/usnistgov/hybrid-ctrl/core/numfmt"
)

// Element paths on the device.
const (
	elRunner        = "runner"
	elAdaptive      = "sol"
	elTrafficMatrix = "traffic_matrix"
	elDivertACKs    = "divert_acks"
	elLog           = "hsl"
)

func elQueue(src, dst int) string {
	return fmt.Sprintf("hybrid_switch/q%d%d/q", src, dst)
}

func elCircuitLink(rack int) string {
	return fmt.Sprintf("hybrid_switch/circuit_link%d/lu", rack)
}

func elPacketUpLink(rack int) string {
	return fmt.Sprintf("hybrid_switch/packet_up_link%d/lu", rack)
}

func elPacketDownLink(rack int) string {
	return fmt.Sprintf("hybrid_switch/ps/packet_link%d/lu", rack)
}

// handlerRW performs exchanges while holding exclusive access to the device.
type handlerRW interface {
	write(element, handler, value string) error
	read(element, handler string) (int64, error)

	// settle waits for the device to apply the previous write.
	settle()
}

// handlerIO grants exclusive access to the device.
type handlerIO interface {
	exclusive(fn func(rw handlerRW) error) error
}

// handlers implements Device on top of handlerIO.
type handlers struct {
	io    handlerIO
	racks int
}

func (h handlers) Racks() int {
	return h.racks
}

func (h handlers) write(element, handler, value string, settle bool) error {
	return h.io.exclusive(func(rw handlerRW) error {
		if e := rw.write(element, handler, value); e != nil {
			return e
		}
		if settle {
			rw.settle()
		}
		return nil
	})
}

func (h handlers) forEachRack(fn func(rack int) error) error {
	for rack := 1; rack <= h.racks; rack++ {
		if e := fn(rack); e != nil {
			return e
		}
	}
	return nil
}

func (h handlers) ClearCounters() error {
	return h.io.exclusive(func(rw handlerRW) error {
		e := h.forEachRack(func(rack int) error {
			for dst := 1; dst <= h.racks; dst++ {
				if e := rw.write(elQueue(rack, dst), "clear", ""); e != nil {
					return e
				}
			}
			for _, el := range []string{elCircuitLink(rack), elPacketUpLink(rack), elPacketDownLink(rack)} {
				if e := rw.write(el, "clear", ""); e != nil {
					return e
				}
			}
			return nil
		})
		if e != nil {
			return e
		}
		return rw.write(elTrafficMatrix, "clear", "")
	})
}

func (h handlers) GetCounters() (cnt CounterSnapshot, e error) {
	e = h.io.exclusive(func(rw handlerRW) error {
		cnt = makeCounterSnapshot(h.racks)
		return h.forEachRack(func(rack int) (e error) {
			i := rack - 1
			if cnt.Circuit[i], e = rw.read(elCircuitLink(rack), "total_bytes"); e != nil {
				return fmt.Errorf("%w: rack %d circuit: %w", ErrPartialCounterRead, rack, e)
			}
			if cnt.PacketUp[i], e = rw.read(elPacketUpLink(rack), "total_bytes"); e != nil {
				return fmt.Errorf("%w: rack %d packet up: %w", ErrPartialCounterRead, rack, e)
			}
			if cnt.PacketDown[i], e = rw.read(elPacketDownLink(rack), "total_bytes"); e != nil {
				return fmt.Errorf("%w: rack %d packet down: %w", ErrPartialCounterRead, rack, e)
			}
			return nil
		})
	})
	if e != nil {
		return CounterSnapshot{}, e
	}
	return cnt, nil
}

func (h handlers) SetQueueResize(enable bool) error {
	return h.write(elRunner, "setDoResize", strconv.FormatBool(enable), true)
}

func (h handlers) SetQueueCapacity(capacity int) error {
	value := strconv.Itoa(capacity)
	return h.io.exclusive(func(rw handlerRW) error {
		return h.forEachRack(func(src int) error {
			for dst := 1; dst <= h.racks; dst++ {
				if e := rw.write(elQueue(src, dst), "capacity", value); e != nil {
					return e
				}
			}
			return nil
		})
	})
}

func (h handlers) SetTrafficSource(source string) error {
	return h.write(elTrafficMatrix, "setSource", source, false)
}

func (h handlers) SetInAdvance(inAdvance int64) error {
	return h.write(elRunner, "setInAdvance", strconv.FormatInt(inAdvance, 10), false)
}

func (h handlers) SetAdaptiveThresh(thresh int64) error {
	return h.write(elAdaptive, "setThresh", strconv.FormatInt(thresh, 10), false)
}

func (h handlers) SetAdaptiveEnabled(enable bool) error {
	return h.write(elAdaptive, "setEnabled", strconv.FormatBool(enable), true)
}

func (h handlers) SetSchedule(wire string) error {
	return h.write(elRunner, "setSchedule", wire, true)
}

func (h handlers) SetDivertACKs(divert bool) error {
	value := "0"
	if divert {
		value = "1"
	}
	return h.write(elDivertACKs, "switch", value, false)
}

func (h handlers) SetCircuitLinkDelay(seconds float64) error {
	value := numfmt.Float(seconds)
	return h.io.exclusive(func(rw handlerRW) error {
		return h.forEachRack(func(rack int) error {
			return rw.write(elCircuitLink(rack), "latency", value)
		})
	})
}

func (h handlers) SetPacketLinkBandwidth(gbps float64) error {
	value := fmt.Sprintf("%.1fGbps", gbps)
	return h.io.exclusive(func(rw handlerRW) error {
		return h.forEachRack(func(rack int) error {
			if e := rw.write(elPacketUpLink(rack), "bandwidth", value); e != nil {
				return e
			}
			return rw.write(elPacketDownLink(rack), "bandwidth", value)
		})
	})
}

func (h handlers) OpenLog(filename string) error {
	return h.write(elLog, "openLog", filename, true)
}

func (h handlers) DisableLog() error {
	return h.write(elLog, "disableLog", "", true)
}
