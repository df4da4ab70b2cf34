package device_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gabstv/freeport"
	"github.com/usnistgov/hybrid-ctrl/device"
)

func TestWriteRead(t *testing.T) {
	assert, require := makeAR(t)
	s, fake := dialFake(t)
	fake.SetValue("runner.in_advance", 12000)

	ack, e := s.WriteHandler("runner", "setInAdvance", "12000")
	require.NoError(e)
	assert.Equal("200 Write handler 'runner.setInAdvance' OK", ack)

	value, e := s.ReadHandler("runner", "in_advance")
	require.NoError(e)
	assert.EqualValues(12000, value)

	require.NoError(s.DisableLog())
	assert.Equal([]string{
		"WRITE runner.setInAdvance 12000",
		"READ runner.in_advance",
		"WRITE hsl.disableLog ",
	}, fake.Lines())

	transcript := s.Transcript()
	require.Len(transcript, 3)
	assert.Equal("READ runner.in_advance", transcript[1].Request)
	assert.Contains(transcript[1].Response, "DATA 5")
	assert.NoError(transcript[1].Err)
}

func TestReadThreeLines(t *testing.T) {
	assert, require := makeAR(t)
	s, fake := dialFake(t)
	fake.SetFault(func(op string, n int, line string) (string, bool) {
		return "200 Read handler OK\nvalue follows\n  4096  \n", true
	})

	value, e := s.ReadHandler("hybrid_switch/circuit_link1/lu", "total_bytes")
	require.NoError(e)
	assert.EqualValues(4096, value)
}

func TestProtocolError(t *testing.T) {
	assert, require := makeAR(t)
	s, fake := dialFake(t)
	fake.SetFault(func(op string, n int, line string) (string, bool) {
		switch n {
		case 1:
			return "520 Handler 'sol.bogus' does not exist\r\n", true
		case 2:
			return "200 Read handler OK\r\nDATA 3\r\nabc", true
		}
		return "", false
	})

	_, e := s.ReadHandler("sol", "bogus")
	assert.ErrorIs(e, device.ErrProtocol)
	var pe *device.ProtocolError
	require.ErrorAs(e, &pe)
	assert.Equal("READ sol.bogus", pe.Request)
	assert.Contains(pe.Response, "520")
	require.NotEmpty(pe.Transcript)
	assert.Equal("READ sol.bogus", pe.Transcript[len(pe.Transcript)-1].Request)

	_, e = s.ReadHandler("sol", "thresh")
	assert.ErrorIs(e, device.ErrProtocol)

	// protocol errors do not break the session
	value, e := s.ReadHandler("sol", "thresh")
	assert.NoError(e)
	assert.EqualValues(0, value)
}

func TestConnectionError(t *testing.T) {
	assert, require := makeAR(t)

	port, e := freeport.TCP()
	require.NoError(e)
	_, e = device.Dial(context.Background(), device.Config{
		Address: fmt.Sprintf("127.0.0.1:%d", port),
		Racks:   nRacks,
		Timeout: 500,
	})
	assert.ErrorIs(e, device.ErrConnection)

	_, e = device.Dial(context.Background(), device.Config{Racks: nRacks})
	assert.Error(e)

	s, fake := dialFake(t, func(cfg *device.Config) { cfg.Timeout = 200 })
	fake.SetFault(func(op string, n int, line string) (string, bool) {
		return "", op == "WRITE" && n == 2
	})
	require.NoError(s.SetTrafficSource("QUEUE"))
	e = s.SetTrafficSource("ADU")
	assert.ErrorIs(e, device.ErrConnection)
	assert.NotErrorIs(e, device.ErrProtocol)

	_, e = s.ReadHandler("runner", "in_advance")
	assert.ErrorIs(e, device.ErrConnection)
	assert.Equal(0, fake.Count("READ"))
}

func TestClose(t *testing.T) {
	assert, require := makeAR(t)
	s, fake := dialFake(t)

	require.NoError(s.SetDivertACKs(true))
	require.NoError(s.Close())
	assert.NoError(s.Close())

	e := s.SetDivertACKs(false)
	assert.ErrorIs(e, device.ErrConnection)
	_, e = s.GetCounters()
	assert.ErrorIs(e, device.ErrConnection)
	assert.Equal([]string{"WRITE divert_acks.switch 1"}, fake.Lines())
}

func TestSettle(t *testing.T) {
	assert, require := makeAR(t)
	s, _ := dialFake(t, func(cfg *device.Config) { cfg.SettleDelay = 50 })

	t0 := time.Now()
	require.NoError(s.SetAdaptiveEnabled(false))
	assert.GreaterOrEqual(time.Since(t0), 50*time.Millisecond)

	t0 = time.Now()
	require.NoError(s.SetQueueResize(true))
	require.NoError(s.OpenLog("/tmp/x-click.txt"))
	assert.GreaterOrEqual(time.Since(t0), 100*time.Millisecond)
}

func TestOnExchange(t *testing.T) {
	assert, require := makeAR(t)
	s, _ := dialFake(t)

	var requests []string
	c := s.OnExchange(func(x device.Exchange) {
		requests = append(requests, x.Request)
	})

	require.NoError(s.SetAdaptiveThresh(1000000))
	require.NoError(s.SetSchedule("1 20000 -1/-1/-1/-1/-1/-1/-1/-1"))
	assert.NoError(c.Close())
	require.NoError(s.SetInAdvance(0))

	assert.Equal([]string{
		"WRITE sol.setThresh 1000000",
		"WRITE runner.setSchedule 1 20000 -1/-1/-1/-1/-1/-1/-1/-1",
	}, requests)
}

func TestConfig(t *testing.T) {
	assert, _ := makeAR(t)

	var cfg device.Config
	e := cfg.Validate()
	assert.ErrorContains(e, "address missing")
	assert.ErrorContains(e, "racks 0 must be positive")

	cfg = device.Config{Network: "udp", Address: "x:1", Racks: 8}
	assert.ErrorContains(cfg.Validate(), "network")

	cfg = device.Config{Address: "127.0.0.1:7777", Racks: 8, Timeout: 10, SettleDelay: 200}
	cfg.ApplyDefaults()
	assert.NoError(cfg.Validate())
	assert.Equal("tcp", cfg.Network)
	assert.EqualValues(200, cfg.Timeout)
	assert.Equal(device.DefaultTranscriptLength, cfg.TranscriptLength)
}
