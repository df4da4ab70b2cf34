package device_test

import (
	"testing"

	"github.com/usnistgov/hybrid-ctrl/device"
)

func TestRecorder(t *testing.T) {
	assert, require := makeAR(t)
	r := device.NewRecorder(4)
	assert.Equal(4, r.Racks())

	require.NoError(r.SetQueueCapacity(16))
	require.NoError(r.SetQueueResize(false))
	require.NoError(r.SetCircuitLinkDelay(0.0006))
	require.NoError(r.SetPacketLinkBandwidth(0.5))
	require.NoError(r.SetSchedule("1 20000 -1/-1/-1/-1"))
	require.NoError(r.SetDivertACKs(false))

	lines := r.Lines()
	require.Len(lines, 16+1+4+8+1+1)
	assert.Equal("WRITE hybrid_switch/q11/q.capacity 16", lines[0])
	assert.Equal("WRITE hybrid_switch/q44/q.capacity 16", lines[15])
	assert.Equal("WRITE runner.setDoResize false", lines[16])
	assert.Equal("WRITE hybrid_switch/circuit_link1/lu.latency 0.0006", lines[17])
	assert.Equal("WRITE hybrid_switch/packet_up_link1/lu.bandwidth 0.5Gbps", lines[21])
	assert.Equal("WRITE hybrid_switch/ps/packet_link1/lu.bandwidth 0.5Gbps", lines[22])
	assert.Equal("WRITE divert_acks.switch 0", lines[len(lines)-1])

	cmds := r.Commands()
	assert.False(cmds[15].Settle)
	assert.True(cmds[16].Settle)
	assert.True(cmds[29].Settle)
	assert.Equal("WRITE runner.setSchedule '1 20000 -1/-1/-1/-1'", cmds[29].Shell())
	assert.Equal(29, r.Index("WRITE runner.setSchedule"))
	assert.Equal(-1, r.Index("READ"))

	r.Reset()
	require.NoError(r.SetInAdvance(12000))
	r.Exec("ssh", "h1", "sysctl", "net.ipv4.tcp_congestion_control=cubic")
	require.NoError(r.SetAdaptiveThresh(100))
	cmds = r.Commands()
	require.Len(cmds, 3)
	assert.Equal("EXEC", cmds[1].Op)
	assert.Equal("ssh h1 sysctl net.ipv4.tcp_congestion_control=cubic", cmds[1].Shell())
	assert.Equal(1, r.Index("EXEC ssh"))
	assert.Equal("WRITE sol.setThresh 100", cmds[2].Shell())

	r.Reset()
	r.Values["hybrid_switch/circuit_link2/lu.total_bytes"] = 77
	cnt, e := r.GetCounters()
	require.NoError(e)
	assert.EqualValues(77, cnt.Circuit[1])
	assert.Len(r.Commands(), 12)
	assert.Equal("READ hybrid_switch/circuit_link1/lu.total_bytes", r.Commands()[0].Shell())
}
