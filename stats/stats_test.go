package stats

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarchlab/nocsim/network"
	"github.com/sarchlab/nocsim/topology"
)

func runSinglePacket(t *testing.T) *topology.Topology {
	t.Helper()

	net := network.New(network.DefaultConfig())
	topo, err := topology.Build("Mesh_XY", net)
	require.NoError(t, err)

	for _, g := range topo.Generators() {
		g.SetTestMode(true)
	}

	require.NoError(t, topo.Init())

	driver := network.NewDriver(net)
	topo.RegisterWith(driver)
	driver.Run(100)

	return topo
}

func TestCollectSinglePacketRun(t *testing.T) {
	topo := runSinglePacket(t)

	report := Collect(topo, 100)

	assert.Equal(t, uint64(100), report.Cycles)
	assert.Equal(t, uint64(1), report.PacketsInjected)
	assert.Equal(t, uint64(1), report.PacketsReceived)
	assert.Greater(t, report.AvgNetworkLatency, 0.0)
	assert.Equal(t, 2.0, report.AvgHops)
	assert.Equal(t, uint64(1), report.PerVNet[0].Received)
	assert.Zero(t, report.PerVNet[1].Received)
	assert.Greater(t, report.AvgLinkUtilization, 0.0)
}

func TestPrintContainsTheHeadlineFields(t *testing.T) {
	topo := runSinglePacket(t)
	report := Collect(topo, 100)

	var buf bytes.Buffer
	report.Print(&buf)

	out := buf.String()
	assert.Contains(t, out, "Total Cycles: 100")
	assert.Contains(t, out, "Packets Injected: 1")
	assert.Contains(t, out, "Total Packets Received: 1")
	assert.Contains(t, out, "Average Network Latency")
	assert.Contains(t, out, "Average Link Utilization")
}
