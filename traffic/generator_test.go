package traffic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarchlab/nocsim/network"
	"github.com/sarchlab/nocsim/noc/messaging"
)

func testNetwork() *network.Network {
	net := network.New(network.DefaultConfig())
	for ni := 0; ni < 4; ni++ {
		net.RegisterNI(ni, ni)
	}

	return net
}

func TestTestModeInjectsExactlyOnePacket(t *testing.T) {
	net := testNetwork()
	g := NewSyntheticGenerator(0, 4, 0, net)
	g.SetTestMode(true)

	f := g.SendFlit()
	require.NotNil(t, f)
	assert.Equal(t, messaging.HeadTail, f.Type)
	assert.Equal(t, 0, f.Route.SrcNI)
	assert.Equal(t, 3, f.Route.DestNI)
	assert.Equal(t, -1, f.Route.Hops)

	for i := 0; i < 10; i++ {
		assert.Nil(t, g.SendFlit())
	}

	assert.Equal(t, uint64(1), g.InjectedPackets())
}

func TestTestModeIsQuietOnOtherNIs(t *testing.T) {
	net := testNetwork()
	g := NewSyntheticGenerator(2, 4, 0, net)
	g.SetTestMode(true)

	assert.Nil(t, g.SendFlit())
	assert.Equal(t, uint64(0), g.InjectedPackets())
}

func TestMultiFlitPacketLeavesInOrder(t *testing.T) {
	net := testNetwork()
	g := NewSyntheticGenerator(0, 4, 0, net)
	g.SetTestMode(true)
	g.SetPacketSize(3)

	head := g.SendFlit()
	body := g.SendFlit()
	tail := g.SendFlit()

	require.NotNil(t, head)
	require.NotNil(t, body)
	require.NotNil(t, tail)

	assert.Equal(t, messaging.Head, head.Type)
	assert.Equal(t, messaging.Body, body.Type)
	assert.Equal(t, messaging.Tail, tail.Type)
	assert.Equal(t, head.PacketID, tail.PacketID)
	assert.Equal(t, []int{0, 1, 2}, []int{head.Index, body.Index, tail.Index})
}

func TestRequeuedFlitComesBackFirst(t *testing.T) {
	net := testNetwork()
	g := NewSyntheticGenerator(0, 4, 0, net)
	g.SetTestMode(true)

	f := g.SendFlit()
	require.NotNil(t, f)

	g.RequeueFlit(f)

	assert.Same(t, f, g.SendFlit())
	assert.Panics(t, func() {
		g.RequeueFlit(f)
		g.RequeueFlit(f)
	})
}

func TestRateModeInjectionCount(t *testing.T) {
	net := testNetwork()
	g := NewSyntheticGenerator(1, 4, 0.5, net)

	cycles := 4000
	for i := 0; i < cycles; i++ {
		g.SendFlit()
	}

	injected := g.InjectedPackets()
	assert.Greater(t, injected, uint64(1700))
	assert.Less(t, injected, uint64(2300))
}

func TestDestinationsExcludeSelf(t *testing.T) {
	net := testNetwork()
	g := NewSyntheticGenerator(1, 4, 1.0, net)

	for i := 0; i < 200; i++ {
		f := g.SendFlit()
		require.NotNil(t, f)
		assert.NotEqual(t, 1, f.Route.DestNI)
	}
}

func TestFixedDestination(t *testing.T) {
	net := testNetwork()
	g := NewSyntheticGenerator(0, 4, 1.0, net)
	g.SetFixedDestination(3)

	for i := 0; i < 50; i++ {
		f := g.SendFlit()
		require.NotNil(t, f)
		assert.Equal(t, 3, f.Route.DestNI)
	}
}

func TestReceiveTailRecordsLatency(t *testing.T) {
	net := testNetwork()
	g := NewSyntheticGenerator(3, 4, 0, net)

	src := NewSyntheticGenerator(0, 4, 0, net)
	src.SetTestMode(true)
	f := src.SendFlit()
	require.NotNil(t, f)

	net.EventQueue().AdvanceTo(9)
	g.ReceiveFlit(f)

	assert.Equal(t, uint64(1), g.ReceivedPackets())
	assert.Equal(t, uint64(9), g.TotalLatency())
	assert.Equal(t, uint64(1), g.ReceivedOnVNet(0))
	assert.Equal(t, []float64{9}, g.LatencySamples())
}

func TestDeliveryListener(t *testing.T) {
	net := testNetwork()
	g := NewSyntheticGenerator(3, 4, 0, net)

	var got []Delivery
	g.SetDeliveryListener(func(d Delivery) { got = append(got, d) })

	src := NewSyntheticGenerator(0, 4, 0, net)
	src.SetTestMode(true)
	f := src.SendFlit()
	require.NotNil(t, f)

	net.EventQueue().AdvanceTo(5)
	g.ReceiveFlit(f)

	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].SrcNI)
	assert.Equal(t, 3, got[0].DestNI)
	assert.Equal(t, uint64(5), uint64(got[0].Latency))
}
