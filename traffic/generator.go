// Package traffic produces and consumes the synthetic workload that drives
// the network. A Generator is attached to each NI; the NI pulls flits from
// it and pushes delivered flits back.
package traffic

import (
	"fmt"
	"log"

	"github.com/iti/rngstream"

	"github.com/sarchlab/nocsim/network"
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
)

// A Generator feeds one NI. SendFlit may return nil when nothing is to be
// injected this cycle. ReceiveFlit transfers flit ownership to the
// generator. RequeueFlit returns exactly one flit the NI could not inject;
// the generator must hand the same flit back on the next SendFlit.
type Generator interface {
	SendFlit() *messaging.Flit
	ReceiveFlit(f *messaging.Flit)
	RequeueFlit(f *messaging.Flit)
}

// A Delivery summarizes one completed packet for trace recording.
type Delivery struct {
	PacketID    int
	SrcNI       int
	DestNI      int
	VNet        int
	InjectCycle sim.Cycle
	EjectCycle  sim.Cycle
	Latency     sim.Cycle
	Hops        int
}

// SyntheticGenerator injects Bernoulli traffic with uniform random
// destinations, or a single deterministic packet in test mode. Flits of one
// packet leave in order, one per cycle, and two packets never interleave.
type SyntheticGenerator struct {
	id     int
	numNIs int
	rate   float64
	net    *network.Network

	packetSize int
	testMode   bool
	testSent   bool
	fixedDest  int
	trace      bool

	queue   []*messaging.Flit
	stalled *messaging.Flit

	rng *rngstream.RngStream

	injectedPackets   uint64
	receivedPackets   uint64
	injectionAttempts uint64
	totalLatency      uint64
	totalHops         uint64
	receivedPerVNet   []uint64
	latencyPerVNet    []uint64
	latencySamples    []float64

	deliveryListener func(Delivery)
}

// NewSyntheticGenerator creates a generator for the NI with the given id.
func NewSyntheticGenerator(
	id, numNIs int, rate float64, net *network.Network,
) *SyntheticGenerator {
	vnets := net.Config().VNets

	return &SyntheticGenerator{
		id:              id,
		numNIs:          numNIs,
		rate:            rate,
		net:             net,
		packetSize:      1,
		fixedDest:       -1,
		rng:             rngstream.New(fmt.Sprintf("ni-%d", id)),
		receivedPerVNet: make([]uint64, vnets),
		latencyPerVNet:  make([]uint64, vnets),
	}
}

// SetRate changes the injection probability per cycle.
func (g *SyntheticGenerator) SetRate(rate float64) { g.rate = rate }

// SetPacketSize sets the flit count of generated packets.
func (g *SyntheticGenerator) SetPacketSize(size int) { g.packetSize = size }

// SetTestMode switches the generator to inject a single deterministic
// packet from NI 0 to the last NI.
func (g *SyntheticGenerator) SetTestMode(on bool) { g.testMode = on }

// SetTracePackets marks generated flits for per-hop tracing.
func (g *SyntheticGenerator) SetTracePackets(on bool) { g.trace = on }

// SetFixedDestination directs all generated packets to one NI. Pass -1 to
// restore uniform random destinations.
func (g *SyntheticGenerator) SetFixedDestination(dest int) {
	g.fixedDest = dest
}

// SetDeliveryListener registers a callback invoked for each delivered
// packet, e.g. to record traces.
func (g *SyntheticGenerator) SetDeliveryListener(fn func(Delivery)) {
	g.deliveryListener = fn
}

// SendFlit returns the next flit to inject, or nil. A previously requeued
// flit always goes first.
func (g *SyntheticGenerator) SendFlit() *messaging.Flit {
	g.injectionAttempts++

	if g.stalled != nil {
		f := g.stalled
		g.stalled = nil

		return f
	}

	now := g.net.Now()

	switch {
	case g.testMode:
		if g.id == 0 && !g.testSent {
			g.generatePacket(g.numNIs-1, 0, now)
			g.testSent = true
		}
	case g.rate > 0 && g.rng.RandU01() <= g.rate:
		g.generatePacket(g.pickDestination(), g.pickVNet(), now)
	}

	if len(g.queue) > 0 {
		f := g.queue[0]
		g.queue = g.queue[1:]
		f.EnqueueCycle = now

		return f
	}

	return nil
}

// RequeueFlit takes back the one flit the NI stalled on this cycle.
func (g *SyntheticGenerator) RequeueFlit(f *messaging.Flit) {
	if g.stalled != nil {
		log.Panicf("NI %d requeued two flits in one cycle", g.id)
	}

	g.stalled = f
}

// ReceiveFlit takes ownership of a delivered flit. Packet statistics are
// recorded when the tail arrives.
func (g *SyntheticGenerator) ReceiveFlit(f *messaging.Flit) {
	if !f.Type.IsTail() {
		return
	}

	now := g.net.Now()
	latency := uint64(now - f.EnqueueCycle)

	g.receivedPackets++
	g.totalLatency += latency
	g.totalHops += uint64(f.Route.Hops)
	g.latencySamples = append(g.latencySamples, float64(latency))

	if f.VNet < len(g.receivedPerVNet) {
		g.receivedPerVNet[f.VNet]++
		g.latencyPerVNet[f.VNet] += latency
	}

	if f.Trace {
		fmt.Printf("TRACE: packet %d delivered to NI %d at cycle %d, "+
			"latency %d, hops %d\n",
			f.PacketID, g.id, now, latency, f.Route.Hops)
	}

	if g.deliveryListener != nil {
		g.deliveryListener(Delivery{
			PacketID:    f.PacketID,
			SrcNI:       f.Route.SrcNI,
			DestNI:      f.Route.DestNI,
			VNet:        f.VNet,
			InjectCycle: f.EnqueueCycle,
			EjectCycle:  now,
			Latency:     sim.Cycle(latency),
			Hops:        f.Route.Hops,
		})
	}
}

func (g *SyntheticGenerator) pickDestination() int {
	if g.fixedDest >= 0 {
		return g.fixedDest
	}

	if g.numNIs < 2 {
		return 0
	}

	// Draw among the other NIs only, so each is equally likely.
	dest := g.rng.RandInt(0, g.numNIs-2)
	if dest >= g.id {
		dest++
	}

	return dest
}

func (g *SyntheticGenerator) pickVNet() int {
	vnets := g.net.Config().VNets
	if vnets == 1 {
		return 0
	}

	return g.rng.RandInt(0, vnets-1)
}

func (g *SyntheticGenerator) generatePacket(dest, vnet int, now sim.Cycle) {
	packetID := g.net.NextPacketID()

	route := messaging.RouteInfo{
		SrcNI:      g.id,
		DestNI:     dest,
		SrcRouter:  g.net.RouterIDForNI(g.id),
		DestRouter: g.net.RouterIDForNI(dest),
		VNet:       vnet,
		Hops:       -1,
	}
	route.Dest.Add(dest)

	if g.trace {
		fmt.Printf("TRACE: packet %d generated at NI %d for NI %d "+
			"at cycle %d\n", packetID, g.id, dest, now)
	}

	for i := 0; i < g.packetSize; i++ {
		f := messaging.NewFlit(packetID, i, 0, vnet, route, g.packetSize,
			g.net.Config().NIFlitSize, now)
		f.Trace = g.trace
		g.queue = append(g.queue, f)
	}

	g.injectedPackets++
}

// InjectedPackets returns the number of packets generated.
func (g *SyntheticGenerator) InjectedPackets() uint64 {
	return g.injectedPackets
}

// ReceivedPackets returns the number of packets delivered to this NI.
func (g *SyntheticGenerator) ReceivedPackets() uint64 {
	return g.receivedPackets
}

// InjectionAttempts returns the number of SendFlit calls.
func (g *SyntheticGenerator) InjectionAttempts() uint64 {
	return g.injectionAttempts
}

// TotalLatency returns the summed packet latency in cycles.
func (g *SyntheticGenerator) TotalLatency() uint64 { return g.totalLatency }

// TotalHops returns the summed delivered hop count.
func (g *SyntheticGenerator) TotalHops() uint64 { return g.totalHops }

// ReceivedOnVNet returns the packet count delivered on one virtual network.
func (g *SyntheticGenerator) ReceivedOnVNet(vnet int) uint64 {
	return g.receivedPerVNet[vnet]
}

// LatencyOnVNet returns the summed latency on one virtual network.
func (g *SyntheticGenerator) LatencyOnVNet(vnet int) uint64 {
	return g.latencyPerVNet[vnet]
}

// LatencySamples returns the per-packet latencies seen by this NI.
func (g *SyntheticGenerator) LatencySamples() []float64 {
	return g.latencySamples
}
