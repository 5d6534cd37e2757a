// Package messaging defines the value types that move through the fabric:
// flits, credits, and the ordered buffers that hold them.
package messaging

import (
	"fmt"

	"github.com/sarchlab/nocsim/sim"
)

// FlitType tells the position of a flit within its packet. A single-flit
// packet uses HeadTail.
type FlitType int

// The flit types.
const (
	Head FlitType = iota
	Body
	Tail
	HeadTail
)

func (t FlitType) String() string {
	switch t {
	case Head:
		return "HEAD"
	case Body:
		return "BODY"
	case Tail:
		return "TAIL"
	case HeadTail:
		return "HEAD_TAIL"
	}

	return "UNKNOWN"
}

// IsHead returns true for flits that open a packet.
func (t FlitType) IsHead() bool {
	return t == Head || t == HeadTail
}

// IsTail returns true for flits that close a packet.
func (t FlitType) IsTail() bool {
	return t == Tail || t == HeadTail
}

// Stage is a router pipeline stage. A flit is eligible for a stage starting
// at the cycle it was advanced to that stage.
type Stage int

// The pipeline stages.
const (
	StageIdle Stage = iota
	StageSA         // switch allocation
	StageST         // switch traversal
	StageLT         // link traversal
)

// RouteInfo is set once at injection and travels with every flit of the
// packet. Hops starts at -1 so that the delivered hop count equals the
// number of router-to-router traversals.
type RouteInfo struct {
	SrcNI      int
	DestNI     int
	SrcRouter  int
	DestRouter int
	VNet       int
	Dest       NetDest
	Hops       int
}

// A Flit is the smallest unit of fabric transport.
type Flit struct {
	PacketID int
	Index    int // position within the packet
	VC       int
	VNet     int
	Route    RouteInfo
	Size     int // packet size in flits
	Type     FlitType
	Width    uint32
	Outport  int
	Trace    bool

	CreationCycle sim.Cycle
	EnqueueCycle  sim.Cycle
	DequeueCycle  sim.Cycle
	SrcDelay      sim.Cycle

	time       sim.Cycle
	stage      Stage
	stageCycle sim.Cycle
}

// NewFlit creates a flit at the given cycle. The hop count is the route's
// Hops as given; with a route starting at -1, the first input unit the flit
// reaches brings it to zero.
func NewFlit(
	packetID, index, vc, vnet int,
	route RouteInfo,
	size int,
	width uint32,
	now sim.Cycle,
) *Flit {
	f := &Flit{
		PacketID:      packetID,
		Index:         index,
		VC:            vc,
		VNet:          vnet,
		Route:         route,
		Size:          size,
		Width:         width,
		Outport:       -1,
		CreationCycle: now,
	}
	f.time = now

	switch {
	case size == 1:
		f.Type = HeadTail
	case index == 0:
		f.Type = Head
	case index == size-1:
		f.Type = Tail
	default:
		f.Type = Body
	}

	return f
}

// Time returns the cycle from which the flit is visible to its holder.
func (f *Flit) Time() sim.Cycle { return f.time }

// SetTime stamps the cycle from which the flit is visible to its holder.
func (f *Flit) SetTime(t sim.Cycle) { f.time = t }

// VCID returns the virtual channel the flit occupies.
func (f *Flit) VCID() int { return f.VC }

// Seq returns the flit's position within its packet.
func (f *Flit) Seq() int { return f.Index }

// IsStage reports whether the flit sits in the given pipeline stage and is
// valid at the given cycle.
func (f *Flit) IsStage(s Stage, now sim.Cycle) bool {
	return s == f.stage && now >= f.stageCycle
}

// AdvanceStage moves the flit to a new pipeline stage, valid from the given
// cycle on.
func (f *Flit) AdvanceStage(s Stage, validFrom sim.Cycle) {
	f.stage = s
	f.stageCycle = validFrom
}

// IncrementHops counts one more router traversal.
func (f *Flit) IncrementHops() {
	f.Route.Hops++
}

func (f *Flit) String() string {
	return fmt.Sprintf("flit %d of packet %d (%s, vc %d, vnet %d, %d->%d)",
		f.Index, f.PacketID, f.Type, f.VC, f.VNet,
		f.Route.SrcNI, f.Route.DestNI)
}
