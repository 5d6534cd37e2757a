package routers

import (
	"log"

	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
)

// VCState is the occupancy state of a virtual channel.
type VCState int

// The VC states. An Active VC carries exactly one packet.
const (
	VCIdle VCState = iota
	VCActive
)

// A VirtualChannel is one buffer lane of an input port. While Active, it is
// bound to the output port computed at the head flit and, once allocation
// succeeds, to a downstream VC that the rest of the packet inherits.
type VirtualChannel struct {
	state   VCState
	buffer  *messaging.FlitBuffer
	outport int
	outVC   int
}

// NewVirtualChannel creates an idle VC.
func NewVirtualChannel() *VirtualChannel {
	return &VirtualChannel{
		buffer:  messaging.NewFlitBuffer(),
		outport: -1,
		outVC:   -1,
	}
}

// State returns the VC's occupancy state.
func (vc *VirtualChannel) State() VCState { return vc.state }

// SetActive marks the VC occupied by a packet.
func (vc *VirtualChannel) SetActive() { vc.state = VCActive }

// SetIdle releases the VC and clears its bindings.
func (vc *VirtualChannel) SetIdle() {
	vc.state = VCIdle
	vc.outport = -1
	vc.outVC = -1
}

// GrantOutport binds the VC to the output port its packet will use.
func (vc *VirtualChannel) GrantOutport(outport int) { vc.outport = outport }

// Outport returns the bound output port.
func (vc *VirtualChannel) Outport() int { return vc.outport }

// SetOutVC latches the downstream VC chosen at allocation.
func (vc *VirtualChannel) SetOutVC(outVC int) { vc.outVC = outVC }

// OutVC returns the latched downstream VC.
func (vc *VirtualChannel) OutVC() int { return vc.outVC }

// InsertFlit buffers a flit.
func (vc *VirtualChannel) InsertFlit(f *messaging.Flit) {
	vc.buffer.Insert(f)
}

// IsReady reports whether the earliest buffered flit is visible now.
func (vc *VirtualChannel) IsReady(now sim.Cycle) bool {
	return vc.buffer.IsReady(now)
}

// Peek returns the earliest buffered flit without removing it.
func (vc *VirtualChannel) Peek() *messaging.Flit { return vc.buffer.Peek() }

// Pop removes and returns the earliest buffered flit.
func (vc *VirtualChannel) Pop() *messaging.Flit { return vc.buffer.Pop() }

// HasFlits reports whether any flit is buffered.
func (vc *VirtualChannel) HasFlits() bool { return !vc.buffer.Empty() }

// An OutVCState mirrors one downstream input VC: whether it is occupied and
// how many buffer slots it has free.
type OutVCState struct {
	state      VCState
	credits    int
	maxCredits int
}

// NewOutVCState creates the state for a downstream VC with the given buffer
// depth. A fresh VC starts idle with all slots free.
func NewOutVCState(buffers int) *OutVCState {
	return &OutVCState{credits: buffers, maxCredits: buffers}
}

// IsIdle reports whether the downstream VC is unoccupied.
func (s *OutVCState) IsIdle() bool { return s.state == VCIdle }

// SetActive marks the downstream VC occupied.
func (s *OutVCState) SetActive() { s.state = VCActive }

// SetIdle marks the downstream VC released.
func (s *OutVCState) SetIdle() { s.state = VCIdle }

// HasCredit reports whether at least one downstream slot is free.
func (s *OutVCState) HasCredit() bool { return s.credits > 0 }

// Credits returns the number of free downstream slots.
func (s *OutVCState) Credits() int { return s.credits }

// DecrementCredit consumes one downstream slot.
func (s *OutVCState) DecrementCredit() {
	if s.credits == 0 {
		log.Panic("credit counter went negative")
	}
	s.credits--
}

// IncrementCredit returns one downstream slot.
func (s *OutVCState) IncrementCredit() {
	if s.credits == s.maxCredits {
		log.Panicf("credit counter exceeded buffer depth %d", s.maxCredits)
	}
	s.credits++
}
