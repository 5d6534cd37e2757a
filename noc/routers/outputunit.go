package routers

import (
	"github.com/sarchlab/nocsim/noc/links"
	"github.com/sarchlab/nocsim/noc/messaging"
)

// An OutputUnit serves one router output port. It mirrors the credit state
// of every VC at the downstream input port and drains granted flits into the
// outgoing link.
type OutputUnit struct {
	router    *Router
	id        int
	direction Direction

	outVCs      []*OutVCState
	vcAllocator []int // per-vnet round-robin pointer for VC selection

	outQueue *messaging.FlitBuffer

	outLink    *links.NetworkLink
	creditLink *links.CreditLink
}

func newOutputUnit(
	router *Router, id int, dir Direction, consumerVCs int,
) *OutputUnit {
	ou := &OutputUnit{
		router:    router,
		id:        id,
		direction: dir,
		outQueue:  messaging.NewFlitBuffer(),
	}

	cfg := router.net.Config()
	ou.outVCs = make([]*OutVCState, cfg.VNets*consumerVCs)
	for vc := range ou.outVCs {
		vnet := vc / consumerVCs
		ou.outVCs[vc] = NewOutVCState(cfg.BuffersPerVC(vnet))
	}

	ou.vcAllocator = make([]int, cfg.VNets)

	return ou
}

// Direction returns the port's direction label.
func (ou *OutputUnit) Direction() Direction { return ou.direction }

// OutQueue exposes the outbound flit queue for link wiring.
func (ou *OutputUnit) OutQueue() *messaging.FlitBuffer { return ou.outQueue }

// Wakeup consumes an arrived credit: the downstream VC regains a buffer
// slot, and a free signal releases the VC entirely.
func (ou *OutputUnit) Wakeup() {
	now := ou.router.Now()
	if !ou.creditLink.IsReady(now) {
		return
	}

	credit := ou.creditLink.Consume()
	ou.outVCs[credit.VC].IncrementCredit()
	if credit.FreeSignal {
		ou.outVCs[credit.VC].SetIdle()
	}
}

// HasCredit reports whether the downstream VC has a free buffer slot.
func (ou *OutputUnit) HasCredit(vc int) bool {
	return ou.outVCs[vc].HasCredit()
}

// DecrementCredit consumes a downstream buffer slot on flit dispatch.
func (ou *OutputUnit) DecrementCredit(vc int) {
	ou.outVCs[vc].DecrementCredit()
}

// CreditCount returns the free-slot count of a downstream VC.
func (ou *OutputUnit) CreditCount(vc int) int {
	return ou.outVCs[vc].Credits()
}

// SelectFreeVC scans the virtual network's VCs round-robin from the
// allocation pointer and returns the first idle one, or -1. The pointer only
// advances when AllocateVC confirms the choice.
func (ou *OutputUnit) SelectFreeVC(vnet int) int {
	vcsPerVNet := ou.router.VCsPerVNet()
	start := ou.vcAllocator[vnet]

	for i := 0; i < vcsPerVNet; i++ {
		vc := vnet*vcsPerVNet + (start+i)%vcsPerVNet
		if ou.outVCs[vc].IsIdle() {
			return vc
		}
	}

	return -1
}

// AllocateVC marks a downstream VC occupied and advances the allocation
// pointer past it.
func (ou *OutputUnit) AllocateVC(vc int) {
	ou.outVCs[vc].SetActive()

	vcsPerVNet := ou.router.VCsPerVNet()
	vnet := vc / vcsPerVNet
	ou.vcAllocator[vnet] = (vc%vcsPerVNet + 1) % vcsPerVNet
}

// InsertFlit queues a flit for the outgoing link and wakes the link.
func (ou *OutputUnit) InsertFlit(f *messaging.Flit) {
	ou.outQueue.Insert(f)
	ou.outLink.ScheduleEvent(1)
}
