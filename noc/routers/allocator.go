package routers

import (
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
)

// The SwitchAllocator arbitrates input VCs onto output ports once per router
// cycle, in two separable stages. Stage one picks at most one candidate VC
// per input port; stage two picks at most one input port per output port.
// Both stages scan round-robin from per-port pointers, so every eligible
// requester is served within a bounded number of cycles. Losers keep their
// flits at SA eligibility and bid again next cycle.
type SwitchAllocator struct {
	router *Router

	inputArbiter  []int // per-inport pointer over VCs
	outputArbiter []int // per-outport pointer over inports
}

func newSwitchAllocator(router *Router) *SwitchAllocator {
	return &SwitchAllocator{router: router}
}

// Init sizes the arbitration pointers once all ports are in place.
func (sa *SwitchAllocator) Init() {
	sa.inputArbiter = make([]int, sa.router.NumInports())
	sa.outputArbiter = make([]int, sa.router.NumOutports())
}

// A bid is a stage-one winner: an input VC that wants an output port, with
// the downstream VC it will occupy if it wins stage two.
type bid struct {
	inVC  int
	outVC int
}

// Wakeup runs both arbitration stages and moves every winning flit to the
// crossbar.
func (sa *SwitchAllocator) Wakeup() {
	now := sa.router.Now()
	numInports := sa.router.NumInports()
	numOutports := sa.router.NumOutports()

	bids := make([]bid, numInports)
	requested := make([][]bool, numOutports)
	for outport := range requested {
		requested[outport] = make([]bool, numInports)
	}

	for inport := 0; inport < numInports; inport++ {
		bids[inport] = sa.arbitrateVCs(inport, now)
		if bids[inport].inVC == -1 {
			continue
		}

		outport := sa.router.InputUnit(inport).VC(bids[inport].inVC).Outport()
		requested[outport][inport] = true
	}

	for outport := 0; outport < numOutports; outport++ {
		inport := sa.pickRequester(outport, requested[outport])
		if inport == -1 {
			continue
		}

		sa.grant(inport, bids[inport], outport, now)

		sa.outputArbiter[outport] = (inport + 1) % numInports
		sa.inputArbiter[inport] = (bids[inport].inVC + 1) % sa.router.NumVCs()
	}
}

// arbitrateVCs scans an input port's VCs round-robin and returns the first
// one that can use the switch this cycle: it holds an SA-eligible flit, and
// the flit's output port can take it. Head flits additionally need an idle
// downstream VC on their virtual network.
func (sa *SwitchAllocator) arbitrateVCs(inport int, now sim.Cycle) bid {
	iu := sa.router.InputUnit(inport)
	numVCs := sa.router.NumVCs()
	start := sa.inputArbiter[inport]

	for i := 0; i < numVCs; i++ {
		vcID := (start + i) % numVCs
		vc := iu.VC(vcID)

		if vc.State() != VCActive || !vc.IsReady(now) {
			continue
		}

		f := vc.Peek()
		if !f.IsStage(messaging.StageSA, now) {
			continue
		}

		ou := sa.router.OutputUnit(vc.Outport())

		var outVC int
		if f.Type.IsHead() {
			outVC = ou.SelectFreeVC(f.VNet)
		} else {
			outVC = vc.OutVC()
		}

		if outVC == -1 || !ou.HasCredit(outVC) {
			continue
		}

		return bid{inVC: vcID, outVC: outVC}
	}

	return bid{inVC: -1, outVC: -1}
}

// pickRequester scans an output port's requesters round-robin and returns
// the winning inport, or -1.
func (sa *SwitchAllocator) pickRequester(outport int, requesters []bool) int {
	numInports := len(requesters)
	start := sa.outputArbiter[outport]

	for i := 0; i < numInports; i++ {
		inport := (start + i) % numInports
		if requesters[inport] {
			return inport
		}
	}

	return -1
}

// grant moves the winning flit out of its VC and into the crossbar, settles
// the downstream VC binding, and returns a credit upstream. The input VC
// goes back to idle behind a departing tail.
func (sa *SwitchAllocator) grant(inport int, b bid, outport int, now sim.Cycle) {
	iu := sa.router.InputUnit(inport)
	vc := iu.VC(b.inVC)
	ou := sa.router.OutputUnit(outport)

	f := vc.Pop()
	f.Outport = outport

	if f.Type.IsHead() {
		ou.AllocateVC(b.outVC)
		vc.SetOutVC(b.outVC)
	}

	freeSignal := f.Type.IsTail()
	iu.IncrementCredit(b.inVC, freeSignal, now)
	if freeSignal {
		vc.SetIdle()
	}

	f.DequeueCycle = now
	f.VC = b.outVC
	f.AdvanceStage(messaging.StageST, now)

	ou.DecrementCredit(b.outVC)
	sa.router.GrantSwitch(inport, f)

	sa.router.net.Logf("[cycle %d] router %d granted %s to outport %s",
		now, sa.router.ID(), f, ou.Direction())
}
