package routers

import (
	"log"

	"github.com/sarchlab/nocsim/noc/links"
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
)

// An InputUnit serves one router input port. It houses the port's virtual
// channels, runs route computation on head flits, and returns credits to the
// upstream sender when the switch allocator drains its buffers.
type InputUnit struct {
	router    *Router
	id        int
	direction Direction

	vcs         []*VirtualChannel
	creditQueue *messaging.CreditBuffer

	inLink     *links.NetworkLink
	creditLink *links.CreditLink

	creditsSent uint64
}

func newInputUnit(router *Router, id int, dir Direction) *InputUnit {
	iu := &InputUnit{
		router:      router,
		id:          id,
		direction:   dir,
		creditQueue: messaging.NewCreditBuffer(),
	}

	iu.vcs = make([]*VirtualChannel, router.NumVCs())
	for i := range iu.vcs {
		iu.vcs[i] = NewVirtualChannel()
	}

	return iu
}

// Direction returns the port's direction label.
func (iu *InputUnit) Direction() Direction { return iu.direction }

// VC returns the virtual channel with the given index.
func (iu *InputUnit) VC(i int) *VirtualChannel { return iu.vcs[i] }

// CreditQueue exposes the upstream-bound credit queue for link wiring.
func (iu *InputUnit) CreditQueue() *messaging.CreditBuffer {
	return iu.creditQueue
}

// CreditsSent returns how many credits this port has returned upstream.
func (iu *InputUnit) CreditsSent() uint64 { return iu.creditsSent }

// Wakeup reads one flit from the input link if one has arrived. Head flits
// activate their VC and go through route computation; body and tail flits
// reuse the binding the head established. The flit becomes eligible for
// switch allocation after the router pipeline delay.
func (iu *InputUnit) Wakeup() {
	now := iu.router.Now()
	if !iu.inLink.IsReady(now) {
		return
	}

	f := iu.inLink.Consume()
	f.IncrementHops()
	vc := iu.vcs[f.VC]

	iu.router.net.Logf("[cycle %d] router %d received %s at port %s",
		now, iu.router.ID(), f, iu.direction)

	if f.Type.IsHead() {
		if vc.State() != VCIdle {
			log.Panicf("router %d inport %d: head flit on busy VC %d",
				iu.router.ID(), iu.id, f.VC)
		}
		vc.SetActive()

		outport := iu.router.RouteCompute(f.Route, iu.id, iu.direction)
		vc.GrantOutport(outport)
	} else {
		if vc.State() != VCActive {
			log.Panicf("router %d inport %d: %s flit on idle VC %d",
				iu.router.ID(), iu.id, f.Type, f.VC)
		}
	}

	vc.InsertFlit(f)

	depth := iu.router.PipeStages()
	if depth == 1 {
		f.AdvanceStage(messaging.StageSA, now)
	} else {
		// Model the router pipeline by holding the flit in the buffer for
		// depth-1 cycles before it may bid for the switch.
		wait := depth - 1
		f.AdvanceStage(messaging.StageSA, now+wait)
		iu.router.ScheduleEvent(wait)
	}

	if iu.inLink.IsReady(now) {
		iu.router.ScheduleEvent(1)
	}
}

// IncrementCredit queues a credit to the upstream sender. freeSignal is set
// when the drained flit was the packet's last, releasing the whole VC.
func (iu *InputUnit) IncrementCredit(
	inVC int, freeSignal bool, now sim.Cycle,
) {
	credit := messaging.NewCredit(inVC, freeSignal, now)
	iu.creditQueue.Insert(credit)
	iu.creditLink.ScheduleEvent(1)
	iu.creditsSent++
}

// HasPendingFlits reports whether any VC still buffers flits.
func (iu *InputUnit) HasPendingFlits() bool {
	for _, vc := range iu.vcs {
		if vc.HasFlits() {
			return true
		}
	}

	return false
}
