package routers

import (
	"github.com/sarchlab/nocsim/noc/messaging"
)

// The CrossbarSwitch carries switch-allocation winners from their input port
// to the selected output unit. The allocator guarantees at most one flit per
// input and per output each cycle.
type CrossbarSwitch struct {
	router        *Router
	switchBuffers []*messaging.FlitBuffer
}

func newCrossbarSwitch(router *Router) *CrossbarSwitch {
	return &CrossbarSwitch{router: router}
}

// Init creates one switch buffer per input port.
func (xb *CrossbarSwitch) Init() {
	xb.switchBuffers = make([]*messaging.FlitBuffer, xb.router.NumInports())
	for i := range xb.switchBuffers {
		xb.switchBuffers[i] = messaging.NewFlitBuffer()
	}
}

// UpdateSwWinner accepts a granted flit from the switch allocator.
func (xb *CrossbarSwitch) UpdateSwWinner(inport int, f *messaging.Flit) {
	xb.switchBuffers[inport].Insert(f)
}

// Wakeup moves each traversal-ready flit into its output unit's queue. The
// flit enters link traversal in the next cycle.
func (xb *CrossbarSwitch) Wakeup() {
	now := xb.router.Now()

	for _, buf := range xb.switchBuffers {
		if !buf.IsReady(now) || !buf.Peek().IsStage(messaging.StageST, now) {
			continue
		}

		f := buf.Pop()
		f.AdvanceStage(messaging.StageLT, now+1)
		f.SetTime(now + 1)
		xb.router.OutputUnit(f.Outport).InsertFlit(f)
	}
}
