package network

import (
	"sync/atomic"

	"github.com/sarchlab/nocsim/sim"
)

// Driver advances the network cycle by cycle. Each cycle runs two phases:
// phase A wakes every NI, then every router, once; phase B drains all events
// with timestamps up to and including the current cycle. Components tolerate
// the extra wakeups by ignoring repeats within one cycle, so no component
// has to reschedule itself defensively.
type Driver struct {
	eventQueue *sim.EventQueue

	nis     []sim.Wakeable
	routers []sim.Wakeable

	current atomic.Uint64
	horizon atomic.Uint64
}

// NewDriver creates a driver over the network's event queue.
func NewDriver(n *Network) *Driver {
	return &Driver{eventQueue: n.EventQueue()}
}

// AddNI registers an NI for phase-A wakeups.
func (d *Driver) AddNI(w sim.Wakeable) {
	d.nis = append(d.nis, w)
}

// AddRouter registers a router for phase-A wakeups.
func (d *Driver) AddRouter(w sim.Wakeable) {
	d.routers = append(d.routers, w)
}

// Run advances the network from cycle 0 through the horizon, inclusive.
func (d *Driver) Run(horizon sim.Cycle) {
	d.horizon.Store(uint64(horizon))

	for t := sim.Cycle(0); t <= horizon; t++ {
		d.eventQueue.AdvanceTo(t)
		d.current.Store(uint64(t))

		for _, ni := range d.nis {
			ni.Wakeup()
		}
		for _, router := range d.routers {
			router.Wakeup()
		}

		for !d.eventQueue.Empty() && d.eventQueue.PeekTime() <= t {
			d.eventQueue.Pop().Wakeup()
		}
	}
}

// CurrentCycle returns the cycle the driver is at. Safe to call from other
// goroutines, e.g. the monitoring server.
func (d *Driver) CurrentCycle() sim.Cycle {
	return sim.Cycle(d.current.Load())
}

// Horizon returns the last cycle the driver will simulate.
func (d *Driver) Horizon() sim.Cycle {
	return sim.Cycle(d.horizon.Load())
}
