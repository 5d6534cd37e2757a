// Package sim provides the discrete-event core that drives the simulator.
package sim

// A Cycle is a point on the simulated timeline. The simulator has no notion
// of wall-clock time; every latency and timestamp is expressed in cycles.
type Cycle uint64

// A Wakeable is anything that can appear on the event queue. Routers, links,
// and network interfaces all implement it.
type Wakeable interface {
	Wakeup()
}

// A Consumer is a Wakeable that can also schedule its own future wakeups.
// Links use it to notify the component on their receiving end.
type Consumer interface {
	Wakeable

	// ScheduleEvent arranges for Wakeup to be called delta cycles from now.
	ScheduleEvent(delta Cycle)
}
