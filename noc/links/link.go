// Package links provides the latency elements that couple a producer queue
// to a consumer: network links for flits and credit links for credits.
package links

import (
	"log"

	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
)

// A Link moves items from a source queue to its own in-flight buffer,
// delaying each by the link latency, and wakes the consumer on delivery. At
// most one item crosses per cycle; that is the link bandwidth.
type Link[T messaging.Timed] struct {
	id         int
	latency    sim.Cycle
	vnets      int
	eventQueue *sim.EventQueue

	buffer   *messaging.Buffer[T]
	srcQueue *messaging.Buffer[T]
	consumer sim.Consumer

	utilized uint64
	vcLoad   []uint64

	lastMoveCycle sim.Cycle
	hasMoved      bool
}

func newLink[T messaging.Timed](
	id int,
	latency sim.Cycle,
	vnets int,
	eventQueue *sim.EventQueue,
) *Link[T] {
	if latency < 1 {
		log.Panicf("link %d: latency must be at least 1 cycle", id)
	}

	return &Link[T]{
		id:         id,
		latency:    latency,
		vnets:      vnets,
		eventQueue: eventQueue,
		buffer:     messaging.NewBuffer[T](),
	}
}

// ID returns the link's identifier.
func (l *Link[T]) ID() int { return l.id }

// Latency returns the link's delay in cycles.
func (l *Link[T]) Latency() sim.Cycle { return l.latency }

// SetConsumer points the link at the component on its receiving end.
func (l *Link[T]) SetConsumer(c sim.Consumer) { l.consumer = c }

// SetSourceQueue points the link at the queue it drains.
func (l *Link[T]) SetSourceQueue(q *messaging.Buffer[T]) { l.srcQueue = q }

// SetVCsPerVNet sizes the per-VC load counters for the consumer's VC count.
func (l *Link[T]) SetVCsPerVNet(consumerVCs int) {
	l.vcLoad = make([]uint64, l.vnets*consumerVCs)
}

// ScheduleEvent arranges a wakeup for the link delta cycles from now.
func (l *Link[T]) ScheduleEvent(delta sim.Cycle) {
	l.eventQueue.Schedule(l, delta)
}

// Wakeup moves one ready item from the source queue into the in-flight
// buffer, stamps it with the delivery cycle, and wakes the consumer then.
// Once an item has moved in a cycle, further wakeups in that cycle are
// ignored so that event duplicates cannot exceed the one-item-per-cycle
// bandwidth.
func (l *Link[T]) Wakeup() {
	now := l.eventQueue.CurrentTime()

	if l.hasMoved && l.lastMoveCycle == now {
		return
	}

	if l.srcQueue.IsReady(now) {
		item := l.srcQueue.Pop()
		item.SetTime(now + l.latency)
		l.buffer.Insert(item)
		l.consumer.ScheduleEvent(l.latency)

		l.utilized++
		if vc := item.VCID(); vc >= 0 && vc < len(l.vcLoad) {
			l.vcLoad[vc]++
		}

		l.lastMoveCycle = now
		l.hasMoved = true
	}

	if !l.srcQueue.Empty() {
		l.eventQueue.Schedule(l, 1)
	}
}

// IsReady reports whether a delivered item is visible at the given cycle.
func (l *Link[T]) IsReady(now sim.Cycle) bool {
	return l.buffer.IsReady(now)
}

// Peek returns the next delivered item without removing it.
func (l *Link[T]) Peek() T {
	return l.buffer.Peek()
}

// Consume removes and returns the next delivered item.
func (l *Link[T]) Consume() T {
	return l.buffer.Pop()
}

// Utilization returns the number of items the link has carried.
func (l *Link[T]) Utilization() uint64 { return l.utilized }

// VCLoad returns the per-VC carry counters.
func (l *Link[T]) VCLoad() []uint64 { return l.vcLoad }

// NetworkLink carries flits downstream; CreditLink carries credits upstream.
// Both share the Link contract.
type (
	NetworkLink = Link[*messaging.Flit]
	CreditLink  = Link[*messaging.Credit]
)

// NewNetworkLink creates a flit link.
func NewNetworkLink(
	id int, latency sim.Cycle, vnets int, eq *sim.EventQueue,
) *NetworkLink {
	return newLink[*messaging.Flit](id, latency, vnets, eq)
}

// NewCreditLink creates a credit link. Credit links always take one cycle.
func NewCreditLink(id int, vnets int, eq *sim.EventQueue) *CreditLink {
	return newLink[*messaging.Credit](id, 1, vnets, eq)
}
