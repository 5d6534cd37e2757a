package sim

import (
	"container/heap"
	"log"
)

// An event pairs a Wakeable with the absolute cycle it should run at. The
// sequence number breaks timestamp ties in insertion order.
type event struct {
	target Wakeable
	time   Cycle
	seq    uint64
}

type eventHeap []*event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].time == h[j].time {
		return h[i].seq < h[j].seq
	}

	return h[i].time < h[j].time
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *eventHeap) Push(x interface{}) {
	*h = append(*h, x.(*event))
}

func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	evt := old[n-1]
	*h = old[0 : n-1]

	return evt
}

// EventQueue orders wakeups by the cycle they are scheduled for. Events with
// equal timestamps pop in insertion order, which keeps producer-to-consumer
// ordering within a cycle deterministic.
type EventQueue struct {
	events  eventHeap
	now     Cycle
	nextSeq uint64
}

// NewEventQueue creates an empty EventQueue at cycle 0.
func NewEventQueue() *EventQueue {
	q := &EventQueue{}
	q.events = make(eventHeap, 0, 64)
	heap.Init(&q.events)

	return q
}

// Schedule enqueues a wakeup for target at the current cycle plus delta.
func (q *EventQueue) Schedule(target Wakeable, delta Cycle) {
	evt := &event{
		target: target,
		time:   q.now + delta,
		seq:    q.nextSeq,
	}
	q.nextSeq++

	heap.Push(&q.events, evt)
}

// Pop removes the earliest event, advances the current time to its
// timestamp, and returns its target.
func (q *EventQueue) Pop() Wakeable {
	if len(q.events) == 0 {
		log.Panic("pop on an empty event queue")
	}

	evt := heap.Pop(&q.events).(*event)
	if evt.time < q.now {
		log.Panicf("event scheduled in the past: %d < now %d",
			evt.time, q.now)
	}
	q.now = evt.time

	return evt.target
}

// PeekTime returns the timestamp of the next event without popping it. It
// must not be called on an empty queue.
func (q *EventQueue) PeekTime() Cycle {
	return q.events[0].time
}

// Empty returns true when no events are pending.
func (q *EventQueue) Empty() bool {
	return len(q.events) == 0
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int {
	return len(q.events)
}

// CurrentTime returns the cycle the queue has advanced to.
func (q *EventQueue) CurrentTime() Cycle {
	return q.now
}

// AdvanceTo moves the clock forward to cycle t. The cycle driver calls this
// at the top of each cycle before waking components.
func (q *EventQueue) AdvanceTo(t Cycle) {
	if t < q.now {
		log.Panicf("cannot move the clock backward: %d < now %d", t, q.now)
	}

	q.now = t
}
