package messaging

import (
	"container/heap"

	"github.com/sarchlab/nocsim/sim"
)

// Timed is implemented by anything a Buffer can hold: flits and credits.
type Timed interface {
	Time() sim.Cycle
	SetTime(sim.Cycle)
	VCID() int
	Seq() int
}

type bufferEntry[T Timed] struct {
	item T
	seq  uint64
}

type bufferHeap[T Timed] []bufferEntry[T]

func (h bufferHeap[T]) Len() int { return len(h) }

func (h bufferHeap[T]) Less(i, j int) bool {
	if h[i].item.Time() != h[j].item.Time() {
		return h[i].item.Time() < h[j].item.Time()
	}
	if h[i].item.Seq() != h[j].item.Seq() {
		return h[i].item.Seq() < h[j].item.Seq()
	}

	return h[i].seq < h[j].seq
}

func (h bufferHeap[T]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *bufferHeap[T]) Push(x interface{}) {
	*h = append(*h, x.(bufferEntry[T]))
}

func (h *bufferHeap[T]) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[0 : n-1]

	return e
}

// A Buffer is a time-ordered queue of flits or credits. Items are ordered by
// (ready cycle, intra-packet index, insertion order), so a later-stamped item
// can never overtake an earlier one even if inserted out of order. Every
// queue in the fabric, from VC buffers to link pipes, is one of these.
type Buffer[T Timed] struct {
	items   bufferHeap[T]
	nextSeq uint64
}

// NewBuffer creates an empty buffer.
func NewBuffer[T Timed]() *Buffer[T] {
	b := &Buffer[T]{}
	heap.Init(&b.items)

	return b
}

// Insert adds an item, ordered by its ready cycle.
func (b *Buffer[T]) Insert(item T) {
	heap.Push(&b.items, bufferEntry[T]{item: item, seq: b.nextSeq})
	b.nextSeq++
}

// Peek returns the earliest item without removing it. It must not be called
// on an empty buffer.
func (b *Buffer[T]) Peek() T {
	return b.items[0].item
}

// Pop removes and returns the earliest item. It must not be called on an
// empty buffer.
func (b *Buffer[T]) Pop() T {
	return heap.Pop(&b.items).(bufferEntry[T]).item
}

// IsReady reports whether the earliest item is visible at the given cycle.
func (b *Buffer[T]) IsReady(now sim.Cycle) bool {
	return len(b.items) > 0 && b.items[0].item.Time() <= now
}

// Empty reports whether the buffer holds nothing.
func (b *Buffer[T]) Empty() bool {
	return len(b.items) == 0
}

// Size returns the number of buffered items.
func (b *Buffer[T]) Size() int {
	return len(b.items)
}

// FlitBuffer and CreditBuffer are the two instantiations the fabric uses.
type (
	FlitBuffer   = Buffer[*Flit]
	CreditBuffer = Buffer[*Credit]
)

// NewFlitBuffer creates an empty flit buffer.
func NewFlitBuffer() *FlitBuffer { return NewBuffer[*Flit]() }

// NewCreditBuffer creates an empty credit buffer.
func NewCreditBuffer() *CreditBuffer { return NewBuffer[*Credit]() }
