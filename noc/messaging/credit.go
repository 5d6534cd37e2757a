package messaging

import "github.com/sarchlab/nocsim/sim"

// A Credit flows opposite to flits and grants one buffer slot back to the
// upstream sender. FreeSignal additionally releases the whole VC, which
// happens when the tail flit has left the downstream buffer.
type Credit struct {
	VC         int
	FreeSignal bool

	time sim.Cycle
}

// NewCredit creates a credit for a VC at the given cycle.
func NewCredit(vc int, freeSignal bool, now sim.Cycle) *Credit {
	return &Credit{VC: vc, FreeSignal: freeSignal, time: now}
}

// Time returns the cycle from which the credit is visible to its holder.
func (c *Credit) Time() sim.Cycle { return c.time }

// SetTime stamps the cycle from which the credit is visible to its holder.
func (c *Credit) SetTime(t sim.Cycle) { c.time = t }

// VCID returns the virtual channel the credit refers to.
func (c *Credit) VCID() int { return c.VC }

// Seq returns 0; credits have no intra-packet order.
func (c *Credit) Seq() int { return 0 }
