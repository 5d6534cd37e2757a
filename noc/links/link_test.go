package links

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
)

type fakeConsumer struct {
	eq        *sim.EventQueue
	scheduled []sim.Cycle
	woken     int
}

func (c *fakeConsumer) Wakeup() { c.woken++ }

func (c *fakeConsumer) ScheduleEvent(delta sim.Cycle) {
	c.scheduled = append(c.scheduled, c.eq.CurrentTime()+delta)
}

func newTestFlit(t sim.Cycle) *messaging.Flit {
	return messaging.NewFlit(0, 0, 1, 0, messaging.RouteInfo{}, 1, 16, t)
}

func TestLinkDelaysByLatency(t *testing.T) {
	eq := sim.NewEventQueue()
	src := messaging.NewFlitBuffer()
	consumer := &fakeConsumer{eq: eq}

	link := NewNetworkLink(0, 3, 2, eq)
	link.SetSourceQueue(src)
	link.SetConsumer(consumer)
	link.SetVCsPerVNet(4)

	src.Insert(newTestFlit(0))
	link.Wakeup()

	assert.Equal(t, []sim.Cycle{3}, consumer.scheduled)
	assert.False(t, link.IsReady(2))

	eq.AdvanceTo(3)
	assert.True(t, link.IsReady(3))
	assert.Equal(t, sim.Cycle(3), link.Consume().Time())
}

func TestLinkMovesOneItemPerCycle(t *testing.T) {
	eq := sim.NewEventQueue()
	src := messaging.NewFlitBuffer()
	consumer := &fakeConsumer{eq: eq}

	link := NewNetworkLink(0, 1, 2, eq)
	link.SetSourceQueue(src)
	link.SetConsumer(consumer)
	link.SetVCsPerVNet(4)

	src.Insert(newTestFlit(0))
	src.Insert(newTestFlit(0))

	link.Wakeup()
	link.Wakeup() // duplicate wakeup in the same cycle

	assert.Equal(t, 1, len(consumer.scheduled))
	assert.Equal(t, uint64(1), link.Utilization())

	// The link rescheduled itself; the second flit crosses next cycle.
	assert.False(t, eq.Empty())
	eq.AdvanceTo(1)
	link.Wakeup()

	assert.Equal(t, uint64(2), link.Utilization())
}

func TestLinkCountsPerVCLoad(t *testing.T) {
	eq := sim.NewEventQueue()
	src := messaging.NewFlitBuffer()
	consumer := &fakeConsumer{eq: eq}

	link := NewNetworkLink(0, 1, 2, eq)
	link.SetSourceQueue(src)
	link.SetConsumer(consumer)
	link.SetVCsPerVNet(4)

	src.Insert(newTestFlit(0))
	link.Wakeup()

	assert.Equal(t, uint64(1), link.VCLoad()[1])
}

func TestCreditLinkCarriesCredits(t *testing.T) {
	eq := sim.NewEventQueue()
	src := messaging.NewCreditBuffer()
	consumer := &fakeConsumer{eq: eq}

	link := NewCreditLink(7, 2, eq)
	link.SetSourceQueue(src)
	link.SetConsumer(consumer)
	link.SetVCsPerVNet(4)

	src.Insert(messaging.NewCredit(2, true, 0))
	link.Wakeup()

	eq.AdvanceTo(1)
	assert.True(t, link.IsReady(1))

	credit := link.Consume()
	assert.Equal(t, 2, credit.VC)
	assert.True(t, credit.FreeSignal)
}
