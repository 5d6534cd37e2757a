package endpoint

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"

	"github.com/sarchlab/nocsim/network"
	"github.com/sarchlab/nocsim/noc/links"
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
)

type stubConsumer struct{}

func (stubConsumer) Wakeup()                 {}
func (stubConsumer) ScheduleEvent(sim.Cycle) {}

var _ = Describe("NetworkInterface", func() {
	var (
		mockCtrl *gomock.Controller
		net      *network.Network
		ni       *NetworkInterface
		gen      *MockGenerator

		outLink      *links.NetworkLink
		outCredit    *links.CreditLink
		outCreditSrc *messaging.CreditBuffer

		inLink    *links.NetworkLink
		inLinkSrc *messaging.FlitBuffer
		inCredit  *links.CreditLink
	)

	newFlit := func(packetID, index, size, vnet int) *messaging.Flit {
		route := messaging.RouteInfo{
			SrcNI: 0, DestNI: 1, SrcRouter: 0, DestRouter: 1,
			VNet: vnet, Hops: -1,
		}
		route.Dest.Add(1)

		return messaging.NewFlit(packetID, index, 0, vnet, route, size, 16,
			net.Now())
	}

	cycle := func(t sim.Cycle) {
		eq := net.EventQueue()
		eq.AdvanceTo(t)
		ni.Wakeup()
		for !eq.Empty() && eq.PeekTime() <= t {
			eq.Pop().Wakeup()
		}
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())

		net = network.New(network.DefaultConfig())
		net.RegisterNI(0, 0)
		net.RegisterNI(1, 1)

		ni = NewNetworkInterface(Params{ID: 0, Network: net})
		gen = NewMockGenerator(mockCtrl)
		ni.SetGenerator(gen)

		outLink = links.NewNetworkLink(0, 1, 2, net.EventQueue())
		outLink.SetConsumer(stubConsumer{})
		outCredit = links.NewCreditLink(1, 2, net.EventQueue())
		outCreditSrc = messaging.NewCreditBuffer()
		outCredit.SetSourceQueue(outCreditSrc)
		ni.AddOutPort(outLink, outCredit, 0)

		inLink = links.NewNetworkLink(2, 1, 2, net.EventQueue())
		inLinkSrc = messaging.NewFlitBuffer()
		inLink.SetSourceQueue(inLinkSrc)
		inCredit = links.NewCreditLink(3, 2, net.EventQueue())
		inCredit.SetConsumer(stubConsumer{})
		ni.AddInPort(inLink, inCredit)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should inject a flit and serve it to the output link", func() {
		f := newFlit(0, 0, 1, 0)
		gomock.InOrder(
			gen.EXPECT().SendFlit().Return(f),
			gen.EXPECT().SendFlit().Return(nil),
		)

		cycle(0)
		cycle(1)

		// The flit was handed to the output link and crossed it.
		Expect(outLink.Utilization()).To(Equal(uint64(1)))
		Expect(f.VC).To(BeNumerically(">=", 0))
	})

	It("should keep a packet's flits on one VC", func() {
		head := newFlit(0, 0, 3, 1)
		body := newFlit(0, 1, 3, 1)
		tail := newFlit(0, 2, 3, 1)

		gomock.InOrder(
			gen.EXPECT().SendFlit().Return(head),
			gen.EXPECT().SendFlit().Return(body),
			gen.EXPECT().SendFlit().Return(tail),
		)

		cycle(0)
		cycle(1)
		cycle(2)

		Expect(body.VC).To(Equal(head.VC))
		Expect(tail.VC).To(Equal(head.VC))
	})

	It("should stall and requeue when every VC of the vnet is taken", func() {
		// Four single-flit packets claim the four VCs of vnet 0. No credit
		// ever frees them, so the fifth head has nowhere to go.
		sends := []any{}
		for p := 0; p < 4; p++ {
			f := newFlit(p, 0, 1, 0)
			sends = append(sends, gen.EXPECT().SendFlit().Return(f))
		}
		fifth := newFlit(4, 0, 1, 0)
		sends = append(sends, gen.EXPECT().SendFlit().Return(fifth))
		gomock.InOrder(sends...)

		gen.EXPECT().RequeueFlit(fifth)

		for t := sim.Cycle(0); t < 5; t++ {
			cycle(t)
		}

		Expect(ni.StallCount(0)).To(Equal(uint64(1)))
	})

	It("should reuse a VC freed by a free-signal credit", func() {
		sends := []any{}
		for p := 0; p < 4; p++ {
			f := newFlit(p, 0, 1, 0)
			sends = append(sends, gen.EXPECT().SendFlit().Return(f))
		}
		gomock.InOrder(sends...)

		for t := sim.Cycle(0); t < 4; t++ {
			cycle(t)
		}

		// The router frees VC 0 of vnet 0.
		outCreditSrc.Insert(messaging.NewCredit(0, true, net.Now()))
		outCredit.Wakeup()

		// The credit crosses the link during cycle 4; the next head then
		// injects cleanly.
		gen.EXPECT().SendFlit().Return(nil)
		cycle(4)

		sixth := newFlit(5, 0, 1, 0)
		gen.EXPECT().SendFlit().Return(sixth)
		cycle(5)

		Expect(sixth.VC).To(Equal(0))
		Expect(ni.StallCount(0)).To(Equal(uint64(0)))
	})

	It("should eject a delivered flit and credit the router", func() {
		delivered := newFlit(9, 0, 1, 0)
		delivered.VC = 2
		delivered.SetTime(0)
		inLinkSrc.Insert(delivered)
		inLink.Wakeup()

		gen.EXPECT().SendFlit().Return(nil).Times(2)
		gen.EXPECT().ReceiveFlit(delivered)

		cycle(1)
		cycle(2)

		// The ejection credit crossed the NI-to-router credit link.
		Expect(inCredit.Utilization()).To(Equal(uint64(1)))
	})
})
