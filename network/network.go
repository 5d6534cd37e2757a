package network

import (
	"fmt"
	"log"

	"github.com/sarchlab/nocsim/faultmodel"
	"github.com/sarchlab/nocsim/sim"
)

// Network is the hub every component holds a reference to. It owns the event
// queue and the identity mappings, but no component structures; those belong
// to the topology that built them.
type Network struct {
	cfg        Config
	eventQueue *sim.EventQueue

	niToRouter   map[int]int
	nextPacketID int

	faultModel *faultmodel.FaultModel

	debug bool
}

// New creates a network hub with the given parameters.
func New(cfg Config) *Network {
	if err := cfg.Validate(); err != nil {
		log.Panicf("invalid network config: %v", err)
	}

	return &Network{
		cfg:        cfg,
		eventQueue: sim.NewEventQueue(),
		niToRouter: make(map[int]int),
	}
}

// Config returns the network parameters.
func (n *Network) Config() Config { return n.cfg }

// EventQueue returns the event queue that drives the network.
func (n *Network) EventQueue() *sim.EventQueue { return n.eventQueue }

// Now returns the current simulation cycle.
func (n *Network) Now() sim.Cycle { return n.eventQueue.CurrentTime() }

// RegisterNI records which router an NI is attached to.
func (n *Network) RegisterNI(niID, routerID int) {
	n.niToRouter[niID] = routerID
}

// RouterIDForNI returns the router an NI is attached to.
func (n *Network) RouterIDForNI(niID int) int {
	routerID, ok := n.niToRouter[niID]
	if !ok {
		log.Panicf("NI %d is not attached to any router", niID)
	}

	return routerID
}

// NumNIs returns the number of registered NIs.
func (n *Network) NumNIs() int { return len(n.niToRouter) }

// NextPacketID hands out network-unique packet identifiers.
func (n *Network) NextPacketID() int {
	id := n.nextPacketID
	n.nextPacketID++

	return id
}

// EnableFaultModel attaches the compiled-in fault tables to the network.
func (n *Network) EnableFaultModel() {
	n.faultModel = faultmodel.New()
}

// FaultModel returns the attached fault model, or nil.
func (n *Network) FaultModel() *faultmodel.FaultModel { return n.faultModel }

// SetDebug switches per-cycle debug printing on or off.
func (n *Network) SetDebug(on bool) { n.debug = on }

// Debug reports whether per-cycle debug printing is on.
func (n *Network) Debug() bool { return n.debug }

// Logf prints a debug line when debug printing is on.
func (n *Network) Logf(format string, args ...interface{}) {
	if n.debug {
		fmt.Printf(format+"\n", args...)
	}
}
