// Package topology instantiates routers, NIs, and links, wires them in
// dependency order, and owns them for the lifetime of the simulation.
package topology

import (
	"fmt"
	"strings"

	"github.com/sarchlab/nocsim/network"
	"github.com/sarchlab/nocsim/noc/endpoint"
	"github.com/sarchlab/nocsim/noc/links"
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/noc/routers"
	"github.com/sarchlab/nocsim/sim"
	"github.com/sarchlab/nocsim/traffic"
)

// A Topology owns every component of one network.
type Topology struct {
	net *network.Network

	routers    []*routers.Router
	routerByID map[int]*routers.Router
	nis        []*endpoint.NetworkInterface
	generators []*traffic.SyntheticGenerator

	flitLinks   []*links.NetworkLink
	creditLinks []*links.CreditLink
	nextLinkID  int
}

// Build constructs the named topology. "Mesh_XY" builds the mesh described
// by the network config; a path ending in .conf is parsed as a topology
// file. Anything else is a configuration error.
func Build(name string, net *network.Network) (*Topology, error) {
	t := &Topology{
		net:        net,
		routerByID: make(map[int]*routers.Router),
	}

	switch {
	case name == "Mesh_XY":
		t.buildMesh()
	case strings.HasSuffix(name, ".conf"):
		if err := t.buildFromFile(name); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown topology %q", name)
	}

	return t, nil
}

// Init initializes every router and, when the fault model is enabled,
// declares each router's configuration to it.
func (t *Topology) Init() error {
	for _, r := range t.routers {
		r.Init()
	}

	fm := t.net.FaultModel()
	if fm == nil {
		return nil
	}

	cfg := t.net.Config()
	for _, r := range t.routers {
		id, err := fm.DeclareRouter(
			r.NumInports(), r.NumOutports(), cfg.NumVCs(),
			cfg.BuffersPerDataVC, cfg.BuffersPerCtrlVC)
		if err != nil {
			return fmt.Errorf("router %d: %w", r.ID(), err)
		}
		r.SetFaultID(id)
	}

	return nil
}

// RegisterWith hands the NIs and routers to the cycle driver.
func (t *Topology) RegisterWith(d *network.Driver) {
	for _, ni := range t.nis {
		d.AddNI(ni)
	}
	for _, r := range t.routers {
		d.AddRouter(r)
	}
}

// Config returns the network parameters the topology was built with.
func (t *Topology) Config() network.Config { return t.net.Config() }

// Routers returns the topology's routers.
func (t *Topology) Routers() []*routers.Router { return t.routers }

// NIs returns the topology's network interfaces.
func (t *Topology) NIs() []*endpoint.NetworkInterface { return t.nis }

// Generators returns the traffic generators, one per NI.
func (t *Topology) Generators() []*traffic.SyntheticGenerator {
	return t.generators
}

// FlitLinks returns every flit-carrying link.
func (t *Topology) FlitLinks() []*links.NetworkLink { return t.flitLinks }

func (t *Topology) newFlitLink(latency sim.Cycle) *links.NetworkLink {
	l := links.NewNetworkLink(t.nextLinkID, latency,
		t.net.Config().VNets, t.net.EventQueue())
	t.nextLinkID++
	t.flitLinks = append(t.flitLinks, l)

	return l
}

func (t *Topology) newCreditLink() *links.CreditLink {
	l := links.NewCreditLink(t.nextLinkID, t.net.Config().VNets,
		t.net.EventQueue())
	t.nextLinkID++
	t.creditLinks = append(t.creditLinks, l)

	return l
}

func (t *Topology) emptyRoutingEntry() []messaging.NetDest {
	return make([]messaging.NetDest, t.net.Config().VNets)
}

// addRouter creates a router at the given mesh coordinates.
func (t *Topology) addRouter(id, x, y, z int) {
	cfg := t.net.Config()

	r := routers.NewRouter(routers.Params{
		ID: id, X: x, Y: y, Z: z,
		Latency: cfg.RouterLatency,
		Network: t.net,
	})
	t.routers = append(t.routers, r)
	t.routerByID[id] = r
}

// addNI creates a network interface and its traffic generator.
func (t *Topology) addNI(id, numNIs int) *endpoint.NetworkInterface {
	ni := endpoint.NewNetworkInterface(endpoint.Params{
		ID: id, Network: t.net,
	})
	t.nis = append(t.nis, ni)

	g := traffic.NewSyntheticGenerator(id, numNIs, 0, t.net)
	t.generators = append(t.generators, g)
	ni.SetGenerator(g)

	return ni
}

// connectNIToRouter builds the NI-router link pair in both directions.
func (t *Topology) connectNIToRouter(
	ni *endpoint.NetworkInterface, r *routers.Router,
) {
	cfg := t.net.Config()

	toRouter := t.newFlitLink(1)
	toRouterCredit := t.newCreditLink()
	ni.AddOutPort(toRouter, toRouterCredit, r.ID())
	r.AddInPort(routers.Local, toRouter, toRouterCredit)

	toNI := t.newFlitLink(1)
	toNICredit := t.newCreditLink()
	r.AddOutPort(routers.Local, toNI, t.emptyRoutingEntry(), 1,
		toNICredit, cfg.VCsPerVNet)
	ni.AddInPort(toNI, toNICredit)

	t.net.RegisterNI(ni.ID(), r.ID())
}

// connectRouters builds one directed router-to-router link with its credit
// return path.
func (t *Topology) connectRouters(
	src, dst *routers.Router,
	latency sim.Cycle,
	weight int,
	srcDir, dstDir routers.Direction,
) {
	cfg := t.net.Config()

	link := t.newFlitLink(latency)
	credit := t.newCreditLink()

	src.AddOutPort(srcDir, link, t.emptyRoutingEntry(), weight,
		credit, cfg.VCsPerVNet)
	dst.AddInPort(dstDir, link, credit)
}
