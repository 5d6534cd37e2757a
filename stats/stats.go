// Package stats aggregates the traffic and link counters of a finished
// simulation into a printable report.
package stats

import (
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/sarchlab/nocsim/sim"
	"github.com/sarchlab/nocsim/topology"
)

// VNetStats holds the delivery counters of one virtual network.
type VNetStats struct {
	Received   uint64
	AvgLatency float64
}

// A Report is the aggregated outcome of one simulation run.
type Report struct {
	Cycles          uint64
	PacketsInjected uint64
	PacketsReceived uint64

	AvgNetworkLatency float64
	LatencyStdDev     float64
	LatencyP99        float64
	AvgHops           float64

	PerVNet []VNetStats

	AvgLinkUtilization float64 // fraction of cycles each link carried a flit
	InjectionStalls    uint64

	latencySamples []float64
}

// Collect walks the topology's generators, NIs, and links and builds the
// report for a run of the given length.
func Collect(t *topology.Topology, cycles sim.Cycle) Report {
	r := Report{Cycles: uint64(cycles)}

	var totalLatency, totalHops uint64

	for _, g := range t.Generators() {
		r.PacketsInjected += g.InjectedPackets()
		r.PacketsReceived += g.ReceivedPackets()
		totalLatency += g.TotalLatency()
		totalHops += g.TotalHops()
		r.latencySamples = append(r.latencySamples, g.LatencySamples()...)
	}

	vnets := t.Config().VNets
	r.PerVNet = make([]VNetStats, vnets)
	for vnet := 0; vnet < vnets; vnet++ {
		var received, latency uint64
		for _, g := range t.Generators() {
			received += g.ReceivedOnVNet(vnet)
			latency += g.LatencyOnVNet(vnet)
		}

		r.PerVNet[vnet].Received = received
		if received > 0 {
			r.PerVNet[vnet].AvgLatency =
				float64(latency) / float64(received)
		}
	}

	for _, ni := range t.NIs() {
		for vnet := 0; vnet < vnets; vnet++ {
			r.InjectionStalls += ni.StallCount(vnet)
		}
	}

	if r.PacketsReceived > 0 {
		r.AvgNetworkLatency =
			float64(totalLatency) / float64(r.PacketsReceived)
		r.AvgHops = float64(totalHops) / float64(r.PacketsReceived)
	}

	if len(r.latencySamples) > 0 {
		sort.Float64s(r.latencySamples)
		r.LatencyStdDev = stat.StdDev(r.latencySamples, nil)
		r.LatencyP99 = stat.Quantile(0.99, stat.Empirical,
			r.latencySamples, nil)
	}

	if numLinks := len(t.FlitLinks()); numLinks > 0 && cycles > 0 {
		var utilized uint64
		for _, link := range t.FlitLinks() {
			utilized += link.Utilization()
		}

		r.AvgLinkUtilization = float64(utilized) /
			float64(numLinks) / float64(cycles)
	}

	return r
}

// Print writes the report in the simulator's stdout format.
func (r Report) Print(w io.Writer) {
	fmt.Fprintln(w, "\nSimulation Statistics:")
	fmt.Fprintf(w, "  - Total Cycles: %d\n", r.Cycles)
	fmt.Fprintf(w, "  - Packets Injected: %d\n", r.PacketsInjected)
	fmt.Fprintf(w, "  - Total Packets Received: %d\n", r.PacketsReceived)

	if r.PacketsReceived > 0 {
		fmt.Fprintf(w, "  - Average Network Latency: %g cycles\n",
			r.AvgNetworkLatency)
		fmt.Fprintf(w, "  - Latency StdDev: %.2f, P99: %g\n",
			r.LatencyStdDev, r.LatencyP99)
		fmt.Fprintf(w, "  - Average Hops: %.2f\n", r.AvgHops)

		for vnet, vs := range r.PerVNet {
			if vs.Received > 0 {
				fmt.Fprintf(w, "    - VNet %d: Rx=%d, Lat=%g\n",
					vnet, vs.Received, vs.AvgLatency)
			}
		}
	}

	fmt.Fprintf(w, "  - Average Link Utilization: %.2f %%\n",
		r.AvgLinkUtilization*100)
	fmt.Fprintf(w, "  - Injection Stalls: %d\n", r.InjectionStalls)
}
