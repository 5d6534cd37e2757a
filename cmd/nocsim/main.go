// Command nocsim runs a cycle-accurate simulation of a virtual-channel
// wormhole-routed network-on-chip.
package main

import (
	"fmt"
	"os"

	"github.com/iti/rngstream"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/nocsim/datarecording"
	"github.com/sarchlab/nocsim/monitoring"
	"github.com/sarchlab/nocsim/network"
	"github.com/sarchlab/nocsim/sim"
	"github.com/sarchlab/nocsim/stats"
	"github.com/sarchlab/nocsim/topology"
	"github.com/sarchlab/nocsim/traffic"
)

type options struct {
	topology    string
	rows        int
	cols        int
	depth       int
	cycles      uint64
	rate        float64
	packetSize  int
	routing     int
	testMode    bool
	debug       bool
	tracePacket bool
	faultModel  bool
	seed        int
	configFile  string
	traceDB     string
	monitorPort int
}

// packetRecord is one row of the packet trace database.
type packetRecord struct {
	PacketID    int
	SrcNI       int
	DestNI      int
	VNet        int
	InjectCycle uint64
	EjectCycle  uint64
	Latency     uint64
	Hops        int
}

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "nocsim",
		Short: "Cycle-accurate simulator for virtual-channel NoCs",
		Long: `nocsim simulates a wormhole-routed, credit-flow-controlled ` +
			`network-on-chip cycle by cycle and reports latency, hop, and ` +
			`link utilization statistics.`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.topology, "topology", "Mesh_XY",
		"topology name or .conf file path")
	flags.IntVar(&opts.rows, "rows", 2, "mesh rows")
	flags.IntVar(&opts.cols, "cols", 2, "mesh columns")
	flags.IntVar(&opts.depth, "depth", 1, "mesh layers")
	flags.Uint64Var(&opts.cycles, "cycles", 1000, "cycles to simulate")
	flags.Float64Var(&opts.rate, "rate", 0.01,
		"packets per NI per cycle (0..1)")
	flags.IntVar(&opts.packetSize, "packet-size", 1, "packet size in flits")
	flags.IntVar(&opts.routing, "routing", network.RoutingXY,
		"routing algorithm (0 table, 1 XY)")
	flags.BoolVar(&opts.testMode, "test-mode", false,
		"deterministic single-packet test, NI 0 to last NI")
	flags.BoolVar(&opts.debug, "debug", false, "per-cycle debug output")
	flags.BoolVar(&opts.tracePacket, "trace-packet", false,
		"trace generated packets")
	flags.BoolVar(&opts.faultModel, "fault-model", false,
		"enable the fault model")
	flags.IntVar(&opts.seed, "seed", 42, "traffic RNG seed")
	flags.StringVar(&opts.configFile, "config", "",
		"YAML network parameter file")
	flags.StringVar(&opts.traceDB, "trace-db", "",
		"record per-packet traces to this SQLite database")
	flags.IntVar(&opts.monitorPort, "monitor", 0,
		"serve monitoring HTTP on this port (0 disables)")

	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func run(opts *options) error {
	// A .env file may carry defaults, e.g. NOCSIM_TRACE_DB.
	_ = godotenv.Load()
	if opts.traceDB == "" {
		opts.traceDB = os.Getenv("NOCSIM_TRACE_DB")
	}

	cfg := network.DefaultConfig()
	if opts.configFile != "" {
		if err := cfg.LoadFile(opts.configFile); err != nil {
			return err
		}
	}

	cfg.Rows = opts.rows
	cfg.Cols = opts.cols
	cfg.Depth = opts.depth
	cfg.RoutingAlgorithm = opts.routing

	if err := cfg.Validate(); err != nil {
		return err
	}

	rngstream.SetRngStreamMasterSeed(uint64(opts.seed))

	net := network.New(cfg)
	net.SetDebug(opts.debug)
	if opts.faultModel {
		net.EnableFaultModel()
	}

	topo, err := topology.Build(opts.topology, net)
	if err != nil {
		return err
	}

	var recorder datarecording.DataRecorder
	if opts.traceDB != "" {
		recorder = datarecording.New(opts.traceDB)
		recorder.CreateTable("packets", packetRecord{})
	}

	for _, g := range topo.Generators() {
		g.SetPacketSize(opts.packetSize)
		g.SetTracePackets(opts.tracePacket)
		if opts.testMode {
			g.SetTestMode(true)
		} else {
			g.SetRate(opts.rate)
		}

		if recorder != nil {
			g.SetDeliveryListener(func(d traffic.Delivery) {
				recorder.InsertData("packets", packetRecord{
					PacketID:    d.PacketID,
					SrcNI:       d.SrcNI,
					DestNI:      d.DestNI,
					VNet:        d.VNet,
					InjectCycle: uint64(d.InjectCycle),
					EjectCycle:  uint64(d.EjectCycle),
					Latency:     uint64(d.Latency),
					Hops:        d.Hops,
				})
			})
		}
	}

	if err := topo.Init(); err != nil {
		return err
	}

	driver := network.NewDriver(net)
	topo.RegisterWith(driver)

	if opts.monitorPort != 0 {
		monitor := monitoring.NewMonitor().WithPortNumber(opts.monitorPort)
		monitor.RegisterDriver(driver)
		monitor.RegisterStats(&statsSnapshotter{topo: topo, driver: driver})
		monitor.StartServer()
	}

	driver.Run(sim.Cycle(opts.cycles))

	if opts.faultModel {
		for _, r := range topo.Routers() {
			r.PrintFaultVector(os.Stdout)
			r.PrintAggregateFaultProbability(os.Stdout)
		}
	}

	report := stats.Collect(topo, sim.Cycle(opts.cycles))
	report.Print(os.Stdout)

	if recorder != nil {
		recorder.Flush()
	}

	fmt.Println("Simulation finished.")

	return nil
}

// statsSnapshotter gives the monitor a point-in-time view of the counters.
type statsSnapshotter struct {
	topo   *topology.Topology
	driver *network.Driver
}

func (s *statsSnapshotter) Snapshot() any {
	return stats.Collect(s.topo, s.driver.CurrentCycle())
}
