// Package network holds the network-wide parameters and registries shared by
// routers, links, and network interfaces, plus the cycle driver.
package network

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/nocsim/sim"
)

// Routing algorithm selectors.
const (
	RoutingTable = 0
	RoutingXY    = 1
)

// Virtual network classes. Control VNets carry single-flit control traffic
// and get shallower buffers.
const (
	VNetData = "data"
	VNetCtrl = "ctrl"
)

// Config carries the parameters every component of one network shares.
type Config struct {
	Rows  int `yaml:"rows"`
	Cols  int `yaml:"cols"`
	Depth int `yaml:"depth"`

	VNets            int      `yaml:"vnets"`
	VCsPerVNet       int      `yaml:"vcs_per_vnet"`
	BuffersPerDataVC int      `yaml:"buffers_per_data_vc"`
	BuffersPerCtrlVC int      `yaml:"buffers_per_ctrl_vc"`
	VNetTypes        []string `yaml:"vnet_types"`

	NIFlitSize       uint32    `yaml:"ni_flit_size"`
	RouterLatency    sim.Cycle `yaml:"router_latency"`
	RoutingAlgorithm int       `yaml:"routing_algorithm"`
}

// DefaultConfig returns the parameters the simulator uses when no config
// file is given.
func DefaultConfig() Config {
	return Config{
		Rows:             2,
		Cols:             2,
		Depth:            1,
		VNets:            2,
		VCsPerVNet:       4,
		BuffersPerDataVC: 4,
		BuffersPerCtrlVC: 1,
		VNetTypes:        []string{VNetData, VNetData},
		NIFlitSize:       16,
		RouterLatency:    1,
		RoutingAlgorithm: RoutingXY,
	}
}

// LoadFile overlays parameters from a YAML file onto the config.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	return nil
}

// Validate rejects parameter combinations the simulator cannot run.
func (c Config) Validate() error {
	switch {
	case c.Rows < 1 || c.Cols < 1 || c.Depth < 1:
		return fmt.Errorf("mesh shape %dx%dx%d is not positive",
			c.Rows, c.Cols, c.Depth)
	case c.VNets < 1:
		return fmt.Errorf("at least one virtual network is required")
	case c.VCsPerVNet < 1:
		return fmt.Errorf("at least one VC per virtual network is required")
	case c.BuffersPerDataVC < 1 || c.BuffersPerCtrlVC < 1:
		return fmt.Errorf("VC buffer depth must be positive")
	case c.RouterLatency < 1:
		return fmt.Errorf("router pipeline depth must be at least 1")
	case c.RoutingAlgorithm != RoutingTable &&
		c.RoutingAlgorithm != RoutingXY:
		return fmt.Errorf("unknown routing algorithm %d", c.RoutingAlgorithm)
	}

	for i, t := range c.VNetTypes {
		if t != VNetData && t != VNetCtrl {
			return fmt.Errorf("vnet %d has unknown type %q", i, t)
		}
	}

	return nil
}

// NumVCs returns the total VC count per input port.
func (c Config) NumVCs() int {
	return c.VNets * c.VCsPerVNet
}

// BuffersPerVC returns the buffer depth of one VC of the given virtual
// network. VNets without a declared type count as data VNets.
func (c Config) BuffersPerVC(vnet int) int {
	if vnet < len(c.VNetTypes) && c.VNetTypes[vnet] == VNetCtrl {
		return c.BuffersPerCtrlVC
	}

	return c.BuffersPerDataVC
}
