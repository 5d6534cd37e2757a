// Package faultmodel holds compiled-in fault probability tables for router
// configurations and exposes temperature-weighted per-router lookups.
package faultmodel

import (
	"fmt"
	"io"
	"log"
)

// FaultType enumerates the fault classes the tables cover.
type FaultType int

// The fault types.
const (
	DataCorruptionFewBits FaultType = iota
	DataCorruptionAllBits
	FlitConservationDuplication
	FlitConservationLossOrSplit
	Misrouting
	CreditConservationGeneration
	CreditConservationLoss
	ErroneousAllocationVC
	ErroneousAllocationSwitch
	UnfairArbitration

	NumFaultTypes
)

func (t FaultType) String() string {
	switch t {
	case DataCorruptionFewBits:
		return "data_corruption__few_bits"
	case DataCorruptionAllBits:
		return "data_corruption__all_bits"
	case FlitConservationDuplication:
		return "flit_conservation__flit_duplication"
	case FlitConservationLossOrSplit:
		return "flit_conservation__flit_loss_or_split"
	case Misrouting:
		return "misrouting"
	case CreditConservationGeneration:
		return "credit_conservation__credit_generation"
	case CreditConservationLoss:
		return "credit_conservation__credit_loss"
	case ErroneousAllocationVC:
		return "erroneous_allocation__VC"
	case ErroneousAllocationSwitch:
		return "erroneous_allocation__switch"
	case UnfairArbitration:
		return "unfair_arbitration"
	}

	return "none"
}

// Table bounds. Configurations outside them are not tabulated.
const (
	maxVCs          = 40
	maxBuffersPerVC = 5
)

// A systemConf is one tabulated router configuration: the per-fault-type
// probabilities for a router with the given total VC count and buffer depth.
type systemConf struct {
	vcs          int
	buffersPerVC int
	faultTypes   [NumFaultTypes]float64
}

// FaultModel resolves routers to tabulated configurations and answers
// temperature-weighted probability queries.
type FaultModel struct {
	configurations     []systemConf
	routers            []systemConf
	temperatureWeights []int
}

// New loads the compiled-in tables.
func New() *FaultModel {
	m := &FaultModel{}
	m.loadConfigurations()
	m.loadTemperatureWeights()

	return m
}

// Record layout of the configuration database: buffers/VC, total VCs, then
// one percentage per fault type. A negative leading field terminates it.
const fieldsPerConfRecord = 2 + int(NumFaultTypes)

func (m *FaultModel) loadConfigurations() {
	for i := 0; ; i += fieldsPerConfRecord {
		var conf systemConf
		conf.buffersPerVC = int(configurationDB[i])
		conf.vcs = int(configurationDB[i+1])
		for ft := 0; ft < int(NumFaultTypes); ft++ {
			conf.faultTypes[ft] = configurationDB[i+2+ft] / 100
		}
		m.configurations = append(m.configurations, conf)

		if configurationDB[i+fieldsPerConfRecord] < 0 {
			break
		}
	}
}

func (m *FaultModel) loadTemperatureWeights() {
	for i := 0; ; i += 2 {
		temperature := int(temperatureWeightsDB[i])
		weight := int(temperatureWeightsDB[i+1])

		for len(m.temperatureWeights) < temperature {
			m.temperatureWeights = append(m.temperatureWeights, 0)
		}
		m.temperatureWeights = append(m.temperatureWeights, weight)

		if temperatureWeightsDB[i+2] < 0 {
			break
		}
	}
}

// DeclareRouter registers a router with the model and returns its handle.
// The VC count is the total number of VCs per input port, i.e. virtual
// networks times VCs per virtual network.
func (m *FaultModel) DeclareRouter(
	numInputs, numOutputs, vcsPerInput, buffersPerDataVC, buffersPerCtrlVC int,
) (int, error) {
	if numInputs <= 0 || numOutputs <= 0 || vcsPerInput <= 0 ||
		buffersPerDataVC <= 0 || buffersPerCtrlVC <= 0 {
		return 0, fmt.Errorf("fault model: illegal router declaration")
	}

	buffersPerVC := buffersPerDataVC
	if buffersPerCtrlVC > buffersPerVC {
		buffersPerVC = buffersPerCtrlVC
	}

	totalVCs := numInputs * vcsPerInput
	if totalVCs > maxVCs {
		return 0, fmt.Errorf(
			"fault model: %d VCs exceed the tabulated maximum of %d",
			totalVCs, maxVCs)
	}
	if buffersPerVC > maxBuffersPerVC {
		return 0, fmt.Errorf(
			"fault model: %d buffers/VC exceed the tabulated maximum of %d",
			buffersPerVC, maxBuffersPerVC)
	}

	for _, conf := range m.configurations {
		if conf.buffersPerVC == buffersPerVC && conf.vcs == totalVCs {
			m.routers = append(m.routers, conf)
			return len(m.routers) - 1, nil
		}
	}

	return 0, fmt.Errorf(
		"fault model: no tabulated configuration for %d buffers/VC, %d VCs",
		buffersPerVC, totalVCs)
}

func (m *FaultModel) clampTemperature(temperature int) (int, bool) {
	switch {
	case temperature < 0:
		return 0, false
	case temperature >= len(m.temperatureWeights):
		return len(m.temperatureWeights) - 1, false
	}

	return temperature, true
}

// FaultVector returns the per-fault-type probabilities of the router at the
// given temperature. Out-of-range temperatures saturate to the nearest bound
// and make the second return value false.
func (m *FaultModel) FaultVector(
	routerID, temperature int,
) ([NumFaultTypes]float64, bool) {
	if routerID < 0 || routerID >= len(m.routers) {
		log.Panicf("fault model: unknown router id %d", routerID)
	}

	temperature, ok := m.clampTemperature(temperature)
	weight := float64(m.temperatureWeights[temperature])

	var vector [NumFaultTypes]float64
	for i := range vector {
		vector[i] = m.routers[routerID].faultTypes[i] * weight
	}

	return vector, ok
}

// FaultProb returns the probability that at least one fault type strikes the
// router at the given temperature.
func (m *FaultModel) FaultProb(routerID, temperature int) (float64, bool) {
	vector, ok := m.FaultVector(routerID, temperature)

	prob := 1.0
	for _, v := range vector {
		prob *= 1.0 - v
	}

	return 1.0 - prob, ok
}

// PrintTables dumps the loaded configuration and temperature tables.
func (m *FaultModel) PrintTables(w io.Writer) {
	fmt.Fprintln(w, "--- fault model configurations ---")
	for i, conf := range m.configurations {
		fmt.Fprintf(w, "(%d) VCs=%d Buff/VC=%d [", i, conf.vcs,
			conf.buffersPerVC)
		for _, p := range conf.faultTypes {
			fmt.Fprintf(w, "%.2f%% ", p*100)
		}
		fmt.Fprintln(w, "]")
	}

	fmt.Fprintln(w, "--- fault model temperature weights ---")
	for t, weight := range m.temperatureWeights {
		fmt.Fprintf(w, "temperature=%d => weight=%d\n", t, weight)
	}
}
