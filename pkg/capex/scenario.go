package capex

import (
	"fmt"
	"strings"
)

// Scenario selects the price multiplier applied to every catalog unit price.
type Scenario int

const (
	ScenarioBase Scenario = iota
	ScenarioOptimistic
	ScenarioPessimistic
)

// Scenarios lists every scenario in display order.
var Scenarios = []Scenario{ScenarioBase, ScenarioOptimistic, ScenarioPessimistic}

// Multiplier returns the price factor for the scenario.
func (s Scenario) Multiplier() float64 {
	switch s {
	case ScenarioOptimistic:
		return 0.9
	case ScenarioPessimistic:
		return 1.1
	default:
		return 1.0
	}
}

func (s Scenario) String() string {
	switch s {
	case ScenarioOptimistic:
		return "optimistic"
	case ScenarioPessimistic:
		return "pessimistic"
	default:
		return "base"
	}
}

// ParseScenario resolves a scenario name. An empty name selects the base scenario.
func ParseScenario(name string) (Scenario, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "base":
		return ScenarioBase, nil
	case "optimistic":
		return ScenarioOptimistic, nil
	case "pessimistic":
		return ScenarioPessimistic, nil
	default:
		return ScenarioBase, fmt.Errorf("unknown scenario %q, expected base, optimistic or pessimistic", name)
	}
}
