// Package testutil provides common fixtures for testing.
package testutil

import (
	"github.com/iwvelando/capex-viability/internal/viability"
	"github.com/iwvelando/capex-viability/pkg/capex"
	"github.com/iwvelando/capex-viability/pkg/cto"
	"github.com/iwvelando/capex-viability/pkg/currency"
)

// ReferenceEquipmentTotal is the default kit priced for one hub at the base scenario.
const ReferenceEquipmentTotal = 2*8328.41 + 4*2859.35 + 4*501.24 + 1*5454.65

// ReferenceInstallationTotal is (12 + 8 + 5) per m2 over one 3500 m2 hub.
const ReferenceInstallationTotal = 25.0 * 3500

// ReferenceInput returns one FM hub of 3500 m2, the default kit at the base
// scenario, default installation rates and an itemized baseline of 80,000 BRL
// per hub per month, over 36 months at 12 % a year.
func ReferenceInput() viability.Input {
	var breakdown cto.Breakdown
	breakdown[cto.Rental] = 50000
	breakdown[cto.Security] = 15000
	breakdown[cto.Cleaning] = 9000
	breakdown[cto.Utilities] = 6000

	return viability.Input{
		Converter:          currency.DefaultConverter(),
		HorizonMonths:      36,
		AnnualDiscountRate: 0.12,
		Scenario:           capex.ScenarioBase,
		Hubs:               capex.Hubs{LM: 0, FM: 1, AvgArea: 3500},
		Baseline:           cto.Itemized{PerHub: breakdown},
		EnteredBreakdown:   breakdown,
		Catalog:            capex.DefaultCatalog(),
		Installation:       capex.InstallationRates{Cabling: 12, Infrastructure: 8, Labor: 5},
	}
}

// ConsolidatedZeroInput returns the reference input with a consolidated baseline left at zero.
func ConsolidatedZeroInput() viability.Input {
	in := ReferenceInput()
	in.Baseline = cto.Consolidated{Total: 0}
	in.EnteredBreakdown = cto.Breakdown{}
	return in
}
