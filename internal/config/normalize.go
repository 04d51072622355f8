package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iwvelando/capex-viability/internal/viability"
	"github.com/iwvelando/capex-viability/pkg/capex"
	"github.com/iwvelando/capex-viability/pkg/constants"
	"github.com/iwvelando/capex-viability/pkg/cto"
	"github.com/iwvelando/capex-viability/pkg/currency"
	"github.com/iwvelando/capex-viability/pkg/mathutil"
	"github.com/iwvelando/capex-viability/pkg/validation"
)

// Converter resolves the display currency and the rate in effect for it. USD
// always uses the fixed rate; BRL keeps the configured rate for reporting.
func (c *Configuration) Converter() (currency.Converter, []string, error) {
	cur, err := currency.Parse(c.Currency)
	if err != nil {
		return currency.Converter{}, nil, err
	}

	var warnings []string
	rate := c.ExchangeRate
	if cur == currency.USD {
		if rate != 0 && !mathutil.WithinTolerance(rate, constants.DefaultExchangeRate, constants.FloatTolerance) {
			warnings = append(warnings, fmt.Sprintf("exchange rate %g ignored, USD uses the fixed rate %g", rate, constants.DefaultExchangeRate))
		}
		rate = constants.DefaultExchangeRate
	} else if rate < constants.MinEditableExchangeRate {
		return currency.Converter{}, nil, fmt.Errorf("%w: got %v, minimum is %v", currency.ErrInvalidRate, rate, constants.MinEditableExchangeRate)
	}

	conv, err := currency.NewConverter(cur, rate)
	return conv, warnings, err
}

// ToInput validates the configuration and converts every entered amount into
// the base currency exactly once. It returns the computation input and any
// soft warnings.
func (c *Configuration) ToInput() (viability.Input, []string, error) {
	conv, warnings, err := c.Converter()
	if err != nil {
		return viability.Input{}, nil, err
	}

	if err := c.validateBounds(); err != nil {
		return viability.Input{}, nil, err
	}

	scenario, err := capex.ParseScenario(c.Scenario)
	if err != nil {
		return viability.Input{}, nil, err
	}

	breakdown, err := c.breakdown(conv)
	if err != nil {
		return viability.Input{}, nil, err
	}

	var baseline cto.Baseline
	if c.CTO.Itemized {
		baseline = cto.Itemized{PerHub: breakdown}
	} else {
		baseline = cto.Consolidated{Total: conv.ToBase(c.CTO.Consolidated)}
	}

	catalog, err := c.catalog(conv)
	if err != nil {
		return viability.Input{}, nil, err
	}

	in := viability.Input{
		Converter:          conv,
		HorizonMonths:      c.HorizonMonths,
		AnnualDiscountRate: mathutil.PercentToDecimal(c.AnnualDiscountRate),
		Scenario:           scenario,
		Hubs: capex.Hubs{
			LM:      c.Hubs.LM,
			FM:      c.Hubs.FM,
			AvgArea: c.Hubs.AvgArea,
		},
		Baseline:         baseline,
		EnteredBreakdown: breakdown,
		Catalog:          catalog,
		Installation: capex.InstallationRates{
			Cabling:        conv.ToBase(c.Installation.Cabling),
			Infrastructure: conv.ToBase(c.Installation.Infrastructure),
			Labor:          conv.ToBase(c.Installation.Labor),
		},
	}

	return in, append(warnings, c.ValidateConfiguration()...), nil
}

func (c *Configuration) validateBounds() error {
	var v validation.Validator
	v.Check(validation.ValidateHorizon(c.HorizonMonths))
	v.Range("annualDiscountRate", c.AnnualDiscountRate, 0, constants.MaxAnnualDiscountPercent)
	v.Check(validation.ValidateHubCount("hubs.lm", c.Hubs.LM))
	v.Check(validation.ValidateHubCount("hubs.fm", c.Hubs.FM))
	v.Range("hubs.avgArea", c.Hubs.AvgArea, 0, constants.MaxAvgAreaPerHub)
	v.Range("cto.consolidated", c.CTO.Consolidated, 0, constants.MaxConsolidatedCTO)
	for _, name := range sortedKeys(c.CTO.Breakdown) {
		v.Range("cto.breakdown."+name, c.CTO.Breakdown[name], 0, constants.MaxItemizedCostPerHub)
	}
	v.Range("installation.cabling", c.Installation.Cabling, 0, constants.MaxInstallationRate)
	v.Range("installation.infrastructure", c.Installation.Infrastructure, 0, constants.MaxInstallationRate)
	v.Range("installation.labor", c.Installation.Labor, 0, constants.MaxInstallationRate)
	for i, item := range c.Catalog {
		if item.QtyPerHub != nil && *item.QtyPerHub < 0 {
			v.Check(fmt.Errorf("%w: catalog[%d].qtyPerHub must not be negative", validation.ErrOutOfRange, i))
		}
		if item.Price != nil && *item.Price < 0 {
			v.Check(fmt.Errorf("%w: catalog[%d].price must not be negative", validation.ErrOutOfRange, i))
		}
	}
	return v.Err()
}

func (c *Configuration) breakdown(conv currency.Converter) (cto.Breakdown, error) {
	var b cto.Breakdown
	for _, name := range sortedKeys(c.CTO.Breakdown) {
		category, err := cto.ParseCategory(name)
		if err != nil {
			return cto.Breakdown{}, err
		}
		b[category] = conv.ToBase(c.CTO.Breakdown[name])
	}
	return b, nil
}

func (c *Configuration) catalog(conv currency.Converter) ([]capex.LineItem, error) {
	defaults := make(map[string]capex.LineItem)
	for _, item := range capex.DefaultCatalog() {
		defaults[item.ID] = item
	}

	items := make([]capex.LineItem, 0, len(c.Catalog))
	for i, entry := range c.Catalog {
		id := strings.TrimSpace(entry.ID)
		if id == "" {
			return nil, fmt.Errorf("catalog[%d]: id is required", i)
		}

		item, known := defaults[id]
		if !known {
			if entry.Price == nil {
				return nil, fmt.Errorf("catalog[%d]: item %s is not in the default catalog and has no price", i, id)
			}
			item = capex.LineItem{ID: id}
		}
		if entry.Description != "" {
			item.Description = entry.Description
		}
		if entry.QtyPerHub != nil {
			item.QtyPerHub = *entry.QtyPerHub
		}
		if entry.Price != nil {
			price := conv.ToBase(*entry.Price)
			item.AdjustedPrice = &price
			if !known {
				item.UnitPrice = price
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if !c.CTO.Itemized && len(c.CTO.Breakdown) > 0 {
		warnings = append(warnings, "itemized CTO values are reported but the consolidated total is used as the baseline")
	}
	if c.CTO.Itemized && c.CTO.Consolidated != 0 {
		warnings = append(warnings, "consolidated CTO is ignored while itemized mode is enabled")
	}
	if c.Hubs.AvgArea == 0 {
		warnings = append(warnings, "average hub area is zero, installation cost will be zero")
	}
	if len(c.Catalog) == 0 {
		warnings = append(warnings, "catalog is empty, equipment cost will be zero")
	}

	seen := make(map[string]bool)
	for _, item := range c.Catalog {
		if seen[item.ID] {
			warnings = append(warnings, fmt.Sprintf("catalog item %s is listed more than once", item.ID))
		}
		seen[item.ID] = true
	}

	return warnings
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
