// Package viability chains the cost engines into one stateless computation:
// an immutable input snapshot goes in and an immutable result comes out.
package viability

import (
	"fmt"

	"github.com/iwvelando/capex-viability/pkg/capex"
	"github.com/iwvelando/capex-viability/pkg/cto"
	"github.com/iwvelando/capex-viability/pkg/currency"
	"github.com/iwvelando/capex-viability/pkg/finance"
	"go.uber.org/zap"
)

// Input is a normalized snapshot of everything the analyst entered. All
// amounts are already in the base currency.
type Input struct {
	Converter          currency.Converter
	HorizonMonths      int
	AnnualDiscountRate float64 // fraction, 0.12 for 12 %
	Scenario           capex.Scenario
	Hubs               capex.Hubs
	Baseline           cto.Baseline
	// EnteredBreakdown is the itemized form as filled in. It is reported in
	// both modes but only feeds the baseline through an Itemized Baseline.
	EnteredBreakdown cto.Breakdown
	Catalog          []capex.LineItem
	Installation     capex.InstallationRates
}

// Result holds every derived value, in base currency.
type Result struct {
	Input             Input
	TotalHubs         int
	TotalArea         float64
	Catalog           capex.CatalogResult
	InstallationTotal float64
	CapexTotal        float64
	ItemizedPerHub    float64
	ItemizedTotal     float64
	Baseline          cto.Aggregation
	Dilution          finance.Dilution
	Tier              finance.Tier
	Classified        bool
	Metrics           finance.Metrics
	Warnings          []string
}

// Compute runs the full chain for one input snapshot. Zero hubs, a
// non-positive exchange rate and a horizon under one month stop the
// computation; a zero baseline and a degenerate cash flow do not.
func Compute(logger *zap.Logger, in Input) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := in.Hubs.Validate(); err != nil {
		return Result{}, err
	}
	if !(in.Converter.Rate > 0) {
		return Result{}, fmt.Errorf("%w: got %v", currency.ErrInvalidRate, in.Converter.Rate)
	}

	totalHubs := in.Hubs.Total()
	res := Result{
		Input:     in,
		TotalHubs: totalHubs,
		TotalArea: in.Hubs.TotalArea(),
	}

	res.Catalog = capex.PriceCatalog(in.Catalog, in.Scenario, totalHubs)
	res.InstallationTotal = capex.InstallationTotal(in.Installation, in.Hubs.AvgArea, totalHubs)
	res.CapexTotal = res.Catalog.EquipmentTotal + res.InstallationTotal

	res.ItemizedPerHub = in.EnteredBreakdown.PerHub()
	res.ItemizedTotal = res.ItemizedPerHub * float64(totalHubs)
	res.Baseline = cto.Aggregate(in.Baseline, totalHubs)
	for _, w := range res.Baseline.Warnings {
		res.Warnings = append(res.Warnings, string(w))
	}

	dilution, err := finance.Dilute(res.CapexTotal, res.Baseline.Total, in.HorizonMonths)
	if err != nil {
		return Result{}, err
	}
	res.Dilution = dilution
	res.Tier, res.Classified = finance.Classify(dilution.ImpactPercent)
	if !res.Classified {
		res.Warnings = append(res.Warnings, "baseline CTO is zero or missing, impact is not applicable")
	}

	res.Metrics = finance.ComputeMetrics(res.CapexTotal, in.HorizonMonths, in.AnnualDiscountRate)

	logger.Debug("viability computed",
		zap.String("op", "viability.Compute"),
		zap.String("scenario", in.Scenario.String()),
		zap.Int("hubs", totalHubs),
		zap.Float64("capexTotal", res.CapexTotal),
		zap.Float64("baselineCTO", res.Baseline.Total),
		zap.Int("horizonMonths", in.HorizonMonths),
		zap.Bool("impactDefined", res.Classified),
	)

	return res, nil
}
