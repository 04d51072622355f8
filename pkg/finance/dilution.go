// Package finance holds the dilution model and the investment metrics derived
// from it.
package finance

import (
	"errors"
	"fmt"

	"github.com/iwvelando/capex-viability/pkg/constants"
)

// ErrInvalidHorizon is returned when the dilution horizon is shorter than one month.
var ErrInvalidHorizon = errors.New("dilution horizon must be at least one month")

// Dilution spreads the CAPEX evenly over the horizon on top of the baseline CTO.
type Dilution struct {
	CapexTotal      float64
	BaselineCTO     float64
	HorizonMonths   int
	MonthlyAddition float64
	NewCTO          float64
	// ImpactPercent is undefined when the baseline is zero.
	ImpactPercent NullFloat
}

// Dilute computes the monthly addition, the new CTO and the impact ratio.
func Dilute(capexTotal, baselineCTO float64, horizonMonths int) (Dilution, error) {
	if horizonMonths < 1 {
		return Dilution{}, fmt.Errorf("%w: got %d", ErrInvalidHorizon, horizonMonths)
	}

	monthly := capexTotal / float64(horizonMonths)
	d := Dilution{
		CapexTotal:      capexTotal,
		BaselineCTO:     baselineCTO,
		HorizonMonths:   horizonMonths,
		MonthlyAddition: monthly,
		NewCTO:          baselineCTO + monthly,
	}
	if baselineCTO > 0 {
		d.ImpactPercent = Defined(monthly / baselineCTO * constants.PercentageMultiplier)
	}
	return d, nil
}

// CTOSeries returns the baseline and the diluted CTO for months 0..horizon.
// Month 0 carries no addition; each later month carries the monthly addition.
func (d Dilution) CTOSeries() (baseline, withProject []float64) {
	n := d.HorizonMonths + 1
	baseline = make([]float64, n)
	withProject = make([]float64, n)
	for t := 0; t < n; t++ {
		baseline[t] = d.BaselineCTO
		withProject[t] = d.BaselineCTO
		if t > 0 {
			withProject[t] += d.MonthlyAddition
		}
	}
	return baseline, withProject
}

// CumulativeSeries returns, for months 0..horizon, the CAPEX as spent upfront
// and the running total of the diluted monthly additions.
func (d Dilution) CumulativeSeries() (upfront, diluted []float64) {
	n := d.HorizonMonths + 1
	upfront = make([]float64, n)
	diluted = make([]float64, n)
	for t := 0; t < n; t++ {
		upfront[t] = d.CapexTotal
		diluted[t] = d.MonthlyAddition * float64(t)
	}
	return upfront, diluted
}

// Tier classifies how strongly the project weighs on the CTO.
type Tier int

const (
	// TierLow is below 3 %: recommended.
	TierLow Tier = iota
	// TierModerate is from 3 % up to 10 %: recommended with operational justification.
	TierModerate
	// TierHigh is 10 % and above: requires strong justification or optimization.
	TierHigh
)

func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierModerate:
		return "moderate"
	default:
		return "high"
	}
}

// Recommendation returns the headline verdict for the tier.
func (t Tier) Recommendation() string {
	switch t {
	case TierLow:
		return "Low financial impact on CTO. Project recommended."
	case TierModerate:
		return "Moderate impact on CTO. Recommended with operational justification."
	default:
		return "High impact on CTO. Project requires strong justification and/or optimization."
	}
}

// Classify returns the tier of a defined impact. The second result is false
// when the impact is undefined, in which case no tier applies.
func Classify(impactPercent NullFloat) (Tier, bool) {
	if !impactPercent.Valid {
		return 0, false
	}
	switch p := impactPercent.Float64; {
	case p < constants.LowImpactCeiling:
		return TierLow, true
	case p < constants.ModerateImpactCeiling:
		return TierModerate, true
	default:
		return TierHigh, true
	}
}
