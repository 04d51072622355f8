package finance

import (
	"math"

	"github.com/iwvelando/capex-viability/pkg/constants"
)

const (
	irrLowerStart    = -0.99
	irrLowerLimit    = 1e-12 // closest approach to -1
	irrUpperStart    = 1.0
	irrUpperLimit    = 1e6
	irrTolerance     = 1e-12
	irrMaxIterations = 500
)

// Metrics are the investment indicators of the dilution-only cash flow.
type Metrics struct {
	AnnualDiscountRate  float64
	MonthlyDiscountRate float64
	CashFlows           []float64
	NPV                 float64
	MonthlyIRR          NullFloat
	AnnualIRR           NullFloat
	PaybackMonths       int
}

// MonthlyRate converts an annual rate (0.12 for 12 %) into the equivalent
// compounded monthly rate.
func MonthlyRate(annual float64) float64 {
	return math.Pow(1+annual, 1.0/constants.MonthsPerYear) - 1
}

// AnnualizeMonthly compounds a monthly rate over a year.
func AnnualizeMonthly(monthly float64) float64 {
	return math.Pow(1+monthly, constants.MonthsPerYear) - 1
}

// CashFlows returns the project cash flow for months 0..horizon: the CAPEX
// leaves at month 0 and nothing comes back afterwards.
func CashFlows(capexTotal float64, horizonMonths int) []float64 {
	if horizonMonths < 0 {
		horizonMonths = 0
	}
	flows := make([]float64, horizonMonths+1)
	flows[0] = -capexTotal
	return flows
}

// NPV discounts every flow to month 0.
func NPV(rate float64, flows []float64) float64 {
	total := 0.0
	discount := 1.0
	for t, cf := range flows {
		if t > 0 {
			discount /= 1 + rate
		}
		total += cf * discount
	}
	return total
}

// HasSignChange reports whether flows hold at least one strictly positive and
// one strictly negative value, the precondition for an IRR.
func HasSignChange(flows []float64) bool {
	var pos, neg bool
	for _, cf := range flows {
		if cf > 0 {
			pos = true
		} else if cf < 0 {
			neg = true
		}
	}
	return pos && neg
}

// IRR returns the periodic rate at which the NPV of flows is zero. It is
// undefined when the flows never change sign or when no root can be bracketed.
func IRR(flows []float64) NullFloat {
	if !HasSignChange(flows) {
		return Undefined()
	}

	lo, hi := irrLowerStart, irrUpperStart
	fLo := NPV(lo, flows)
	fHi := NPV(hi, flows)
	for sameSign(fLo, fHi) && hi < irrUpperLimit {
		hi *= 10
		fHi = NPV(hi, flows)
	}
	// Roots close to -1 need the lower end pushed toward it.
	for sameSign(fLo, fHi) && lo+1 > irrLowerLimit {
		next := -1 + (lo+1)/10
		fNext := NPV(next, flows)
		if math.IsNaN(fNext) {
			break
		}
		lo, fLo = next, fNext
	}
	if fLo == 0 {
		return Defined(lo)
	}
	if fHi == 0 {
		return Defined(hi)
	}
	if sameSign(fLo, fHi) {
		return Undefined()
	}

	for i := 0; i < irrMaxIterations; i++ {
		mid := lo + (hi-lo)/2
		fMid := NPV(mid, flows)
		if fMid == 0 || (hi-lo)/2 < irrTolerance {
			return Defined(mid)
		}
		if sameSign(fMid, fLo) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}
	return Defined(lo + (hi-lo)/2)
}

func sameSign(a, b float64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}

// ComputeMetrics evaluates the cash flow implied by the dilution model.
// annualRate is a fraction (0.12 for 12 %). Without savings there is no
// break-even to search for, so the payback is the dilution horizon itself.
func ComputeMetrics(capexTotal float64, horizonMonths int, annualRate float64) Metrics {
	monthly := MonthlyRate(annualRate)
	flows := CashFlows(capexTotal, horizonMonths)
	irr := IRR(flows)

	return Metrics{
		AnnualDiscountRate:  annualRate,
		MonthlyDiscountRate: monthly,
		CashFlows:           flows,
		NPV:                 NPV(monthly, flows),
		MonthlyIRR:          irr,
		AnnualIRR:           irr.Map(AnnualizeMonthly),
		PaybackMonths:       horizonMonths,
	}
}
