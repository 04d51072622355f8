// Package cto computes the monthly operating cost baseline the project is
// measured against.
package cto

import (
	"fmt"
	"strings"

	"github.com/iwvelando/capex-viability/pkg/mathutil"
)

// Category is one of the fixed itemized cost fields.
type Category int

const (
	Cleaning Category = iota
	Condo
	CondoUtilities
	Engagement
	HSE
	Insurance
	IPTU
	Maintenance
	Regulatory
	Rental
	Security
	Services
	Toilets
	Utilities

	categoryCount
)

var categoryNames = [categoryCount]string{
	"cleaning", "condo", "condo_utilities", "engagement", "hse", "insurance",
	"iptu", "maintenance", "regulatory", "rental", "security", "services", "toilets", "utilities",
}

// Categories lists every category in display order.
func Categories() []Category {
	out := make([]Category, categoryCount)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

func (c Category) String() string {
	if c < 0 || c >= categoryCount {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory resolves a category by its field name.
func ParseCategory(name string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range categoryNames {
		if n == key {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown CTO category %q", name)
}

// Breakdown holds the average monthly cost per hub of every category, in base currency.
type Breakdown [categoryCount]float64

// PerHub returns the sum of all categories for one hub.
func (b Breakdown) PerHub() float64 {
	return mathutil.Sum(b[:])
}

// Baseline is the source of the current CTO. It is either Itemized or Consolidated.
type Baseline interface {
	baseline()
}

// Itemized derives the baseline from per-hub category averages.
type Itemized struct {
	PerHub Breakdown
}

// Consolidated is a company-wide monthly total, already covering every hub.
type Consolidated struct {
	Total float64
}

func (Itemized) baseline()     {}
func (Consolidated) baseline() {}

// Warning is a non-blocking condition found while aggregating.
type Warning string

// WarnConsolidatedZero flags a consolidated baseline left at zero.
const WarnConsolidatedZero Warning = "consolidated CTO selected but its value is zero"

// Aggregation is the resolved monthly baseline.
type Aggregation struct {
	Total    float64
	Warnings []Warning
}

// Aggregate resolves the baseline for the given number of hubs. A nil baseline
// is treated as an empty itemized breakdown.
func Aggregate(b Baseline, totalHubs int) Aggregation {
	switch v := b.(type) {
	case Itemized:
		return Aggregation{Total: v.PerHub.PerHub() * float64(totalHubs)}
	case Consolidated:
		agg := Aggregation{Total: v.Total}
		if v.Total == 0 {
			agg.Warnings = append(agg.Warnings, WarnConsolidatedZero)
		}
		return agg
	default:
		return Aggregation{}
	}
}
