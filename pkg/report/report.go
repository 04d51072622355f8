// Package report assembles a computed result into the tables and chart series
// shown to the analyst and written to exports. It performs no computation of
// its own beyond currency conversion for display.
package report

import (
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/capex-viability/internal/viability"
	"github.com/iwvelando/capex-viability/pkg/constants"
	"github.com/iwvelando/capex-viability/pkg/cto"
	"github.com/iwvelando/capex-viability/pkg/currency"
	"github.com/iwvelando/capex-viability/pkg/datetime"
	"github.com/iwvelando/capex-viability/pkg/finance"
)

// Table names, also used as sheet names in the workbook.
const (
	TableSummary   = "Summary"
	TableBreakdown = "CTO_Breakdown"
	TableCatalog   = "CAPEX_Kit"
	TableSeries    = "Series"
)

// Kind tells renderers how to present a summary value.
type Kind string

const (
	KindMoney    Kind = "money"
	KindPercent  Kind = "percent"
	KindRate     Kind = "rate"
	// KindFineRate is a small rate, such as a monthly one, that needs more decimals.
	KindFineRate Kind = "fineRate"
	KindMonths   Kind = "months"
)

// SummaryRow is one named indicator in base and display currency.
type SummaryRow struct {
	Indicator string            `json:"indicator"`
	Kind      Kind              `json:"kind"`
	Base      finance.NullFloat `json:"base"`
	Display   finance.NullFloat `json:"display"`
}

// BreakdownRow is one itemized CTO category, in base currency.
type BreakdownRow struct {
	Category string  `json:"category"`
	PerHub   float64 `json:"perHub"`
	Total    float64 `json:"total"`
}

// CatalogRow is one priced kit line.
type CatalogRow struct {
	ID           string  `json:"id"`
	Description  string  `json:"description"`
	QtyPerHub    float64 `json:"qtyPerHub"`
	Price        float64 `json:"price"` // display currency
	PriceBase    float64 `json:"priceBase"`
	Overridden   bool    `json:"overridden"`
	PerHubBase   float64 `json:"perHubBase"`
	TotalBase    float64 `json:"totalBase"`
	TotalDisplay float64 `json:"totalDisplay"`
}

// SeriesRow is one month of the CTO comparison, in base currency.
type SeriesRow struct {
	Month    int     `json:"month"`
	Label    string  `json:"label"`
	Baseline float64 `json:"baseline"`
	New      float64 `json:"new"`
	Addition float64 `json:"addition"`
}

// CumulativeRow is one month of the cumulative cost chart, in base currency.
type CumulativeRow struct {
	Month   int     `json:"month"`
	Upfront float64 `json:"upfront"`
	Diluted float64 `json:"diluted"`
}

// Conclusion is the executive verdict on the impact.
type Conclusion struct {
	Tier       string `json:"tier,omitempty"`
	Applicable bool   `json:"applicable"`
	Headline   string `json:"headline"`
	Detail     string `json:"detail"`
}

// Report is everything a presentation layer needs.
type Report struct {
	Currency     currency.Currency `json:"currency"`
	ExchangeRate float64           `json:"exchangeRate"`
	Scenario     string            `json:"scenario"`
	TotalHubs    int               `json:"totalHubs"`
	TotalArea    float64           `json:"totalArea"`
	Summary      []SummaryRow      `json:"summary"`
	Breakdown    []BreakdownRow    `json:"breakdown"`
	Catalog      []CatalogRow      `json:"catalog"`
	Series       []SeriesRow       `json:"series"`
	Cumulative   []CumulativeRow   `json:"cumulative"`
	Conclusion   Conclusion        `json:"conclusion"`
	Warnings     []string          `json:"warnings,omitempty"`
	GeneratedAt  time.Time         `json:"generatedAt"`
}

// Build assembles the report for res, stamped with generatedAt.
func Build(res viability.Result, generatedAt time.Time) Report {
	conv := res.Input.Converter
	rep := Report{
		Currency:     conv.Display,
		ExchangeRate: conv.Rate,
		Scenario:     res.Input.Scenario.String(),
		TotalHubs:    res.TotalHubs,
		TotalArea:    res.TotalArea,
		Conclusion:   conclude(res),
		Warnings:     append([]string(nil), res.Warnings...),
		GeneratedAt:  generatedAt,
	}

	money := func(name string, v float64) SummaryRow {
		return SummaryRow{Indicator: name, Kind: KindMoney, Base: finance.Defined(v), Display: finance.Defined(conv.FromBase(v))}
	}
	plain := func(name string, kind Kind, v finance.NullFloat) SummaryRow {
		return SummaryRow{Indicator: name, Kind: kind, Base: v, Display: v}
	}

	d := res.Dilution
	m := res.Metrics
	rep.Summary = []SummaryRow{
		money("Baseline monthly CTO", d.BaselineCTO),
		money("Itemized CTO per hub", res.ItemizedPerHub),
		money("Itemized CTO total", res.ItemizedTotal),
		money("CAPEX equipment", res.Catalog.EquipmentTotal),
		money("CAPEX installation", res.InstallationTotal),
		money("Total project CAPEX", res.CapexTotal),
		money("Diluted CAPEX per month", d.MonthlyAddition),
		money("New monthly CTO", d.NewCTO),
		plain("CTO impact", KindPercent, d.ImpactPercent),
		plain("Horizon", KindMonths, finance.Defined(float64(d.HorizonMonths))),
		plain("Annual discount rate", KindRate, finance.Defined(m.AnnualDiscountRate)),
		plain("Monthly discount rate", KindFineRate, finance.Defined(m.MonthlyDiscountRate)),
		money("Project NPV (no savings)", m.NPV),
		plain("Real IRR (annual)", KindRate, m.AnnualIRR),
		plain("Payback (dilutive)", KindMonths, finance.Defined(float64(m.PaybackMonths))),
	}

	for _, c := range cto.Categories() {
		perHub := res.Input.EnteredBreakdown[c]
		rep.Breakdown = append(rep.Breakdown, BreakdownRow{
			Category: c.String(),
			PerHub:   perHub,
			Total:    perHub * float64(res.TotalHubs),
		})
	}

	for _, item := range res.Catalog.Items {
		rep.Catalog = append(rep.Catalog, CatalogRow{
			ID:           item.ID,
			Description:  item.Description,
			QtyPerHub:    item.QtyPerHub,
			Price:        conv.FromBase(item.Price),
			PriceBase:    item.Price,
			Overridden:   item.Overridden,
			PerHubBase:   item.PerHub,
			TotalBase:    item.Total,
			TotalDisplay: conv.FromBase(item.Total),
		})
	}

	baseline, withProject := d.CTOSeries()
	for month := range baseline {
		rep.Series = append(rep.Series, SeriesRow{
			Month:    month,
			Label:    datetime.MonthLabel(month),
			Baseline: baseline[month],
			New:      withProject[month],
			Addition: withProject[month] - baseline[month],
		})
	}

	upfront, diluted := d.CumulativeSeries()
	for month := range upfront {
		rep.Cumulative = append(rep.Cumulative, CumulativeRow{Month: month, Upfront: upfront[month], Diluted: diluted[month]})
	}

	return rep
}

func conclude(res viability.Result) Conclusion {
	impact := res.Dilution.ImpactPercent
	if !res.Classified {
		return Conclusion{
			Applicable: false,
			Headline:   "Baseline CTO is zero or missing. Impact share could not be computed.",
		}
	}

	c := Conclusion{
		Tier:       res.Tier.String(),
		Applicable: true,
		Headline:   res.Tier.Recommendation(),
	}
	switch res.Tier {
	case finance.TierLow:
		c.Detail = fmt.Sprintf("The project adds ~%.2f%% to the monthly CTO. The impact is easily absorbed by the operation; "+
			"economic viability is high for security and compliance goals.", impact.Float64)
	case finance.TierModerate:
		c.Detail = fmt.Sprintf("The project raises the CTO by ~%.2f%%. Viable if indirect gains (security, access control, risk) "+
			"are considered a priority.", impact.Float64)
	default:
		c.Detail = fmt.Sprintf("The project adds ~%.2f%% to the monthly CTO. Significant impact; review scope, prices, "+
			"installation or phase the rollout.", impact.Float64)
	}
	return c
}

// Table is a renderer-neutral view of one export table. Cells hold string,
// int, float64 or nil for an undefined value.
type Table struct {
	Name   string
	Header []string
	Rows   [][]interface{}
}

// Tables returns the four export tables in order.
func (r Report) Tables() []Table {
	cur := string(r.Currency)

	summary := Table{Name: TableSummary, Header: []string{"Indicator", "Value (base " + string(currency.Base) + ")", "Value (" + cur + ")", "Currency"}}
	for _, row := range r.Summary {
		summary.Rows = append(summary.Rows, []interface{}{row.Indicator, summaryCell(row.Kind, row.Base), summaryCell(row.Kind, row.Display), cur})
	}

	breakdown := Table{Name: TableBreakdown, Header: []string{"Category", "Per hub (base)", "Total (base)"}}
	for _, row := range r.Breakdown {
		breakdown.Rows = append(breakdown.Rows, []interface{}{row.Category, row.PerHub, row.Total})
	}

	catalog := Table{Name: TableCatalog, Header: []string{"Item", "Description", "Qty per hub", "Price (" + cur + ")", "Price (base)", "Per hub (base)", "Total (base)"}}
	for _, row := range r.Catalog {
		catalog.Rows = append(catalog.Rows, []interface{}{row.ID, row.Description, row.QtyPerHub, row.Price, row.PriceBase, row.PerHubBase, row.TotalBase})
	}

	series := Table{Name: TableSeries, Header: []string{"Month", "Baseline CTO (base)", "New CTO (base)", "Addition (base)"}}
	for _, row := range r.Series {
		series.Rows = append(series.Rows, []interface{}{row.Month, row.Baseline, row.New, row.Addition})
	}

	return []Table{summary, breakdown, catalog, series}
}

// summaryCell returns nil for an undefined value and whole months as int.
func summaryCell(kind Kind, v finance.NullFloat) interface{} {
	if !v.Valid {
		return nil
	}
	if kind == KindMonths {
		return int(math.Round(v.Float64))
	}
	return v.Float64
}

// Filename returns the export file name for the display currency and time,
// e.g. capex_viability_usd_20261019_1430.xlsx.
func Filename(cur currency.Currency, at time.Time, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s", constants.ExportFilePrefix, cur.Lower(), datetime.ExportStamp(at), ext)
}
