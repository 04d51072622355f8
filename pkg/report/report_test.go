package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/capex-viability/internal/viability"
	"github.com/iwvelando/capex-viability/pkg/currency"
	"github.com/iwvelando/capex-viability/pkg/report"
	"github.com/iwvelando/capex-viability/pkg/testutil"
)

var generatedAt = time.Date(2026, time.October, 19, 14, 30, 0, 0, time.UTC)

func buildReference(t *testing.T, mutate func(*viability.Input)) report.Report {
	t.Helper()
	in := testutil.ReferenceInput()
	if mutate != nil {
		mutate(&in)
	}
	res, err := viability.Compute(nil, in)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	return report.Build(res, generatedAt)
}

func summaryRow(t *testing.T, rep report.Report, indicator string) report.SummaryRow {
	t.Helper()
	for _, row := range rep.Summary {
		if row.Indicator == indicator {
			return row
		}
	}
	t.Fatalf("summary row %q not found", indicator)
	return report.SummaryRow{}
}

func TestBuildSummary(t *testing.T) {
	rep := buildReference(t, nil)

	if rep.Currency != currency.BRL || rep.TotalHubs != 1 || rep.Scenario != "base" {
		t.Errorf("header = %s / %d / %s", rep.Currency, rep.TotalHubs, rep.Scenario)
	}

	baseline := summaryRow(t, rep, "Baseline monthly CTO")
	if !baseline.Base.Valid || baseline.Base.Float64 != 80000 {
		t.Errorf("baseline row = %+v", baseline)
	}
	if baseline.Display != baseline.Base {
		t.Errorf("BRL display should equal base, got %+v", baseline)
	}

	impact := summaryRow(t, rep, "CTO impact")
	if impact.Kind != report.KindPercent || !impact.Base.Valid {
		t.Errorf("impact row = %+v", impact)
	}

	irr := summaryRow(t, rep, "Real IRR (annual)")
	if irr.Base.Valid {
		t.Errorf("IRR should be undefined, got %+v", irr)
	}

	payback := summaryRow(t, rep, "Payback (dilutive)")
	if payback.Base.Float64 != 36 {
		t.Errorf("payback = %v, expected 36", payback.Base.Float64)
	}
}

func TestBuildConvertsDisplayColumn(t *testing.T) {
	rep := buildReference(t, func(in *viability.Input) {
		in.Converter = currency.Converter{Display: currency.USD, Rate: 5}
	})

	capexRow := summaryRow(t, rep, "Total project CAPEX")
	if capexRow.Display.Float64 != capexRow.Base.Float64/5 {
		t.Errorf("display = %v, expected base / 5 = %v", capexRow.Display.Float64, capexRow.Base.Float64/5)
	}

	for _, row := range rep.Catalog {
		if row.Price != row.PriceBase/5 {
			t.Errorf("%s price = %v, expected %v", row.ID, row.Price, row.PriceBase/5)
		}
	}
}

func TestBuildSeries(t *testing.T) {
	rep := buildReference(t, nil)

	if len(rep.Series) != 37 {
		t.Fatalf("series length = %d, expected 37", len(rep.Series))
	}
	first := rep.Series[0]
	if first.Month != 0 || first.Label != "M0" || first.Addition != 0 || first.New != first.Baseline {
		t.Errorf("month 0 = %+v, expected no addition", first)
	}
	last := rep.Series[36]
	if last.New <= last.Baseline || last.Label != "M36" {
		t.Errorf("month 36 = %+v, expected the diluted CTO above baseline", last)
	}

	if len(rep.Cumulative) != 37 {
		t.Fatalf("cumulative length = %d", len(rep.Cumulative))
	}
	end := rep.Cumulative[36]
	if diff := end.Diluted - end.Upfront; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("cumulative diluted at the horizon = %v, expected the CAPEX %v", end.Diluted, end.Upfront)
	}
}

func TestBuildBreakdownListsEveryCategory(t *testing.T) {
	rep := buildReference(t, nil)

	if len(rep.Breakdown) != 14 {
		t.Fatalf("breakdown rows = %d, expected 14", len(rep.Breakdown))
	}
	var total float64
	for _, row := range rep.Breakdown {
		total += row.PerHub
	}
	if total != 80000 {
		t.Errorf("breakdown per hub sums to %v, expected 80000", total)
	}
}

func TestConclusion(t *testing.T) {
	rep := buildReference(t, nil)
	if !rep.Conclusion.Applicable || rep.Conclusion.Tier != "moderate" {
		t.Errorf("conclusion = %+v, expected moderate", rep.Conclusion)
	}
	if !strings.Contains(rep.Conclusion.Detail, "4.27%") {
		t.Errorf("detail = %q, expected the impact share", rep.Conclusion.Detail)
	}

	res, err := viability.Compute(nil, testutil.ConsolidatedZeroInput())
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	na := report.Build(res, generatedAt)
	if na.Conclusion.Applicable || na.Conclusion.Tier != "" {
		t.Errorf("conclusion = %+v, expected not applicable", na.Conclusion)
	}
	if len(na.Warnings) != 2 {
		t.Errorf("warnings = %v", na.Warnings)
	}
}

func TestMonthlyDiscountRateUsesFineKind(t *testing.T) {
	row := summaryRow(t, buildReference(t, nil), "Monthly discount rate")
	if row.Kind != report.KindFineRate {
		t.Errorf("Kind = %s, expected %s", row.Kind, report.KindFineRate)
	}
}

func TestTables(t *testing.T) {
	rep := buildReference(t, nil)
	tables := rep.Tables()

	names := []string{report.TableSummary, report.TableBreakdown, report.TableCatalog, report.TableSeries}
	if len(tables) != len(names) {
		t.Fatalf("got %d tables, expected %d", len(tables), len(names))
	}
	for i, table := range tables {
		if table.Name != names[i] {
			t.Errorf("table %d = %s, expected %s", i, table.Name, names[i])
		}
		for j, row := range table.Rows {
			if len(row) != len(table.Header) {
				t.Errorf("%s row %d has %d cells, header has %d", table.Name, j, len(row), len(table.Header))
			}
		}
	}

	for _, row := range tables[0].Rows {
		switch row[0] {
		case "Real IRR (annual)":
			if row[1] != nil || row[2] != nil {
				t.Errorf("undefined IRR should render as nil cells, got %v", row)
			}
		case "Horizon", "Payback (dilutive)":
			if row[1] != 36 || row[2] != 36 {
				t.Errorf("%s should hold whole months as int, got %#v", row[0], row)
			}
		}
	}
	if len(tables[2].Rows) != 4 || len(tables[3].Rows) != 37 {
		t.Errorf("catalog rows = %d, series rows = %d", len(tables[2].Rows), len(tables[3].Rows))
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		cur      currency.Currency
		ext      string
		expected string
	}{
		{currency.USD, "xlsx", "capex_viability_usd_20261019_1430.xlsx"},
		{currency.BRL, "csv", "capex_viability_brl_20261019_1430.csv"},
	}
	for _, tt := range tests {
		if got := report.Filename(tt.cur, generatedAt, tt.ext); got != tt.expected {
			t.Errorf("Filename() = %s, expected %s", got, tt.expected)
		}
	}
}
