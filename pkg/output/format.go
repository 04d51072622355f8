// Package output provides utilities for formatting and displaying viability results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/capex-viability/pkg/currency"
	"github.com/iwvelando/capex-viability/pkg/format"
	"github.com/iwvelando/capex-viability/pkg/report"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, rep report.Report) {
	p := message.NewPrinter(language.English)
	cur := rep.Currency

	fmt.Fprintf(w, "--- CAPEX viability (%s, scenario %s) ---\n", cur, rep.Scenario)
	_, _ = p.Fprintf(w, "Hubs: %d | Total area: %.0f m2", rep.TotalHubs, rep.TotalArea)
	if cur != currency.Base {
		_, _ = p.Fprintf(w, " | Rate %s/%s: %.2f", cur, currency.Base, rep.ExchangeRate)
	}
	fmt.Fprintf(w, "\n\n")

	fmt.Fprintf(w, "Indicator                  | Value\n")
	fmt.Fprintf(w, "_________                  | _____\n")
	for _, row := range rep.Summary {
		fmt.Fprintf(w, "%-26s | %s\n", row.Indicator, summaryValue(row, cur))
	}

	fmt.Fprintf(w, "\nKit (%s)\n", cur)
	fmt.Fprintf(w, "Item     | Qty/hub | Price            | Total\n")
	fmt.Fprintf(w, "____     | _______ | _____            | _____\n")
	for _, row := range rep.Catalog {
		note := ""
		if row.Overridden {
			note = " *"
		}
		_, _ = p.Fprintf(w, "%-8s | %7.2f | %-16s | %s%s\n", row.ID, row.QtyPerHub,
			format.Currency(row.Price, cur), format.Currency(row.TotalDisplay, cur), note)
	}

	fmt.Fprintf(w, "\nMonth | Baseline CTO (%s) | New CTO (%s)\n", currency.Base, currency.Base)
	fmt.Fprintf(w, "_____ | ________________ | ___________\n")
	for _, row := range rep.Series {
		_, _ = p.Fprintf(w, "%-5s | %16.2f | %11.2f\n", row.Label, row.Baseline, row.New)
	}

	fmt.Fprintf(w, "\n%s\n", rep.Conclusion.Headline)
	if rep.Conclusion.Detail != "" {
		fmt.Fprintf(w, "%s\n", rep.Conclusion.Detail)
	}
	for _, warning := range rep.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
}

func summaryValue(row report.SummaryRow, cur currency.Currency) string {
	switch row.Kind {
	case report.KindMoney:
		if !row.Display.Valid {
			return format.NotApplicable
		}
		return format.Currency(row.Display.Float64, cur)
	case report.KindPercent:
		return format.Percent(row.Display)
	case report.KindRate:
		return format.Rate(row.Display)
	case report.KindFineRate:
		return format.FineRate(row.Display)
	case report.KindMonths:
		if !row.Display.Valid {
			return format.NotApplicable
		}
		return format.Months(int(row.Display.Float64))
	default:
		return format.NotApplicable
	}
}

// CsvFormat outputs every report table in comma-separated value format, one
// section per table separated by a blank line.
func CsvFormat(w io.Writer, rep report.Report) error {
	cw := csv.NewWriter(w)
	for i, table := range rep.Tables() {
		if i > 0 {
			if err := cw.Write([]string{}); err != nil {
				return err
			}
		}
		if err := cw.Write([]string{table.Name}); err != nil {
			return err
		}
		if err := cw.Write(table.Header); err != nil {
			return err
		}
		for _, row := range table.Rows {
			record := make([]string, len(row))
			for j, cell := range row {
				record[j] = csvCell(cell)
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvCell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return format.NotApplicable
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', 6, 64)
	default:
		return fmt.Sprint(x)
	}
}

// JSONFormat outputs the full report as indented JSON. Undefined values are null.
func JSONFormat(w io.Writer, rep report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
