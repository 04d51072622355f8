package output

import (
	"fmt"
	"io"

	"github.com/iwvelando/capex-viability/pkg/format"
	"github.com/iwvelando/capex-viability/pkg/report"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// WriteWorkbook writes the report tables as one sheet each, in order.
func WriteWorkbook(w io.Writer, rep report.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, table := range rep.Tables() {
		index, err := f.NewSheet(table.Name)
		if err != nil {
			return fmt.Errorf("creating sheet %s: %w", table.Name, err)
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}

		header := make([]interface{}, len(table.Header))
		for j, h := range table.Header {
			header[j] = h
		}
		if err := f.SetSheetRow(table.Name, "A1", &header); err != nil {
			return fmt.Errorf("writing %s header: %w", table.Name, err)
		}

		for r, row := range table.Rows {
			cells := make([]interface{}, len(row))
			for j, cell := range row {
				if cell == nil {
					cells[j] = format.NotApplicable
				} else {
					cells[j] = cell
				}
			}
			axis, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(table.Name, axis, &cells); err != nil {
				return fmt.Errorf("writing %s row %d: %w", table.Name, r+1, err)
			}
		}
	}

	if err := f.DeleteSheet(defaultSheet); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}
	f.SetActiveSheet(0)

	_, err := f.WriteTo(w)
	return err
}
