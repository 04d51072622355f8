// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"time"
)

// ExportStampLayout is the timestamp embedded in export file names.
const ExportStampLayout = "20060102_1504"

// ExportStamp formats t for use in an export file name.
func ExportStamp(t time.Time) string {
	return t.Format(ExportStampLayout)
}

// MonthLabel returns the axis label for a month offset, "M0" for the
// deployment month.
func MonthLabel(month int) string {
	return fmt.Sprintf("M%d", month)
}
