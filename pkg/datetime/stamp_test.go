package datetime

import (
	"testing"
	"time"
)

func TestExportStamp(t *testing.T) {
	tests := []struct {
		name     string
		at       time.Time
		expected string
	}{
		{
			name:     "Afternoon",
			at:       time.Date(2026, time.October, 19, 14, 30, 59, 0, time.UTC),
			expected: "20261019_1430",
		},
		{
			name:     "Midnight",
			at:       time.Date(2025, time.January, 2, 0, 5, 0, 0, time.UTC),
			expected: "20250102_0005",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExportStamp(tt.at); got != tt.expected {
				t.Errorf("ExportStamp() = %s, expected %s", got, tt.expected)
			}
		})
	}
}

func TestExportStampDropsSeconds(t *testing.T) {
	a := time.Date(2026, time.March, 7, 9, 15, 0, 0, time.UTC)
	b := a.Add(59 * time.Second)
	if ExportStamp(a) != ExportStamp(b) {
		t.Errorf("ExportStamp() differs within the same minute: %s vs %s", ExportStamp(a), ExportStamp(b))
	}
}

func TestMonthLabel(t *testing.T) {
	if MonthLabel(0) != "M0" || MonthLabel(36) != "M36" {
		t.Errorf("MonthLabel() = %s / %s", MonthLabel(0), MonthLabel(36))
	}
}
