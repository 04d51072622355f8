package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/iwvelando/capex-viability/pkg/constants"
	"github.com/iwvelando/capex-viability/pkg/report"
	"github.com/iwvelando/capex-viability/pkg/validation"
	"go.uber.org/zap"
)

// Export writes the report in exportFormat to w.
func Export(w io.Writer, rep report.Report, exportFormat string) error {
	if err := validation.ValidateExportFormat(exportFormat); err != nil {
		return err
	}
	if exportFormat == constants.ExportFormatCSV {
		return CsvFormat(w, rep)
	}
	return WriteWorkbook(w, rep)
}

// ExportFile writes the report into dir under its timestamped export name and
// returns the path written.
func ExportFile(logger *zap.Logger, dir string, rep report.Report, exportFormat string, at time.Time) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := validation.ValidateExportFormat(exportFormat); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(dir, report.Filename(rep.Currency, at, exportFormat))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if err := Export(f, rep, exportFormat); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	logger.Info("report exported",
		zap.String("op", "output.ExportFile"),
		zap.String("path", path),
		zap.String("format", exportFormat),
	)
	return path, nil
}

// ContentType returns the MIME type of an export format.
func ContentType(exportFormat string) string {
	if exportFormat == constants.ExportFormatCSV {
		return "text/csv"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
