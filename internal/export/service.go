package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/c-trac/torquebench/internal/llm"
	"github.com/c-trac/torquebench/internal/torque"
)

// Summary is everything that goes into one exported calibration summary:
// the wrench identity block plus the test table.
type Summary struct {
	Fields          llm.LabelFields
	CalibrationDate string
	CalibrationDue  string
	MaxTorque       string // display form, e.g. "100 Nm"
	Rows            []torque.SummaryRow
}

// Service produces XLSX workbooks for calibration summaries.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

var tableHeaders = []string{
	"Applied Torque", "Min - Max Allowance",
	"Test 1", "Test 2", "Test 3", "Test 4", "Test 5",
}

// SummaryXLSX renders the summary as an XLSX workbook and returns its
// bytes; the caller decides where the file goes.
func (s *Service) SummaryXLSX(summary Summary) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Summary"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	// identity block
	info := [][2]string{
		{"Manufacturer", summary.Fields.Manufacturer},
		{"Model", summary.Fields.Model},
		{"Unit #", summary.Fields.Unit},
		{"Serial Number", summary.Fields.Serial},
		{"Customer/Company", summary.Fields.Customer},
		{"Phone Number", summary.Fields.Phone},
		{"Address", summary.Fields.Address},
		{"Calibration Date", summary.CalibrationDate},
		{"Calibration Due", summary.CalibrationDue},
		{"Max Torque", summary.MaxTorque},
	}
	row := 1
	for _, kv := range info {
		write(1, row, kv[0])
		write(2, row, kv[1])
		row++
	}
	row++ // blank line between blocks

	headerRow := row
	for i, h := range tableHeaders {
		write(i+1, headerRow, h)
	}
	row++

	for _, sr := range summary.Rows {
		write(1, row, sr.Applied)
		write(2, row, sr.RangeStr)
		for i := 0; i < 5; i++ {
			if i < len(sr.Tests) {
				write(3+i, row, sr.Tests[i])
			} else {
				write(3+i, row, "")
			}
		}
		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 20)
	_ = f.SetColWidth(sheet, "B", "B", 22)
	_ = f.SetColWidth(sheet, "C", "G", 10)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(summary.Rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
