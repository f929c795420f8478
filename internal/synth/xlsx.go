package synth

import (
	"github.com/xuri/excelize/v2"

	"github.com/tphakala/yieldcast/internal/errors"
	"github.com/tphakala/yieldcast/internal/features"
)

// XLSXSheet is the sheet WriteXLSX fills
const XLSXSheet = "training_data"

const xlsxColumnWidth = 14

// WriteXLSX saves rows to an Excel workbook at path, one row per example
// below a header row.
func WriteXLSX(path string, rows []features.Row) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", XLSXSheet); err != nil {
		return xlsxError(err, path)
	}

	for i, header := range csvHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return xlsxError(err, path)
		}
		if err := f.SetCellValue(XLSXSheet, cell, header); err != nil {
			return xlsxError(err, path)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(csvHeader))
	if err != nil {
		return xlsxError(err, path)
	}
	if err := f.SetColWidth(XLSXSheet, "A", lastCol, xlsxColumnWidth); err != nil {
		return xlsxError(err, path)
	}

	for i := range rows {
		r := &rows[i]
		values := []any{
			r.Crop, r.Temperature, r.Rainfall, r.Humidity, r.PH,
			r.Soil, r.Nitrogen, r.Phosphorus, r.Potassium, r.Yield,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return xlsxError(err, path)
		}
		if err := f.SetSheetRow(XLSXSheet, cell, &values); err != nil {
			return xlsxError(err, path)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return xlsxError(err, path)
	}
	return nil
}

func xlsxError(err error, path string) error {
	return errors.New(err).
		Component("synth").
		Category(errors.CategoryFileIO).
		FileContext(path).
		Context("operation", "write_xlsx").
		Build()
}
