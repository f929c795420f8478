package synth

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/tphakala/yieldcast/internal/errors"
	"github.com/tphakala/yieldcast/internal/features"
)

// csvHeader matches the column names used by the estimator
var csvHeader = []string{
	features.ColCrop,
	features.ColTemperature,
	features.ColRainfall,
	features.ColHumidity,
	features.ColPH,
	features.ColSoil,
	features.ColNitrogen,
	features.ColPhosphorus,
	features.ColPotassium,
	features.ColYield,
}

// WriteCSV writes rows with a header line.
func WriteCSV(w io.Writer, rows []features.Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return csvError(err)
	}

	record := make([]string, len(csvHeader))
	for i := range rows {
		r := &rows[i]
		record[0] = r.Crop
		record[1] = formatFloat(r.Temperature)
		record[2] = formatFloat(r.Rainfall)
		record[3] = formatFloat(r.Humidity)
		record[4] = formatFloat(r.PH)
		record[5] = r.Soil
		record[6] = formatFloat(r.Nitrogen)
		record[7] = formatFloat(r.Phosphorus)
		record[8] = formatFloat(r.Potassium)
		record[9] = formatFloat(r.Yield)
		if err := cw.Write(record); err != nil {
			return csvError(err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return csvError(err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func csvError(err error) error {
	return errors.New(err).
		Component("synth").
		Category(errors.CategoryFileIO).
		Context("operation", "write_csv").
		Build()
}
