// Package features defines the records exchanged between the validator,
// the training data generator and the yield estimator.
package features

// Numeric column names in model order
const (
	ColTemperature = "temperature"
	ColRainfall    = "rainfall"
	ColHumidity    = "humidity"
	ColPH          = "ph"
	ColNitrogen    = "nitrogen"
	ColPhosphorus  = "phosphorus"
	ColPotassium   = "potassium"
)

// Categorical column names in model order
const (
	ColCrop = "crop_type"
	ColSoil = "soil_type"
)

// ColYield is the label column of a training row
const ColYield = "yield"

// NumericColumns lists the scaled features in the order Numeric returns them.
var NumericColumns = []string{
	ColTemperature,
	ColRainfall,
	ColHumidity,
	ColPH,
	ColNitrogen,
	ColPhosphorus,
	ColPotassium,
}

// CategoricalColumns lists the one-hot encoded features in the order Categorical returns them.
var CategoricalColumns = []string{ColCrop, ColSoil}

// NumNumeric is the number of numeric model features
const NumNumeric = 7

// Record is a single yield query.
type Record struct {
	Crop        string  `json:"crop_type"`
	Temperature float64 `json:"temperature"` // °C
	Rainfall    float64 `json:"rainfall"`    // mm per season
	Humidity    float64 `json:"humidity"`    // %
	PH          float64 `json:"ph"`
	Soil        string  `json:"soil_type"`
	Nitrogen    float64 `json:"nitrogen"`   // kg/ha
	Phosphorus  float64 `json:"phosphorus"` // kg/ha
	Potassium   float64 `json:"potassium"`  // kg/ha
	Area        float64 `json:"area"`       // hectares, not a model feature
}

// Numeric returns the numeric model features in NumericColumns order.
func (r Record) Numeric() [NumNumeric]float64 {
	return [NumNumeric]float64{
		r.Temperature,
		r.Rainfall,
		r.Humidity,
		r.PH,
		r.Nitrogen,
		r.Phosphorus,
		r.Potassium,
	}
}

// Categorical returns crop and soil in CategoricalColumns order.
func (r Record) Categorical() [2]string {
	return [2]string{r.Crop, r.Soil}
}

// Row is a labelled training example: the model fields of a Record plus a yield in t/ha.
type Row struct {
	Crop        string
	Temperature float64
	Rainfall    float64
	Humidity    float64
	PH          float64
	Soil        string
	Nitrogen    float64
	Phosphorus  float64
	Potassium   float64
	Yield       float64
}

// Record returns the row's features as a query record with no area.
func (r Row) Record() Record {
	return Record{
		Crop:        r.Crop,
		Temperature: r.Temperature,
		Rainfall:    r.Rainfall,
		Humidity:    r.Humidity,
		PH:          r.PH,
		Soil:        r.Soil,
		Nitrogen:    r.Nitrogen,
		Phosphorus:  r.Phosphorus,
		Potassium:   r.Potassium,
	}
}
