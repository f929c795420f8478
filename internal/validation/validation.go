// Package validation checks user supplied yield queries before they reach the estimator.
package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/tphakala/yieldcast/internal/crops"
	"github.com/tphakala/yieldcast/internal/errors"
	"github.com/tphakala/yieldcast/internal/features"
)

// Kind classifies a validation failure.
type Kind string

const (
	KindUnknownCrop Kind = "unknown_crop"
	KindOutOfRange  Kind = "out_of_range"
	KindInvalidEnum Kind = "invalid_enum"
)

// Sentinels for errors.Is; a *Error matches the sentinel of its Kind.
var (
	ErrUnknownCrop = errors.NewStd("unknown crop")
	ErrOutOfRange  = errors.NewStd("value out of range")
	ErrInvalidEnum = errors.NewStd("invalid enum value")
)

// Error describes why a record was rejected.
type Error struct {
	Kind         Kind
	Field        string
	Value        any
	Min          float64
	Max          float64
	ExclusiveMin bool
	Message      string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindUnknownCrop:
		return target == ErrUnknownCrop || target == crops.ErrUnknownCrop
	case KindOutOfRange:
		return target == ErrOutOfRange
	case KindInvalidEnum:
		return target == ErrInvalidEnum
	}
	return false
}

// ErrorCategory lets enhanced errors pick up the validation category.
func (e *Error) ErrorCategory() errors.ErrorCategory {
	return errors.CategoryValidation
}

// Bound is a documented numeric limit.
type Bound struct {
	Field        string
	Min          float64
	Max          float64
	ExclusiveMin bool
	Unit         string
}

// Check returns whether v lies within b. NaN never does.
func (b Bound) Check(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	if b.ExclusiveMin {
		if v <= b.Min {
			return false
		}
	} else if v < b.Min {
		return false
	}
	return v <= b.Max
}

// format renders a limit with its unit, "40°C", "3000 mm" or plain "14"
func (b Bound) format(v float64) string {
	switch b.Unit {
	case "":
		return fmt.Sprintf("%g", v)
	case "°C", "%":
		return fmt.Sprintf("%g%s", v, b.Unit)
	default:
		return fmt.Sprintf("%g %s", v, b.Unit)
	}
}

// Documented input bounds
var (
	TemperatureBound = Bound{Field: features.ColTemperature, Min: 0, Max: 40, Unit: "°C"}
	RainfallBound    = Bound{Field: features.ColRainfall, Min: 0, Max: 3000, Unit: "mm"}
	HumidityBound    = Bound{Field: features.ColHumidity, Min: 0, Max: 100, Unit: "%"}
	PHBound          = Bound{Field: features.ColPH, Min: 0, Max: 14}
	NitrogenBound    = Bound{Field: features.ColNitrogen, Min: 0, Max: 200, Unit: "kg/ha"}
	PhosphorusBound  = Bound{Field: features.ColPhosphorus, Min: 0, Max: 200, Unit: "kg/ha"}
	PotassiumBound   = Bound{Field: features.ColPotassium, Min: 0, Max: 200, Unit: "kg/ha"}
	AreaBound        = Bound{Field: "area", Min: 0, Max: 1000, ExclusiveMin: true, Unit: "ha"}
)

// Validator checks records against a crop catalog.
type Validator struct {
	catalog *crops.Catalog
}

// New returns a validator for catalog.
func New(catalog *crops.Catalog) *Validator {
	return &Validator{catalog: catalog}
}

// Validate returns nil for a valid record, or a *Error for the first failed check.
// Checks run in a fixed order: crop, temperature, rainfall, humidity, pH,
// soil, nitrogen, phosphorus, potassium, area.
func (v *Validator) Validate(rec features.Record) error {
	if !v.catalog.Has(rec.Crop) {
		return &Error{
			Kind:    KindUnknownCrop,
			Field:   features.ColCrop,
			Value:   rec.Crop,
			Message: fmt.Sprintf("invalid crop type: %q", rec.Crop),
		}
	}

	numeric := []struct {
		bound Bound
		value float64
	}{
		{TemperatureBound, rec.Temperature},
		{RainfallBound, rec.Rainfall},
		{HumidityBound, rec.Humidity},
		{PHBound, rec.PH},
	}
	for _, n := range numeric {
		if err := checkBound(n.bound, n.value); err != nil {
			return err
		}
	}

	if !crops.SoilType(rec.Soil).Valid() {
		return &Error{
			Kind:  KindInvalidEnum,
			Field: features.ColSoil,
			Value: rec.Soil,
			Message: fmt.Sprintf("invalid soil type %q, must be one of: %s",
				rec.Soil, strings.Join(crops.SoilNames(), ", ")),
		}
	}

	numeric = []struct {
		bound Bound
		value float64
	}{
		{NitrogenBound, rec.Nitrogen},
		{PhosphorusBound, rec.Phosphorus},
		{PotassiumBound, rec.Potassium},
		{AreaBound, rec.Area},
	}
	for _, n := range numeric {
		if err := checkBound(n.bound, n.value); err != nil {
			return err
		}
	}

	return nil
}

func checkBound(b Bound, v float64) error {
	if b.Check(v) {
		return nil
	}

	msg := fmt.Sprintf("%s must be between %s and %s (got %g)", b.Field, b.format(b.Min), b.format(b.Max), v)
	if b.ExclusiveMin {
		msg = fmt.Sprintf("%s must be greater than %s and at most %s (got %g)", b.Field, b.format(b.Min), b.format(b.Max), v)
	}

	return &Error{
		Kind:         KindOutOfRange,
		Field:        b.Field,
		Value:        v,
		Min:          b.Min,
		Max:          b.Max,
		ExclusiveMin: b.ExclusiveMin,
		Message:      msg,
	}
}
