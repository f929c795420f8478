package crops

import (
	"slices"
	"strings"

	"github.com/tphakala/yieldcast/internal/errors"
)

// SoilType is one of the soil classes a user can report.
type SoilType string

const (
	SoilLoamy SoilType = "Loamy"
	SoilClay  SoilType = "Clay"
	SoilSandy SoilType = "Sandy"
	SoilSilt  SoilType = "Silt"
	SoilBlack SoilType = "Black"
)

var soilTypes = []SoilType{SoilLoamy, SoilClay, SoilSandy, SoilSilt, SoilBlack}

// SoilTypes returns the valid soil classes in canonical order.
func SoilTypes() []SoilType {
	return slices.Clone(soilTypes)
}

// SoilNames returns SoilTypes as strings.
func SoilNames() []string {
	out := make([]string, len(soilTypes))
	for i, s := range soilTypes {
		out[i] = string(s)
	}
	return out
}

// Valid reports whether s is exactly one of the soil classes.
func (s SoilType) Valid() bool {
	return slices.Contains(soilTypes, s)
}

// ParseSoilType matches s case-insensitively and returns the canonical value.
func ParseSoilType(s string) (SoilType, error) {
	s = strings.TrimSpace(s)
	for _, t := range soilTypes {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", errors.Newf("invalid soil type %q, must be one of: %s", s, strings.Join(SoilNames(), ", ")).
		Component("crops").
		Category(errors.CategoryValidation).
		Build()
}

// String implements fmt.Stringer.
func (s SoilType) String() string {
	return string(s)
}
