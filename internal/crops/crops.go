// Package crops is the crop knowledge base: optimal growing ranges,
// suitable soils, nutrition facts and farming tips per crop.
//
// The catalog is immutable once built. Lookups hand out copies so callers
// cannot alter shared state.
package crops

import (
	_ "embed"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/tphakala/yieldcast/internal/errors"
	"github.com/tphakala/yieldcast/internal/logger"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// ErrUnknownCrop is matched with errors.Is when a crop name is not in the catalog.
var ErrUnknownCrop = errors.NewStd("unknown crop")

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Mid returns the midpoint of the range.
func (r Range) Mid() float64 {
	return r.Min + (r.Max-r.Min)/2
}

// Span returns Max - Min.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Nutrient is one line of a crop's nutrition facts per 100 g.
type Nutrient struct {
	Name   string  `yaml:"name"`
	Amount float64 `yaml:"amount"`
}

// CropProfile holds the agronomic facts about one crop.
type CropProfile struct {
	Name           string     `yaml:"name"`
	ScientificName string     `yaml:"scientific_name"`
	GrowingSeason  string     `yaml:"growing_season"`
	GrowingPeriod  string     `yaml:"growing_period"` // days, or free text for perennials
	Description    string     `yaml:"description"`
	Temperature    Range      `yaml:"temperature"` // °C
	Rainfall       Range      `yaml:"rainfall"`    // mm
	Humidity       Range      `yaml:"humidity"`    // %
	PH             Range      `yaml:"ph"`
	SuitableSoils  []string   `yaml:"soils"`
	Nutrition      []Nutrient `yaml:"nutrition"`
	Tips           []string   `yaml:"tips"`

	// Factor tuning, see Catalog.Factors
	Importance map[string]float64 `yaml:"importance,omitempty"`
	MaxYield   float64            `yaml:"max_yield,omitempty"`
}

// SuitsSoil reports whether soil is one of the crop's suitable soils.
func (p CropProfile) SuitsSoil(soil string) bool {
	return slices.Contains(p.SuitableSoils, soil)
}

// clone returns a deep copy of p.
func (p CropProfile) clone() CropProfile {
	c := p
	c.SuitableSoils = slices.Clone(p.SuitableSoils)
	c.Nutrition = slices.Clone(p.Nutrition)
	c.Tips = slices.Clone(p.Tips)
	c.Importance = maps.Clone(p.Importance)
	return c
}

// Catalog is an ordered, immutable set of crop profiles.
type Catalog struct {
	profiles []CropProfile
	index    map[string]int
}

type catalogFile struct {
	Crops []CropProfile `yaml:"crops"`
}

var (
	defaultCatalog    *Catalog
	defaultCatalogErr error
	defaultOnce       sync.Once
)

// Default returns the catalog embedded in the binary. It is parsed once.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = Parse(embeddedCatalog)
		if defaultCatalogErr == nil {
			GetLogger().Debug("crop catalog loaded", logger.Int("crops", defaultCatalog.Len()))
		}
	})
	return defaultCatalog, defaultCatalogErr
}

// MustDefault is like Default but panics if the embedded catalog is broken.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse builds a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.New(err).
			Component("crops").
			Category(errors.CategoryCatalog).
			Context("operation", "parse_catalog").
			Build()
	}

	if len(file.Crops) == 0 {
		return nil, catalogError("catalog contains no crops")
	}

	c := &Catalog{
		profiles: make([]CropProfile, 0, len(file.Crops)),
		index:    make(map[string]int, len(file.Crops)),
	}

	for i := range file.Crops {
		p := file.Crops[i]
		p.Name = strings.TrimSpace(p.Name)
		p.Description = strings.TrimSpace(p.Description)

		if err := checkProfile(&p); err != nil {
			return nil, err
		}
		if _, dup := c.index[p.Name]; dup {
			return nil, catalogError(fmt.Sprintf("duplicate crop %q", p.Name))
		}

		c.index[p.Name] = len(c.profiles)
		c.profiles = append(c.profiles, p)
	}

	return c, nil
}

// checkProfile rejects profiles the rest of the system cannot work with
func checkProfile(p *CropProfile) error {
	if p.Name == "" {
		return catalogError("crop without a name")
	}

	ranges := []struct {
		name string
		r    Range
	}{
		{"temperature", p.Temperature},
		{"rainfall", p.Rainfall},
		{"humidity", p.Humidity},
		{"ph", p.PH},
	}
	for _, rg := range ranges {
		if rg.r.Min > rg.r.Max {
			return catalogError(fmt.Sprintf("%s: %s range min %g is greater than max %g", p.Name, rg.name, rg.r.Min, rg.r.Max))
		}
	}

	if len(p.SuitableSoils) == 0 {
		return catalogError(fmt.Sprintf("%s: no suitable soils", p.Name))
	}

	for key, v := range p.Importance {
		if _, ok := factorIndex(key); !ok {
			return catalogError(fmt.Sprintf("%s: unknown importance factor %q", p.Name, key))
		}
		if v <= 0 {
			return catalogError(fmt.Sprintf("%s: importance for %s must be positive", p.Name, key))
		}
	}

	if p.MaxYield < 0 {
		return catalogError(fmt.Sprintf("%s: max_yield cannot be negative", p.Name))
	}

	return nil
}

func catalogError(msg string) error {
	return errors.Newf("invalid crop catalog: %s", msg).
		Component("crops").
		Category(errors.CategoryCatalog).
		Build()
}

// Len returns the number of crops.
func (c *Catalog) Len() int {
	return len(c.profiles)
}

// Has reports whether name is in the catalog.
func (c *Catalog) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Names returns crop names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.profiles))
	for i := range c.profiles {
		names[i] = c.profiles[i].Name
	}
	return names
}

// Profile returns a copy of the named crop's profile.
func (c *Catalog) Profile(name string) (CropProfile, error) {
	i, ok := c.index[name]
	if !ok {
		return CropProfile{}, unknownCrop(name)
	}
	return c.profiles[i].clone(), nil
}

// Profiles returns copies of all profiles in catalog order.
func (c *Catalog) Profiles() []CropProfile {
	out := make([]CropProfile, len(c.profiles))
	for i := range c.profiles {
		out[i] = c.profiles[i].clone()
	}
	return out
}

func unknownCrop(name string) error {
	return errors.New(fmt.Errorf("%w: %q", ErrUnknownCrop, name)).
		Component("crops").
		Category(errors.CategoryNotFound).
		Context("crop", name).
		Build()
}
