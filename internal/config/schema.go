package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ColumnMapping maps logical record fields to source column headers. The
// mapping is explicit and validated up front; the loader never guesses
// column identity from header substrings.
type ColumnMapping struct {
	OutletID       string `yaml:"outlet_id"`
	Area           string `yaml:"area"`
	Zone           string `yaml:"zone"`
	Category       string `yaml:"category"`
	Gallons        string `yaml:"gallons_collected"`
	Traps          string `yaml:"trap_count"`
	TrapEfficiency string `yaml:"trap_efficiency"`
	MissedCount    string `yaml:"missed_count"`
	CollectedAt    string `yaml:"collected_at"`
	DischargedAt   string `yaml:"discharged_at"`
}

// LatLng is a geographic point used for route estimates.
type LatLng struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

// Schema is the dataset description supplied at configuration time:
// the column mapping plus approximate coordinates per service area.
type Schema struct {
	Columns ColumnMapping     `yaml:"columns"`
	Areas   map[string]LatLng `yaml:"areas"`
}

// DefaultSchema matches the Blue-data2 export this service was built
// around.
func DefaultSchema() Schema {
	return Schema{
		Columns: ColumnMapping{
			OutletID:       "Entity Mapping.Outlet",
			Area:           "Area",
			Zone:           "Zone",
			Category:       "Category",
			Gallons:        "Sum of Gallons Collected",
			Traps:          "Sum of No of Traps",
			TrapEfficiency: "Trap Efficiency",
			MissedCount:    "Missed Cleanings",
			CollectedAt:    "Collected Date",
			DischargedAt:   "Discharge Date",
		},
		Areas: map[string]LatLng{
			"Dubai Marina": {Lat: 25.0920, Lng: 55.1381},
			"Downtown":     {Lat: 25.1972, Lng: 55.2744},
			"Business Bay": {Lat: 25.1867, Lng: 55.2708},
			"Al Quoz":      {Lat: 25.1500, Lng: 55.2500},
			"Jumeirah":     {Lat: 25.2285, Lng: 55.2867},
			"Deira":        {Lat: 25.2667, Lng: 55.3000},
			"Bur Dubai":    {Lat: 25.2639, Lng: 55.2972},
			"Unknown":      {Lat: 25.2048, Lng: 55.2708}, // city centre fallback
		},
	}
}

// LoadSchema reads a schema file. An empty path returns the default schema.
func LoadSchema(path string) (Schema, error) {
	if path == "" {
		return DefaultSchema(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("failed to read schema file: %w", err)
	}

	schema := DefaultSchema()
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return Schema{}, fmt.Errorf("failed to parse schema file: %w", err)
	}

	if err := schema.Validate(); err != nil {
		return Schema{}, err
	}
	return schema, nil
}

// Validate checks that every required column has a mapped header.
func (s Schema) Validate() error {
	required := map[string]string{
		"outlet_id":         s.Columns.OutletID,
		"gallons_collected": s.Columns.Gallons,
		"trap_count":        s.Columns.Traps,
		"area":              s.Columns.Area,
		"category":          s.Columns.Category,
	}
	for field, header := range required {
		if header == "" {
			return fmt.Errorf("schema is missing a header mapping for required column %q", field)
		}
	}
	return nil
}
