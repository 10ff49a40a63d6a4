// Package config loads the bvbswizard YAML configuration.
//
// The attribute section replaces the loose preference lookup of the host
// palette with one typed field per logical attribute. An attribute ID of 0
// means "undefined" and fails validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUndefinedAttribute is returned by Validate when an attribute has no ID.
var ErrUndefinedAttribute = errors.New("attribute undefined")

// DefaultFile is looked up in the working directory when no --config is given.
const DefaultFile = "bvbswizard.yaml"

// Config holds all bvbswizard configuration.
type Config struct {
	Attributes AttributeConfig `yaml:"attributes"`
	Matching   MatchingConfig  `yaml:"matching"`
	Decode     DecodeConfig    `yaml:"decode"`
	Output     OutputConfig    `yaml:"output"`
	Logging    LoggingConfig   `yaml:"logging"`
}

// AttributeConfig maps each logical record field to a host attribute ID.
type AttributeConfig struct {
	Mark                  int `yaml:"mark"`
	TotalLength           int `yaml:"total_length"`
	Diameter              int `yaml:"diameter"`
	BendAngle             int `yaml:"bend_angle"`
	Assembly              int `yaml:"assembly"`
	CouplerStart          int `yaml:"coupler_start"`
	CouplerStartFabricant int `yaml:"coupler_start_fabricant"`
	CouplerStartType      int `yaml:"coupler_start_type"`
	CouplerEnd            int `yaml:"coupler_end"`
	CouplerEndFabricant   int `yaml:"coupler_end_fabricant"`
	CouplerEndType        int `yaml:"coupler_end_type"`
	AmountTotal           int `yaml:"amount_total"`
	AmountAssembly        int `yaml:"amount_assembly"`
	ArcRadius             int `yaml:"arc_radius"`

	// Rounding is the unit the total length is rounded to (mm).
	Rounding int `yaml:"rounding"`

	// Segment attributes are created by name: prefix + A, B, C...
	LengthPrefix string `yaml:"length_prefix"`
	AnglePrefix  string `yaml:"angle_prefix"`
	BendPrefix   string `yaml:"bend_prefix"`
}

// MatchingConfig describes how host elements are recognised.
type MatchingConfig struct {
	PolygonKind            string `yaml:"polygon_kind"`
	FixtureName            string `yaml:"fixture_name"`
	FixtureLengthAttribute int    `yaml:"fixture_length_attribute"`
	AssemblyKind           string `yaml:"assembly_kind"`
	AssemblyNameAttribute  int    `yaml:"assembly_name_attribute"`
	IfcClassAttribute      int    `yaml:"ifc_class_attribute"`
}

// DecodeConfig tunes the decode stage.
type DecodeConfig struct {
	Workers int `yaml:"workers"` // parallel line decoders; <=0 means one per CPU
}

// OutputConfig controls the attribute assignments handed to the writer.
type OutputConfig struct {
	Timestamp          bool `yaml:"timestamp"`
	TimestampAttribute int  `yaml:"timestamp_attribute"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`
}

// Defaults returns a configuration that validates. The attribute IDs are
// placeholders for the user attributes of a project template.
func Defaults() Config {
	return Config{
		Attributes: AttributeConfig{
			Mark:                  1401,
			TotalLength:           1402,
			Diameter:              1403,
			BendAngle:             1404,
			Assembly:              1405,
			CouplerStart:          1406,
			CouplerStartFabricant: 1407,
			CouplerStartType:      1408,
			CouplerEnd:            1409,
			CouplerEndFabricant:   1410,
			CouplerEndType:        1411,
			AmountTotal:           1412,
			AmountAssembly:        1413,
			ArcRadius:             1414,
			Rounding:              5,
			LengthPrefix:          "BVBS_Length_",
			AnglePrefix:           "BVBS_Angle_",
			BendPrefix:            "BVBS_Bend_",
		},
		Matching: MatchingConfig{
			PolygonKind:            "Place in polygon",
			FixtureName:            "Symbol fixture",
			FixtureLengthAttribute: 1238,
			AssemblyKind:           "Assembly",
			AssemblyNameAttribute:  507,
			IfcClassAttribute:      684,
		},
		Output: OutputConfig{
			TimestampAttribute: 27553,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file on top of Defaults. Keys missing from the file
// keep their default value.
func Load(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path if set, else DefaultFile if it exists, else
// returns Defaults.
func LoadOrDefault(path string) (Config, error) {
	if path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return Load(DefaultFile)
	}
	return Defaults(), nil
}

// Validate checks that every attribute the pipeline writes is defined.
func (c Config) Validate() error {
	a := c.Attributes
	ids := []struct {
		name string
		id   int
	}{
		{"mark", a.Mark},
		{"total_length", a.TotalLength},
		{"diameter", a.Diameter},
		{"bend_angle", a.BendAngle},
		{"assembly", a.Assembly},
		{"coupler_start", a.CouplerStart},
		{"coupler_start_fabricant", a.CouplerStartFabricant},
		{"coupler_start_type", a.CouplerStartType},
		{"coupler_end", a.CouplerEnd},
		{"coupler_end_fabricant", a.CouplerEndFabricant},
		{"coupler_end_type", a.CouplerEndType},
		{"amount_total", a.AmountTotal},
		{"amount_assembly", a.AmountAssembly},
		{"arc_radius", a.ArcRadius},
	}
	var missing []string
	for _, e := range ids {
		if e.id == 0 {
			missing = append(missing, e.name)
		}
	}
	for name, prefix := range map[string]string{
		"length_prefix": a.LengthPrefix,
		"angle_prefix":  a.AnglePrefix,
		"bend_prefix":   a.BendPrefix,
	} {
		if strings.TrimSpace(prefix) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: %s", ErrUndefinedAttribute, strings.Join(missing, ", "))
	}
	if a.Rounding <= 0 {
		return fmt.Errorf("attributes.rounding must be a positive integer, got %d", a.Rounding)
	}
	if c.Output.Timestamp && c.Output.TimestampAttribute == 0 {
		return fmt.Errorf("%w: output.timestamp_attribute", ErrUndefinedAttribute)
	}
	if c.Matching.FixtureName == "" || c.Matching.PolygonKind == "" {
		return errors.New("matching.fixture_name and matching.polygon_kind are required")
	}
	return nil
}
