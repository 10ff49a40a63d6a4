package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bvbswizard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
attributes:
  mark: 18000
  rounding: 10
matching:
  fixture_name: Coupler symbol
decode:
  workers: 3
output:
  timestamp: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 18000, cfg.Attributes.Mark)
	assert.Equal(t, 10, cfg.Attributes.Rounding)
	assert.Equal(t, 1402, cfg.Attributes.TotalLength)
	assert.Equal(t, "Coupler symbol", cfg.Matching.FixtureName)
	assert.Equal(t, "Place in polygon", cfg.Matching.PolygonKind)
	assert.Equal(t, 3, cfg.Decode.Workers)
	assert.True(t, cfg.Output.Timestamp)
	assert.Equal(t, 27553, cfg.Output.TimestampAttribute)
	assert.NoError(t, cfg.Validate())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("attributes: [1, 2"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidateMissingAttributes(t *testing.T) {
	cfg := Defaults()
	cfg.Attributes.Mark = 0
	cfg.Attributes.ArcRadius = 0
	cfg.Attributes.BendPrefix = " "

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrUndefinedAttribute)
	assert.Contains(t, err.Error(), "arc_radius, bend_prefix, mark")
}

func TestValidateRounding(t *testing.T) {
	cfg := Defaults()
	cfg.Attributes.Rounding = 0
	assert.ErrorContains(t, cfg.Validate(), "rounding")
}

func TestValidateTimestamp(t *testing.T) {
	cfg := Defaults()
	cfg.Output.Timestamp = true
	cfg.Output.TimestampAttribute = 0
	assert.ErrorIs(t, cfg.Validate(), ErrUndefinedAttribute)
}

func TestValidateMatching(t *testing.T) {
	cfg := Defaults()
	cfg.Matching.FixtureName = ""
	assert.Error(t, cfg.Validate())
}

func TestLoadOrDefault(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)

	require.NoError(t, os.WriteFile(DefaultFile, []byte("logging:\n  level: debug\n"), 0o644))
	cfg, err = LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}
