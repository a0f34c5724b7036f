package osm2gpx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigurationDefaults(t *testing.T) {
	v := viper.New()
	v.Set("input", "map.osm.pbf")
	v.Set("output", "camps.gpx")
	v.Set("expression", "tourism=camp_site")

	cfg, err := LoadConfiguration(v, "")
	require.NoError(t, err)
	assert.Equal(t, "map.osm.pbf", cfg.Input)
	assert.Equal(t, "camps.gpx", cfg.Output)
	assert.Equal(t, "tourism=camp_site", cfg.Expression)
	assert.Equal(t, "", cfg.DefaultName)
	assert.Equal(t, "gpx", cfg.Format)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, DefaultMaxIterations, cfg.MaxIterations)
	assert.Equal(t, 0, cfg.CacheSize)
	assert.Equal(t, 4, cfg.Procs)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfigurationFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "osm2gpx.yaml")
	content := `
input: sample.osm
output: camps.geojson
expression: name~camp
name: Camp
format: geojson
workers: 4
max_iterations: 50
cache_size: 128
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(fname, []byte(content), 0o644))

	cfg, err := LoadConfiguration(viper.New(), fname)
	require.NoError(t, err)
	assert.Equal(t, "sample.osm", cfg.Input)
	assert.Equal(t, "name~camp", cfg.Expression)
	assert.Equal(t, "Camp", cfg.DefaultName)
	assert.Equal(t, "geojson", cfg.Format)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 50, cfg.MaxIterations)
	assert.Equal(t, 128, cfg.CacheSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	_, err = LoadConfiguration(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
	})
}

func TestLoadConfigurationWorkingDir(t *testing.T) {
	t.Run("Missing file is fine", func(t *testing.T) {
		chdir(t, t.TempDir())
		v := viper.New()
		v.Set("input", "map.osm")
		v.Set("output", "camps.gpx")
		v.Set("expression", "tourism=camp_site")
		cfg, err := LoadConfiguration(v, "")
		require.NoError(t, err)
		assert.Equal(t, "map.osm", cfg.Input)
	})

	t.Run("Found file is used", func(t *testing.T) {
		dir := t.TempDir()
		content := "input: wd.osm\noutput: wd.gpx\nexpression: name~camp\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "osm2gpx.yaml"), []byte(content), 0o644))
		chdir(t, dir)
		cfg, err := LoadConfiguration(viper.New(), "")
		require.NoError(t, err)
		assert.Equal(t, "wd.osm", cfg.Input)
		assert.Equal(t, "name~camp", cfg.Expression)
	})

	t.Run("Malformed file is an error", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "osm2gpx.yaml"), []byte("input: [sample.osm\n  output: {"), 0o644))
		chdir(t, dir)
		cfg, err := LoadConfiguration(viper.New(), "")
		assert.Nil(t, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "osm2gpx.yaml")
		assert.False(t, errors.Is(err, ErrInvalidConfig))
	})
}

func TestLoadConfigurationEnv(t *testing.T) {
	t.Setenv("OSM2GPX_INPUT", "env.osm")
	t.Setenv("OSM2GPX_OUTPUT", "env.csv")
	t.Setenv("OSM2GPX_EXPRESSION", "k=v")
	t.Setenv("OSM2GPX_FORMAT", "csv")
	t.Setenv("OSM2GPX_LOG_LEVEL", "warn")

	cfg, err := LoadConfiguration(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "env.osm", cfg.Input)
	assert.Equal(t, "env.csv", cfg.Output)
	assert.Equal(t, "k=v", cfg.Expression)
	assert.Equal(t, "csv", cfg.Format)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestConfigurationValidate(t *testing.T) {
	cfg := Configuration{
		Input:         "map.shp",
		Expression:    "tourism camp_site",
		Format:        "kml",
		Workers:       0,
		MaxIterations: -1,
		CacheSize:     -1,
		Procs:         0,
		Log:           LogConfiguration{Level: "trace", Format: "xml"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	msg := err.Error()
	for _, part := range []string{
		"File extension '.shp'",
		"output is required",
		"can't parse tag expression",
		"Output format 'kml'",
		"workers must be positive",
		"max_iterations must be positive",
		"cache_size must not be negative",
		"procs must be positive",
		"log.level",
		"log.format",
	} {
		assert.Contains(t, msg, part)
	}

	valid := Configuration{
		Input:         "map.osm",
		Output:        "out.gpx",
		Expression:    "k=v",
		Format:        "gpx",
		Workers:       1,
		MaxIterations: 10,
		Procs:         1,
		Log:           LogConfiguration{Level: "INFO", Format: "text"},
	}
	assert.NoError(t, valid.Validate())
}
