package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	for _, name := range []string{"config.toml", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			c, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, Default(), c)

			_, err = os.Stat(path)
			require.NoError(t, err, "default file should be written")

			again, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, Default(), again, "written defaults must read back unchanged")
		})
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[world]
seed = 99
chunk_size = 16
render_distance = 3
render_height = 1
noise = "perlin"
biome_materials = false

[streaming]
workers = 2
max_in_flight = 1
pattern = "ring"
eviction_metric = "chebyshev"

[camera]
fov = 70.0
spawn = [1.0, 2.0, 3.0]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(99), c.World.Seed)
	assert.Equal(t, 16, c.World.ChunkSize)
	assert.Equal(t, NoisePerlin, c.World.Noise)
	assert.False(t, c.World.BiomeMaterials)
	assert.Equal(t, 1, c.Streaming.MaxInFlight)
	assert.Equal(t, PatternRing, c.Streaming.Pattern)
	assert.Equal(t, MetricChebyshev, c.Streaming.EvictionMetric)
	assert.Equal(t, float32(70), c.Camera.FOV)
	assert.Equal(t, [3]float32{1, 2, 3}, c.Camera.Spawn)
	// untouched sections keep their defaults
	assert.Equal(t, Default().Window, c.Window)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := `
world:
  seed: 7
  render_distance: 10
debug:
  log_level: debug
  metrics_addr: ":2112"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), c.World.Seed)
	assert.Equal(t, 10, c.World.RenderDistance)
	assert.Equal(t, "debug", c.Debug.LogLevel)
	assert.Equal(t, ":2112", c.Debug.MetricsAddr)
	assert.Equal(t, 32, c.World.ChunkSize)
}

func TestLoadRejectsBadFile(t *testing.T) {
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(broken, []byte("[world\nseed ="), 0644))
	_, err := Load(broken)
	assert.Error(t, err)

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("world:\n  noise: value\n"), 0644))
	_, err = Load(unknown)
	assert.ErrorContains(t, err, "noise backend")
}

func TestValidateClamps(t *testing.T) {
	c := Default()
	c.World.ChunkSize = 1000
	c.World.RenderDistance = -3
	c.World.RenderHeight = 99
	c.Streaming.Workers = 0
	c.Streaming.MaxInFlight = 100000
	c.Camera.FOV = 500
	c.Render.AtlasGrid = 0
	c.Window.Width = 0
	c.Streaming.Pattern = ""

	require.NoError(t, c.Validate())
	assert.Equal(t, 64, c.World.ChunkSize)
	assert.Equal(t, 1, c.World.RenderDistance)
	assert.Equal(t, 16, c.World.RenderHeight)
	assert.Equal(t, 1, c.Streaming.Workers)
	assert.Equal(t, 256, c.Streaming.MaxInFlight)
	assert.Equal(t, float32(120), c.Camera.FOV)
	assert.Equal(t, float32(1), c.Render.AtlasGrid)
	assert.Equal(t, 1600, c.Window.Width)
	assert.Equal(t, PatternDisc, c.Streaming.Pattern)
}

func TestValidateRejectsUnknownOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"noise", func(c *Config) { c.World.Noise = "value" }},
		{"pattern", func(c *Config) { c.Streaming.Pattern = "spiral" }},
		{"metric", func(c *Config) { c.Streaming.EvictionMetric = "manhattan" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
