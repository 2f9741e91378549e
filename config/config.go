// Package config loads the engine settings from a TOML or YAML file,
// writing a default file the first time.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

const (
	NoiseOpenSimplex = "opensimplex"
	NoisePerlin      = "perlin"

	PatternDisc = "disc"
	PatternRing = "ring"

	MetricEuclidean = "euclidean"
	MetricChebyshev = "chebyshev"
)

type Config struct {
	Window    Window    `toml:"window" yaml:"window"`
	World     World     `toml:"world" yaml:"world"`
	Streaming Streaming `toml:"streaming" yaml:"streaming"`
	Camera    Camera    `toml:"camera" yaml:"camera"`
	Render    Render    `toml:"render" yaml:"render"`
	Debug     Debug     `toml:"debug" yaml:"debug"`
}

type Window struct {
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
	Title  string `toml:"title" yaml:"title"`
	VSync  bool   `toml:"vsync" yaml:"vsync"`
}

type World struct {
	Seed           int64  `toml:"seed" yaml:"seed"`
	ChunkSize      int    `toml:"chunk_size" yaml:"chunk_size"`
	RenderDistance int    `toml:"render_distance" yaml:"render_distance"`
	RenderHeight   int    `toml:"render_height" yaml:"render_height"`
	Noise          string `toml:"noise" yaml:"noise"`
	// BiomeMaterials gives the second biome its own sub-surface block.
	BiomeMaterials bool `toml:"biome_materials" yaml:"biome_materials"`
}

type Streaming struct {
	Workers        int    `toml:"workers" yaml:"workers"`
	MaxInFlight    int    `toml:"max_in_flight" yaml:"max_in_flight"`
	Pattern        string `toml:"pattern" yaml:"pattern"`
	EvictionMetric string `toml:"eviction_metric" yaml:"eviction_metric"`
}

type Camera struct {
	FOV              float32    `toml:"fov" yaml:"fov"`
	Sensitivity      float32    `toml:"sensitivity" yaml:"sensitivity"`
	Speed            float32    `toml:"speed" yaml:"speed"`
	SprintMultiplier float32    `toml:"sprint_multiplier" yaml:"sprint_multiplier"`
	Spawn            [3]float32 `toml:"spawn" yaml:"spawn"`
}

type Render struct {
	FrustumCulling bool    `toml:"frustum_culling" yaml:"frustum_culling"`
	ShaderDir      string  `toml:"shader_dir" yaml:"shader_dir"`
	Atlas          string  `toml:"atlas" yaml:"atlas"`
	Font           string  `toml:"font" yaml:"font"`
	AtlasGrid      float32 `toml:"atlas_grid" yaml:"atlas_grid"`
}

type Debug struct {
	ShowHUD     bool    `toml:"show_hud" yaml:"show_hud"`
	LogLevel    string  `toml:"log_level" yaml:"log_level"`
	MetricsAddr string  `toml:"metrics_addr" yaml:"metrics_addr"`
	Reach       float32 `toml:"reach" yaml:"reach"`
	LineSeconds float32 `toml:"line_seconds" yaml:"line_seconds"`
}

// Default returns the settings used when no file exists yet.
func Default() Config {
	return Config{
		Window: Window{Width: 1600, Height: 900, Title: "LuminaCraft", VSync: true},
		World: World{
			Seed:           12,
			ChunkSize:      32,
			RenderDistance: 6,
			RenderHeight:   4,
			Noise:          NoiseOpenSimplex,
			BiomeMaterials: true,
		},
		Streaming: Streaming{
			Workers:        4,
			MaxInFlight:    8,
			Pattern:        PatternDisc,
			EvictionMetric: MetricEuclidean,
		},
		Camera: Camera{
			FOV:              50,
			Sensitivity:      0.1,
			Speed:            6,
			SprintMultiplier: 4,
			Spawn:            [3]float32{0, 60, 0},
		},
		Render: Render{
			ShaderDir: "assets/shaders",
			Atlas:     "assets/sprites/block_map.png",
			Font:      "assets/fonts/hud.ttf",
			AtlasGrid: 2,
		},
		Debug: Debug{
			ShowHUD:     true,
			LogLevel:    "info",
			Reach:       5,
			LineSeconds: 3,
		},
	}
}

// Load reads the config at path. The format follows the extension: .yaml and
// .yml are YAML, anything else is TOML. A missing file is created from
// Default and the defaults are returned.
func Load(path string) (Config, error) {
	c := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		data, err := marshal(path, c)
		if err != nil {
			return c, fmt.Errorf("failed encoding default config: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return c, fmt.Errorf("failed creating config: %w", err)
		}
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("error reading config: %w", err)
	}
	if err := unmarshal(path, data, &c); err != nil {
		return c, fmt.Errorf("error decoding config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func marshal(path string, c Config) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(c)
	}
	return toml.Marshal(c)
}

func unmarshal(path string, data []byte, c *Config) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, c)
	}
	return toml.Unmarshal(data, c)
}

// Validate clamps numeric settings into their supported ranges and rejects
// unknown option names.
func (c *Config) Validate() error {
	c.World.ChunkSize = clamp(c.World.ChunkSize, 4, 64)
	c.World.RenderDistance = clamp(c.World.RenderDistance, 1, 32)
	c.World.RenderHeight = clamp(c.World.RenderHeight, 0, 16)
	c.Streaming.Workers = clamp(c.Streaming.Workers, 1, 64)
	c.Streaming.MaxInFlight = clamp(c.Streaming.MaxInFlight, 1, 256)
	if c.Camera.FOV < 10 {
		c.Camera.FOV = 10
	}
	if c.Camera.FOV > 120 {
		c.Camera.FOV = 120
	}
	if c.Render.AtlasGrid <= 0 {
		c.Render.AtlasGrid = 1
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		c.Window.Width, c.Window.Height = 1600, 900
	}

	if c.World.Noise == "" {
		c.World.Noise = NoiseOpenSimplex
	}
	if c.Streaming.Pattern == "" {
		c.Streaming.Pattern = PatternDisc
	}
	if c.Streaming.EvictionMetric == "" {
		c.Streaming.EvictionMetric = MetricEuclidean
	}
	switch c.World.Noise {
	case NoiseOpenSimplex, NoisePerlin:
	default:
		return fmt.Errorf("unknown noise backend %q", c.World.Noise)
	}
	switch c.Streaming.Pattern {
	case PatternDisc, PatternRing:
	default:
		return fmt.Errorf("unknown streaming pattern %q", c.Streaming.Pattern)
	}
	switch c.Streaming.EvictionMetric {
	case MetricEuclidean, MetricChebyshev:
	default:
		return fmt.Errorf("unknown eviction metric %q", c.Streaming.EvictionMetric)
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
