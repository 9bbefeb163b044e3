// Package config loads the engine's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/akhoik/ge/internal/core/observability/log"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Log    LogConfig    `yaml:"log"`
	Loop   LoopConfig   `yaml:"loop"`
	Window WindowConfig `yaml:"window"`
	Game   GameConfig   `yaml:"game"`
	Camera CameraConfig `yaml:"camera"`
	Parts  []PartConfig `yaml:"parts"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

type LoopConfig struct {
	// Frames stops the loop after that many frames; 0 runs until cancelled.
	Frames    int           `yaml:"frames"`
	FrameTime time.Duration `yaml:"frame_time"`
}

type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type GameConfig struct {
	Genre string `yaml:"genre"`
}

type CameraConfig struct {
	FOV      float32    `yaml:"fov"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	Position [3]float32 `yaml:"position"`
	Rotation [3]float32 `yaml:"rotation"`
}

// PartConfig describes a part created at startup. Parent names an earlier
// part; empty means the head. A missing color leaves the part white.
type PartConfig struct {
	Name     string      `yaml:"name"`
	Parent   string      `yaml:"parent"`
	Mesh     uint32      `yaml:"mesh"`
	Texture  *uint32     `yaml:"texture"`
	Color    *uint32     `yaml:"color"`
	Hidden   bool        `yaml:"hidden"`
	Position [3]float32  `yaml:"position"`
	Rotation [3]float32  `yaml:"rotation"`
	Size     *[3]float32 `yaml:"size"`
	// Spin is in degrees per second.
	Spin [3]float32 `yaml:"spin"`
}

func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info", Encoding: "console"},
		Loop:   LoopConfig{FrameTime: 16 * time.Millisecond},
		Window: WindowConfig{Width: 1280, Height: 720},
		Game:   GameConfig{Genre: "action"},
		Camera: CameraConfig{FOV: 70, Near: 0.1, Far: 100},
	}
}

// AspectRatio is width over height.
func (c *Config) AspectRatio() float32 {
	return float32(c.Window.Width) / float32(c.Window.Height)
}

func (c *Config) LogLevel() log.Level {
	level, _ := log.ParseLevel(c.Log.Level)
	return level
}

// LoadYAML decodes a config from r on top of Default and validates it.
func LoadYAML(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile reads path; an empty path yields Default.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return LoadYAML(f)
}

func (c *Config) Validate() error {
	var errs []error
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Encoding != "json" && c.Log.Encoding != "console" {
		errs = append(errs, fmt.Errorf("log encoding %q", c.Log.Encoding))
	}
	if c.Loop.Frames < 0 {
		errs = append(errs, fmt.Errorf("loop frames %d", c.Loop.Frames))
	}
	if c.Loop.FrameTime <= 0 {
		errs = append(errs, fmt.Errorf("loop frame_time %s", c.Loop.FrameTime))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %g", c.Camera.FOV))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera clip planes %g..%g", c.Camera.Near, c.Camera.Far))
	}

	seen := make(map[string]struct{}, len(c.Parts))
	for i, p := range c.Parts {
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("part %d has no name", i))
			continue
		}
		if p.Parent != "" {
			if _, ok := seen[p.Parent]; !ok {
				errs = append(errs, fmt.Errorf("part %q: parent %q must be declared earlier", p.Name, p.Parent))
			}
		}
		if p.Color != nil && *p.Color > 0xFFFFFF {
			errs = append(errs, fmt.Errorf("part %q: color %#x", p.Name, *p.Color))
		}
		seen[p.Name] = struct{}{}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
