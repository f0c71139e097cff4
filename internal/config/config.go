// Package config holds the settings of the gradcam command.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/born-ml/gradcam/internal/models"
	"github.com/born-ml/gradcam/internal/render"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config describes a Grad-CAM run.
type Config struct {
	// Model is a name from models.Names.
	Model string `json:"model"`

	// ImageSize is the square input edge length. Zero uses the model's size.
	ImageSize int `json:"image_size,omitempty"`

	// Mean and Std are the per-channel input normalization.
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`

	// Classes names the model outputs in order.
	Classes []string `json:"classes"`

	// TargetLayers are the layers to compute maps for.
	TargetLayers []string `json:"target_layers"`

	TileSize int   `json:"tile_size"`
	TopK     int   `json:"top_k"`
	Seed     int64 `json:"seed"`

	// Weights is an optional SafeTensors file for the model.
	Weights string `json:"weights,omitempty"`
}

// Default returns the CIFAR-10 setup.
func Default() Config {
	return Config{
		Model: "cifar-vgg",
		Mean:  []float64{0.4914, 0.4822, 0.4465},
		Std:   []float64{0.2470, 0.2435, 0.2616},
		Classes: []string{
			"plane", "car", "bird", "cat", "deer",
			"dog", "frog", "horse", "ship", "truck",
		},
		TargetLayers: []string{"features.3", "features.8", "features.11"},
		TileSize:     render.DefaultTileSize,
		TopK:         3,
		Seed:         1,
	}
}

// Load reads a JSON config file. Fields missing from the file keep their
// Default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config as indented JSON.
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// Input returns the model description and the effective input size.
func (c Config) Input() (models.Info, int, error) {
	info, err := models.Lookup(c.Model)
	if err != nil {
		return models.Info{}, 0, err
	}
	size := c.ImageSize
	if size == 0 {
		size = info.Height
	}
	return info, size, nil
}

// Validate checks the config against the selected model.
func (c Config) Validate() error {
	info, size, err := c.Input()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if size != info.Height || size != info.Width {
		return fmt.Errorf("%w: image size %d, model %s expects %dx%d", ErrInvalid, size, c.Model, info.Height, info.Width)
	}
	if len(c.Mean) != info.Channels || len(c.Std) != info.Channels {
		return fmt.Errorf("%w: model %s has %d channels, got %d means and %d stds",
			ErrInvalid, c.Model, info.Channels, len(c.Mean), len(c.Std))
	}
	for i, s := range c.Std {
		if s <= 0 {
			return fmt.Errorf("%w: std[%d] = %g must be positive", ErrInvalid, i, s)
		}
	}
	if len(c.Classes) == 0 {
		return fmt.Errorf("%w: no class names", ErrInvalid)
	}
	if len(c.TargetLayers) == 0 {
		return fmt.Errorf("%w: no target layers", ErrInvalid)
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("%w: tile size must be positive", ErrInvalid)
	}
	if c.TopK <= 0 || c.TopK > len(c.Classes) {
		return fmt.Errorf("%w: top-k %d outside [1, %d]", ErrInvalid, c.TopK, len(c.Classes))
	}
	return nil
}
