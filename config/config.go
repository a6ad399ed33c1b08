/*
Package config loads the encoder and player settings from a TOML file.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bodgit/monovid/bitmap"
	"github.com/bodgit/monovid/chunk"
	"github.com/disintegration/imaging"
)

// Display describes the target panel.
type Display struct {
	Width     int `toml:"width"`
	Height    int `toml:"height"`
	FrameRate int `toml:"frame_rate"`
}

// Encoder holds the tuning constants and the image conversion options.
type Encoder struct {
	DiffPercent    int    `toml:"diff_percent"`
	UniformPenalty int    `toml:"uniform_penalty"`
	Threshold      int    `toml:"threshold"`
	Invert         bool   `toml:"invert"`
	Mode           string `toml:"mode"`
	Fit            string `toml:"fit"`
	Filter         string `toml:"filter"`
	Limit          int    `toml:"limit"`
}

// Config is the complete configuration.
type Config struct {
	Display Display `toml:"display"`
	Encoder Encoder `toml:"encoder"`
}

var (
	modes = map[string]bitmap.Mode{
		"threshold": bitmap.Threshold,
		"quantize":  bitmap.Quantize,
	}
	fits = map[string]bitmap.Fit{
		"letterbox": bitmap.Letterbox,
		"crop":      bitmap.Crop,
	}
	filters = map[string]imaging.ResampleFilter{
		"nearest":  imaging.NearestNeighbor,
		"box":      imaging.Box,
		"linear":   imaging.Linear,
		"lanczos":  imaging.Lanczos,
		"catmull":  imaging.CatmullRom,
		"gaussian": imaging.Gaussian,
	}
)

// Default returns the settings for a 128x64 panel at 12 frames per second.
func Default() Config {
	return Config{
		Display: Display{
			Width:     128,
			Height:    64,
			FrameRate: 12,
		},
		Encoder: Encoder{
			DiffPercent:    chunk.DefaultConfig.DiffPercent,
			UniformPenalty: chunk.DefaultConfig.UniformPenalty,
			Threshold:      127,
			Mode:           "threshold",
			Fit:            "letterbox",
			Filter:         "nearest",
		},
	}
}

// Load reads file over the defaults and validates the result.
func Load(file string) (Config, error) {
	c := Default()
	if _, err := toml.DecodeFile(file, &c); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks every value is usable.
func (c Config) Validate() error {
	switch {
	case c.Display.Width < 1 || c.Display.Width > bitmap.MaxSize:
		return fmt.Errorf("config: display width %d not in 1..%d", c.Display.Width, bitmap.MaxSize)
	case c.Display.Height < 1 || c.Display.Height > bitmap.MaxSize:
		return fmt.Errorf("config: display height %d not in 1..%d", c.Display.Height, bitmap.MaxSize)
	case c.Display.FrameRate < 1:
		return fmt.Errorf("config: frame rate %d must be positive", c.Display.FrameRate)
	case c.Encoder.DiffPercent < 0:
		return fmt.Errorf("config: diff percent %d is negative", c.Encoder.DiffPercent)
	case c.Encoder.UniformPenalty < 0:
		return fmt.Errorf("config: uniform penalty %d is negative", c.Encoder.UniformPenalty)
	case c.Encoder.Threshold < 0 || c.Encoder.Threshold > 255:
		return fmt.Errorf("config: threshold %d not in 0..255", c.Encoder.Threshold)
	case c.Encoder.Limit < 0:
		return fmt.Errorf("config: frame limit %d is negative", c.Encoder.Limit)
	}
	if _, ok := modes[strings.ToLower(c.Encoder.Mode)]; !ok {
		return fmt.Errorf("config: unknown mode %q", c.Encoder.Mode)
	}
	if _, ok := fits[strings.ToLower(c.Encoder.Fit)]; !ok {
		return fmt.Errorf("config: unknown fit %q", c.Encoder.Fit)
	}
	if _, ok := filters[strings.ToLower(c.Encoder.Filter)]; !ok {
		return fmt.Errorf("config: unknown filter %q", c.Encoder.Filter)
	}
	return nil
}

// Chunk returns the change detector tuning.
func (c Config) Chunk() chunk.Config {
	return chunk.Config{
		DiffPercent:    c.Encoder.DiffPercent,
		UniformPenalty: c.Encoder.UniformPenalty,
	}
}

// Converter returns an image converter targeting the display. The config
// must be valid.
func (c Config) Converter() *bitmap.Converter {
	return &bitmap.Converter{
		Width:     c.Display.Width,
		Height:    c.Display.Height,
		Threshold: uint8(c.Encoder.Threshold),
		Invert:    c.Encoder.Invert,
		Mode:      modes[strings.ToLower(c.Encoder.Mode)],
		Fit:       fits[strings.ToLower(c.Encoder.Fit)],
		Filter:    filters[strings.ToLower(c.Encoder.Filter)],
	}
}
