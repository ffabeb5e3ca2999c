// Package config loads presentation settings from JSON files and
// AVRENDER_* environment variables and maps them onto renderer options.
//
// The file layer is lenient: missing files yield defaults and out-of-range
// values are clamped by Validate, in contrast to the renderer constructor
// which rejects invalid options outright. Environment variables override
// file values, and a .env file in the working directory is honored when
// present.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/avrender"
	"github.com/opd-ai/avrender/frame"
	"github.com/opd-ai/avrender/geometry"
)

// ROIConfig is the serialized form of a region of interest.
type ROIConfig struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	Encoding string  `json:"encoding"`
}

// Config holds the serializable presentation settings. String fields use
// the enums' String() names.
type Config struct {
	AspectMode        string  `json:"aspect_mode"`
	CustomAspectRatio float64 `json:"custom_aspect_ratio"`
	Orientation       int     `json:"orientation"`
	Quality           string  `json:"quality"`

	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`

	PreferredFormat string `json:"preferred_format"`
	ForceFormat     bool   `json:"force_format"`

	ROI ROIConfig `json:"roi"`
}

// DefaultConfig returns a Config matching the renderer's own defaults.
func DefaultConfig() *Config {
	return &Config{
		AspectMode: geometry.VideoAspectRatio.String(),
		Quality:    avrender.QualityDefault.String(),
	}
}

// Validate clamps or resets values to safe ranges. It never fails; the
// strict checks live in the renderer constructor.
func (c *Config) Validate() error {
	if _, err := geometry.ParseAspectMode(c.AspectMode); err != nil {
		c.AspectMode = geometry.VideoAspectRatio.String()
	}
	mode, _ := geometry.ParseAspectMode(c.AspectMode)
	if mode == geometry.CustomAspectRatio && c.CustomAspectRatio <= 0 {
		c.AspectMode = geometry.VideoAspectRatio.String()
	}
	if c.CustomAspectRatio < 0 {
		c.CustomAspectRatio = 0
	}
	if !geometry.ValidOrientation(c.Orientation) {
		c.Orientation = 0
	} else {
		c.Orientation = geometry.NormalizeOrientation(c.Orientation)
	}
	if _, err := avrender.ParseQuality(c.Quality); err != nil {
		c.Quality = avrender.QualityDefault.String()
	}
	c.Brightness = clamp(c.Brightness, -1, 1)
	c.Contrast = clamp(c.Contrast, -1, 1)
	c.Hue = clamp(c.Hue, -1, 1)
	c.Saturation = clamp(c.Saturation, -1, 1)
	if c.PreferredFormat != "" {
		if _, err := frame.ParsePixelFormat(c.PreferredFormat); err != nil {
			c.PreferredFormat = ""
		}
	}
	if _, err := geometry.ParseROIEncoding(c.ROI.Encoding); err != nil {
		c.ROI.Encoding = geometry.EncodingAuto.String()
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Load reads configuration from the given JSON file. A missing file yields
// defaults without error; a malformed file yields defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("config: decoding %s: %w", path, err)
	}
	_ = cfg.Validate()
	return cfg, nil
}

// LoadWithEnv loads the JSON file, then applies a .env file (when present)
// and AVRENDER_* environment variables on top.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "LoadWithEnv",
		}).Debug("No .env file found")
	}
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// Save writes the configuration to the given path as indented JSON.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// ApplyEnv overrides fields from AVRENDER_* environment variables, then
// re-validates. Unset variables leave fields untouched; unparseable values
// are logged and skipped.
func (c *Config) ApplyEnv() {
	setString("AVRENDER_ASPECT_MODE", &c.AspectMode)
	setFloat("AVRENDER_ASPECT_RATIO", &c.CustomAspectRatio)
	setInt("AVRENDER_ORIENTATION", &c.Orientation)
	setString("AVRENDER_QUALITY", &c.Quality)
	setFloat("AVRENDER_BRIGHTNESS", &c.Brightness)
	setFloat("AVRENDER_CONTRAST", &c.Contrast)
	setFloat("AVRENDER_HUE", &c.Hue)
	setFloat("AVRENDER_SATURATION", &c.Saturation)
	setString("AVRENDER_PIXEL_FORMAT", &c.PreferredFormat)
	setBool("AVRENDER_FORCE_FORMAT", &c.ForceFormat)

	if v := os.Getenv("AVRENDER_ROI"); v != "" {
		if roi, ok := parseROIValue(v); ok {
			c.ROI = roi
		}
	}
	setString("AVRENDER_ROI_ENCODING", &c.ROI.Encoding)
	_ = c.Validate()
}

// parseROIValue parses "x,y,w,h" with optional trailing encoding name.
func parseROIValue(v string) (ROIConfig, bool) {
	parts := strings.Split(v, ",")
	if len(parts) != 4 && len(parts) != 5 {
		logrus.WithFields(logrus.Fields{
			"function": "parseROIValue",
			"value":    v,
		}).Warn("AVRENDER_ROI needs x,y,w,h")
		return ROIConfig{}, false
	}
	nums := make([]float64, 4)
	for i := 0; i < 4; i++ {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "parseROIValue",
				"value":    v,
				"error":    err,
			}).Warn("AVRENDER_ROI component is not a number")
			return ROIConfig{}, false
		}
		nums[i] = f
	}
	roi := ROIConfig{X: nums[0], Y: nums[1], W: nums[2], H: nums[3]}
	if len(parts) == 5 {
		roi.Encoding = strings.TrimSpace(parts[4])
	}
	return roi, true
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setFloat(key string, dst *float64) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "setFloat",
			"variable": key,
			"error":    err,
		}).Warn("Ignoring unparseable environment value")
		return
	}
	*dst = f
}

func setInt(key string, dst *int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "setInt",
			"variable": key,
			"error":    err,
		}).Warn("Ignoring unparseable environment value")
		return
	}
	*dst = n
}

func setBool(key string, dst *bool) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "setBool",
			"variable": key,
			"error":    err,
		}).Warn("Ignoring unparseable environment value")
		return
	}
	*dst = b
}

// Options converts the validated configuration into renderer options.
func (c *Config) Options() *avrender.Options {
	_ = c.Validate()
	opts := avrender.NewOptions()

	mode, _ := geometry.ParseAspectMode(c.AspectMode)
	opts.AspectMode = mode
	opts.CustomAspectRatio = c.CustomAspectRatio
	opts.Orientation = c.Orientation

	quality, _ := avrender.ParseQuality(c.Quality)
	opts.Quality = quality

	opts.Brightness = c.Brightness
	opts.Contrast = c.Contrast
	opts.Hue = c.Hue
	opts.Saturation = c.Saturation

	if c.PreferredFormat != "" {
		format, _ := frame.ParsePixelFormat(c.PreferredFormat)
		opts.PreferredFormat = format
		opts.ForcePreferredFormat = c.ForceFormat
	}

	encoding, _ := geometry.ParseROIEncoding(c.ROI.Encoding)
	opts.RegionOfInterest = geometry.ROI{
		X: c.ROI.X, Y: c.ROI.Y, W: c.ROI.W, H: c.ROI.H,
		Encoding: encoding,
	}
	return opts
}
