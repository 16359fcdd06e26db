package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "VOCREVIEW_"

// Config holds the application configuration
type Config struct {
	Review    ReviewConfig    `json:"review"`
	Display   DisplayConfig   `json:"display"`
	Companion CompanionConfig `json:"companion"`
	Log       LogConfig       `json:"log"`
}

// ReviewConfig holds the review inputs and outputs
type ReviewConfig struct {
	Folder    string `json:"folder" validate:"required"`
	Out       string `json:"out" validate:"required"`
	ClassFile string `json:"class_file" validate:"required"`
}

// DisplayConfig holds the target viewport
type DisplayConfig struct {
	Width   int `json:"width" validate:"min=1"`
	Height  int `json:"height" validate:"min=1"`
	Outline int `json:"outline" validate:"min=0,max=50"`
}

// CompanionConfig selects how an annotation's image is located
type CompanionConfig struct {
	Strategy string `json:"strategy" validate:"oneof=ext path"`
	ImageExt string `json:"image_ext" validate:"required_if=Strategy ext"`
}

// LogConfig holds logging options
type LogConfig struct {
	Level string `json:"level" validate:"oneof=trace debug info warn warning error"`
	File  string `json:"file"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			Width:  1920,
			Height: 1080,
		},
		Companion: CompanionConfig{
			Strategy: "ext",
			ImageExt: "png",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadFromFile loads configuration from a JSON file on top of the defaults
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// ApplyEnv overrides fields from VOCREVIEW_* environment variables
func (c *Config) ApplyEnv() error {
	strs := map[string]*string{
		"FOLDER":     &c.Review.Folder,
		"OUT":        &c.Review.Out,
		"CLASS_FILE": &c.Review.ClassFile,
		"COMPANION":  &c.Companion.Strategy,
		"IMAGE_EXT":  &c.Companion.ImageExt,
		"LOG_LEVEL":  &c.Log.Level,
		"LOG_FILE":   &c.Log.File,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"DISPLAY_WIDTH":  &c.Display.Width,
		"DISPLAY_HEIGHT": &c.Display.Height,
		"OUTLINE":        &c.Display.Outline,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(EnvPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s must be an integer: %w", EnvPrefix, key, err)
		}
		*dst = n
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", strings.ToLower(fe.Namespace()), fe.ActualTag(), fe.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
