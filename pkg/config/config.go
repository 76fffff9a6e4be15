package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the obras configuration
type Config struct {
	LogLevel                 string `yaml:"log_level"`
	LogFormat                string `yaml:"log_format"`
	Letterhead               string `yaml:"letterhead"`
	LetterheadTimeoutSeconds int    `yaml:"letterhead_timeout_seconds"`
	OutputName               string `yaml:"output_name"`
	OutputDir                string `yaml:"output_dir"`
	DefaultFormat            string `yaml:"default_format"`
	ImageMaxWidth            int    `yaml:"image_max_width"`
	ImageQuality             int    `yaml:"image_quality"`
	PlaceholderMode          string `yaml:"placeholder_mode"`
	AskIntro                 bool   `yaml:"ask_intro"`
	CopyOutputPath           bool   `yaml:"copy_output_path"`
	CaptureDir               string `yaml:"capture_dir"`
	CaptureSettleMS          int    `yaml:"capture_settle_ms"`
	ColorTheme               string `yaml:"color_theme"`
	Editor                   string `yaml:"editor"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:                 "info",
		LogFormat:                "text",
		Letterhead:               "logo.jpg",
		LetterheadTimeoutSeconds: 10,
		OutputName:               "ListadoDeObras",
		OutputDir:                "", // Current directory
		DefaultFormat:            "docx",
		ImageMaxWidth:            800,
		ImageQuality:             70,
		PlaceholderMode:          "all",
		AskIntro:                 true,
		CopyOutputPath:           true,
		CaptureDir:               "", // Vault inbox
		CaptureSettleMS:          500,
		ColorTheme:               "auto",
		Editor:                   "", // Use $EDITOR
	}
}

// Keys lists the settable keys in file order
func Keys() []string {
	return []string{
		"log_level", "log_format", "letterhead", "letterhead_timeout_seconds",
		"output_name", "output_dir", "default_format", "image_max_width",
		"image_quality", "placeholder_mode", "ask_intro", "copy_output_path",
		"capture_dir", "capture_settle_ms", "color_theme", "editor",
	}
}

// Load reads the configuration from the given path
// If the file doesn't exist, returns default configuration
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults restores defaults for empty essentials and invalid enum values
func (c *Config) applyDefaults() {
	d := DefaultConfig()

	if c.Letterhead == "" {
		c.Letterhead = d.Letterhead
	}
	if c.OutputName == "" {
		c.OutputName = d.OutputName
	}
	if c.LetterheadTimeoutSeconds <= 0 {
		c.LetterheadTimeoutSeconds = d.LetterheadTimeoutSeconds
	}
	if c.ImageMaxWidth <= 0 {
		c.ImageMaxWidth = d.ImageMaxWidth
	}
	if c.ImageQuality <= 0 || c.ImageQuality > 100 {
		c.ImageQuality = d.ImageQuality
	}
	if c.CaptureSettleMS <= 0 {
		c.CaptureSettleMS = d.CaptureSettleMS
	}

	if !isValidLogLevel(c.LogLevel) {
		c.LogLevel = d.LogLevel
	}
	if !isValidLogFormat(c.LogFormat) {
		c.LogFormat = d.LogFormat
	}
	if !isValidFormat(c.DefaultFormat) {
		c.DefaultFormat = d.DefaultFormat
	}
	if !isValidPlaceholderMode(c.PlaceholderMode) {
		c.PlaceholderMode = d.PlaceholderMode
	}
	if !isValidTheme(c.ColorTheme) {
		c.ColorTheme = d.ColorTheme
	}
}

// Save writes the configuration to the given path
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get returns the string form of a key
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	case "letterhead":
		return c.Letterhead, nil
	case "letterhead_timeout_seconds":
		return strconv.Itoa(c.LetterheadTimeoutSeconds), nil
	case "output_name":
		return c.OutputName, nil
	case "output_dir":
		return c.OutputDir, nil
	case "default_format":
		return c.DefaultFormat, nil
	case "image_max_width":
		return strconv.Itoa(c.ImageMaxWidth), nil
	case "image_quality":
		return strconv.Itoa(c.ImageQuality), nil
	case "placeholder_mode":
		return c.PlaceholderMode, nil
	case "ask_intro":
		return strconv.FormatBool(c.AskIntro), nil
	case "copy_output_path":
		return strconv.FormatBool(c.CopyOutputPath), nil
	case "capture_dir":
		return c.CaptureDir, nil
	case "capture_settle_ms":
		return strconv.Itoa(c.CaptureSettleMS), nil
	case "color_theme":
		return c.ColorTheme, nil
	case "editor":
		return c.Editor, nil
	}
	return "", fmt.Errorf("unknown config key %q", key)
}

// Set parses value and stores it under key
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case "log_level":
		if !isValidLogLevel(value) {
			return fmt.Errorf("invalid log level %q (debug, info, warn, error)", value)
		}
		c.LogLevel = value
	case "log_format":
		if !isValidLogFormat(value) {
			return fmt.Errorf("invalid log format %q (text, json)", value)
		}
		c.LogFormat = value
	case "letterhead":
		c.Letterhead = value
	case "letterhead_timeout_seconds":
		return setPositive(&c.LetterheadTimeoutSeconds, key, value, 0)
	case "output_name":
		if value == "" || strings.ContainsAny(value, `/\`) {
			return fmt.Errorf("invalid output name %q", value)
		}
		c.OutputName = value
	case "output_dir":
		c.OutputDir = value
	case "default_format":
		if !isValidFormat(value) {
			return fmt.Errorf("invalid format %q (docx, pdf)", value)
		}
		c.DefaultFormat = value
	case "image_max_width":
		return setPositive(&c.ImageMaxWidth, key, value, 0)
	case "image_quality":
		return setPositive(&c.ImageQuality, key, value, 100)
	case "placeholder_mode":
		if !isValidPlaceholderMode(value) {
			return fmt.Errorf("invalid placeholder mode %q (all, first)", value)
		}
		c.PlaceholderMode = value
	case "ask_intro":
		return setBool(&c.AskIntro, key, value)
	case "copy_output_path":
		return setBool(&c.CopyOutputPath, key, value)
	case "capture_dir":
		c.CaptureDir = value
	case "capture_settle_ms":
		return setPositive(&c.CaptureSettleMS, key, value, 0)
	case "color_theme":
		if !isValidTheme(value) {
			return fmt.Errorf("invalid color theme %q (auto, light, dark, none)", value)
		}
		c.ColorTheme = value
	case "editor":
		c.Editor = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func setPositive(dst *int, key, value string, limit int) error {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 || (limit > 0 && n > limit) {
		return fmt.Errorf("%s must be a positive integer", key)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s must be true or false", key)
	}
	*dst = b
	return nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

func isValidLogFormat(format string) bool {
	return format == "text" || format == "json"
}

func isValidFormat(format string) bool {
	return format == "docx" || format == "pdf"
}

func isValidPlaceholderMode(mode string) bool {
	return mode == "all" || mode == "first"
}

func isValidTheme(theme string) bool {
	switch theme {
	case "auto", "light", "dark", "none":
		return true
	}
	return false
}
