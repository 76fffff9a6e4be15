package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DefaultFormat != "docx" {
		t.Errorf("expected DefaultFormat='docx', got %q", cfg.DefaultFormat)
	}
	if cfg.OutputName != "ListadoDeObras" {
		t.Errorf("expected OutputName='ListadoDeObras', got %q", cfg.OutputName)
	}
	if cfg.ImageMaxWidth != 800 {
		t.Errorf("expected ImageMaxWidth=800, got %d", cfg.ImageMaxWidth)
	}
	if cfg.ImageQuality != 70 {
		t.Errorf("expected ImageQuality=70, got %d", cfg.ImageQuality)
	}
	if cfg.PlaceholderMode != "all" {
		t.Errorf("expected PlaceholderMode='all', got %q", cfg.PlaceholderMode)
	}
	if !cfg.AskIntro {
		t.Error("expected AskIntro to default to true")
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("expected default config, got %+v", cfg)
	}
}

func TestSave_And_Load(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.DefaultFormat = "pdf"
	cfg.Letterhead = "https://example.org/logo.png"
	cfg.AskIntro = false
	cfg.ImageQuality = 85

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loadedCfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if *loadedCfg != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loadedCfg, cfg)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `output_name: ""
image_max_width: 0
image_quality: 250
default_format: odt
placeholder_mode: some
log_level: loud
editor: nvim
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to create test config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	d := DefaultConfig()
	if cfg.OutputName != d.OutputName {
		t.Errorf("expected default OutputName, got %q", cfg.OutputName)
	}
	if cfg.ImageMaxWidth != d.ImageMaxWidth {
		t.Errorf("expected default ImageMaxWidth, got %d", cfg.ImageMaxWidth)
	}
	if cfg.ImageQuality != d.ImageQuality {
		t.Errorf("expected default ImageQuality, got %d", cfg.ImageQuality)
	}
	if cfg.DefaultFormat != "docx" {
		t.Errorf("expected invalid format to reset to docx, got %q", cfg.DefaultFormat)
	}
	if cfg.PlaceholderMode != "all" {
		t.Errorf("expected invalid placeholder mode to reset, got %q", cfg.PlaceholderMode)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected invalid log level to reset, got %q", cfg.LogLevel)
	}

	// Should preserve specified values
	if cfg.Editor != "nvim" {
		t.Errorf("expected Editor='nvim', got %q", cfg.Editor)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("default_format: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to create test config file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfig_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{"format pdf", "default_format", "pdf", false},
		{"format unknown", "default_format", "odt", true},
		{"quality", "image_quality", "90", false},
		{"quality too high", "image_quality", "101", true},
		{"width not a number", "image_max_width", "wide", true},
		{"bool", "ask_intro", "false", false},
		{"bool invalid", "copy_output_path", "maybe", true},
		{"output name with slash", "output_name", "a/b", true},
		{"placeholder first", "placeholder_mode", "first", false},
		{"unknown key", "max_workers", "4", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatalf("Get(%q) error = %v", tt.key, err)
			}
			if got != tt.value {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.value)
			}
		})
	}
}

func TestKeys_AllGettable(t *testing.T) {
	cfg := DefaultConfig()
	for _, key := range Keys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Get(%q) error = %v", key, err)
		}
	}
}
