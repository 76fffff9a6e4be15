package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const appName = "obras"

// Vault represents the managed data directory for obras
type Vault struct {
	RootPath   string
	DBPath     string
	AssetsPath string
	InboxPath  string
	LogsPath   string
	ConfigPath string
}

// New creates a new Vault instance with XDG-compliant paths
func New() (*Vault, error) {
	rootPath, rootErr := getVaultRoot()
	configPath, configErr := getConfigPath()
	if rootErr != nil {
		return nil, fmt.Errorf("failed to determine vault root: %w", rootErr)
	}
	if configErr != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", configErr)
	}

	return NewAt(rootPath, configPath), nil
}

// NewAt lays the vault out under rootPath
func NewAt(rootPath, configPath string) *Vault {
	return &Vault{
		RootPath:   rootPath,
		DBPath:     filepath.Join(rootPath, appName+".db"),
		AssetsPath: filepath.Join(rootPath, "assets"),
		InboxPath:  filepath.Join(rootPath, "inbox"),
		LogsPath:   filepath.Join(rootPath, "logs"),
		ConfigPath: configPath,
	}
}

// getVaultRoot follows XDG Base Directory conventions on Unix and uses AppData on Windows
func getVaultRoot() (string, error) {
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, appName), nil
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", appName), nil
}

func getConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.yaml"), nil
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName+"-config", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", appName, "config.yaml"), nil
}

// Initialize creates the vault directory structure if it doesn't exist
func (v *Vault) Initialize() error {
	directories := []string{
		v.RootPath,
		v.AssetsPath,
		v.InboxPath,
		v.LogsPath,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Exists checks if the vault has been initialized
func (v *Vault) Exists() bool {
	info, err := os.Stat(v.RootPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// LogPath returns the log file location
func (v *Vault) LogPath() string {
	return filepath.Join(v.LogsPath, appName+".log")
}

// GetAssetPath resolves a relative asset name; absolute paths and URLs are returned unchanged
func (v *Vault) GetAssetPath(name string) string {
	if filepath.IsAbs(name) || isURL(name) {
		return name
	}
	return filepath.Join(v.AssetsPath, name)
}

// CaptureDir returns the folder watched by capture
func (v *Vault) CaptureDir(configured string) string {
	if configured != "" {
		return configured
	}
	return v.InboxPath
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
