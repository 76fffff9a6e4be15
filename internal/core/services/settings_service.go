package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/internal/core/ports"
)

// SettingsService handles the document boilerplate settings
type SettingsService struct {
	store  ports.SettingsStore
	logger *slog.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(store ports.SettingsStore, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		store:  store,
		logger: orDiscard(logger),
	}
}

// Load returns the effective settings (defaults merged with saved values)
func (s *SettingsService) Load(ctx context.Context) (domain.Settings, error) {
	settings, err := s.store.LoadSettings(ctx)
	if err != nil {
		return domain.DefaultSettings(), fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// Set changes one key and persists the full record
func (s *SettingsService) Set(ctx context.Context, key, value string) (domain.Settings, error) {
	next, err := s.store.UpdateSettings(ctx, func(current domain.Settings) (domain.Settings, error) {
		return current.With(key, value)
	})
	if errors.Is(err, domain.ErrUnknownSetting) {
		return next, err
	}
	if err != nil {
		return next, fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.Info("setting changed", "key", key)
	return next, nil
}

// Replace persists a complete settings record. An empty closing text
// reverts to the default, matching what a later load would produce.
func (s *SettingsService) Replace(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	if settings.ClosingText == "" {
		settings.ClosingText = domain.DefaultSettings().ClosingText
	}
	saved, err := s.store.UpdateSettings(ctx, func(domain.Settings) (domain.Settings, error) {
		return settings, nil
	})
	if err != nil {
		return saved, fmt.Errorf("failed to save settings: %w", err)
	}
	s.logger.Info("settings replaced")
	return saved, nil
}

// Reset drops all saved values so the defaults apply again
func (s *SettingsService) Reset(ctx context.Context) (domain.Settings, error) {
	if err := s.store.ResetSettings(ctx); err != nil {
		return domain.DefaultSettings(), fmt.Errorf("failed to reset settings: %w", err)
	}
	s.logger.Info("settings reset to defaults")
	return domain.DefaultSettings(), nil
}
