package services

import (
	"context"
	"errors"
	"testing"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/internal/core/ports/mocks"
)

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		value       string
		expectedErr error
	}{
		{name: "exact key", key: "officeName", value: "OSA"},
		{name: "case-insensitive key", key: "OFFICENAME", value: "OSA"},
		{name: "unknown key", key: "color", value: "red", expectedErr: domain.ErrUnknownSetting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockSettingsStore()
			svc := NewSettingsService(store, nil)

			got, err := svc.Set(context.Background(), tt.key, tt.value)
			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("expected %v, got %v", tt.expectedErr, err)
				}
				if store.HasSaved() {
					t.Errorf("unknown key must not save")
				}
				return
			}
			if err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if got.OfficeName != tt.value {
				t.Errorf("expected officeName %q, got %q", tt.value, got.OfficeName)
			}

			loaded, _ := svc.Load(context.Background())
			if loaded.OfficeName != tt.value {
				t.Errorf("value was not persisted")
			}
			if loaded.Title != domain.DefaultSettings().Title {
				t.Errorf("other keys should keep their defaults")
			}
		})
	}
}

func TestSettingsService_ReplaceAndReset(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewMockSettingsStore()
	svc := NewSettingsService(store, nil)

	custom := domain.DefaultSettings()
	custom.Title = "Otro título"
	custom.ClosingText = ""

	saved, err := svc.Replace(ctx, custom)
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if saved.ClosingText != domain.DefaultSettings().ClosingText {
		t.Errorf("empty closing text should revert to the default")
	}

	reset, err := svc.Reset(ctx)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if reset != domain.DefaultSettings() || store.HasSaved() {
		t.Errorf("reset should restore defaults and drop the saved record")
	}
}

func TestSettingsService_SetKeepsEarlierChanges(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewMockSettingsStore()
	svc := NewSettingsService(store, nil)

	if _, err := svc.Set(ctx, "officeName", "OSA"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := svc.Set(ctx, "location", "Piso 3")
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got.OfficeName != "OSA" || got.Location != "Piso 3" {
		t.Errorf("expected both changes, got officeName=%q location=%q", got.OfficeName, got.Location)
	}
}

func TestSettingsService_SaveFailure(t *testing.T) {
	store := mocks.NewMockSettingsStore()
	store.SaveErr = errors.New("disk full")
	svc := NewSettingsService(store, nil)

	if _, err := svc.Set(context.Background(), "officeName", "OSA"); err == nil {
		t.Fatal("expected the save error to surface")
	}
	if _, err := svc.Replace(context.Background(), domain.DefaultSettings()); err == nil {
		t.Fatal("expected the save error to surface")
	}
	if store.HasSaved() {
		t.Error("nothing should be stored after a failed save")
	}
}
