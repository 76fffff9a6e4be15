package domain

import (
	"errors"
	"testing"
)

func TestMergeSettings(t *testing.T) {
	defaults := DefaultSettings()

	tests := []struct {
		name    string
		saved   string
		check   func(t *testing.T, s Settings)
		wantErr bool
	}{
		{
			name:  "nothing saved",
			saved: "",
			check: func(t *testing.T, s Settings) {
				if s != defaults {
					t.Errorf("expected defaults")
				}
			},
		},
		{
			name:  "saved key overrides",
			saved: `{"officeName":"OSA"}`,
			check: func(t *testing.T, s Settings) {
				if s.OfficeName != "OSA" {
					t.Errorf("expected OSA, got %q", s.OfficeName)
				}
				if s.Title != defaults.Title {
					t.Errorf("absent key should keep default")
				}
			},
		},
		{
			name:  "saved empty value wins",
			saved: `{"title":""}`,
			check: func(t *testing.T, s Settings) {
				if s.Title != "" {
					t.Errorf("expected empty title, got %q", s.Title)
				}
			},
		},
		{
			name:  "empty closing text reverts",
			saved: `{"closingText":""}`,
			check: func(t *testing.T, s Settings) {
				if s.ClosingText != defaults.ClosingText {
					t.Errorf("expected default closing text")
				}
			},
		},
		{
			name:    "corrupt record",
			saved:   `{"officeName":`,
			wantErr: true,
			check: func(t *testing.T, s Settings) {
				if s != defaults {
					t.Errorf("corrupt record should yield defaults")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := MergeSettings([]byte(tt.saved))
			if (err != nil) != tt.wantErr {
				t.Fatalf("MergeSettings() error = %v, wantErr %v", err, tt.wantErr)
			}
			tt.check(t, s)
		})
	}
}

func TestSettings_WithAndGet(t *testing.T) {
	s := DefaultSettings()

	next, err := s.With("custodianname", "Ana")
	if err != nil {
		t.Fatalf("With() error = %v", err)
	}
	if next.CustodianName != "Ana" || s.CustodianName == "Ana" {
		t.Errorf("With should return a modified copy")
	}

	got, err := next.Get("custodianName")
	if err != nil || got != "Ana" {
		t.Errorf("Get() = %q, %v", got, err)
	}

	if _, err := s.With("nope", "x"); !errors.Is(err, ErrUnknownSetting) {
		t.Errorf("expected ErrUnknownSetting, got %v", err)
	}
	if len(SettingKeys()) != 12 {
		t.Errorf("expected 12 keys, got %d", len(SettingKeys()))
	}
}
