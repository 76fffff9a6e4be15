package domain

import (
	"testing"
	"time"
)

func TestSubstitute(t *testing.T) {
	values := map[string]string{
		TokenOffice:   "OSA",
		TokenLocation: "Piso 3",
	}

	tests := []struct {
		name     string
		template string
		mode     ReplaceMode
		expected string
	}{
		{"single token", "Oficina {OFICINA}", ReplaceAll, "Oficina OSA"},
		{"two tokens", "{OFICINA} en {UBICACION}", ReplaceAll, "OSA en Piso 3"},
		{"repeated all", "{OFICINA} y {OFICINA}", ReplaceAll, "OSA y OSA"},
		{"repeated first", "{OFICINA} y {OFICINA}", ReplaceFirst, "OSA y {OFICINA}"},
		{"unknown token kept", "{OTRO} {OFICINA}", ReplaceAll, "{OTRO} OSA"},
		{"no tokens", "Texto plano", ReplaceFirst, "Texto plano"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Substitute(tt.template, values, tt.mode); got != tt.expected {
				t.Errorf("Substitute() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestParseReplaceMode(t *testing.T) {
	tests := []struct {
		input    string
		expected ReplaceMode
		wantErr  bool
	}{
		{"", ReplaceAll, false},
		{"all", ReplaceAll, false},
		{"FIRST", ReplaceFirst, false},
		{"some", ReplaceAll, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseReplaceMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseReplaceMode(%q) error = %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseReplaceMode(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		text     string
		expected int
	}{
		{"una", 1},
		{"una\ndos", 2},
		{"una\r\ndos\r\ntres", 3},
		{"\n\n", 3},
		{"", 1},
	}

	for _, tt := range tests {
		if got := len(SplitLines(tt.text)); got != tt.expected {
			t.Errorf("SplitLines(%q) gave %d lines, want %d", tt.text, got, tt.expected)
		}
	}
}

func TestFormatLongDate(t *testing.T) {
	tests := []struct {
		date     time.Time
		expected string
	}{
		{time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC), "15 de octubre de 2026"},
		{time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), "5 de enero de 2025"},
		{time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC), "31 de diciembre de 2024"},
	}

	for _, tt := range tests {
		if got := FormatLongDate(tt.date); got != tt.expected {
			t.Errorf("FormatLongDate() = %q, want %q", got, tt.expected)
		}
	}
}
