package ui

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{"no limit", "Reticulárea", 0, "Reticulárea"},
		{"fits", "Gego", 10, "Gego"},
		{"accented", "Reticulárea", 6, "Retic…"},
		{"exact", "Soto", 4, "Soto"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.width); got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.expected)
			}
		})
	}
}

func TestTable_Render(t *testing.T) {
	SetTheme("none")
	defer SetTheme("auto")

	table := NewTable([]TableColumn{
		{Header: "#", Align: "right"},
		{Header: "Autor"},
		{Header: "Título", MaxWidth: 8},
	})
	table.AddRow("1", "Jesús Soto", "Penetrable\namarillo")
	table.AddRow("12", "Gego", "Esfera")

	lines := strings.Split(strings.TrimRight(table.Render(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, separator and 2 rows, got %d lines:\n%s", len(lines), strings.Join(lines, "\n"))
	}
	if strings.TrimRight(lines[2], " ") != " 1  Jesús Soto  Penetra…" {
		t.Errorf("unexpected first row %q", lines[2])
	}
	if strings.TrimRight(lines[3], " ") != "12  Gego        Esfera" {
		t.Errorf("unexpected second row %q", lines[3])
	}
}

func TestTable_NoColumns(t *testing.T) {
	if got := NewTable(nil).Render(); got != "" {
		t.Errorf("expected empty render, got %q", got)
	}
}

func TestFormatActive(t *testing.T) {
	SetTheme("none")
	defer SetTheme("auto")

	if got := FormatActive("Sala 1"); got != IconActive+" Sala 1" {
		t.Errorf("FormatActive() = %q", got)
	}
}
