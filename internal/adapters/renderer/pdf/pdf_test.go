package pdf

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/signintech/gopdf"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/internal/core/services"
)

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func testJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, solidImage(60, 40, color.RGBA{R: 200, G: 120, B: 40, A: 255}), nil); err != nil {
		t.Fatalf("jpeg encode: %v", err)
	}
	return buf.Bytes()
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, solidImage(120, 20, color.RGBA{B: 160, A: 255})); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func testFields() domain.ArtworkFields {
	return domain.ArtworkFields{
		AssetNumber: "BN-100",
		Author:      "Carlos Cruz-Diez",
		Title:       "Physichromie",
		Year:        "1975",
		Technique:   "Serigrafía",
		Dimensions:  "60 x 60 cm",
		Comments:    "Marco de aluminio\nSala principal",
	}
}

func buildDocument(t *testing.T, n int, intro bool) *domain.Document {
	t.Helper()
	return buildDocumentWith(t, testFields(), n, intro)
}

func buildDocumentWith(t *testing.T, fields domain.ArtworkFields, n int, intro bool) *domain.Document {
	t.Helper()

	photo := testJPEG(t)
	var artworks []domain.Artwork
	for i := 0; i < n; i++ {
		a, err := domain.NewArtwork(fields, photo)
		if err != nil {
			t.Fatalf("NewArtwork() error = %v", err)
		}
		artworks = append(artworks, *a)
	}

	doc, err := services.NewAssemblerService(domain.ReplaceAll).Assemble(services.AssembleRequest{
		Artworks:        artworks,
		Settings:        domain.DefaultSettings(),
		Letterhead:      testPNG(t),
		IncludePreamble: intro,
		Now:             time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	return doc
}

func TestRenderer_Render(t *testing.T) {
	tests := []struct {
		name     string
		artworks int
		intro    bool
	}{
		{"single artwork", 1, false},
		{"with intro and signatures", 2, true},
		{"spans several pages", 12, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := New().Render(context.Background(), buildDocument(t, tt.artworks, tt.intro), &buf); err != nil {
				t.Fatalf("Render() error = %v", err)
			}

			out := buf.String()
			if !strings.HasPrefix(out, "%PDF-") {
				t.Errorf("output should start with a PDF header")
			}
			if !strings.Contains(out[len(out)-32:], "%%EOF") {
				t.Errorf("output should end with an EOF marker")
			}
		})
	}
}

func TestLayout_TallRowContinuesOnNextPage(t *testing.T) {
	fields := testFields()
	fields.Comments = strings.Repeat("Restauración documentada ", 150)
	doc := buildDocumentWith(t, fields, 1, false)

	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{Unit: gopdf.UnitPT, PageSize: *gopdf.PageSizeA4})
	defer pdf.Close()
	if err := registerFonts(pdf); err != nil {
		t.Fatalf("registerFonts() error = %v", err)
	}

	l := &layout{pdf: pdf, doc: doc}
	l.newPage()

	table := doc.Tables()[0]
	cell := &table.Rows[0].Cells[0]
	var lines []item
	for i := range cell.Paragraphs {
		items, err := l.layoutParagraph(&cell.Paragraphs[i], contentWidth*float64(cell.WidthPercent)/100)
		if err != nil {
			t.Fatalf("layoutParagraph() error = %v", err)
		}
		lines = append(lines, items...)
	}
	if totalHeight(lines) <= pageHeight-marginTop-marginBottom {
		t.Fatalf("comments should wrap past one page, got %.0fpt", totalHeight(lines))
	}

	if err := l.table(table); err != nil {
		t.Fatalf("table() error = %v", err)
	}
	if l.pages < 2 {
		t.Errorf("expected the row to continue on a second page, got %d page(s)", l.pages)
	}
	if l.y > pageHeight-marginBottom {
		t.Errorf("cursor ended at %.0fpt, past the bottom margin at %.0fpt", l.y, pageHeight-marginBottom)
	}
}

func TestFitting(t *testing.T) {
	items := []item{{height: 10}, {height: 10}, {height: 10}}
	tests := []struct {
		available float64
		expected  int
	}{
		{5, 0},
		{10, 1},
		{25, 2},
		{100, 3},
	}
	for _, tt := range tests {
		if got := fitting(items, tt.available); got != tt.expected {
			t.Errorf("fitting(%v) = %d, want %d", tt.available, got, tt.expected)
		}
	}
}

func TestRenderer_BadImage(t *testing.T) {
	doc := buildDocument(t, 1, false)
	for _, table := range doc.Tables() {
		table.Rows[0].Cells[1].Paragraphs[0].Runs[0].Image.Data = []byte("not an image")
	}

	var buf bytes.Buffer
	err := New().Render(context.Background(), doc, &buf)
	if !errors.Is(err, domain.ErrImageData) {
		t.Errorf("expected ErrImageData, got %v", err)
	}
}

func TestRenderer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	if err := New().Render(ctx, buildDocument(t, 1, false), &buf); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
