package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/internal/core/services"
)

var (
	jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0xFF, 0xD9}
	pngBytes  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00}
)

func buildDocument(t *testing.T, n int, intro bool) *domain.Document {
	t.Helper()

	var artworks []domain.Artwork
	for i := 0; i < n; i++ {
		a, err := domain.NewArtwork(domain.ArtworkFields{
			AssetNumber: "BN-" + string(rune('1'+i)),
			Author:      "Gego",
			Title:       "Reticulárea <" + string(rune('A'+i)) + "> & co",
			Comments:    "primera línea\nsegunda línea",
		}, jpegBytes)
		if err != nil {
			t.Fatalf("NewArtwork() error = %v", err)
		}
		artworks = append(artworks, *a)
	}

	doc, err := services.NewAssemblerService(domain.ReplaceAll).Assemble(services.AssembleRequest{
		Artworks:        artworks,
		Settings:        domain.DefaultSettings(),
		Letterhead:      pngBytes,
		IncludePreamble: intro,
		Now:             time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	return doc
}

func renderToZip(t *testing.T, doc *domain.Document) map[string]string {
	t.Helper()

	var buf bytes.Buffer
	if err := New().Render(context.Background(), doc, &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("output is not a zip: %v", err)
	}

	files := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		files[f.Name] = string(data)
	}
	return files
}

func TestRenderer_PackageParts(t *testing.T) {
	files := renderToZip(t, buildDocument(t, 2, false))

	required := []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"word/document.xml",
		"word/_rels/document.xml.rels",
		"word/styles.xml",
		"word/header1.xml",
		"word/_rels/header1.xml.rels",
		"word/media/image1.png",
		"word/media/image2.jpeg",
		"word/media/image3.jpeg",
	}
	for _, name := range required {
		if _, ok := files[name]; !ok {
			t.Errorf("missing part %s", name)
		}
	}

	// Every XML part must be well formed
	for name, content := range files {
		if !strings.HasSuffix(name, ".xml") && !strings.HasSuffix(name, ".rels") {
			continue
		}
		dec := xml.NewDecoder(strings.NewReader(content))
		for {
			if _, err := dec.Token(); err != nil {
				if err != io.EOF {
					t.Errorf("%s is not well formed: %v", name, err)
				}
				break
			}
		}
	}

	if !strings.Contains(files["word/_rels/header1.xml.rels"], "media/image1.png") {
		t.Errorf("letterhead should be related from the header part")
	}
	if !strings.Contains(files["[Content_Types].xml"], `Extension="png"`) {
		t.Errorf("content types should declare png")
	}
}

func TestRenderer_TableCount(t *testing.T) {
	tests := []struct {
		name     string
		artworks int
		intro    bool
		expected int
	}{
		{"one artwork", 1, false, 1},
		{"three artworks", 3, false, 3},
		{"with signatures", 2, true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := renderToZip(t, buildDocument(t, tt.artworks, tt.intro))
			if got := strings.Count(files["word/document.xml"], "<w:tbl>"); got != tt.expected {
				t.Errorf("expected %d tables, got %d", tt.expected, got)
			}
		})
	}
}

func TestRenderer_Content(t *testing.T) {
	files := renderToZip(t, buildDocument(t, 1, true))
	doc := files["word/document.xml"]

	checks := []string{
		"Caracas 15 de octubre de 2026",
		"Reticulárea &lt;A&gt; &amp; co",
		"primera línea</w:t><w:br/>",
		`<w:pStyle w:val="JustifiedPara"/>`,
		`<w:jc w:val="right"/>`,
		`<w:tblW w:w="5000" w:type="pct"/>`,
		`<w:tcW w:w="2750" w:type="pct"/>`,
		`<w:vAlign w:val="center"/>`,
		`<wp:extent cx="1428750" cy="952500"/>`,
		services.SignatureLabel,
	}
	for _, c := range checks {
		if !strings.Contains(doc, c) {
			t.Errorf("document.xml missing %q", c)
		}
	}

	header := files["word/header1.xml"]
	if !strings.Contains(header, `<wp:extent cx="2990850" cy="457200"/>`) {
		t.Errorf("header should hold the 314x48 letterhead")
	}
	if !strings.Contains(header, "Dirección de Patrimonio Cultural") {
		t.Errorf("header caption missing")
	}

	styles := files["word/styles.xml"]
	if !strings.Contains(styles, `<w:ind w:firstLine="700"/>`) || !strings.Contains(styles, `<w:jc w:val="both"/>`) {
		t.Errorf("JustifiedPara style incomplete: %s", styles)
	}
}

func TestRenderer_UnsupportedPicture(t *testing.T) {
	doc := buildDocument(t, 1, false)
	for i := range doc.Header.Paragraphs {
		for j := range doc.Header.Paragraphs[i].Runs {
			if img := doc.Header.Paragraphs[i].Runs[j].Image; img != nil {
				img.Data = []byte("BM\x36\x00\x00\x00\x00\x00\x00\x00\x36\x00\x00\x00")
			}
		}
	}

	var buf bytes.Buffer
	err := New().Render(context.Background(), doc, &buf)
	if !errors.Is(err, domain.ErrImageData) {
		t.Fatalf("expected ErrImageData, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be written, got %d bytes", buf.Len())
	}
}

func TestRenderer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	if err := New().Render(ctx, buildDocument(t, 1, false), &buf); err == nil {
		t.Error("expected an error for a cancelled context")
	}
}
