package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/internal/core/ports"
)

// Page geometry in twips (A4)
const (
	pageWidth    = 11906
	pageHeight   = 16838
	marginTop    = 1800
	marginSide   = 1440
	marginBottom = 1440
	headerOffset = 500
	textWidth    = pageWidth - 2*marginSide

	emuPerPixel = 9525
)

const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"

	relImage    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relStyles   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relHeader   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	relDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

// Renderer writes the document model as an Office Open XML (.docx) package
type Renderer struct{}

// Ensure it implements the interface
var _ ports.Renderer = (*Renderer)(nil)

// New creates a docx renderer
func New() *Renderer {
	return &Renderer{}
}

// Format returns the command-line name
func (r *Renderer) Format() string { return "docx" }

// Extension returns the file extension
func (r *Renderer) Extension() string { return "docx" }

// Render serializes doc into w
func (r *Renderer) Render(ctx context.Context, doc *domain.Document, w io.Writer) error {
	pkg := &packageWriter{}

	header := &part{}
	headerXML := pkg.header(header, doc.Header)

	body := &part{rels: []relationship{
		{ID: "rIdStyles", Type: relStyles, Target: "styles.xml"},
		{ID: "rIdHeader1", Type: relHeader, Target: "header1.xml"},
	}}
	documentXML, err := pkg.document(ctx, body, doc)
	if err != nil {
		return err
	}
	if pkg.err != nil {
		return pkg.err
	}

	files := []struct {
		name    string
		content []byte
	}{
		{"[Content_Types].xml", []byte(pkg.contentTypes())},
		{"_rels/.rels", []byte(relationshipsXML([]relationship{{ID: "rId1", Type: relDocument, Target: "word/document.xml"}}))},
		{"word/document.xml", []byte(documentXML)},
		{"word/_rels/document.xml.rels", []byte(relationshipsXML(body.rels))},
		{"word/styles.xml", []byte(stylesXML(doc.Styles))},
		{"word/header1.xml", []byte(headerXML)},
		{"word/_rels/header1.xml.rels", []byte(relationshipsXML(header.rels))},
	}
	for _, m := range pkg.media {
		files = append(files, struct {
			name    string
			content []byte
		}{"word/media/" + m.name, m.data})
	}

	zw := zip.NewWriter(w)
	for _, f := range files {
		fw, err := zw.Create(f.name)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", f.name, err)
		}
		if _, err := fw.Write(f.content); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish docx package: %w", err)
	}
	return nil
}

type relationship struct {
	ID     string
	Type   string
	Target string
}

// part collects the relationships of one XML part
type part struct {
	rels []relationship
}

type mediaFile struct {
	name        string
	contentType string
	data        []byte
}

// packageWriter tracks media and drawing ids shared by every part
type packageWriter struct {
	media     []mediaFile
	drawingID int
	err       error // first picture that could not be embedded
}

// mediaExtensions maps the picture types a package may embed to their part extension
var mediaExtensions = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/gif":  "gif",
}

func (p *packageWriter) addImage(owner *part, img *domain.Image) string {
	contentType := http.DetectContentType(img.Data)
	ext, ok := mediaExtensions[contentType]
	if !ok {
		if p.err == nil {
			p.err = fmt.Errorf("%w: cannot embed %s pictures (use JPEG, PNG or GIF)", domain.ErrImageData, contentType)
		}
		return ""
	}

	name := fmt.Sprintf("image%d.%s", len(p.media)+1, ext)
	p.media = append(p.media, mediaFile{name: name, contentType: contentType, data: img.Data})

	id := fmt.Sprintf("rIdImg%d", len(owner.rels)+1)
	owner.rels = append(owner.rels, relationship{ID: id, Type: relImage, Target: "media/" + name})
	return id
}

func (p *packageWriter) contentTypes() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)

	seen := map[string]bool{}
	for _, m := range p.media {
		ext := m.name[strings.LastIndexByte(m.name, '.')+1:]
		if seen[ext] {
			continue
		}
		seen[ext] = true
		fmt.Fprintf(&b, `<Default Extension="%s" ContentType="%s"/>`, ext, m.contentType)
	}

	b.WriteString(`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)
	b.WriteString(`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`)
	b.WriteString(`<Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>`)
	b.WriteString(`</Types>`)
	return b.String()
}

func (p *packageWriter) header(owner *part, h domain.Header) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<w:hdr xmlns:w="%s" xmlns:r="%s" xmlns:wp="%s" xmlns:a="%s" xmlns:pic="%s">`, nsW, nsR, nsWP, nsA, nsPic)
	for i := range h.Paragraphs {
		p.paragraph(&b, owner, &h.Paragraphs[i])
	}
	if len(h.Paragraphs) == 0 {
		b.WriteString(`<w:p/>`)
	}
	b.WriteString(`</w:hdr>`)
	return b.String()
}

func (p *packageWriter) document(ctx context.Context, owner *part, doc *domain.Document) (string, error) {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<w:document xmlns:w="%s" xmlns:r="%s" xmlns:wp="%s" xmlns:a="%s" xmlns:pic="%s"><w:body>`, nsW, nsR, nsWP, nsA, nsPic)

	for _, block := range doc.Body {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		switch v := block.(type) {
		case *domain.Paragraph:
			p.paragraph(&b, owner, v)
		case *domain.Table:
			p.table(&b, owner, v)
		default:
			return "", fmt.Errorf("unsupported block type %T", block)
		}
	}

	fmt.Fprintf(&b, `<w:sectPr><w:headerReference w:type="default" r:id="rIdHeader1"/>`+
		`<w:pgSz w:w="%d" w:h="%d"/>`+
		`<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="%d" w:footer="%d" w:gutter="0"/>`+
		`</w:sectPr>`,
		pageWidth, pageHeight, marginTop, marginSide, marginBottom, marginSide, headerOffset, headerOffset)
	b.WriteString(`</w:body></w:document>`)
	return b.String(), nil
}

func (p *packageWriter) paragraph(b *strings.Builder, owner *part, para *domain.Paragraph) {
	b.WriteString(`<w:p>`)

	if para.Style != "" || para.SpacingAfter > 0 || para.Align != domain.AlignDefault {
		b.WriteString(`<w:pPr>`)
		if para.Style != "" {
			fmt.Fprintf(b, `<w:pStyle w:val="%s"/>`, escape(para.Style))
		}
		if para.SpacingAfter > 0 {
			fmt.Fprintf(b, `<w:spacing w:after="%d"/>`, para.SpacingAfter)
		}
		if jc := justification(para.Align); jc != "" {
			fmt.Fprintf(b, `<w:jc w:val="%s"/>`, jc)
		}
		b.WriteString(`</w:pPr>`)
	}

	for i := range para.Runs {
		p.run(b, owner, &para.Runs[i])
	}
	b.WriteString(`</w:p>`)
}

func (p *packageWriter) run(b *strings.Builder, owner *part, r *domain.Run) {
	b.WriteString(`<w:r>`)
	writeRunProperties(b, r.Font, r.Bold, r.Italic, r.Size)

	if r.Image != nil {
		p.drawing(b, owner, r.Image)
		b.WriteString(`</w:r>`)
		return
	}

	// Line breaks inside a field (comments) become soft breaks
	for i, line := range strings.Split(strings.ReplaceAll(r.Text, "\r\n", "\n"), "\n") {
		if i > 0 {
			b.WriteString(`<w:br/>`)
		}
		fmt.Fprintf(b, `<w:t xml:space="preserve">%s</w:t>`, escape(line))
	}
	b.WriteString(`</w:r>`)
}

func writeRunProperties(b *strings.Builder, font string, bold, italic bool, size int) {
	if font == "" && !bold && !italic && size == 0 {
		return
	}
	b.WriteString(`<w:rPr>`)
	if font != "" {
		f := escape(font)
		fmt.Fprintf(b, `<w:rFonts w:ascii="%s" w:hAnsi="%s" w:cs="%s"/>`, f, f, f)
	}
	if bold {
		b.WriteString(`<w:b/>`)
	}
	if italic {
		b.WriteString(`<w:i/>`)
	}
	if size > 0 {
		fmt.Fprintf(b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, size, size)
	}
	b.WriteString(`</w:rPr>`)
}

func (p *packageWriter) drawing(b *strings.Builder, owner *part, img *domain.Image) {
	rID := p.addImage(owner, img)
	p.drawingID++
	id := p.drawingID
	cx, cy := img.Width*emuPerPixel, img.Height*emuPerPixel

	fmt.Fprintf(b, `<w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%d" cy="%d"/>`+
		`<wp:docPr id="%d" name="Picture %d"/>`+
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic><pic:nvPicPr><pic:cNvPr id="%d" name="Picture %d"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing>`,
		cx, cy, id, id, id, id, rID, cx, cy)
}

func (p *packageWriter) table(b *strings.Builder, owner *part, t *domain.Table) {
	width := t.WidthPercent
	if width <= 0 {
		width = 100
	}

	b.WriteString(`<w:tbl><w:tblPr>`)
	fmt.Fprintf(b, `<w:tblW w:w="%d" w:type="pct"/>`, width*50)
	if t.Borderless {
		b.WriteString(`<w:tblBorders>`)
		for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
			fmt.Fprintf(b, `<w:%s w:val="nil"/>`, side)
		}
		b.WriteString(`</w:tblBorders>`)
	}
	b.WriteString(`<w:tblLayout w:type="fixed"/></w:tblPr>`)

	if len(t.Rows) > 0 {
		b.WriteString(`<w:tblGrid>`)
		for _, cell := range t.Rows[0].Cells {
			fmt.Fprintf(b, `<w:gridCol w:w="%d"/>`, textWidth*width/100*cell.WidthPercent/100)
		}
		b.WriteString(`</w:tblGrid>`)
	}

	for _, row := range t.Rows {
		b.WriteString(`<w:tr>`)
		for i := range row.Cells {
			cell := &row.Cells[i]
			b.WriteString(`<w:tc><w:tcPr>`)
			fmt.Fprintf(b, `<w:tcW w:w="%d" w:type="pct"/>`, cell.WidthPercent*50)
			if va := verticalAlignment(cell.VAlign); va != "" {
				fmt.Fprintf(b, `<w:vAlign w:val="%s"/>`, va)
			}
			b.WriteString(`</w:tcPr>`)

			// A cell must hold at least one paragraph
			if len(cell.Paragraphs) == 0 {
				b.WriteString(`<w:p/>`)
			}
			for j := range cell.Paragraphs {
				p.paragraph(b, owner, &cell.Paragraphs[j])
			}
			b.WriteString(`</w:tc>`)
		}
		b.WriteString(`</w:tr>`)
	}
	b.WriteString(`</w:tbl>`)
}

func stylesXML(styles []domain.ParagraphStyle) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<w:styles xmlns:w="%s">`, nsW)
	b.WriteString(`<w:docDefaults><w:rPrDefault><w:rPr>` +
		`<w:rFonts w:ascii="Arial" w:hAnsi="Arial" w:cs="Arial"/>` +
		`<w:sz w:val="24"/><w:szCs w:val="24"/><w:lang w:val="es-VE"/>` +
		`</w:rPr></w:rPrDefault>` +
		`<w:pPrDefault><w:pPr><w:spacing w:after="0" w:line="240" w:lineRule="auto"/></w:pPr></w:pPrDefault>` +
		`</w:docDefaults>`)
	b.WriteString(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>`)

	for _, s := range styles {
		fmt.Fprintf(&b, `<w:style w:type="paragraph" w:customStyle="1" w:styleId="%s">`, escape(s.ID))
		fmt.Fprintf(&b, `<w:name w:val="%s"/>`, escape(s.Name))
		if s.BasedOn != "" {
			fmt.Fprintf(&b, `<w:basedOn w:val="%s"/>`, escape(s.BasedOn))
		}
		if s.Next != "" {
			fmt.Fprintf(&b, `<w:next w:val="%s"/>`, escape(s.Next))
		}
		b.WriteString(`<w:qFormat/>`)

		jc := justification(s.Align)
		if s.FirstLineIndent > 0 || jc != "" {
			b.WriteString(`<w:pPr>`)
			if s.FirstLineIndent > 0 {
				fmt.Fprintf(&b, `<w:ind w:firstLine="%d"/>`, s.FirstLineIndent)
			}
			if jc != "" {
				fmt.Fprintf(&b, `<w:jc w:val="%s"/>`, jc)
			}
			b.WriteString(`</w:pPr>`)
		}
		writeRunProperties(&b, s.Font, false, false, s.Size)
		b.WriteString(`</w:style>`)
	}

	b.WriteString(`</w:styles>`)
	return b.String()
}

func relationshipsXML(rels []relationship) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, r := range rels {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"/>`, r.ID, r.Type, escape(r.Target))
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func justification(a domain.Alignment) string {
	switch a {
	case domain.AlignLeft:
		return "left"
	case domain.AlignCenter:
		return "center"
	case domain.AlignRight:
		return "right"
	case domain.AlignJustified:
		return "both"
	default:
		return ""
	}
}

func verticalAlignment(v domain.VerticalAlignment) string {
	switch v {
	case domain.VAlignCenter:
		return "center"
	case domain.VAlignBottom:
		return "bottom"
	default:
		return ""
	}
}

func escape(s string) string {
	var b strings.Builder
	// EscapeText only fails when the writer does
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
