package pdf

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/signintech/gopdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/internal/core/ports"
)

// Page geometry in points (A4)
const (
	pageHeight   = 841.89
	pageWidth    = 595.28
	marginX      = 56.0
	marginTop    = 104.0
	marginBottom = 56.0
	headerTop    = 24.0
	contentWidth = pageWidth - 2*marginX

	fontFamily      = "Go"
	defaultFontSize = 12.0
	lineFactor      = 1.25
	pointsPerPixel  = 0.75
	twipsPerPoint   = 20.0
)

// Renderer lays the document model out on A4 pages
type Renderer struct{}

// Ensure it implements the interface
var _ ports.Renderer = (*Renderer)(nil)

// New creates a pdf renderer
func New() *Renderer {
	return &Renderer{}
}

// Format returns the command-line name
func (r *Renderer) Format() string { return "pdf" }

// Extension returns the file extension
func (r *Renderer) Extension() string { return "pdf" }

// Render serializes doc into w
func (r *Renderer) Render(ctx context.Context, doc *domain.Document, w io.Writer) error {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{Unit: gopdf.UnitPT, PageSize: *gopdf.PageSizeA4})
	defer pdf.Close()

	if err := registerFonts(pdf); err != nil {
		return err
	}

	l := &layout{pdf: pdf, doc: doc}

	var headerItems []item
	for i := range doc.Header.Paragraphs {
		items, err := l.layoutParagraph(&doc.Header.Paragraphs[i], contentWidth)
		if err != nil {
			return fmt.Errorf("failed to lay out header: %w", err)
		}
		headerItems = append(headerItems, items...)
	}

	// The header callback runs on every AddPage and cannot return an error
	var headerErr error
	pdf.AddHeader(func() {
		if err := l.draw(headerItems, marginX, headerTop, contentWidth); err != nil && headerErr == nil {
			headerErr = err
		}
	})
	l.newPage()

	for _, block := range doc.Body {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch v := block.(type) {
		case *domain.Paragraph:
			err = l.paragraph(v)
		case *domain.Table:
			err = l.table(v)
		default:
			err = fmt.Errorf("unsupported block type %T", block)
		}
		if err != nil {
			return err
		}
	}
	if headerErr != nil {
		return fmt.Errorf("failed to draw header: %w", headerErr)
	}

	data, err := pdf.GetBytesPdfReturnErr()
	if err != nil {
		return fmt.Errorf("failed to build pdf: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func registerFonts(pdf *gopdf.GoPdf) error {
	fonts := []struct {
		style int
		data  []byte
	}{
		{gopdf.Regular, goregular.TTF},
		{gopdf.Bold, gobold.TTF},
		{gopdf.Italic, goitalic.TTF},
		{gopdf.Bold | gopdf.Italic, gobolditalic.TTF},
	}
	for _, f := range fonts {
		if err := pdf.AddTTFFontDataWithOption(fontFamily, f.data, gopdf.TtfOption{Style: f.style}); err != nil {
			return fmt.Errorf("failed to load font: %w", err)
		}
	}
	return nil
}

// item is one laid-out line: text, an image, or (neither) vertical space
type item struct {
	text   string
	image  *domain.Image
	style  string
	size   float64
	align  domain.Alignment
	indent float64
	height float64
}

type layout struct {
	pdf   *gopdf.GoPdf
	doc   *domain.Document
	y     float64
	pages int
}

func (l *layout) newPage() {
	l.pdf.AddPage()
	l.y = marginTop
	l.pages++
}

// ensure starts a new page when h points do not fit on the current one
func (l *layout) ensure(h float64) {
	if l.y+h > pageHeight-marginBottom && l.y > marginTop {
		l.newPage()
	}
}

func (l *layout) paragraph(p *domain.Paragraph) error {
	items, err := l.layoutParagraph(p, contentWidth)
	if err != nil {
		return err
	}
	for _, it := range items {
		l.ensure(it.height)
		if err := l.draw([]item{it}, marginX, l.y, contentWidth); err != nil {
			return err
		}
		l.y += it.height
	}
	return nil
}

func (l *layout) table(t *domain.Table) error {
	tableWidth := contentWidth
	if t.WidthPercent > 0 {
		tableWidth = contentWidth * float64(t.WidthPercent) / 100
	}

	for _, row := range t.Rows {
		cells := make([][]item, len(row.Cells))
		widths := make([]float64, len(row.Cells))
		heights := make([]float64, len(row.Cells))
		rowHeight := 0.0

		for i := range row.Cells {
			cell := &row.Cells[i]
			widths[i] = tableWidth * float64(cell.WidthPercent) / 100
			if cell.WidthPercent <= 0 {
				widths[i] = tableWidth / float64(len(row.Cells))
			}
			for j := range cell.Paragraphs {
				items, err := l.layoutParagraph(&cell.Paragraphs[j], widths[i])
				if err != nil {
					return err
				}
				cells[i] = append(cells[i], items...)
			}
			heights[i] = totalHeight(cells[i])
			rowHeight = max(rowHeight, heights[i])
		}

		l.ensure(rowHeight)
		if l.y+rowHeight > pageHeight-marginBottom {
			if err := l.splitRow(cells, widths); err != nil {
				return err
			}
			continue
		}

		x := marginX
		for i := range row.Cells {
			offset := 0.0
			switch row.Cells[i].VAlign {
			case domain.VAlignCenter:
				offset = (rowHeight - heights[i]) / 2
			case domain.VAlignBottom:
				offset = rowHeight - heights[i]
			}
			if err := l.draw(cells[i], x, l.y+offset, widths[i]); err != nil {
				return err
			}
			x += widths[i]
		}
		l.y += rowHeight
	}
	return nil
}

// splitRow draws a row taller than a page, continuing each cell at the top of the next one
func (l *layout) splitRow(cells [][]item, widths []float64) error {
	for {
		available := pageHeight - marginBottom - l.y
		used := 0.0
		remaining := false

		x := marginX
		for i := range cells {
			n := fitting(cells[i], available)
			if n == 0 && len(cells[i]) > 0 && l.y <= marginTop {
				// A single line taller than a page still has to advance
				n = 1
			}
			if err := l.draw(cells[i][:n], x, l.y, widths[i]); err != nil {
				return err
			}
			used = max(used, totalHeight(cells[i][:n]))
			cells[i] = cells[i][n:]
			if len(cells[i]) > 0 {
				remaining = true
			}
			x += widths[i]
		}

		if !remaining {
			l.y += used
			return nil
		}
		l.newPage()
	}
}

// fitting counts the leading items that fit in the available height
func fitting(items []item, available float64) int {
	h := 0.0
	for i, it := range items {
		h += it.height
		if h > available {
			return i
		}
	}
	return len(items)
}

// layoutParagraph breaks a paragraph into lines that fit width
func (l *layout) layoutParagraph(p *domain.Paragraph, width float64) ([]item, error) {
	style, _ := l.doc.Style(p.Style)

	align := p.Align
	if align == domain.AlignDefault {
		align = style.Align
	}
	baseSize := defaultFontSize
	if style.Size > 0 {
		baseSize = float64(style.Size) / 2
	}
	indent := float64(style.FirstLineIndent) / twipsPerPoint

	var items []item
	for _, run := range p.Runs {
		if run.Image != nil {
			items = append(items, item{
				image:  run.Image,
				align:  align,
				height: float64(run.Image.Height) * pointsPerPixel,
			})
			continue
		}

		size := baseSize
		if run.Size > 0 {
			size = float64(run.Size) / 2
		}
		fontStyle := ""
		if run.Bold {
			fontStyle += "B"
		}
		if run.Italic {
			fontStyle += "I"
		}
		if err := l.pdf.SetFont(fontFamily, fontStyle, size); err != nil {
			return nil, fmt.Errorf("failed to set font: %w", err)
		}

		first := true
		for _, segment := range strings.Split(strings.ReplaceAll(run.Text, "\r\n", "\n"), "\n") {
			lines := []string{""}
			if strings.TrimSpace(segment) != "" {
				var err error
				lines, err = l.pdf.SplitTextWithWordWrap(segment, width-indent)
				if err != nil {
					return nil, fmt.Errorf("failed to wrap text: %w", err)
				}
			}
			for _, line := range lines {
				it := item{text: line, style: fontStyle, size: size, align: align, height: size * lineFactor}
				if first {
					it.indent = indent
					first = false
				}
				items = append(items, it)
			}
		}
	}

	// Spacer paragraphs still take one line
	if len(items) == 0 {
		items = append(items, item{height: baseSize * lineFactor})
	}
	if p.SpacingAfter > 0 {
		items = append(items, item{height: float64(p.SpacingAfter) / twipsPerPoint})
	}
	return items, nil
}

func (l *layout) draw(items []item, x, y, width float64) error {
	for _, it := range items {
		switch {
		case it.image != nil:
			if err := l.drawImage(it, x, y, width); err != nil {
				return err
			}
		case it.text != "":
			if err := l.pdf.SetFont(fontFamily, it.style, it.size); err != nil {
				return err
			}
			l.pdf.SetXY(x+it.indent, y)
			rect := &gopdf.Rect{W: width - it.indent, H: it.height}
			if err := l.pdf.CellWithOption(rect, it.text, gopdf.CellOption{Align: cellAlign(it.align) | gopdf.Top}); err != nil {
				return fmt.Errorf("failed to draw text: %w", err)
			}
		}
		y += it.height
	}
	return nil
}

func (l *layout) drawImage(it item, x, y, width float64) error {
	holder, err := gopdf.ImageHolderByBytes(it.image.Data)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrImageData, err)
	}

	w := float64(it.image.Width) * pointsPerPixel
	switch it.align {
	case domain.AlignCenter:
		x += (width - w) / 2
	case domain.AlignRight:
		x += width - w
	}

	if err := l.pdf.ImageByHolder(holder, x, y, &gopdf.Rect{W: w, H: it.height}); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrImageData, err)
	}
	return nil
}

func cellAlign(a domain.Alignment) int {
	switch a {
	case domain.AlignCenter:
		return gopdf.Center
	case domain.AlignRight:
		return gopdf.Right
	default:
		// Justified text is set ragged-right
		return gopdf.Left
	}
}

func totalHeight(items []item) float64 {
	h := 0.0
	for _, it := range items {
		h += it.height
	}
	return h
}
