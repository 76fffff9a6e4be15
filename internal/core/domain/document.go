package domain

// Document is the renderer-independent model of an exported list.
// Sizes follow word-processing conventions: font sizes in half-points,
// spacing and indents in twips, images in pixels.
type Document struct {
	Styles []ParagraphStyle
	Header Header
	Body   []Block
}

// Alignment of a paragraph
type Alignment int

const (
	AlignDefault Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
	AlignJustified
)

// VerticalAlignment of a table cell
type VerticalAlignment int

const (
	VAlignTop VerticalAlignment = iota
	VAlignCenter
	VAlignBottom
)

// Part tags which section of the document a block belongs to
type Part int

const (
	PartPreamble Part = iota
	PartArtwork
	PartPostscript
)

func (p Part) String() string {
	switch p {
	case PartPreamble:
		return "preamble"
	case PartArtwork:
		return "artwork"
	case PartPostscript:
		return "postscript"
	default:
		return "unknown"
	}
}

// Image is an embedded raster image with its display size
type Image struct {
	Data   []byte
	Width  int
	Height int
}

// Run is a span of text or an inline image with uniform formatting.
// A zero Font or Size inherits from the paragraph style.
type Run struct {
	Text   string
	Image  *Image
	Bold   bool
	Italic bool
	Font   string
	Size   int
}

// ParagraphStyle is a named style referenced by paragraphs
type ParagraphStyle struct {
	ID              string
	Name            string
	BasedOn         string
	Next            string
	Font            string
	Size            int
	Align           Alignment
	FirstLineIndent int
}

// Block is a top-level body element: *Paragraph or *Table
type Block interface {
	BlockPart() Part
}

// Paragraph is a line of runs
type Paragraph struct {
	Part         Part
	Style        string
	Align        Alignment
	SpacingAfter int
	Runs         []Run
}

// BlockPart implements Block
func (p *Paragraph) BlockPart() Part { return p.Part }

// Text concatenates the text of all runs
func (p *Paragraph) Text() string {
	var out string
	for _, r := range p.Runs {
		out += r.Text
	}
	return out
}

// IsBlank reports a spacer paragraph
func (p *Paragraph) IsBlank() bool {
	for _, r := range p.Runs {
		if r.Text != "" || r.Image != nil {
			return false
		}
	}
	return true
}

// TableCell holds paragraphs; WidthPercent is relative to the table width
type TableCell struct {
	WidthPercent int
	VAlign       VerticalAlignment
	Paragraphs   []Paragraph
}

// TableRow is one row of cells
type TableRow struct {
	Cells []TableCell
}

// Table is a grid laid out across the page
type Table struct {
	Part         Part
	WidthPercent int
	Borderless   bool
	Rows         []TableRow
}

// BlockPart implements Block
func (t *Table) BlockPart() Part { return t.Part }

// Header is repeated at the top of every page
type Header struct {
	Paragraphs []Paragraph
}

// Tables returns the table blocks in body order
func (d *Document) Tables() []*Table {
	var tables []*Table
	for _, b := range d.Body {
		if t, ok := b.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// BlocksIn returns the body blocks of one part
func (d *Document) BlocksIn(part Part) []Block {
	var blocks []Block
	for _, b := range d.Body {
		if b.BlockPart() == part {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// Images returns every image of the document, header first
func (d *Document) Images() []*Image {
	var images []*Image
	collect := func(paragraphs []Paragraph) {
		for i := range paragraphs {
			for j := range paragraphs[i].Runs {
				if img := paragraphs[i].Runs[j].Image; img != nil {
					images = append(images, img)
				}
			}
		}
	}

	collect(d.Header.Paragraphs)
	for _, b := range d.Body {
		switch v := b.(type) {
		case *Paragraph:
			collect([]Paragraph{*v})
		case *Table:
			for _, row := range v.Rows {
				for _, cell := range row.Cells {
					collect(cell.Paragraphs)
				}
			}
		}
	}
	return images
}

// Style looks a paragraph style up by id
func (d *Document) Style(id string) (ParagraphStyle, bool) {
	for _, s := range d.Styles {
		if s.ID == id {
			return s, true
		}
	}
	return ParagraphStyle{}, false
}
