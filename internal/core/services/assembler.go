package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
)

// Layout constants of the assignment document
const (
	FontFamily        = "Arial"
	FontSize          = 12 * 2 // half-points
	TitleFontSize     = FontSize + 6
	HeaderCaptionSize = 14

	ArtworkImageWidth   = 150
	ArtworkImageHeight  = 100
	LetterheadWidth     = 314
	LetterheadHeight    = 48
	JustifiedIndent     = 700 // twips
	DateSpacingAfter    = 100
	TitleSpacingAfter   = 200
	DetailsWidthPercent = 55
	ImageWidthPercent   = 45

	StyleJustified = "JustifiedPara"
	StyleSignature = "SignaturePara"

	SignatureLabel = "Suscriben la presente:"

	signatureSpacers = 6
)

// AssemblerService merges artwork records and settings boilerplate into a document model
type AssemblerService struct {
	mode domain.ReplaceMode
}

// NewAssemblerService creates an assembler using the given token replacement mode
func NewAssemblerService(mode domain.ReplaceMode) *AssemblerService {
	return &AssemblerService{mode: mode}
}

// AssembleRequest carries everything one export needs
type AssembleRequest struct {
	Artworks        []domain.Artwork
	Settings        domain.Settings
	Letterhead      []byte
	IncludePreamble bool // intro before the list, closing and signatures after it
	Now             time.Time
}

// Assemble builds the document model. The preamble and postscript are emitted
// together or not at all.
func (s *AssemblerService) Assemble(req AssembleRequest) (*domain.Document, error) {
	if len(req.Artworks) == 0 {
		return nil, domain.ErrEmptyProject
	}
	if len(req.Letterhead) == 0 {
		return nil, fmt.Errorf("%w: empty letterhead image", domain.ErrLetterhead)
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	tokens := req.Settings.Tokens(domain.FormatLongDate(now))

	doc := &domain.Document{
		Styles: documentStyles(),
		Header: s.header(req.Settings, req.Letterhead),
	}

	if req.IncludePreamble {
		doc.Body = append(doc.Body, s.preamble(req.Settings, tokens)...)
	}

	for i := range req.Artworks {
		blocks, err := s.artworkBlock(&req.Artworks[i])
		if err != nil {
			return nil, err
		}
		doc.Body = append(doc.Body, blocks...)
	}

	if req.IncludePreamble {
		doc.Body = append(doc.Body, s.postscript(req.Settings, tokens)...)
	}

	return doc, nil
}

func documentStyles() []domain.ParagraphStyle {
	return []domain.ParagraphStyle{
		{
			ID:              StyleJustified,
			Name:            "Justified Para",
			BasedOn:         "Normal",
			Next:            "Normal",
			Font:            FontFamily,
			Size:            FontSize,
			Align:           domain.AlignJustified,
			FirstLineIndent: JustifiedIndent,
		},
		{
			ID:      StyleSignature,
			Name:    "Signature Para",
			BasedOn: "Normal",
			Next:    "Normal",
			Font:    FontFamily,
			Size:    FontSize,
		},
	}
}

func (s *AssemblerService) header(settings domain.Settings, letterhead []byte) domain.Header {
	caption := func(text string) domain.Paragraph {
		return domain.Paragraph{
			Align: domain.AlignLeft,
			Runs:  []domain.Run{{Text: text, Bold: true, Font: FontFamily, Size: HeaderCaptionSize}},
		}
	}

	return domain.Header{
		Paragraphs: []domain.Paragraph{
			{
				Align: domain.AlignLeft,
				Runs: []domain.Run{{Image: &domain.Image{
					Data:   letterhead,
					Width:  LetterheadWidth,
					Height: LetterheadHeight,
				}}},
			},
			caption(settings.HeaderOffice),
			caption(settings.HeaderDirectorate),
		},
	}
}

func (s *AssemblerService) preamble(settings domain.Settings, tokens map[string]string) []domain.Block {
	blocks := []domain.Block{
		&domain.Paragraph{
			Part:         domain.PartPreamble,
			Align:        domain.AlignRight,
			SpacingAfter: DateSpacingAfter,
			Runs: []domain.Run{{
				Text: domain.Substitute(settings.Date, tokens, s.mode),
				Font: FontFamily,
				Size: FontSize,
			}},
		},
		&domain.Paragraph{
			Part:         domain.PartPreamble,
			Align:        domain.AlignCenter,
			SpacingAfter: TitleSpacingAfter,
			Runs: []domain.Run{{
				Text: domain.Substitute(settings.Title, tokens, s.mode),
				Bold: true,
				Font: FontFamily,
				Size: TitleFontSize,
			}},
		},
	}

	intro := domain.Substitute(settings.IntroText, tokens, s.mode)
	blocks = append(blocks, styledLines(domain.PartPreamble, StyleJustified, intro)...)
	blocks = append(blocks, spacer(domain.PartPreamble))
	return blocks
}

func (s *AssemblerService) artworkBlock(a *domain.Artwork) ([]domain.Block, error) {
	image, err := domain.DecodeImageData(a.ImageData)
	if err != nil {
		return nil, fmt.Errorf("artwork %s (%s): %w", a.AssetNumber, a.Title, err)
	}

	line := func(text string, bold, italic bool) domain.Paragraph {
		return domain.Paragraph{
			Runs: []domain.Run{{Text: text, Bold: bold, Italic: italic, Font: FontFamily, Size: FontSize}},
		}
	}

	details := domain.TableCell{
		WidthPercent: DetailsWidthPercent,
		VAlign:       domain.VAlignCenter,
		Paragraphs: []domain.Paragraph{
			line(a.AssetNumber, false, false),
			line(a.Author, true, false),
			line(a.Title, false, true),
			line(a.Year, false, false),
			line(a.Technique, false, false),
			line(a.Dimensions, false, false),
			line(a.Comments, false, false),
		},
	}

	picture := domain.TableCell{
		WidthPercent: ImageWidthPercent,
		VAlign:       domain.VAlignCenter,
		Paragraphs: []domain.Paragraph{{
			Runs: []domain.Run{{Image: &domain.Image{
				Data:   image,
				Width:  ArtworkImageWidth,
				Height: ArtworkImageHeight,
			}}},
		}},
	}

	return []domain.Block{
		&domain.Table{
			Part:         domain.PartArtwork,
			WidthPercent: 100,
			Borderless:   true,
			Rows:         []domain.TableRow{{Cells: []domain.TableCell{details, picture}}},
		},
		spacer(domain.PartArtwork),
	}, nil
}

func (s *AssemblerService) postscript(settings domain.Settings, tokens map[string]string) []domain.Block {
	var blocks []domain.Block

	if strings.TrimSpace(settings.ClosingText) != "" {
		closing := domain.Substitute(settings.ClosingText, tokens, s.mode)
		blocks = append(blocks, styledLines(domain.PartPostscript, StyleJustified, closing)...)
	}

	blocks = append(blocks, spacer(domain.PartPostscript))
	blocks = append(blocks, &domain.Paragraph{
		Part:  domain.PartPostscript,
		Style: StyleSignature,
		Runs:  []domain.Run{{Text: SignatureLabel}},
	})
	for i := 0; i < signatureSpacers; i++ {
		blocks = append(blocks, spacer(domain.PartPostscript))
	}

	signature := func(name, title string, align domain.Alignment) domain.TableCell {
		return domain.TableCell{
			WidthPercent: 50,
			Paragraphs: []domain.Paragraph{
				{Style: StyleSignature, Align: align, Runs: []domain.Run{{Text: name}}},
				{Style: StyleSignature, Align: align, Runs: []domain.Run{{Text: title}}},
			},
		}
	}

	blocks = append(blocks, &domain.Table{
		Part:         domain.PartPostscript,
		WidthPercent: 100,
		Borderless:   true,
		Rows: []domain.TableRow{{Cells: []domain.TableCell{
			signature(settings.SignatoryName, settings.SignatoryTitle, domain.AlignLeft),
			signature(settings.CustodianName, settings.CustodianTitle, domain.AlignRight),
		}}},
	})

	return blocks
}

func styledLines(part domain.Part, style, text string) []domain.Block {
	lines := domain.SplitLines(text)
	blocks := make([]domain.Block, 0, len(lines))
	for _, l := range lines {
		blocks = append(blocks, &domain.Paragraph{
			Part:  part,
			Style: style,
			Runs:  []domain.Run{{Text: l}},
		})
	}
	return blocks
}

func spacer(part domain.Part) *domain.Paragraph {
	return &domain.Paragraph{Part: part}
}
