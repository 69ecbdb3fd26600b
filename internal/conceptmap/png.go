package conceptmap

import (
	"fmt"
	"io"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

const (
	centerFontSize  = 14
	conceptFontSize = 10
	legendFontSize  = 12
)

// Fonts hold the parsed TrueType font used to draw PNG labels. The built-in face of gg
// has no Japanese glyphs, so a TrueType font is needed for readable labels.
// A parsed font may be shared between goroutines; faces may not, so every render
// builds its own.
type Fonts struct {
	parsed *truetype.Font
}

type faces struct {
	center  font.Face
	concept font.Face
	legend  font.Face
}

// LoadFonts parses a TrueType font file once.
func LoadFonts(fontPath string) (*Fonts, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", fontPath, err)
	}
	parsed, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("truetype.Parse(%s) > %w", fontPath, err)
	}
	return &Fonts{parsed: parsed}, nil
}

func (f *Fonts) newFaces() *faces {
	newFace := func(size float64) font.Face {
		return truetype.NewFace(f.parsed, &truetype.Options{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingNone,
		})
	}
	return &faces{
		center:  newFace(centerFontSize),
		concept: newFace(conceptFontSize),
		legend:  newFace(legendFontSize),
	}
}

type PNGOptions struct {
	// Fonts may be nil; labels then use gg's built-in face.
	Fonts *Fonts
}

func RenderPNG(w io.Writer, diagram Diagram, opts PNGOptions) error {
	dc := gg.NewContext(diagram.Width, diagram.Height)

	background := gg.NewLinearGradient(0, 0, float64(diagram.Width), float64(diagram.Height))
	background.AddColorStop(0, mustParseHex("#f5f7fa"))
	background.AddColorStop(1, mustParseHex("#c3cfe2"))
	dc.SetFillStyle(background)
	dc.DrawRoundedRectangle(0, 0, float64(diagram.Width), float64(diagram.Height), 12)
	dc.Fill()

	var labelFaces *faces
	if opts.Fonts != nil {
		labelFaces = opts.Fonts.newFaces()
	}
	setFace := func(pick func(*faces) font.Face) {
		if labelFaces != nil {
			dc.SetFontFace(pick(labelFaces))
		}
	}

	if diagram.Placeholder {
		setFace(func(f *faces) font.Face { return f.legend })
		dc.SetHexColor("#666666")
		dc.DrawStringAnchored(PlaceholderText, diagram.Center.X, diagram.Center.Y, 0.5, 0.5)
		return encodePNG(w, dc)
	}

	nodes := diagram.Nodes()

	dc.SetDash(5, 5)
	dc.SetLineWidth(2)
	dc.SetRGBA255(0xcc, 0xcc, 0xcc, 178)
	for _, node := range nodes {
		dc.DrawLine(diagram.Center.X, diagram.Center.Y, node.Position.X, node.Position.Y)
		dc.Stroke()
	}
	dc.SetDash()

	dc.DrawCircle(diagram.Center.X, diagram.Center.Y, CenterRadius)
	dc.SetHexColor("#2E7D32")
	dc.FillPreserve()
	dc.SetLineWidth(3)
	dc.SetHexColor("#1B5E20")
	dc.Stroke()
	setFace(func(f *faces) font.Face { return f.center })
	dc.SetHexColor("#ffffff")
	dc.DrawStringAnchored(diagram.Word, diagram.Center.X, diagram.Center.Y, 0.5, 0.5)

	setFace(func(f *faces) font.Face { return f.concept })
	dc.SetLineWidth(2)
	for _, node := range nodes {
		dc.DrawCircle(node.Position.X, node.Position.Y, ConceptRadius)
		dc.SetColor(withAlpha(mustParseHex(node.Color), 230))
		dc.FillPreserve()
		dc.SetHexColor("#ffffff")
		dc.Stroke()
		dc.DrawStringAnchored(node.Label, node.Position.X, node.Position.Y, 0.5, 0.5)
	}

	setFace(func(f *faces) font.Face { return f.legend })
	for _, entry := range diagram.Legend {
		dc.DrawCircle(entry.Position.X, entry.Position.Y, LegendRadius)
		dc.SetHexColor(entry.Color)
		dc.Fill()
		dc.SetHexColor("#333333")
		dc.DrawStringAnchored(entry.Source.String(), entry.Position.X+15, entry.Position.Y, 0, 0.5)
	}

	return encodePNG(w, dc)
}

func encodePNG(w io.Writer, dc *gg.Context) error {
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("dc.EncodePNG() > %w", err)
	}
	return nil
}
