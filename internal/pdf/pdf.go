// Package pdf turns Markdown documents into PDF files.
package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/mandolyte/mdtopdf"
)

const unicodeFontName = "rensou-unicode"

type Options struct {
	// FontPath is a TrueType font with Japanese glyphs. The built-in PDF fonts have none,
	// so without it non-Latin text is not readable.
	FontPath string
}

// RenderMarkdown writes content, a Markdown document, as a PDF file at pdfPath.
func RenderMarkdown(content []byte, pdfPath string, opts Options) error {
	if !strings.HasSuffix(pdfPath, ".pdf") {
		return fmt.Errorf("output file must have .pdf extension: %s", pdfPath)
	}

	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if opts.FontPath != "" {
		if _, err := os.Stat(opts.FontPath); err != nil {
			return fmt.Errorf("os.Stat(%s) > %w", opts.FontPath, err)
		}
		renderer.Pdf.AddUTF8Font(unicodeFontName, "", opts.FontPath)
		renderer.Pdf.AddUTF8Font(unicodeFontName, "B", opts.FontPath)
		renderer.Normal.Font = unicodeFontName
		renderer.H1.Font = unicodeFontName
		renderer.H2.Font = unicodeFontName
	}

	if err := renderer.Process(content); err != nil {
		return fmt.Errorf("renderer.Process() > %w", err)
	}
	return nil
}
