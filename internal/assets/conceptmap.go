package assets

import (
	_ "embed"
	"fmt"
	"io"
)

//go:embed templates/concept-map.svg.go.tmpl
var fallbackConceptMapTemplate string

// ConceptMapTemplate is the data for the SVG concept map.
// Coordinates are already laid out; the template only draws.
type ConceptMapTemplate struct {
	Width           int
	Height          int
	CenterX         float64
	CenterY         float64
	CenterRadius    float64
	Word            string
	Placeholder     bool
	PlaceholderText string
	Nodes           []ConceptMapNode
	Legend          []ConceptMapLegend
}

type ConceptMapNode struct {
	Concept string
	Label   string
	Source  string
	Color   string
	X       float64
	Y       float64
	Radius  float64
	// Href turns the node into a link when set.
	Href string
}

type ConceptMapLegend struct {
	Name   string
	Color  string
	X      float64
	Y      float64
	Radius float64
}

func WriteConceptMap(output io.Writer, templatePath string, templateData ConceptMapTemplate) error {
	tmpl, err := parseHTMLTemplateWithFallback(templatePath, conceptMapTemplateName, fallbackConceptMapTemplate)
	if err != nil {
		return fmt.Errorf("parseHTMLTemplateWithFallback() > %w", err)
	}
	if err := tmpl.Execute(output, templateData); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
