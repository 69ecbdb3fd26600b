package conceptmap

import (
	"fmt"
	"io"

	"github.com/at-ishikawa/rensou/internal/assets"
)

type SVGOptions struct {
	// TemplatePath overrides the embedded SVG template when the file exists.
	TemplatePath string
	// ConceptHref, when set, makes every concept node a link to the returned URL.
	ConceptHref func(concept string) string
}

func RenderSVG(w io.Writer, diagram Diagram, opts SVGOptions) error {
	data := assets.ConceptMapTemplate{
		Width:           diagram.Width,
		Height:          diagram.Height,
		CenterX:         diagram.Center.X,
		CenterY:         diagram.Center.Y,
		CenterRadius:    CenterRadius,
		Word:            diagram.Word,
		Placeholder:     diagram.Placeholder,
		PlaceholderText: PlaceholderText,
	}
	for _, node := range diagram.Nodes() {
		templateNode := assets.ConceptMapNode{
			Concept: node.Concept,
			Label:   node.Label,
			Source:  node.Source.String(),
			Color:   node.Color,
			X:       node.Position.X,
			Y:       node.Position.Y,
			Radius:  ConceptRadius,
		}
		if opts.ConceptHref != nil {
			templateNode.Href = opts.ConceptHref(node.Concept)
		}
		data.Nodes = append(data.Nodes, templateNode)
	}
	for _, entry := range diagram.Legend {
		data.Legend = append(data.Legend, assets.ConceptMapLegend{
			Name:   entry.Source.String(),
			Color:  entry.Color,
			X:      entry.Position.X,
			Y:      entry.Position.Y,
			Radius: LegendRadius,
		})
	}

	if err := assets.WriteConceptMap(w, opts.TemplatePath, data); err != nil {
		return fmt.Errorf("assets.WriteConceptMap() > %w", err)
	}
	return nil
}
