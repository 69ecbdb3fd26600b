// Package conceptmap lays out a radial concept map around a center word and renders it
// as SVG or PNG.
package conceptmap

import (
	"math"
	"unicode/utf8"

	"github.com/at-ishikawa/rensou/internal/concept"
)

const (
	Width  = 800
	Height = 600

	CenterRadius  = 40
	ConceptRadius = 25
	LegendRadius  = 8

	baseRingRadius = 150
	ringSpacing    = 80

	legendX       = 30
	legendY       = 30
	legendSpacing = 120

	maxLabelRunes       = 6
	truncatedLabelRunes = 5
	ellipsis            = "..."

	PlaceholderText = "概念を検索中..."
)

var (
	sourceColors = map[concept.Source]string{
		concept.SourceWikipedia: "#FF6B6B",
		concept.SourceWeblio:    "#4ECDC4",
		concept.SourceRelated:   "#45B7D1",
	}

	overflowColors = []string{"#96CEB4", "#FFEAA7", "#DDA0DD", "#98D8C8", "#F7DC6F"}
)

type Point struct {
	X float64
	Y float64
}

type Node struct {
	Concept  string
	Label    string
	Source   concept.Source
	Color    string
	Position Point
}

// Ring is the circle one source's concepts sit on.
type Ring struct {
	Source concept.Source
	Color  string
	Radius float64
	Nodes  []Node
}

type LegendEntry struct {
	Source   concept.Source
	Color    string
	Position Point
}

// Diagram is a fully laid out concept map. It holds no drawing state, so the same
// Diagram always renders to the same output.
type Diagram struct {
	Width  int
	Height int
	Center Point
	Word   string
	// Placeholder is set when there is nothing to draw yet.
	Placeholder bool
	Rings       []Ring
	Legend      []LegendEntry
}

// Nodes returns every concept node, ring by ring.
func (d Diagram) Nodes() []Node {
	var nodes []Node
	for _, ring := range d.Rings {
		nodes = append(nodes, ring.Nodes...)
	}
	return nodes
}

// Layout places each source's concepts on its own ring around word.
// Rings nest outward in set order; sources without concepts get no ring and do not
// push later rings outward.
func Layout(word string, set concept.ConceptSet) Diagram {
	center := Point{X: Width / 2, Y: Height / 2}
	diagram := Diagram{
		Width:  Width,
		Height: Height,
		Center: center,
		Word:   word,
	}
	if word == "" || len(set) == 0 {
		diagram.Placeholder = true
		return diagram
	}

	palette := newPalette()
	for _, result := range set {
		if len(result.Concepts) == 0 {
			continue
		}
		radius := float64(baseRingRadius + ringSpacing*len(diagram.Rings))
		color := palette.color(result.Source)
		positions := Positions(center.X, center.Y, len(result.Concepts), radius)

		ring := Ring{
			Source: result.Source,
			Color:  color,
			Radius: radius,
			Nodes:  make([]Node, len(result.Concepts)),
		}
		for i, c := range result.Concepts {
			ring.Nodes[i] = Node{
				Concept:  c,
				Label:    Label(c),
				Source:   result.Source,
				Color:    color,
				Position: positions[i],
			}
		}
		diagram.Rings = append(diagram.Rings, ring)
	}

	for i, src := range concept.CanonicalSources {
		diagram.Legend = append(diagram.Legend, LegendEntry{
			Source:   src,
			Color:    sourceColors[src],
			Position: Point{X: float64(legendX + legendSpacing*i), Y: legendY},
		})
	}
	return diagram
}

// Positions spreads n points evenly by angle on a circle of the given radius,
// starting at angle 0 and going in increments of 2π/n.
func Positions(cx, cy float64, n int, radius float64) []Point {
	if n <= 0 {
		return nil
	}
	points := make([]Point, n)
	for i := range points {
		angle := 2 * math.Pi * float64(i) / float64(n)
		points[i] = Point{
			X: cx + radius*math.Cos(angle),
			Y: cy + radius*math.Sin(angle),
		}
	}
	return points
}

// Label shortens concepts longer than six characters to five plus an ellipsis.
func Label(c string) string {
	if utf8.RuneCountInString(c) <= maxLabelRunes {
		return c
	}
	return string([]rune(c)[:truncatedLabelRunes]) + ellipsis
}

// palette hands out overflow colors to unknown sources in order of first appearance.
type palette struct {
	assigned map[concept.Source]string
	next     int
}

func newPalette() *palette {
	return &palette{assigned: make(map[concept.Source]string)}
}

func (p *palette) color(src concept.Source) string {
	if color, ok := sourceColors[src]; ok {
		return color
	}
	if color, ok := p.assigned[src]; ok {
		return color
	}
	color := overflowColors[p.next%len(overflowColors)]
	p.next++
	p.assigned[src] = color
	return color
}
