package assets

import (
	_ "embed"
	"fmt"
	htmltemplate "html/template"
	"io"
)

//go:embed templates/index.html.go.tmpl
var fallbackPageTemplate string

// PageTemplate is the data for the web UI page.
type PageTemplate struct {
	Word        string
	Notices     []PageNotice
	Sources     []PageSource
	MaxConcepts int
	MinLimit    int
	MaxLimit    int
	// Map is SVG markup produced by WriteConceptMap, so it is already escaped.
	Map        htmltemplate.HTML
	Results    []PageResult
	Statistics PageStatistics
	History    []PageLink
	Dictionary PageDictionary
	Exports    []PageLink
}

type PageNotice struct {
	// Level is one of success, info, warning and error.
	Level   string
	Message string
}

type PageSource struct {
	ID      string
	Name    string
	Checked bool
}

type PageResult struct {
	Source   string
	Color    string
	Concepts []PageLink
}

type PageLink struct {
	Label string
	Href  string
	// Post renders the link as a form button, for actions that write.
	Post bool
}

type PageStatistics struct {
	Word          string
	TotalConcepts int
	Sources       int
}

type PageDictionary struct {
	Size    int
	Entries []PageDictionaryEntry
}

type PageDictionaryEntry struct {
	Word     string
	Concepts []string
	// More is set when Concepts is a preview of a longer list.
	More bool
}

func WritePage(output io.Writer, templatePath string, templateData PageTemplate) error {
	tmpl, err := parseHTMLTemplateWithFallback(templatePath, pageTemplateName, fallbackPageTemplate)
	if err != nil {
		return fmt.Errorf("parseHTMLTemplateWithFallback() > %w", err)
	}
	if err := tmpl.Execute(output, templateData); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
