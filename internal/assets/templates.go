// Package assets embeds the default templates and lets a file on disk override each of them.
package assets

import (
	_ "embed"
	"fmt"
	htmltemplate "html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
)

const (
	conceptMapTemplateName = "concept-map.svg.go.tmpl"
	dictionaryTemplateName = "dictionary.md.go.tmpl"
	pageTemplateName       = "index.html.go.tmpl"
)

var textFuncMap = template.FuncMap{
	"join": strings.Join,
}

var htmlFuncMap = htmltemplate.FuncMap{
	"join": strings.Join,
	"coord": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 1, 64)
	},
}

func parseTemplateWithFallback(templatePath string, fallbackName string, fallbackTemplate string) (*template.Template, error) {
	if templatePath != "" {
		if _, err := os.Stat(templatePath); err == nil {
			tmpl, err := template.New(filepath.Base(templatePath)).
				Funcs(textFuncMap).
				ParseFiles(templatePath)
			if err == nil {
				return tmpl, nil
			}
			slog.Default().Warn("failed to parse a templatePath",
				slog.String("templatePath", templatePath),
				slog.Any("error", err),
			)
		}
	}

	tmpl, err := template.New(fallbackName).
		Funcs(textFuncMap).
		Parse(fallbackTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}

// parseHTMLTemplateWithFallback is parseTemplateWithFallback for markup that needs contextual escaping.
func parseHTMLTemplateWithFallback(templatePath string, fallbackName string, fallbackTemplate string) (*htmltemplate.Template, error) {
	if templatePath != "" {
		if _, err := os.Stat(templatePath); err == nil {
			tmpl, err := htmltemplate.New(filepath.Base(templatePath)).
				Funcs(htmlFuncMap).
				ParseFiles(templatePath)
			if err == nil {
				return tmpl, nil
			}
			slog.Default().Warn("failed to parse a templatePath",
				slog.String("templatePath", templatePath),
				slog.Any("error", err),
			)
		}
	}

	tmpl, err := htmltemplate.New(fallbackName).
		Funcs(htmlFuncMap).
		Parse(fallbackTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}
