package assets

import (
	_ "embed"
	"fmt"
	"io"
	"text/template"
)

//go:embed templates/dictionary.md.go.tmpl
var fallbackDictionaryTemplate string

// DictionaryTemplate is the data for the Markdown export of the concept dictionary.
type DictionaryTemplate struct {
	Title   string
	Entries []DictionaryEntry
}

type DictionaryEntry struct {
	Word     string
	Concepts []string
}

func ParseDictionaryTemplate(templatePath string) (*template.Template, error) {
	return parseTemplateWithFallback(templatePath, dictionaryTemplateName, fallbackDictionaryTemplate)
}

func WriteDictionary(output io.Writer, templatePath string, templateData DictionaryTemplate) error {
	tmpl, err := ParseDictionaryTemplate(templatePath)
	if err != nil {
		return fmt.Errorf("ParseDictionaryTemplate() > %w", err)
	}
	if err := tmpl.Execute(output, templateData); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
