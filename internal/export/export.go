// Package export writes the concept dictionary out as files or as a database snapshot.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/rensou/internal/assets"
	"github.com/at-ishikawa/rensou/internal/session"
)

type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
	FormatMySQL    Format = "mysql"

	defaultBaseName = "concept_dictionary"
	dictionaryTitle = "連想辞書"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists every format in the order help texts show them.
var Formats = []Format{FormatJSON, FormatYAML, FormatMarkdown, FormatPDF, FormatMySQL}

func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "yml":
		return FormatYAML, nil
	case "md":
		return FormatMarkdown, nil
	}
	for _, format := range Formats {
		if string(format) == normalized {
			return format, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, value)
}

// FormatFromPath guesses a file format from the extension of path.
func FormatFromPath(path string) (Format, error) {
	extension := filepath.Ext(path)
	if extension == "" {
		return "", fmt.Errorf("%w: no extension in %s", ErrUnknownFormat, path)
	}
	format, err := ParseFormat(strings.TrimPrefix(extension, "."))
	if err != nil || !format.IsFile() {
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	return format, nil
}

// IsFile reports whether the format is written to a file.
func (f Format) IsFile() bool {
	return f != FormatMySQL
}

func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatMySQL:
		return ""
	default:
		return string(f)
	}
}

// DefaultFileName is the file an export goes to when no name is given.
func (f Format) DefaultFileName() string {
	return defaultBaseName + "." + f.Extension()
}

func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json; charset=utf-8"
	case FormatYAML:
		return "application/yaml; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

type EncodeOptions struct {
	// DictionaryTemplate overrides the embedded Markdown template.
	DictionaryTemplate string
}

// Encode serializes dictionary in one of the text formats.
func Encode(format Format, dictionary *session.Dictionary, opts EncodeOptions) ([]byte, error) {
	switch format {
	case FormatJSON:
		return dictionary.IndentedJSON()
	case FormatYAML:
		return encodeYAML(dictionary)
	case FormatMarkdown:
		return encodeMarkdown(dictionary, opts.DictionaryTemplate)
	default:
		return nil, fmt.Errorf("%w: %s cannot be encoded as text", ErrUnknownFormat, format)
	}
}

func encodeYAML(dictionary *session.Dictionary) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(dictionary); err != nil {
		return nil, fmt.Errorf("encoder.Encode() > %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("encoder.Close() > %w", err)
	}
	return buf.Bytes(), nil
}

func encodeMarkdown(dictionary *session.Dictionary, templatePath string) ([]byte, error) {
	data := assets.DictionaryTemplate{Title: dictionaryTitle}
	for _, entry := range dictionary.Entries() {
		data.Entries = append(data.Entries, assets.DictionaryEntry{
			Word:     entry.Word,
			Concepts: entry.Concepts,
		})
	}

	var buf bytes.Buffer
	if err := assets.WriteDictionary(&buf, templatePath, data); err != nil {
		return nil, fmt.Errorf("assets.WriteDictionary() > %w", err)
	}
	return buf.Bytes(), nil
}
