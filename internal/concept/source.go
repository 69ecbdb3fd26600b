// Package concept holds the domain types shared by the adapters, the renderer and the
// session store, together with the text concept extractor.
package concept

import (
	"errors"
	"fmt"
	"strings"
)

// Source names where a group of concepts came from.
// The value is the display name used in legends and exports.
type Source string

const (
	SourceWikipedia Source = "Wikipedia"
	SourceWeblio    Source = "Weblio"
	SourceRelated   Source = "関連検索"
	// SourceSaved is the synthetic source shown when a word is reopened from the dictionary.
	SourceSaved Source = "保存済み"
)

// CanonicalSources are the sources every search reports on, in display order.
var CanonicalSources = []Source{SourceWikipedia, SourceWeblio, SourceRelated}

var ErrUnknownSource = errors.New("unknown source")

var sourceIDs = map[Source]string{
	SourceWikipedia: "wikipedia",
	SourceWeblio:    "weblio",
	SourceRelated:   "related",
	SourceSaved:     "saved",
}

// ID returns the identifier used on the command line and in configuration files.
func (s Source) ID() string {
	if id, ok := sourceIDs[s]; ok {
		return id
	}
	return string(s)
}

func (s Source) String() string {
	return string(s)
}

// ParseSource accepts either an identifier ("weblio") or a display name ("Weblio").
func ParseSource(value string) (Source, error) {
	value = strings.TrimSpace(value)
	for source, id := range sourceIDs {
		if strings.EqualFold(value, id) || value == string(source) {
			return source, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, value)
}

// ParseSources parses a list of identifiers, dropping duplicates.
func ParseSources(values []string) ([]Source, error) {
	sources := make([]Source, 0, len(values))
	seen := make(map[Source]bool, len(values))
	for _, value := range values {
		source, err := ParseSource(value)
		if err != nil {
			return nil, err
		}
		if seen[source] {
			continue
		}
		seen[source] = true
		sources = append(sources, source)
	}
	return sources, nil
}

// SourceIDs returns identifiers of the given sources, for flags and config defaults.
func SourceIDs(sources []Source) []string {
	ids := make([]string, len(sources))
	for i, source := range sources {
		ids[i] = source.ID()
	}
	return ids
}
