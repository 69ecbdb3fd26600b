package concept

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SourceResult is the ordered list of concepts a single source produced.
type SourceResult struct {
	Source   Source   `json:"source" yaml:"source"`
	Concepts []string `json:"concepts" yaml:"concepts"`
}

// ConceptSet is the per-query result grouped by source.
// A source that was requested but found nothing is present with an empty list,
// so Lookup's ok flag is the only way to tell "empty" from "not requested".
type ConceptSet []SourceResult

// Sources returns the sources present in the set, in order.
func (set ConceptSet) Sources() []Source {
	sources := make([]Source, len(set))
	for i, result := range set {
		sources[i] = result.Source
	}
	return sources
}

func (set ConceptSet) Lookup(source Source) ([]string, bool) {
	for _, result := range set {
		if result.Source == source {
			return result.Concepts, true
		}
	}
	return nil, false
}

// Filter keeps the sources listed in enabled, preserving the set's own order.
func (set ConceptSet) Filter(enabled []Source) ConceptSet {
	allowed := make(map[Source]bool, len(enabled))
	for _, source := range enabled {
		allowed[source] = true
	}
	filtered := make(ConceptSet, 0, len(set))
	for _, result := range set {
		if allowed[result.Source] {
			filtered = append(filtered, result)
		}
	}
	return filtered
}

// Union returns every concept across sources, deduplicated in first-seen order.
func (set ConceptSet) Union() []string {
	var all []string
	for _, result := range set {
		all = append(all, result.Concepts...)
	}
	return Dedupe(all)
}

func (set ConceptSet) Total() int {
	total := 0
	for _, result := range set {
		total += len(result.Concepts)
	}
	return total
}

// NonEmptySources counts sources that contributed at least one concept.
func (set ConceptSet) NonEmptySources() int {
	count := 0
	for _, result := range set {
		if len(result.Concepts) > 0 {
			count++
		}
	}
	return count
}

// IsEmpty reports whether no source produced any concept.
func (set ConceptSet) IsEmpty() bool {
	return set.Total() == 0
}

// MarshalJSON encodes the set as an object keyed by source, keeping slice order.
func (set ConceptSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, result := range set {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(result.Source))
		if err != nil {
			return nil, fmt.Errorf("json.Marshal(%s) > %w", result.Source, err)
		}
		concepts := result.Concepts
		if concepts == nil {
			concepts = []string{}
		}
		value, err := json.Marshal(concepts)
		if err != nil {
			return nil, fmt.Errorf("json.Marshal(%s concepts) > %w", result.Source, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Dedupe removes exact duplicates, keeping the first occurrence of each value.
func Dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	unique := make([]string, 0, len(values))
	for _, value := range values {
		if seen[value] {
			continue
		}
		seen[value] = true
		unique = append(unique, value)
	}
	return unique
}

// Truncate caps values at limit entries. A non-positive limit yields an empty slice.
func Truncate(values []string, limit int) []string {
	if limit <= 0 {
		return []string{}
	}
	if len(values) > limit {
		return values[:limit]
	}
	return values
}
