package session

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Entry is one recorded word and the concepts found for it.
type Entry struct {
	Word     string   `json:"word" yaml:"word"`
	Concepts []string `json:"concepts" yaml:"concepts"`
}

// Dictionary maps searched words to their concepts and remembers insertion order,
// so exports list words in the order they were first recorded.
// The zero value is an empty dictionary ready to use.
type Dictionary struct {
	words   []string
	entries map[string][]string
}

// Set stores concepts for word, replacing any previous list.
// A replaced word keeps its original position.
func (d *Dictionary) Set(word string, concepts []string) {
	if d.entries == nil {
		d.entries = make(map[string][]string)
	}
	if _, ok := d.entries[word]; !ok {
		d.words = append(d.words, word)
	}
	stored := make([]string, len(concepts))
	copy(stored, concepts)
	d.entries[word] = stored
}

func (d *Dictionary) Get(word string) ([]string, bool) {
	concepts, ok := d.entries[word]
	return concepts, ok
}

func (d *Dictionary) Has(word string) bool {
	_, ok := d.entries[word]
	return ok
}

func (d *Dictionary) Len() int {
	return len(d.words)
}

// Words returns the recorded words in insertion order.
func (d *Dictionary) Words() []string {
	words := make([]string, len(d.words))
	copy(words, d.words)
	return words
}

// Entries returns all entries in insertion order.
func (d *Dictionary) Entries() []Entry {
	entries := make([]Entry, len(d.words))
	for i, word := range d.words {
		entries[i] = Entry{Word: word, Concepts: d.entries[word]}
	}
	return entries
}

// MarshalJSON writes the dictionary as a single object keyed by word.
func (d *Dictionary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range d.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalJSONValue(entry.Word)
		if err != nil {
			return nil, fmt.Errorf("marshalJSONValue(%s) > %w", entry.Word, err)
		}
		concepts := entry.Concepts
		if concepts == nil {
			concepts = []string{}
		}
		value, err := marshalJSONValue(concepts)
		if err != nil {
			return nil, fmt.Errorf("marshalJSONValue(%s concepts) > %w", entry.Word, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// IndentedJSON is MarshalJSON indented by two spaces. An empty dictionary is "{}".
func (d *Dictionary) IndentedJSON() ([]byte, error) {
	if d.Len() == 0 {
		return []byte("{}"), nil
	}
	raw, err := d.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("MarshalJSON() > %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("json.Indent() > %w", err)
	}
	return buf.Bytes(), nil
}

// MarshalYAML keeps insertion order, which a plain map would lose.
func (d *Dictionary) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, entry := range d.Entries() {
		var value yaml.Node
		concepts := entry.Concepts
		if concepts == nil {
			concepts = []string{}
		}
		if err := value.Encode(concepts); err != nil {
			return nil, fmt.Errorf("value.Encode(%s) > %w", entry.Word, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: entry.Word},
			&value,
		)
	}
	return node, nil
}

// marshalJSONValue encodes v without escaping <, > and &.
func marshalJSONValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
