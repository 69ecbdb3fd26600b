// Package session holds the state of one exploring user: the word on screen, the concepts
// displayed for it, the accumulated word dictionary and the search history.
//
// State is a plain value owned by a single driver and is not safe for concurrent use.
package session

import (
	"slices"

	"github.com/at-ishikawa/rensou/internal/concept"
)

// RecentHistorySize is how many history entries the interfaces offer for replay.
const RecentHistorySize = 5

type State struct {
	CurrentWord string
	Displayed   concept.ConceptSet
	Dictionary  Dictionary
	History     []string
}

func New() *State {
	return &State{}
}

// RecordSearch makes word the current word with set displayed, stores the union of the
// set's concepts under word and appends word to the history unless it is already there.
// An empty union leaves the dictionary as it was.
func (s *State) RecordSearch(word string, set concept.ConceptSet) {
	s.CurrentWord = word
	s.Displayed = set

	if union := set.Union(); len(union) > 0 {
		s.Dictionary.Set(word, union)
	}
	if !slices.Contains(s.History, word) {
		s.History = append(s.History, word)
	}
}

// SelectConcept moves to c. When c was searched before, its stored concepts are displayed
// under the saved source and true is returned; otherwise nothing is displayed until c is
// searched.
func (s *State) SelectConcept(c string) bool {
	s.CurrentWord = c
	stored, ok := s.Dictionary.Get(c)
	if !ok {
		s.Displayed = concept.ConceptSet{}
		return false
	}
	s.Displayed = concept.ConceptSet{{Source: concept.SourceSaved, Concepts: stored}}
	return true
}

// Clear forgets the current word and displayed concepts. The dictionary and history stay.
func (s *State) Clear() {
	s.CurrentWord = ""
	s.Displayed = concept.ConceptSet{}
}

// RecentHistory returns up to n history entries, most recent first.
func (s *State) RecentHistory(n int) []string {
	if n <= 0 {
		return []string{}
	}
	start := len(s.History) - n
	if start < 0 {
		start = 0
	}
	recent := make([]string, 0, len(s.History)-start)
	for i := len(s.History) - 1; i >= start; i-- {
		recent = append(recent, s.History[i])
	}
	return recent
}

// Export serializes the dictionary as indented JSON. An empty dictionary is "{}".
func (s *State) Export() ([]byte, error) {
	return s.Dictionary.IndentedJSON()
}
