// Package explorer drives a session: it turns user events (search, click, replay, clear)
// into coordinator calls and session state transitions.
package explorer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/at-ishikawa/rensou/internal/concept"
	"github.com/at-ishikawa/rensou/internal/conceptmap"
	"github.com/at-ishikawa/rensou/internal/search"
	"github.com/at-ishikawa/rensou/internal/session"
)

const (
	MinConcepts     = 3
	MaxConcepts     = 15
	DefaultConcepts = 8
)

var (
	ErrMaxConceptsOutOfRange = fmt.Errorf("max concepts must be between %d and %d", MinConcepts, MaxConcepts)
	ErrNotInHistory          = errors.New("word is not in the search history")
)

//go:generate mockgen -source=explorer.go -destination=../mocks/explorer/mock_searcher.go -package=mock_explorer Searcher

// Searcher runs one search across every source.
type Searcher interface {
	Search(ctx context.Context, word string, maxConcepts int) search.Result
}

type Explorer struct {
	state       *session.State
	searcher    Searcher
	sources     []concept.Source
	maxConcepts int
	logger      *slog.Logger
}

type Option func(*Explorer) error

func WithSources(sources []concept.Source) Option {
	return func(e *Explorer) error {
		return e.SetSources(sources)
	}
}

func WithMaxConcepts(maxConcepts int) Option {
	return func(e *Explorer) error {
		return e.SetMaxConcepts(maxConcepts)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Explorer) error {
		e.logger = logger
		return nil
	}
}

// WithState continues an existing session instead of starting an empty one.
func WithState(state *session.State) Option {
	return func(e *Explorer) error {
		e.state = state
		return nil
	}
}

func New(searcher Searcher, opts ...Option) (*Explorer, error) {
	e := &Explorer{
		state:       session.New(),
		searcher:    searcher,
		sources:     slices.Clone(concept.CanonicalSources),
		maxConcepts: DefaultConcepts,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("opt() > %w", err)
		}
	}
	return e, nil
}

// State exposes the session for rendering. Callers must not modify it.
func (e *Explorer) State() *session.State {
	return e.state
}

func (e *Explorer) Sources() []concept.Source {
	return slices.Clone(e.sources)
}

// SetSources chooses which canonical sources are shown and recorded. An empty list is
// allowed; every search then reports nothing found.
func (e *Explorer) SetSources(sources []concept.Source) error {
	enabled := make([]concept.Source, 0, len(sources))
	for _, src := range sources {
		if !slices.Contains(concept.CanonicalSources, src) {
			return fmt.Errorf("%w: %q", concept.ErrUnknownSource, src)
		}
		if !slices.Contains(enabled, src) {
			enabled = append(enabled, src)
		}
	}
	e.sources = enabled
	return nil
}

func (e *Explorer) MaxConcepts() int {
	return e.maxConcepts
}

func (e *Explorer) SetMaxConcepts(maxConcepts int) error {
	if maxConcepts < MinConcepts || maxConcepts > MaxConcepts {
		return fmt.Errorf("%w: %d", ErrMaxConceptsOutOfRange, maxConcepts)
	}
	e.maxConcepts = maxConcepts
	return nil
}

// Search looks raw up in every source and records the result. Blank input returns
// search.ErrEmptyWord without searching; a search that finds nothing returns a
// NoticeNotFound and leaves the session untouched.
func (e *Explorer) Search(ctx context.Context, raw string) (Notice, error) {
	word, err := search.NormalizeWord(raw)
	if err != nil {
		return Notice{}, err
	}

	result := e.searcher.Search(ctx, word, e.maxConcepts)
	filtered := result.Concepts.Filter(e.sources)
	notice := Notice{Word: word, Warnings: result.Warnings}
	if filtered.IsEmpty() {
		e.logger.Info("nothing found", "word", word)
		notice.Kind = NoticeNotFound
		return notice, nil
	}

	e.state.RecordSearch(word, filtered)
	e.logger.Debug("recorded search", "word", word, "concepts", filtered.Total())
	notice.Kind = NoticeFound
	return notice, nil
}

// Select walks to a concept. A concept searched before is shown from the dictionary;
// any other concept is searched right away.
func (e *Explorer) Select(ctx context.Context, raw string) (Notice, error) {
	word, err := search.NormalizeWord(raw)
	if err != nil {
		return Notice{}, err
	}
	if e.state.SelectConcept(word) {
		return Notice{Kind: NoticeSaved, Word: word}, nil
	}
	return e.Search(ctx, word)
}

// Replay reopens a word from the search history.
func (e *Explorer) Replay(ctx context.Context, word string) (Notice, error) {
	word = strings.TrimSpace(word)
	if !slices.Contains(e.state.History, word) {
		return Notice{}, fmt.Errorf("%w: %q", ErrNotInHistory, word)
	}
	return e.Select(ctx, word)
}

func (e *Explorer) Clear() {
	e.state.Clear()
}

// Diagram lays out the concepts currently displayed.
func (e *Explorer) Diagram() conceptmap.Diagram {
	return conceptmap.Layout(e.state.CurrentWord, e.state.Displayed)
}

type Statistics struct {
	Word          string
	TotalConcepts int
	Sources       int
}

func (e *Explorer) Statistics() Statistics {
	return Statistics{
		Word:          e.state.CurrentWord,
		TotalConcepts: e.state.Displayed.Total(),
		Sources:       e.state.Displayed.NonEmptySources(),
	}
}
