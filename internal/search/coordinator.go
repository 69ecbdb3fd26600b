// Package search fans a query out to every source adapter and joins the results.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/at-ishikawa/rensou/internal/concept"
	"github.com/at-ishikawa/rensou/internal/source"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultTimeout = 10 * time.Second

	// One worker per canonical source.
	workers = 3
)

var (
	ErrEmptyWord    = errors.New("word is empty")
	ErrNoAdapter    = errors.New("no adapter configured")
	ErrTimeout      = errors.New("source timed out")
	ErrAdapterPanic = errors.New("adapter panicked")
)

// Warning is a non-fatal failure of one source during a search.
type Warning struct {
	Source concept.Source
	Err    error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %v", w.Source, w.Err)
}

func (w Warning) Unwrap() error {
	return w.Err
}

type Result struct {
	Word string
	// Concepts always holds every canonical source, in canonical order.
	Concepts concept.ConceptSet
	Warnings []Warning
}

// Found reports whether any source produced a concept.
func (r Result) Found() bool {
	return !r.Concepts.IsEmpty()
}

// NormalizeWord trims surrounding whitespace and rejects blank input.
func NormalizeWord(raw string) (string, error) {
	word := strings.TrimSpace(raw)
	if word == "" {
		return "", ErrEmptyWord
	}
	return word, nil
}

type Coordinator struct {
	adapters map[concept.Source]source.Adapter
	timeout  time.Duration
	logger   *slog.Logger
}

type Option func(*Coordinator)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Coordinator) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

func New(adapters map[concept.Source]source.Adapter, opts ...Option) *Coordinator {
	c := &Coordinator{
		adapters: adapters,
		timeout:  DefaultTimeout,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search queries all canonical sources concurrently and waits for all of them or the
// overall timeout, whichever comes first. Results arriving after the deadline are dropped.
// Search never fails: a source that errors, panics or times out is reported with an
// empty list and a warning.
func (c *Coordinator) Search(ctx context.Context, word string, maxConcepts int) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	results := newCollector()
	var group errgroup.Group
	group.SetLimit(workers)
	for _, src := range concept.CanonicalSources {
		adapter, ok := c.adapters[src]
		if !ok || adapter == nil {
			results.set(src, nil, ErrNoAdapter)
			continue
		}
		group.Go(func() error {
			concepts, err := callAdapter(ctx, adapter, word, maxConcepts)
			if ctx.Err() != nil {
				// Past the deadline; the slot reports a timeout instead.
				return nil
			}
			results.set(src, concepts, err)
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = group.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}

	set, warnings := results.close(ctx.Err(), maxConcepts)
	for _, warning := range warnings {
		c.logger.Warn("source failed", "source", warning.Source.ID(), "word", word, "error", warning.Err)
	}
	return Result{
		Word:     word,
		Concepts: set,
		Warnings: warnings,
	}
}

func callAdapter(ctx context.Context, adapter source.Adapter, word string, maxConcepts int) (concepts []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			concepts = nil
			err = fmt.Errorf("%w: %v", ErrAdapterPanic, r)
		}
	}()
	return adapter.Search(ctx, word, maxConcepts)
}

// collector holds one slot per source. Once closed, late writes are ignored.
type collector struct {
	mu       sync.Mutex
	closed   bool
	concepts map[concept.Source][]string
	errs     map[concept.Source]error
	answered map[concept.Source]bool
}

func newCollector() *collector {
	return &collector{
		concepts: make(map[concept.Source][]string),
		errs:     make(map[concept.Source]error),
		answered: make(map[concept.Source]bool),
	}
}

func (c *collector) set(src concept.Source, concepts []string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.answered[src] = true
	c.concepts[src] = concepts
	if err != nil {
		c.errs[src] = err
	}
}

func (c *collector) close(deadlineErr error, maxConcepts int) (concept.ConceptSet, []Warning) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true

	set := make(concept.ConceptSet, 0, len(concept.CanonicalSources))
	var warnings []Warning
	for _, src := range concept.CanonicalSources {
		if !c.answered[src] {
			err := ErrTimeout
			if deadlineErr != nil {
				err = fmt.Errorf("%w: %w", ErrTimeout, deadlineErr)
			}
			warnings = append(warnings, Warning{Source: src, Err: err})
			set = append(set, concept.SourceResult{Source: src, Concepts: []string{}})
			continue
		}
		if err, ok := c.errs[src]; ok {
			warnings = append(warnings, Warning{Source: src, Err: err})
		}
		set = append(set, concept.SourceResult{
			Source:   src,
			Concepts: concept.Truncate(concept.Dedupe(c.concepts[src]), maxConcepts),
		})
	}
	return set, warnings
}
