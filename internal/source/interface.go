// Package source defines the adapters that turn a query word into related concepts.
package source

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=../mocks/source/mock_adapter.go -package=mock_source

// Adapter looks up concepts related to a word from one external source.
// A non-nil error is a warning: any concepts returned alongside it are still usable.
type Adapter interface {
	Search(ctx context.Context, word string, maxConcepts int) ([]string, error)
}

// AdapterFunc lets an ordinary function act as an Adapter.
type AdapterFunc func(ctx context.Context, word string, maxConcepts int) ([]string, error)

func (f AdapterFunc) Search(ctx context.Context, word string, maxConcepts int) ([]string, error) {
	return f(ctx, word, maxConcepts)
}
