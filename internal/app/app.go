// Package app builds the explorer and its collaborators from a loaded configuration.
// Both the command line and the web server start from here.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/rensou/internal/concept"
	"github.com/at-ishikawa/rensou/internal/conceptmap"
	"github.com/at-ishikawa/rensou/internal/config"
	"github.com/at-ishikawa/rensou/internal/database"
	"github.com/at-ishikawa/rensou/internal/explorer"
	"github.com/at-ishikawa/rensou/internal/export"
	"github.com/at-ishikawa/rensou/internal/search"
	"github.com/at-ishikawa/rensou/internal/session"
	"github.com/at-ishikawa/rensou/internal/source"
	"github.com/at-ishikawa/rensou/internal/source/related"
	"github.com/at-ishikawa/rensou/internal/source/weblio"
	"github.com/at-ishikawa/rensou/internal/source/wikipedia"
)

// NewCoordinator wires the three concept sources behind a shared response cache.
func NewCoordinator(cfg *config.Config, logger *slog.Logger) *search.Coordinator {
	cache := source.NewResponseCache(cfg.Sources.Cache.TTL, cfg.Sources.Cache.CleanupInterval)
	httpOptions := func(endpoint config.EndpointConfig) source.HTTPOptions {
		return source.HTTPOptions{
			BaseURL:   endpoint.BaseURL,
			UserAgent: cfg.Sources.UserAgent,
			Timeout:   cfg.Sources.RequestTimeout,
			Cache:     cache,
		}
	}

	return search.New(map[concept.Source]source.Adapter{
		concept.SourceWikipedia: wikipedia.NewClient(httpOptions(cfg.Sources.Wikipedia)),
		concept.SourceWeblio:    weblio.NewClient(httpOptions(cfg.Sources.Weblio)),
		concept.SourceRelated:   related.New(),
	}, search.WithTimeout(cfg.Search.Timeout), search.WithLogger(logger))
}

// NewExplorer starts an empty session using the configured sources and concept limit.
func NewExplorer(cfg *config.Config, searcher explorer.Searcher, logger *slog.Logger) (*explorer.Explorer, error) {
	sources, err := concept.ParseSources(cfg.Search.Sources)
	if err != nil {
		return nil, fmt.Errorf("concept.ParseSources() > %w", err)
	}
	e, err := explorer.New(searcher,
		explorer.WithSources(sources),
		explorer.WithMaxConcepts(cfg.Search.MaxConcepts),
		explorer.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("explorer.New() > %w", err)
	}
	return e, nil
}

// LoadFonts returns nil when no font is configured so the PNG renderer falls back to its built-in face.
func LoadFonts(cfg *config.Config) (*conceptmap.Fonts, error) {
	if cfg.Render.FontPath == "" {
		return nil, nil
	}
	fonts, err := conceptmap.LoadFonts(cfg.Render.FontPath)
	if err != nil {
		return nil, fmt.Errorf("conceptmap.LoadFonts() > %w", err)
	}
	return fonts, nil
}

// MySQLSink opens a connection per export, so a missing database only fails the mysql format.
type MySQLSink struct {
	cfg config.DatabaseConfig
}

var _ export.Sink = (*MySQLSink)(nil)

func NewMySQLSink(cfg config.DatabaseConfig) *MySQLSink {
	return &MySQLSink{cfg: cfg}
}

func (s *MySQLSink) Write(ctx context.Context, dictionary *session.Dictionary) (string, error) {
	db, err := database.Open(s.cfg)
	if err != nil {
		return "", fmt.Errorf("database.Open() > %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	destination, err := export.NewMySQLSink(db).Write(ctx, dictionary)
	if err != nil {
		return "", fmt.Errorf("export.MySQLSink.Write() > %w", err)
	}
	return destination, nil
}
