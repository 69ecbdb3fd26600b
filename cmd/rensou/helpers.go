package main

import (
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/rensou/internal/app"
	"github.com/at-ishikawa/rensou/internal/cli"
	"github.com/at-ishikawa/rensou/internal/config"
	"github.com/at-ishikawa/rensou/internal/explorer"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// newExplorer builds an explorer from cfg and applies the command line overrides on top.
func newExplorer(cfg *config.Config, flags explorerFlags) (*explorer.Explorer, error) {
	logger := slog.Default()
	e, err := app.NewExplorer(cfg, app.NewCoordinator(cfg, logger), logger)
	if err != nil {
		return nil, fmt.Errorf("app.NewExplorer() > %w", err)
	}
	if len(flags.sources) > 0 {
		if err := e.SetSources(flags.sources); err != nil {
			return nil, fmt.Errorf("explorer.SetSources() > %w", err)
		}
	}
	if flags.maxConcepts != 0 {
		if err := e.SetMaxConcepts(flags.maxConcepts); err != nil {
			return nil, fmt.Errorf("explorer.SetMaxConcepts() > %w", err)
		}
	}
	return e, nil
}

func newWalkOptions(cfg *config.Config) (cli.WalkOptions, error) {
	fonts, err := app.LoadFonts(cfg)
	if err != nil {
		return cli.WalkOptions{}, fmt.Errorf("app.LoadFonts() > %w", err)
	}
	return cli.WalkOptions{
		ConceptMapTemplate: cfg.Templates.ConceptMapTemplate,
		DictionaryTemplate: cfg.Templates.DictionaryTemplate,
		FontPath:           cfg.Render.FontPath,
		Fonts:              fonts,
		OutputDir:          cfg.Outputs.Directory,
		MySQL:              app.NewMySQLSink(cfg.Database),
	}, nil
}
