package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/rensou/internal/app"
	"github.com/at-ishikawa/rensou/internal/bootstrap"
	"github.com/at-ishikawa/rensou/internal/config"
	"github.com/at-ishikawa/rensou/internal/server"
)

const readHeaderTimeout = 10 * time.Second

var (
	configFile string
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if _, fprintfErr := fmt.Fprintf(os.Stderr, "failed to execute a command: %+v\n", err); fprintfErr != nil {
			panic(fmt.Errorf("failed to output an error: %w. Reason: %w", err, fprintfErr))
		}
		os.Exit(1)
	}
	os.Exit(0)
}

func newRootCommand() *cobra.Command {
	var (
		debugMode bool
		port      int
	)
	rootCommand := &cobra.Command{
		Use:           "rensou-server",
		Short:         "Serve the concept explorer web UI",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			return run(cmd.Context(), cfg)
		},
	}
	rootCommand.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCommand.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode")
	rootCommand.Flags().IntVar(&port, "port", 0, "Port to listen on. Defaults to server.port")
	return rootCommand
}

// setupLogger configures the default logger based on debug mode
func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})),
	)
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

func run(ctx context.Context, cfg *config.Config) error {
	handler, err := newHandler(cfg)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	logger := slog.Default()
	application := bootstrap.New(bootstrap.WithLogger(logger))
	application.AddShutdownHook("http server", httpServer.Shutdown)

	return application.Run(ctx, func(ctx context.Context) error {
		logger.Info("starting server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("httpServer.ListenAndServe() > %w", err)
		}
		return nil
	})
}

func newHandler(cfg *config.Config) (http.Handler, error) {
	logger := slog.Default()
	coordinator := app.NewCoordinator(cfg, logger)
	e, err := app.NewExplorer(cfg, coordinator, logger)
	if err != nil {
		return nil, fmt.Errorf("app.NewExplorer() > %w", err)
	}
	fonts, err := app.LoadFonts(cfg)
	if err != nil {
		return nil, fmt.Errorf("app.LoadFonts() > %w", err)
	}

	s := server.New(e, coordinator, server.Options{
		PageTemplate:       cfg.Templates.PageTemplate,
		ConceptMapTemplate: cfg.Templates.ConceptMapTemplate,
		DictionaryTemplate: cfg.Templates.DictionaryTemplate,
		FontPath:           cfg.Render.FontPath,
		Fonts:              fonts,
		MySQL:              app.NewMySQLSink(cfg.Database),
	})
	return corsMiddleware(cfg.Server.CORS.AllowedOrigins, h2c.NewHandler(s.Handler(), &http2.Server{})), nil
}

// corsMiddleware allows the JSON API to be called from the configured origins.
// "*" allows any origin.
func corsMiddleware(allowedOrigins []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (slices.Contains(allowedOrigins, origin) || slices.Contains(allowedOrigins, "*")) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Max-Age", "3600")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
