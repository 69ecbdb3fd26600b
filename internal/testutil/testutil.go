// Package testutil provides shared test helpers for config files and fake source servers.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// ConfigOption changes one setting of the generated config file.
type ConfigOption func(*testConfig)

type testConfig struct {
	sourcesBaseURL string
	maxConcepts    int
	sources        []string
	exportFormat   string
}

// WithSourceServer points both network sources at server.
func WithSourceServer(server *httptest.Server) ConfigOption {
	return func(cfg *testConfig) {
		cfg.sourcesBaseURL = server.URL
	}
}

func WithMaxConcepts(maxConcepts int) ConfigOption {
	return func(cfg *testConfig) {
		cfg.maxConcepts = maxConcepts
	}
}

func WithSources(sources ...string) ConfigOption {
	return func(cfg *testConfig) {
		cfg.sources = sources
	}
}

func WithExportFormat(format string) ConfigOption {
	return func(cfg *testConfig) {
		cfg.exportFormat = format
	}
}

// SetupTestConfig creates a config file and an output directory under tmpDir.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string, opts ...ConfigOption) string {
	t.Helper()

	cfg := testConfig{
		// Nothing listens here, so network sources fail fast unless a server is given.
		sourcesBaseURL: "http://127.0.0.1:1",
		maxConcepts:    8,
		sources:        []string{"wikipedia", "weblio", "related"},
		exportFormat:   "json",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	outputDir := filepath.Join(tmpDir, "outputs")
	require.NoError(t, os.MkdirAll(outputDir, 0755))

	configContent := fmt.Sprintf(`search:
  max_concepts: %d
  sources: [%s]
  timeout: 5s
sources:
  request_timeout: 2s
  wikipedia:
    base_url: %s
  weblio:
    base_url: %s
  cache:
    ttl: 0s
outputs:
  directory: %s
  export_format: %s
`,
		cfg.maxConcepts,
		strings.Join(cfg.sources, ", "),
		cfg.sourcesBaseURL,
		cfg.sourcesBaseURL,
		outputDir,
		cfg.exportFormat,
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// Fixture is the canned content a fake source server returns for one word.
type Fixture struct {
	// Extract is the Wikipedia page summary.
	Extract string
	// Titles are Wikipedia search hit titles.
	Titles []string
	// WeblioHTML is the body of the Weblio content page.
	WeblioHTML string
}

// StartSourceServer serves the Wikipedia summary and search APIs and Weblio content
// pages for the words in fixtures. Other words get 404 responses.
func StartSourceServer(t *testing.T, fixtures map[string]Fixture) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/rest_v1/page/summary/", func(w http.ResponseWriter, r *http.Request) {
		fixture, ok := fixtures[strings.TrimPrefix(r.URL.Path, "/api/rest_v1/page/summary/")]
		if !ok || fixture.Extract == "" {
			http.NotFound(w, r)
			return
		}
		writeJSON(t, w, map[string]string{"extract": fixture.Extract})
	})
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		fixture := fixtures[r.URL.Query().Get("srsearch")]
		hits := make([]map[string]string, 0, len(fixture.Titles))
		for _, title := range fixture.Titles {
			hits = append(hits, map[string]string{"title": title, "snippet": ""})
		}
		writeJSON(t, w, map[string]any{"query": map[string]any{"search": hits}})
	})
	mux.HandleFunc("/content/", func(w http.ResponseWriter, r *http.Request) {
		fixture, ok := fixtures[strings.TrimPrefix(r.URL.Path, "/content/")]
		if !ok || fixture.WeblioHTML == "" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(fixture.WeblioHTML))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func writeJSON(t *testing.T, w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("json.Encode() > %v", err)
	}
}
