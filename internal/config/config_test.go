package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/rensou/internal/source"
)

func defaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			MaxConcepts: 8,
			Sources:     []string{"wikipedia", "weblio", "related"},
			Timeout:     10 * time.Second,
		},
		Sources: SourcesConfig{
			UserAgent:      source.DefaultUserAgent,
			RequestTimeout: 5 * time.Second,
			Wikipedia:      EndpointConfig{BaseURL: "https://ja.wikipedia.org"},
			Weblio:         EndpointConfig{BaseURL: "https://www.weblio.jp"},
			Cache: CacheConfig{
				TTL:             10 * time.Minute,
				CleanupInterval: 20 * time.Minute,
			},
		},
		Outputs: OutputsConfig{
			Directory:    ".",
			ExportFormat: "json",
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			Database: "rensou",
			Username: "user",
		},
		Server: ServerConfig{
			Port: 8080,
			CORS: CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		},
	}
}

func TestConfigLoader_Load(t *testing.T) {
	tests := []struct {
		name              string
		configContent     string
		useExplicitPath   bool
		env               map[string]string
		want              func(dir string) *Config
		wantErrorContains []string
	}{
		{
			name: "no config file uses defaults",
			want: func(string) *Config { return defaultConfig() },
		},
		{
			name: "custom values",
			configContent: `search:
  max_concepts: 12
  sources: [weblio, related]
  timeout: 3s
sources:
  request_timeout: 2s
  wikipedia:
    base_url: http://localhost:9000
  cache:
    ttl: 0s
outputs:
  directory: exports
  export_format: yaml
`,
			want: func(string) *Config {
				cfg := defaultConfig()
				cfg.Search = SearchConfig{MaxConcepts: 12, Sources: []string{"weblio", "related"}, Timeout: 3 * time.Second}
				cfg.Sources.RequestTimeout = 2 * time.Second
				cfg.Sources.Wikipedia.BaseURL = "http://localhost:9000"
				cfg.Sources.Cache.TTL = 0
				cfg.Outputs = OutputsConfig{Directory: "exports", ExportFormat: "yaml"}
				return cfg
			},
		},
		{
			name:            "explicit config file path",
			useExplicitPath: true,
			configContent: `server:
  port: 9090
database:
  host: db.example.com
`,
			want: func(string) *Config {
				cfg := defaultConfig()
				cfg.Server.Port = 9090
				cfg.Database.Host = "db.example.com"
				return cfg
			},
		},
		{
			name: "environment variables",
			env: map[string]string{
				"RENSOU_DB_PASSWORD": "secret",
				"RENSOU_FONT_PATH":   "font.ttf",
			},
			want: func(dir string) *Config {
				cfg := defaultConfig()
				cfg.Database.Password = "secret"
				cfg.Render.FontPath = "font.ttf"
				return cfg
			},
		},
		{
			name: "invalid YAML format",
			configContent: `search:
  max_concepts: 8
  invalid yaml format here [[[
`,
			wantErrorContains: []string{
				"configuration file found but could not be read",
				"Please check the file format and permissions",
			},
		},
		{
			name: "out of range values",
			configContent: `search:
  max_concepts: 20
  sources: [wikipedia, google]
outputs:
  export_format: csv
`,
			wantErrorContains: []string{
				"invalid configuration",
				"max_concepts must be 15 or less",
				"search.sources[1] must be one of wikipedia, weblio, related",
				"export_format must be one of",
			},
		},
		{
			name: "no search sources",
			configContent: `search:
  sources: []
`,
			wantErrorContains: []string{"sources must contain at least 1 item"},
		},
		{
			name: "missing template file",
			configContent: `templates:
  dictionary_template: does-not-exist.md.go.tmpl
`,
			wantErrorContains: []string{"templates.dictionary_template must be an existing and readable file"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			t.Setenv("HOME", tempDir)
			t.Setenv("RENSOU_DB_PASSWORD", "")
			t.Setenv("RENSOU_FONT_PATH", "")
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			if tt.env["RENSOU_FONT_PATH"] != "" {
				require.NoError(t, os.WriteFile(filepath.Join(tempDir, tt.env["RENSOU_FONT_PATH"]), []byte("font"), 0644))
			}

			var configPath string
			if tt.configContent != "" {
				configPath = filepath.Join(tempDir, "config.yml")
				require.NoError(t, os.WriteFile(configPath, []byte(tt.configContent), 0644))
			}
			if !tt.useExplicitPath {
				configPath = ""
			}
			t.Chdir(tempDir)

			loader, err := NewConfigLoader(configPath)
			require.NoError(t, err)
			got, err := loader.Load()

			if len(tt.wantErrorContains) > 0 {
				assert.Error(t, err)
				assert.Nil(t, got)
				for _, wantMsg := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), wantMsg)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want(tempDir), got)
		})
	}
}
