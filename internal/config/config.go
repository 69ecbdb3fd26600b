package config

import (
	"fmt"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/at-ishikawa/rensou/internal/source"
)

type Config struct {
	Search    SearchConfig    `mapstructure:"search"`
	Sources   SourcesConfig   `mapstructure:"sources"`
	Render    RenderConfig    `mapstructure:"render"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Outputs   OutputsConfig   `mapstructure:"outputs"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
}

type SearchConfig struct {
	MaxConcepts int           `mapstructure:"max_concepts" validate:"min=3,max=15"`
	Sources     []string      `mapstructure:"sources" validate:"min=1,dive,source"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type SourcesConfig struct {
	UserAgent      string         `mapstructure:"user_agent" validate:"required"`
	RequestTimeout time.Duration  `mapstructure:"request_timeout" validate:"gt=0"`
	Wikipedia      EndpointConfig `mapstructure:"wikipedia"`
	Weblio         EndpointConfig `mapstructure:"weblio"`
	Cache          CacheConfig    `mapstructure:"cache"`
}

type EndpointConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

type CacheConfig struct {
	// TTL of 0 disables the response cache.
	TTL             time.Duration `mapstructure:"ttl" validate:"gte=0"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" validate:"gt=0"`
}

type RenderConfig struct {
	FontPath string `mapstructure:"font_path" validate:"omitempty,file"`
}

type TemplatesConfig struct {
	ConceptMapTemplate string `mapstructure:"concept_map_template" validate:"omitempty,file"`
	DictionaryTemplate string `mapstructure:"dictionary_template" validate:"omitempty,file"`
	PageTemplate       string `mapstructure:"page_template" validate:"omitempty,file"`
}

type OutputsConfig struct {
	Directory    string `mapstructure:"directory"`
	ExportFormat string `mapstructure:"export_format" validate:"oneof=json yaml markdown pdf mysql"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"min=1,max=65535"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/rensou")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("search.max_concepts", 8)
	v.SetDefault("search.sources", []string{"wikipedia", "weblio", "related"})
	v.SetDefault("search.timeout", 10*time.Second)
	v.SetDefault("sources.user_agent", source.DefaultUserAgent)
	v.SetDefault("sources.request_timeout", source.DefaultRequestTimeout)
	v.SetDefault("sources.wikipedia.base_url", "https://ja.wikipedia.org")
	v.SetDefault("sources.weblio.base_url", "https://www.weblio.jp")
	v.SetDefault("sources.cache.ttl", 10*time.Minute)
	v.SetDefault("sources.cache.cleanup_interval", 20*time.Minute)
	// Templates are optional - if not specified, the embedded templates are used
	v.SetDefault("templates.concept_map_template", "")
	v.SetDefault("templates.dictionary_template", "")
	v.SetDefault("templates.page_template", "")
	v.SetDefault("outputs.directory", ".")
	v.SetDefault("outputs.export_format", "json")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "rensou")
	v.SetDefault("database.username", "user")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})

	// Secrets and machine-specific paths come from the environment
	if err := v.BindEnv("database.password", "RENSOU_DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind RENSOU_DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("render.font_path", "RENSOU_FONT_PATH"); err != nil {
		return nil, fmt.Errorf("failed to bind RENSOU_FONT_PATH environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
