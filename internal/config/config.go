package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/quotes-cli/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Source   SourceConfig   `yaml:"source" mapstructure:"source"`
	Enrich   EnrichConfig   `yaml:"enrich" mapstructure:"enrich"`
	Snapshot SnapshotConfig `yaml:"snapshot" mapstructure:"snapshot"`
	Mongo    MongoConfig    `yaml:"mongo" mapstructure:"mongo"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// SourceConfig configures the quotes website.
type SourceConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// EnrichConfig configures author enrichment.
type EnrichConfig struct {
	Concurrency   int    `yaml:"concurrency" mapstructure:"concurrency"`
	AuthorMode    string `yaml:"author_mode" mapstructure:"author_mode"`
	MissingAuthor string `yaml:"missing_author" mapstructure:"missing_author"`
}

// SnapshotConfig configures the snapshot files.
type SnapshotConfig struct {
	Dir         string `yaml:"dir" mapstructure:"dir"`
	QuotesFile  string `yaml:"quotes_file" mapstructure:"quotes_file"`
	AuthorsFile string `yaml:"authors_file" mapstructure:"authors_file"`
	Format      string `yaml:"format" mapstructure:"format"`
}

// MongoConfig configures the document store.
type MongoConfig struct {
	URI                string `yaml:"uri" mapstructure:"uri"`
	Database           string `yaml:"database" mapstructure:"database"`
	QuotesCollection   string `yaml:"quotes_collection" mapstructure:"quotes_collection"`
	AuthorsCollection  string `yaml:"authors_collection" mapstructure:"authors_collection"`
	LoadMode           string `yaml:"load_mode" mapstructure:"load_mode"`
	ConnectTimeoutSecs int    `yaml:"connect_timeout_secs" mapstructure:"connect_timeout_secs"`
	CatsDatabase       string `yaml:"cats_database" mapstructure:"cats_database"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("QUOTES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("source.base_url", "http://quotes.toscrape.com/")
	v.SetDefault("source.user_agent", "quotes-cli/1.0")
	v.SetDefault("source.timeout_secs", 30)
	v.SetDefault("source.rate_limit", 5)
	v.SetDefault("enrich.concurrency", 4)
	v.SetDefault("enrich.author_mode", string(model.AuthorModeUnique))
	v.SetDefault("enrich.missing_author", string(model.MissingAuthorUnknown))
	v.SetDefault("snapshot.dir", ".")
	v.SetDefault("snapshot.quotes_file", "quotes.json")
	v.SetDefault("snapshot.authors_file", "authors.json")
	v.SetDefault("snapshot.format", "json")
	v.SetDefault("mongo.uri", "mongodb://localhost:27017/")
	v.SetDefault("mongo.database", "task2")
	v.SetDefault("mongo.quotes_collection", "quotes")
	v.SetDefault("mongo.authors_collection", "authors")
	v.SetDefault("mongo.load_mode", "swap")
	v.SetDefault("mongo.connect_timeout_secs", 10)
	v.SetDefault("mongo.cats_database", "task1")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks enum values and numeric bounds.
func (c *Config) Validate() error {
	var errs []string

	if c.Source.BaseURL == "" {
		errs = append(errs, "source.base_url is required")
	}
	if c.Source.RateLimit < 0 {
		errs = append(errs, "source.rate_limit must not be negative")
	}
	if c.Enrich.Concurrency <= 0 {
		errs = append(errs, "enrich.concurrency must be positive")
	}
	switch model.AuthorMode(c.Enrich.AuthorMode) {
	case model.AuthorModePerQuote, model.AuthorModeUnique:
	default:
		errs = append(errs, "enrich.author_mode must be per_quote or unique, got "+c.Enrich.AuthorMode)
	}
	switch model.MissingAuthorPolicy(c.Enrich.MissingAuthor) {
	case model.MissingAuthorUnknown, model.MissingAuthorSkip:
	default:
		errs = append(errs, "enrich.missing_author must be unknown or skip, got "+c.Enrich.MissingAuthor)
	}
	switch c.Snapshot.Format {
	case "json", "yaml":
	default:
		errs = append(errs, "snapshot.format must be json or yaml, got "+c.Snapshot.Format)
	}
	switch c.Mongo.LoadMode {
	case "replace", "swap":
	default:
		errs = append(errs, "mongo.load_mode must be replace or swap, got "+c.Mongo.LoadMode)
	}
	if c.Mongo.QuotesCollection == c.Mongo.AuthorsCollection {
		errs = append(errs, "mongo.quotes_collection and mongo.authors_collection must differ")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
