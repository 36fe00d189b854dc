// Package config loads the site server configuration and builds the
// repository, blob store and URL strategy it selects.
package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/microcosm-cc/bluemonday"

	"github.com/tendant/simple-site/pkg/site"
	"github.com/tendant/simple-site/pkg/site/events"
	"github.com/tendant/simple-site/pkg/site/portal"
	"github.com/tendant/simple-site/pkg/site/repo/memory"
	repopg "github.com/tendant/simple-site/pkg/site/repo/postgres"
	"github.com/tendant/simple-site/pkg/site/scale"
	fsstorage "github.com/tendant/simple-site/pkg/site/storage/fs"
	memorystorage "github.com/tendant/simple-site/pkg/site/storage/memory"
	s3storage "github.com/tendant/simple-site/pkg/site/storage/s3"
	"github.com/tendant/simple-site/pkg/site/urlstrategy"
)

// ServerConfig represents the configuration of the site server
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"` // development, production, testing
	BaseURL     string `env:"BASE_URL" env-default:""`

	// Database configuration
	DatabaseType string `env:"DATABASE_TYPE" env-default:"memory"` // "memory", "postgres"
	DatabaseURL  string `env:"DATABASE_URL" env-default:""`
	DBSchema     string `env:"SITE_DB_SCHEMA" env-default:"site"`

	// Storage configuration
	StorageBackend string `env:"STORAGE_BACKEND" env-default:"memory"` // "memory", "fs", "s3"
	FS             FSConfig
	S3             S3Config

	// URL generation
	URLStrategy string `env:"URL_STRATEGY" env-default:""` // unset picks by environment
	CDNBaseURL  string `env:"CDN_BASE_URL" env-default:""`

	// Rich text
	HTMLImageScale string `env:"HTML_IMAGE_SCALE" env-default:"width(768)"`
	HTMLPolicy     string `env:"HTML_POLICY" env-default:"ugc"` // "ugc", "strict"

	// Events
	EventsTarget string `env:"EVENTS_TARGET" env-default:""` // CloudEvents HTTP sink, empty disables
	EventsSource string `env:"EVENTS_SOURCE" env-default:"simple-site"`

	// Site behaviour
	InitDemoContent    bool `env:"INIT_DEMO_CONTENT" env-default:"true"`
	LayoutOneColRender bool `env:"LAYOUT_ONE_COL_RENDER" env-default:"false"`

	// HTTP
	APIKeySHA256       string        `env:"API_KEY_SHA256" env-default:"1"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" env-default:"600"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" env-default:"30s"`
}

// FSConfig holds the filesystem storage settings
type FSConfig struct {
	BaseDir   string `env:"STORAGE_FS_DIR" env-default:"./data/storage"`
	URLPrefix string `env:"STORAGE_FS_URL_PREFIX" env-default:""`
}

// S3Config holds the S3 storage settings
type S3Config struct {
	Endpoint        string `env:"AWS_S3_ENDPOINT" env-default:""`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	Bucket          string `env:"AWS_S3_BUCKET" env-default:"site-bucket"`
	Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`
	CreateBucket    bool   `env:"AWS_S3_CREATE_BUCKET" env-default:"false"`
	PresignSeconds  int    `env:"AWS_S3_PRESIGN_SECONDS" env-default:"3600"`
}

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:               "8080",
		Environment:        "development",
		DatabaseType:       "memory",
		DBSchema:           "site",
		StorageBackend:     "memory",
		FS:                 FSConfig{BaseDir: "./data/storage"},
		S3:                 S3Config{Bucket: "site-bucket", Region: "us-east-1", PresignSeconds: 3600},
		HTMLImageScale:     portal.DefaultHTMLImageScale,
		HTMLPolicy:         "ugc",
		EventsSource:       "simple-site",
		InitDemoContent:    true,
		APIKeySHA256:       "1",
		RateLimitPerMinute: 600,
		RequestTimeout:     30 * time.Second,
	}
}

// WithEnv reads the configuration from environment variables. Unset
// variables fall back to their defaults.
func WithEnv() Option {
	return func(c *ServerConfig) error {
		if err := cleanenv.ReadEnv(c); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}
		return nil
	}
}

// WithPort sets the listen port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		c.Port = port
		return nil
	}
}

// WithPostgres selects the postgres repository
func WithPostgres(databaseURL, schema string) Option {
	return func(c *ServerConfig) error {
		c.DatabaseType = "postgres"
		c.DatabaseURL = databaseURL
		c.DBSchema = schema
		return nil
	}
}

// WithFS selects the filesystem blob store
func WithFS(fs FSConfig) Option {
	return func(c *ServerConfig) error {
		c.StorageBackend = "fs"
		c.FS = fs
		return nil
	}
}

// WithS3 selects the S3 blob store
func WithS3(s3 S3Config) Option {
	return func(c *ServerConfig) error {
		c.StorageBackend = "s3"
		c.S3 = s3
		return nil
	}
}

// WithURLStrategy selects how image, page and asset URLs are generated
func WithURLStrategy(strategy urlstrategy.URLStrategyType, cdnBaseURL string) Option {
	return func(c *ServerConfig) error {
		c.URLStrategy = string(strategy)
		c.CDNBaseURL = cdnBaseURL
		return nil
	}
}

// WithDemoContent toggles the demo content initializer
func WithDemoContent(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.InitDemoContent = enabled
		return nil
	}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	switch c.StorageBackend {
	case "memory", "s3":
	case "fs":
		if c.FS.BaseDir == "" {
			return errors.New("storage_fs_dir is required when using fs storage")
		}
	default:
		return errors.New("storage_backend must be 'memory', 'fs' or 's3'")
	}

	if c.StorageBackend == "s3" && c.S3.Bucket == "" {
		return errors.New("s3 bucket is required when using s3 storage")
	}

	switch urlstrategy.URLStrategyType(c.URLStrategy) {
	case urlstrategy.StrategyTypeContentBased, "":
	case urlstrategy.StrategyTypeCDN:
		if c.CDNBaseURL == "" {
			return errors.New("cdn_base_url is required for the cdn url strategy")
		}
	case urlstrategy.StrategyTypeStorageDelegated:
		if c.StorageBackend == "memory" {
			return errors.New("storage-delegated url strategy requires fs or s3 storage")
		}
	default:
		return fmt.Errorf("unknown url strategy: %s", c.URLStrategy)
	}

	if _, err := scale.Parse(c.HTMLImageScale); err != nil {
		return fmt.Errorf("html_image_scale: %w", err)
	}
	if c.HTMLPolicy != "ugc" && c.HTMLPolicy != "strict" {
		return errors.New("html_policy must be 'ugc' or 'strict'")
	}

	if c.RateLimitPerMinute < 0 {
		return errors.New("rate_limit_per_minute must not be negative")
	}

	return nil
}

// BuildRepository creates the content repository. For postgres the schema
// and table are created when missing. The returned close function releases
// the connection pool.
func (c *ServerConfig) BuildRepository(ctx context.Context) (site.Repository, func(), error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), func() {}, nil
	case "postgres":
		pool, err := c.newPool(ctx)
		if err != nil {
			return nil, nil, err
		}
		if c.DBSchema != "" {
			if _, err := pool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{c.DBSchema}.Sanitize()); err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("failed to create schema %s: %w", c.DBSchema, err)
			}
		}
		repo := repopg.NewWithPool(pool)
		if err := repo.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

func (c *ServerConfig) newPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(c.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	schema := c.DBSchema
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		if schema == "" {
			return nil
		}
		_, err := conn.Exec(ctx, "SET search_path TO "+pgx.Identifier{schema}.Sanitize())
		return err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// BuildBlobStore creates the blob store holding media binaries
func (c *ServerConfig) BuildBlobStore() (site.BlobStore, error) {
	switch c.StorageBackend {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		backend, err := fsstorage.New(fsstorage.Config{BaseDir: c.FS.BaseDir, URLPrefix: c.FS.URLPrefix})
		if err != nil {
			return nil, fmt.Errorf("failed to create filesystem backend: %w", err)
		}
		return backend, nil
	case "s3":
		backend, err := s3storage.New(s3storage.Config{
			Region:                 c.S3.Region,
			Bucket:                 c.S3.Bucket,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UsePathStyle:           c.S3.UsePathStyle,
			PresignDuration:        c.S3.PresignSeconds,
			CreateBucketIfNotExist: c.S3.CreateBucket,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 backend: %w", err)
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", c.StorageBackend)
	}
}

// BuildURLStrategy creates the URL strategy, using blobs for presigned image
// URLs. Without an explicit strategy production sites with a CDN base URL
// use the CDN and everything else is content-based.
func (c *ServerConfig) BuildURLStrategy(blobs site.BlobStore) (urlstrategy.URLStrategy, error) {
	if c.URLStrategy == "" {
		return urlstrategy.NewRecommendedStrategy(c.Environment, c.CDNBaseURL, c.BaseURL), nil
	}
	return urlstrategy.NewURLStrategy(urlstrategy.Config{
		Type:        urlstrategy.URLStrategyType(c.URLStrategy),
		SiteBaseURL: c.BaseURL,
		CDNBaseURL:  c.CDNBaseURL,
		BlobStore:   blobs,
	})
}

// PortalOptions configures rich text processing: the rendition of embedded
// images and the sanitization policy.
func (c *ServerConfig) PortalOptions() []portal.Option {
	policy := bluemonday.UGCPolicy()
	if c.HTMLPolicy == "strict" {
		policy = bluemonday.StrictPolicy()
	}
	return []portal.Option{
		portal.WithHTMLImageScale(c.HTMLImageScale),
		portal.WithPolicy(policy),
	}
}

// BuildPublisher creates the content event publisher. Without EVENTS_TARGET
// events are discarded.
func (c *ServerConfig) BuildPublisher() (events.Publisher, error) {
	if c.EventsTarget == "" {
		return events.Noop{}, nil
	}
	publisher, err := events.NewCloudEventsPublisher(c.EventsTarget, c.EventsSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create event publisher: %w", err)
	}
	return publisher, nil
}
