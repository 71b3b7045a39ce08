package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/venuelink/marketplace-backend/pkg/enums"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App     AppConfig
	Listing ListingConfig
	Store   StoreConfig
	DB      DBConfig
	JWT     JWTConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, err := cfg.Listing.Vocabulary(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VENUELINK_APP_ENV" default:"dev"`
	Port         string `envconfig:"VENUELINK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"VENUELINK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VENUELINK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// ListingConfig parameterizes the listing schema for a deployment.
type ListingConfig struct {
	// StatusVocabulary selects which status set the schema admits; the
	// marketplace and seller surfaces disagree, so this stays configurable.
	StatusVocabulary string `envconfig:"VENUELINK_LISTING_STATUS_VOCABULARY" default:"marketplace"`
	MaxPhotoSlots    int    `envconfig:"VENUELINK_LISTING_MAX_PHOTOS" default:"5"`
	MaxVideoSlots    int    `envconfig:"VENUELINK_LISTING_MAX_VIDEOS" default:"1"`
}

// Vocabulary resolves the configured status vocabulary.
func (l ListingConfig) Vocabulary() (enums.StatusVocabulary, error) {
	return enums.StatusVocabularyByName(l.StatusVocabulary)
}

// StoreConfig points the engine at the remote listing store.
type StoreConfig struct {
	BaseURL        string        `envconfig:"VENUELINK_STORE_BASE_URL" default:"http://localhost:8080"`
	RequestTimeout time.Duration `envconfig:"VENUELINK_STORE_REQUEST_TIMEOUT" default:"30s"`
	RetryCount     int           `envconfig:"VENUELINK_STORE_RETRY_COUNT" default:"0"`
}

type DBConfig struct {
	DSN    string `envconfig:"VENUELINK_DB_DSN"`
	Driver string `envconfig:"VENUELINK_DB_DRIVER" default:"sqlite"`

	SQLitePath string `envconfig:"VENUELINK_SQLITE_PATH" default:"mockstore.db"`

	MaxOpenConns    int           `envconfig:"VENUELINK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VENUELINK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VENUELINK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VENUELINK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// UsesSQLite reports whether the mock store should run on the embedded driver.
func (db DBConfig) UsesSQLite() bool {
	return strings.EqualFold(db.Driver, "sqlite") || db.DSN == ""
}

type JWTConfig struct {
	Secret            string `envconfig:"VENUELINK_JWT_SECRET" default:"dev-secret"`
	Issuer            string `envconfig:"VENUELINK_JWT_ISSUER" default:"venuelink-dev"`
	ExpirationMinutes int    `envconfig:"VENUELINK_JWT_EXPIRATION_MINUTES" default:"60"`
}

// Expiration returns the configured token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}
