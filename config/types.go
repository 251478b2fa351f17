package config

import (
	"errors"
	"fmt"
	"time"
)

type Config struct {
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Nats          NatsConfig          `mapstructure:"nats"`
	Server        ServerConfig        `mapstructure:"server"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Venue         VenueConfig         `mapstructure:"venue"`
	Sync          SyncConfig          `mapstructure:"sync"`
	Buzzer        BuzzerConfig        `mapstructure:"buzzer"`
}

type NatsConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

type DatabaseConfig struct {
	Host       string                  `mapstructure:"host"`
	Port       int                     `mapstructure:"port"`
	User       string                  `mapstructure:"user"`
	Password   string                  `mapstructure:"password"`
	DBName     string                  `mapstructure:"dbname"`
	SSLMode    string                  `mapstructure:"sslmode"`
	Pool       DatabasePoolConfig      `mapstructure:"pool"`
	Migrations DatabaseMigrationConfig `mapstructure:"migrations"`
}

type DatabasePoolConfig struct {
	MaxOpenConns       int `mapstructure:"max_open_conns"`
	MaxIdleConns       int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int `mapstructure:"conn_max_lifetime_minutes"`
}

type DatabaseMigrationConfig struct {
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr                string `mapstructure:"addr"`
	DB                  int    `mapstructure:"db"`
	Username            string `mapstructure:"username"`
	Password            string `mapstructure:"password"`
	PoolSize            int    `mapstructure:"pool_size"`
	MinIdleConns        int    `mapstructure:"min_idle_conns"`
	DialTimeoutSeconds  int    `mapstructure:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
}

type ServerConfig struct {
	Port           int        `mapstructure:"port"`
	TimeoutSeconds int        `mapstructure:"timeout_seconds"`
	Environment    string     `mapstructure:"environment"`
	CORS           CORSConfig `mapstructure:"cors"`
	RateLimit      RateLimit  `mapstructure:"rate_limit"`
}

type CORSConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type RateLimit struct {
	Max               int `mapstructure:"max"`
	ExpirationSeconds int `mapstructure:"expiration_seconds"`
}

type ObservabilityConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	Tracing        TracingConfig `mapstructure:"tracing"`
	Metrics        MetricsConfig `mapstructure:"metrics"`
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string       `mapstructure:"level"`  // debug, info, warn, error
	Format string       `mapstructure:"format"` // text, json
	Output OutputConfig `mapstructure:"output"`
}

type OutputConfig struct {
	Stdout bool          `mapstructure:"stdout"`
	File   FileLogConfig `mapstructure:"file"`
	Loki   LokiConfig    `mapstructure:"loki"`
}

type FileLogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`        // e.g. "logs/halisaha.log"
	MaxSizeMB  int    `mapstructure:"max_size_mb"` // rotate after N MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type LokiConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"` // e.g. "http://localhost:3100"
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// VenueConfig describes the physical venue: its fields, its local time zone
// and the flat price of one booked hour.
type VenueConfig struct {
	Pitches     []string `mapstructure:"pitches"`
	Location    string   `mapstructure:"location"`
	HourlyPrice int64    `mapstructure:"hourly_price"`
	PhoneRegion string   `mapstructure:"phone_region"`
}

type SyncConfig struct {
	RollingDays    int `mapstructure:"rolling_days"`
	LockTTLSeconds int `mapstructure:"lock_ttl_seconds"`
}

type BuzzerConfig struct {
	StartEnabled       bool `mapstructure:"start_enabled"`
	WarningEnabled     bool `mapstructure:"warning_enabled"`
	EndEnabled         bool `mapstructure:"end_enabled"`
	WarningLeadMinutes int  `mapstructure:"warning_lead_minutes"`
}

// Loc resolves the venue time zone. Validate guarantees it loads.
func (v VenueConfig) Loc() *time.Location {
	if v.Location == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(v.Location)
	if err != nil {
		return time.Local
	}
	return loc
}

func (s SyncConfig) LockTTL() time.Duration {
	if s.LockTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(s.LockTTLSeconds) * time.Second
}

func (c *Config) applyDefaults() {
	if len(c.Venue.Pitches) == 0 {
		c.Venue.Pitches = []string{"barnebau", "noucamp"}
	}
	if c.Venue.HourlyPrice == 0 {
		c.Venue.HourlyPrice = 1500
	}
	if c.Venue.PhoneRegion == "" {
		c.Venue.PhoneRegion = "TR"
	}
	if c.Sync.RollingDays == 0 {
		c.Sync.RollingDays = 28
	}
	if c.Buzzer.WarningLeadMinutes == 0 {
		c.Buzzer.WarningLeadMinutes = 5
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = "halisaha_backend"
	}
}

func (c *Config) Validate() error {
	var errs []error

	if len(c.Venue.Pitches) == 0 {
		errs = append(errs, errors.New("venue.pitches must not be empty"))
	}
	if c.Venue.Location != "" {
		if _, err := time.LoadLocation(c.Venue.Location); err != nil {
			errs = append(errs, fmt.Errorf("venue.location %q: %w", c.Venue.Location, err))
		}
	}
	if c.Venue.HourlyPrice < 0 {
		errs = append(errs, errors.New("venue.hourly_price must not be negative"))
	}
	if c.Sync.RollingDays <= 0 {
		errs = append(errs, errors.New("sync.rolling_days must be positive"))
	}

	return errors.Join(errs...)
}
