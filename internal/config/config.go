// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"

	"github.com/sykell/page-analyzer/internal/crawler"
	"github.com/sykell/page-analyzer/internal/db"
)

// EnvPrefix is prepended to every environment override, e.g. PAGES_DB_DRIVER.
const EnvPrefix = "PAGES"

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DBConfig selects and tunes the storage engine.
type DBConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	MaxOpen         int           `mapstructure:"max_open"`
	MaxIdle         int           `mapstructure:"max_idle"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// FetchConfig configures outbound page fetches.
type FetchConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	dbDefaults := db.DefaultConfig()
	fetchDefaults := crawler.DefaultConfig()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", gin.ReleaseMode)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("db.driver", dbDefaults.Driver)
	v.SetDefault("db.path", dbDefaults.Path)
	v.SetDefault("db.host", dbDefaults.Host)
	v.SetDefault("db.port", dbDefaults.Port)
	v.SetDefault("db.user", dbDefaults.User)
	v.SetDefault("db.password", "")
	v.SetDefault("db.database", dbDefaults.Database)
	v.SetDefault("db.max_open", dbDefaults.MaxOpen)
	v.SetDefault("db.max_idle", dbDefaults.MaxIdle)
	v.SetDefault("db.conn_max_lifetime", dbDefaults.Timeout)
	v.SetDefault("fetch.timeout", fetchDefaults.Timeout)
	v.SetDefault("fetch.user_agent", fetchDefaults.UserAgent)
	v.SetDefault("fetch.max_body_bytes", fetchDefaults.MaxBodyBytes)
	v.SetDefault("logging.development", false)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	switch c.Server.Mode {
	case gin.ReleaseMode, gin.DebugMode, gin.TestMode:
	default:
		return fmt.Errorf("server.mode must be one of release, debug, test")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be > 0")
	}
	switch c.DB.Driver {
	case db.DriverSQLite:
		if c.DB.Path == "" {
			return fmt.Errorf("db.path must be set for the sqlite driver")
		}
	case db.DriverMySQL:
		if c.DB.Host == "" || c.DB.Database == "" {
			return fmt.Errorf("db.host and db.database must be set for the mysql driver")
		}
	default:
		return fmt.Errorf("db.driver must be %q or %q", db.DriverSQLite, db.DriverMySQL)
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be > 0")
	}
	if c.Fetch.MaxBodyBytes < 0 {
		return fmt.Errorf("fetch.max_body_bytes must be >= 0")
	}
	return nil
}

// Address returns the listen address for the HTTP server.
func (c Config) Address() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// Database converts the loaded settings into a db.Config.
func (c Config) Database() db.Config {
	return db.Config{
		Driver:   c.DB.Driver,
		Path:     c.DB.Path,
		Host:     c.DB.Host,
		Port:     c.DB.Port,
		User:     c.DB.User,
		Password: c.DB.Password,
		Database: c.DB.Database,
		MaxOpen:  c.DB.MaxOpen,
		MaxIdle:  c.DB.MaxIdle,
		Timeout:  c.DB.ConnMaxLifetime,
	}
}

// Crawler converts the fetch settings into a crawler.Config.
func (c Config) Crawler() *crawler.Config {
	return &crawler.Config{
		Timeout:      c.Fetch.Timeout,
		UserAgent:    c.Fetch.UserAgent,
		MaxBodyBytes: c.Fetch.MaxBodyBytes,
	}
}
