package config

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"everskills/coaching-app/internal/domain"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Plan     PlanConfig     `mapstructure:"plan"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	GinMode         string        `mapstructure:"gin_mode"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig selects where campaigns, requests and users live.
type StoreConfig struct {
	Driver  string `mapstructure:"driver"` // "json" or "mongo"
	DataDir string `mapstructure:"data_dir"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Enabled reports whether support documents can be stored.
func (c S3Config) Enabled() bool {
	return c.BucketName != ""
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// PlanConfig tunes the weekly plan engine.
type PlanConfig struct {
	Vocabulary   string   `mapstructure:"vocabulary"`
	DefaultWeeks int      `mapstructure:"default_weeks"`
	DoneStatuses []string `mapstructure:"done_statuses"`
}

// ActiveVocabulary parses Vocabulary.
func (p PlanConfig) ActiveVocabulary() domain.Vocabulary {
	return domain.ParseVocabulary(p.Vocabulary)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or text
}

const (
	StoreDriverJSON  = "json"
	StoreDriverMongo = "mongo"
)

// LoadConfig reads configuration from path/config.yaml and the environment.
// A missing config file is not an error.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("store.driver", StoreDriverJSON)
	v.SetDefault("store.data_dir", "./data")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "everskills")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "24h")
	v.SetDefault("plan.vocabulary", string(domain.DefaultVocabulary))
	v.SetDefault("plan.default_weeks", 3)
	v.SetDefault("plan.done_statuses", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	config.Store.Driver = strings.ToLower(strings.TrimSpace(config.Store.Driver))
	return config, nil
}

// NewLogger builds the application logger described by c.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level := new(slog.LevelVar)
	switch strings.ToLower(c.Level) {
	case "debug":
		level.Set(slog.LevelDebug)
	case "warn", "warning":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(c.Format) == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}
