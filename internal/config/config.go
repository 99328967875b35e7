// Package config loads museum settings from a YAML file, an optional .env
// file and MUSEUM_* environment variables, then validates the result against
// an embedded CUE schema.
//
// Precedence, lowest first: built-in defaults, the YAML file, the process
// environment (including values loaded from .env).
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Config is the complete application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database" json:"database"`
	Backup   BackupConfig   `yaml:"backup" json:"backup"`
	Server   ServerConfig   `yaml:"server" json:"server"`
	Ingest   IngestConfig   `yaml:"ingest" json:"ingest"`
	Log      LogConfig      `yaml:"log" json:"log"`
}

// DatabaseConfig selects and locates the record store.
type DatabaseConfig struct {
	Driver string `yaml:"driver" json:"driver"`
	Path   string `yaml:"path" json:"path"`
	DSN    string `yaml:"dsn" json:"dsn"`
}

// BackupConfig selects the blob backend used for backup and restore.
type BackupConfig struct {
	Backend    string `yaml:"backend" json:"backend"`
	Bucket     string `yaml:"bucket" json:"bucket"`
	Dir        string `yaml:"dir" json:"dir"`
	AWSProfile string `yaml:"aws_profile" json:"aws_profile"`
	AWSRegion  string `yaml:"aws_region" json:"aws_region"`
	Endpoint   string `yaml:"s3_endpoint" json:"s3_endpoint"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// IngestConfig tunes CSV ingestion.
type IngestConfig struct {
	VerifyHeader bool `yaml:"verify_header" json:"verify_header"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database: DatabaseConfig{Driver: "sqlite", Path: "museum.db"},
		Backup:   BackupConfig{Backend: "file", Bucket: "museum-backups", Dir: "./backups"},
		Server:   ServerConfig{Addr: ":8080"},
		Ingest:   IngestConfig{VerifyHeader: true},
		Log:      LogConfig{Level: "info"},
	}
}

// Load builds the configuration. path names a YAML file and may be empty.
// dotenv names a .env file; a missing .env file is not an error.
func Load(path, dotenv string) (Config, error) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	cfg := Default()
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides cfg with MUSEUM_* variables that are set.
func applyEnv(cfg *Config) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"MUSEUM_DB_DRIVER", &cfg.Database.Driver},
		{"MUSEUM_DB_PATH", &cfg.Database.Path},
		{"MUSEUM_DB_DSN", &cfg.Database.DSN},
		{"MUSEUM_BACKUP_BACKEND", &cfg.Backup.Backend},
		{"MUSEUM_BACKUP_BUCKET", &cfg.Backup.Bucket},
		{"MUSEUM_BACKUP_DIR", &cfg.Backup.Dir},
		{"MUSEUM_AWS_PROFILE", &cfg.Backup.AWSProfile},
		{"MUSEUM_AWS_REGION", &cfg.Backup.AWSRegion},
		{"MUSEUM_S3_ENDPOINT", &cfg.Backup.Endpoint},
		{"MUSEUM_ADDR", &cfg.Server.Addr},
		{"MUSEUM_LOG_LEVEL", &cfg.Log.Level},
	}
	for _, s := range strs {
		if v, ok := os.LookupEnv(s.key); ok {
			*s.dst = v
		}
	}

	if v, ok := os.LookupEnv("MUSEUM_INGEST_VERIFY_HEADER"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MUSEUM_INGEST_VERIFY_HEADER: %w", err)
		}
		cfg.Ingest.VerifyHeader = b
	}
	return nil
}

// Validate checks cfg against the embedded CUE schema.
func Validate(cfg Config) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	v := schema.Unify(ctx.Encode(cfg))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %s", strings.TrimSpace(cueerrors.Details(err, nil)))
	}
	return nil
}

// SlogLevel returns the slog level named by Level.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
