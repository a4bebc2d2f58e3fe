// Package config loads taskboard settings from defaults, an optional TOML
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"taskboard/app/models"
)

const (
	BackendFile  = "file"
	BackendNeo4j = "neo4j"

	// DefaultConfigFile is read from the working directory when present.
	DefaultConfigFile = "taskboard.toml"
)

// Config holds the server settings.
type Config struct {
	Addr            string   `toml:"addr"`
	DataFile        string   `toml:"data_file"`
	MaxTasks        int      `toml:"max_tasks"`
	Backend         string   `toml:"backend"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	Log             Log      `toml:"log"`
	Neo4j           Neo4j    `toml:"neo4j"`
}

// Log configures the logger.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Neo4j configures the optional graph backend.
type Neo4j struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
}

// Duration decodes TOML strings like "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// New returns the defaults.
func New() Config {
	return Config{
		Addr:            ":8080",
		DataFile:        "data_tasks.csv",
		MaxTasks:        models.MaxTasks,
		Backend:         BackendFile,
		ShutdownTimeout: Duration{10 * time.Second},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		Neo4j: Neo4j{
			URI:      "neo4j://localhost:7687",
			User:     "neo4j",
			Password: "password",
			Database: "neo4j",
		},
	}
}

// Load applies, in order: defaults, the TOML file at path (or
// DefaultConfigFile when path is empty and the file exists), and environment
// overrides.
func Load(path string) (Config, error) {
	cfg := New()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := loadFromEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TASKBOARD_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("TASKBOARD_DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("TASKBOARD_MAX_TASKS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TASKBOARD_MAX_TASKS: %w", err)
		}
		cfg.MaxTasks = n
	}
	if v := os.Getenv("TASKBOARD_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("TASKBOARD_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TASKBOARD_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TASKBOARD_NEO4J_URI"); v != "" {
		cfg.Neo4j.URI = v
	}
	if v := os.Getenv("TASKBOARD_NEO4J_USER"); v != "" {
		cfg.Neo4j.User = v
	}
	if v := os.Getenv("TASKBOARD_NEO4J_PASSWORD"); v != "" {
		cfg.Neo4j.Password = v
	}
	if v := os.Getenv("TASKBOARD_NEO4J_DATABASE"); v != "" {
		cfg.Neo4j.Database = v
	}
	return nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendFile:
		if c.DataFile == "" {
			return errors.New("data_file is empty")
		}
	case BackendNeo4j:
		if c.Neo4j.URI == "" {
			return errors.New("neo4j.uri is empty")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.MaxTasks <= 0 {
		return fmt.Errorf("max_tasks must be positive, got %d", c.MaxTasks)
	}
	if c.Addr == "" {
		return errors.New("addr is empty")
	}
	return nil
}
