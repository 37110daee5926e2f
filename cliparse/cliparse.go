// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultPort        = 3318
	DefaultDatabaseURL = "file:hurdle-watch.db"
	DefaultThreshold   = 30000
	DefaultWorkers     = 4
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	IngestKeySalt string
	Regions       []int
	Threshold     int64
	Workers       int
	Verbose       bool
	EnvFile       string
	Args          []string
}

// ParseFlags validates flags and fills unset values from the environment.
// Variables in the env file are loaded first and never override the real
// environment.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var regions string

	fs := flag.NewFlagSet("hurdle-watch", flag.ContinueOnError)

	// Network and storage (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.IngestKeySalt, "ingest-salt", "", "Ingest key salt (prefer env)")

	// Trend settings
	fs.StringVar(&regions, "regions", "", "Comma-separated race indices to track (default: all)")
	fs.Int64Var(&cfg.Threshold, "threshold", 0, "Minimum votes aggregated by the hurdle moving average")
	fs.IntVar(&cfg.Workers, "workers", 0, "Regions processed concurrently")

	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose (debug) logging")
	fs.StringVar(&cfg.EnvFile, "env", ".env", "Env file to load")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Args = fs.Args()

	if err := loadEnvFile(cfg.EnvFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		port, err := intEnv("PORT", DefaultPort)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("invalid database type %q (use sqlite or postgres)", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		// Only SQLite has a usable local default
		if cfg.DatabaseType != "sqlite" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = DefaultDatabaseURL
	}

	if cfg.IngestKeySalt == "" {
		cfg.IngestKeySalt = os.Getenv("INGEST_KEY_SALT")
	}

	if regions == "" {
		regions = os.Getenv("TRACKED_REGIONS")
	}
	indices, err := parseRegions(regions)
	if err != nil {
		return Config{}, err
	}
	cfg.Regions = indices

	if cfg.Threshold == 0 {
		threshold, err := intEnv("HURDLE_THRESHOLD", DefaultThreshold)
		if err != nil {
			return Config{}, err
		}
		cfg.Threshold = int64(threshold)
	}
	if cfg.Threshold < 0 {
		return Config{}, errors.New("threshold must be positive")
	}

	if cfg.Workers == 0 {
		workers, err := intEnv("WORKERS", DefaultWorkers)
		if err != nil {
			return Config{}, err
		}
		cfg.Workers = workers
	}

	if !cfg.Verbose {
		cfg.Verbose = strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug")
	}

	return cfg, nil
}

// ValidateServe checks the settings only the HTTP server needs
func (c Config) ValidateServe() error {
	if c.IngestKeySalt == "" {
		return errors.New("INGEST_KEY_SALT required")
	}
	return nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func intEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return v, nil
}

// parseRegions turns "0, 3,5" into [0 3 5]
func parseRegions(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var indices []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("invalid region index %q", part)
		}
		indices = append(indices, idx)
	}
	return indices, nil
}
