package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config captures the configuration values of the workday scheduler
// service. Values are resolved in three layers: built-in defaults, an
// optional TOML file, then environment overrides.
type Config struct {
	HTTPPort        int
	SQLiteDSN       string
	CompanyID       string
	SeedFile        string
	HorizonDays     int
	ShutdownTimeout time.Duration
}

// fileConfig mirrors the optional TOML configuration file.
type fileConfig struct {
	HTTPPort        int    `toml:"http_port"`
	SQLiteDSN       string `toml:"sqlite_dsn"`
	CompanyID       string `toml:"company_id"`
	SeedFile        string `toml:"seed_file"`
	HorizonDays     int    `toml:"horizon_days"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
}

// Load resolves configuration from the optional file named by
// WORKDAY_CONFIG_FILE and the process environment. Environment variables
// win over file values; file values win over defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:        8080,
		SQLiteDSN:       "file:workday.db?_foreign_keys=on",
		CompanyID:       "default",
		HorizonDays:     7,
		ShutdownTimeout: 10 * time.Second,
	}

	invalid := make([]string, 0, 2)

	if path := strings.TrimSpace(os.Getenv("WORKDAY_CONFIG_FILE")); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if portValue := strings.TrimSpace(os.Getenv("WORKDAY_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "WORKDAY_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("WORKDAY_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if company := strings.TrimSpace(os.Getenv("WORKDAY_COMPANY_ID")); company != "" {
		cfg.CompanyID = company
	}

	if seed := strings.TrimSpace(os.Getenv("WORKDAY_SEED_FILE")); seed != "" {
		cfg.SeedFile = seed
	}

	if daysValue := strings.TrimSpace(os.Getenv("WORKDAY_HORIZON_DAYS")); daysValue != "" {
		days, err := strconv.Atoi(daysValue)
		if err != nil || days <= 0 {
			invalid = append(invalid, "WORKDAY_HORIZON_DAYS")
		} else {
			cfg.HorizonDays = days
		}
	}

	if timeoutValue := strings.TrimSpace(os.Getenv("WORKDAY_SHUTDOWN_TIMEOUT")); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "WORKDAY_SHUTDOWN_TIMEOUT")
		} else {
			cfg.ShutdownTimeout = timeout
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var file fileConfig
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if file.HTTPPort > 0 {
		cfg.HTTPPort = file.HTTPPort
	}
	if dsn := strings.TrimSpace(file.SQLiteDSN); dsn != "" {
		cfg.SQLiteDSN = dsn
	}
	if company := strings.TrimSpace(file.CompanyID); company != "" {
		cfg.CompanyID = company
	}
	if seed := strings.TrimSpace(file.SeedFile); seed != "" {
		cfg.SeedFile = seed
	}
	if file.HorizonDays > 0 {
		cfg.HorizonDays = file.HorizonDays
	}
	if raw := strings.TrimSpace(file.ShutdownTimeout); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			return fmt.Errorf("config file %s: invalid shutdown_timeout %q", path, raw)
		}
		cfg.ShutdownTimeout = timeout
	}

	return nil
}
