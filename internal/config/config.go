package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                   string
	DBPath                 string
	LogLevel               string
	TimeZone               string
	DiagnosticCooldownDays int
	DiagnosticSlope        int
	ConsistencyThreshold   float64
	ConsistencyPenalty     int
	PerfectBattleBonus     int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                   envOr("ADDR", ":8080"),
		DBPath:                 envOr("DB_PATH", "file:quizflash.db"),
		LogLevel:               envOr("LOG_LEVEL", "INFO"),
		TimeZone:               envOr("TIME_ZONE", "America/Sao_Paulo"),
		DiagnosticCooldownDays: envIntOr("DIAGNOSTIC_COOLDOWN_DAYS", 30),
		DiagnosticSlope:        envIntOr("DIAGNOSTIC_SLOPE", 5),
		ConsistencyThreshold:   envFloatOr("CONSISTENCY_THRESHOLD", 0.30),
		ConsistencyPenalty:     envIntOr("CONSISTENCY_PENALTY", 30),
		PerfectBattleBonus:     envIntOr("PERFECT_BATTLE_BONUS", 20),
	}
}

// Validate checks the loaded values before the server wires anything.
func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Addr) == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q must be one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if _, err := c.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("TIME_ZONE %q is not a valid IANA zone", c.TimeZone))
	}
	if c.DiagnosticCooldownDays < 0 {
		problems = append(problems, "DIAGNOSTIC_COOLDOWN_DAYS must be >= 0")
	}
	if c.DiagnosticSlope <= 0 {
		problems = append(problems, "DIAGNOSTIC_SLOPE must be > 0")
	}
	if c.ConsistencyThreshold < 0 || c.ConsistencyThreshold > 1 {
		problems = append(problems, "CONSISTENCY_THRESHOLD must be between 0 and 1")
	}
	if c.ConsistencyPenalty < 0 {
		problems = append(problems, "CONSISTENCY_PENALTY must be >= 0")
	}
	if c.PerfectBattleBonus < 0 {
		problems = append(problems, "PERFECT_BATTLE_BONUS must be >= 0")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Location resolves TimeZone. It is the single time zone used for every
// calendar-day computation.
func (c Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.TimeZone)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %.2f", key, v, def)
	}
	return def
}
