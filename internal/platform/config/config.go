package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is process configuration read from the environment. Command-line
// flags default to these values.
type Config struct {
	ServiceName string
	HTTPAddr    string
	// PostgresDSN selects the postgres store; empty means in-memory.
	PostgresDSN string

	VoteWindow      time.Duration
	SchedulerTick   time.Duration
	LogLevel        slog.Level
	EnableScheduler bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "crowdchess"
	}

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	window, err := envDuration("VOTE_WINDOW", 60*time.Second)
	if err != nil {
		return Config{}, err
	}
	tick, err := envDuration("SCHEDULER_TICK", time.Second)
	if err != nil {
		return Config{}, err
	}

	var level slog.Level
	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}

	return Config{
		ServiceName:     service,
		HTTPAddr:        addr,
		PostgresDSN:     strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		VoteWindow:      window,
		SchedulerTick:   tick,
		LogLevel:        level,
		EnableScheduler: envBool("ENABLE_SCHEDULER", true),
	}, nil
}

// envDuration accepts Go durations ("90s") or a bare number of seconds.
func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		secs, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return 0, fmt.Errorf("%s: invalid duration %q", name, raw)
		}
		d = time.Duration(secs) * time.Second
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: duration must be positive, got %q", name, raw)
	}
	return d, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
