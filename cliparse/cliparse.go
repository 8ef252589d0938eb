package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

// Leaderboard aggregation modes. Chosen once at startup rather than by
// probing the store on every request.
const (
	LeaderboardAggregate = "aggregate"
	LeaderboardFallback  = "fallback"
)

type Config struct {
	Port            int
	DatabaseURL     string
	DatabaseType    string
	HeyGenAPIURL    string
	LeaderboardMode string
}

// DemoMode reports whether the server runs against in-memory fixture
// data instead of a persistent store.
func (c Config) DemoMode() bool {
	return c.DatabaseURL == ""
}

// ParseFlags validates flags and applies environment fallbacks
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("myavatar", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL (empty runs demo mode)")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.HeyGenAPIURL, "heygen-url", "", "HeyGen API base URL")
	fs.StringVar(&cfg.LeaderboardMode, "leaderboard-mode", "", "Leaderboard mode (aggregate or fallback)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8080 // default
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.HeyGenAPIURL == "" {
		cfg.HeyGenAPIURL = os.Getenv("HEYGEN_API_URL")
		if cfg.HeyGenAPIURL == "" {
			cfg.HeyGenAPIURL = "https://api.heygen.com/v2"
		}
	}

	if cfg.LeaderboardMode == "" {
		cfg.LeaderboardMode = os.Getenv("LEADERBOARD_MODE")
		if cfg.LeaderboardMode == "" {
			cfg.LeaderboardMode = LeaderboardAggregate
		}
	}
	if cfg.LeaderboardMode != LeaderboardAggregate && cfg.LeaderboardMode != LeaderboardFallback {
		return Config{}, errors.New("leaderboard mode must be aggregate or fallback")
	}

	return cfg, nil
}
