// README: Config loader with env defaults for HTTP, data files, feeds, and
// external API credentials. Empty optional values disable the feature that
// needs them.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		// Empty disables Postgres persistence.
		DSN string
	}
	Redis struct {
		// Empty disables the Redis GEO index; search falls back to an
		// in-process scan.
		Addr string
	}
	Data struct {
		CarparksFile string
		HolidaysFile string
	}
	Tariff struct {
		MaxStayDays int
	}
	Availability struct {
		HDBPollInterval time.Duration
		URAPollInterval time.Duration
		URAAccessKey    string
	}
	OneMap struct {
		Email    string
		Password string
	}
	Maps struct {
		APIKey string
	}
	AI struct {
		GeminiKey string
	}
}

func Load() (Config, error) {
	var cfg Config
	cfg.HTTP.Addr = envOrDefault("CARPARK_HTTP_ADDR", ":8080")
	cfg.DB.DSN = envOrDefault("CARPARK_DB_DSN", "")
	cfg.Redis.Addr = envOrDefault("CARPARK_REDIS_ADDR", "")
	cfg.Data.CarparksFile = envOrDefault("CARPARK_DATA_FILE", "data/combined_carpark_data.json")
	cfg.Data.HolidaysFile = envOrDefault("CARPARK_HOLIDAYS_FILE", "")
	cfg.Tariff.MaxStayDays = envOrDefaultInt("CARPARK_MAX_STAY_DAYS", 30)
	cfg.Availability.HDBPollInterval = envOrDefaultDuration("CARPARK_HDB_POLL_INTERVAL", time.Minute)
	cfg.Availability.URAPollInterval = envOrDefaultDuration("CARPARK_URA_POLL_INTERVAL", 5*time.Minute)
	cfg.Availability.URAAccessKey = envOrDefault("URA_ACCESS_KEY", "")
	cfg.OneMap.Email = envOrDefault("ONEMAP_EMAIL", "")
	cfg.OneMap.Password = envOrDefault("ONEMAP_PASSWORD", "")
	cfg.Maps.APIKey = envOrDefault("MAPS_API_KEY", "")
	cfg.AI.GeminiKey = envOrDefault("GEMINI_API_KEY", "")
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
