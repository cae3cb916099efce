package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr          string
	MySQLDSN          string
	RedisAddr         string
	DashboardWarmRate time.Duration
}

// Load reads configuration from the environment, picking up a local
// .env when present.
func Load() Config {
	godotenv.Load()

	return Config{
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		MySQLDSN:          getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/matstock?parseTime=true"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		DashboardWarmRate: getDuration("DASHBOARD_WARM_RATE", time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
