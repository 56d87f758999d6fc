// app/config.go
package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"Gin_postgres_redis_machine_tracker/db"

	"github.com/joho/godotenv"
)

// Config 从环境变量读取
type Config struct {
	DatabaseURL   string
	RedisAddr     string
	RedisPwd      string
	WebOrigins    []string
	Port          string
	JWTSecret     string
	SessionTTL    time.Duration
	AdminEmails   []string
	LogLevel      string
	LogFormat     string // json | console
	GinMode       string
	SnowflakeNode int64
}

// LoadEnv loads a .env file when present. Real environment variables win.
func LoadEnv(files ...string) {
	_ = godotenv.Load(files...)
}

func loadConfig() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}
	csv := func(s string, lower bool) []string {
		var out []string
		for _, p := range strings.Split(s, ",") {
			if t := strings.TrimSpace(p); t != "" {
				if lower {
					t = strings.ToLower(t)
				}
				out = append(out, t)
			}
		}
		return out
	}

	ttl := 24 * time.Hour
	if n, err := strconv.Atoi(get("SESSION_TTL_SECONDS", "")); err == nil && n > 0 {
		ttl = time.Duration(n) * time.Second
	}
	node, err := strconv.ParseInt(get("SNOWFLAKE_NODE", "1"), 10, 64)
	if err != nil {
		node = 1
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = db.DSN(
			get("DB_HOST", "127.0.0.1"),
			get("DB_USER", "postgres"),
			os.Getenv("DB_PASSWORD"),
			get("DB_NAME", "machine_tracker"),
			get("DB_PORT", "5432"),
			os.Getenv("DB_SSLMODE"),
		)
	}

	return Config{
		DatabaseURL:   dsn,
		RedisAddr:     get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:      os.Getenv("REDIS_PASSWORD"),
		WebOrigins:    csv(get("WEB_ORIGIN", "http://localhost:3000"), false),
		Port:          get("PORT", "3001"),
		JWTSecret:     get("JWT_SECRET", "change-me"),
		SessionTTL:    ttl,
		AdminEmails:   csv(os.Getenv("ADMIN_EMAILS"), true),
		LogLevel:      get("LOG_LEVEL", "info"),
		LogFormat:     get("LOG_FORMAT", "json"),
		GinMode:       get("GIN_MODE", "release"),
		SnowflakeNode: node,
	}
}

func (c Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, a := range c.AdminEmails {
		if a == email {
			return true
		}
	}
	return false
}
