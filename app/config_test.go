package app

import (
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db.local")
	t.Setenv("DB_NAME", "tracker")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_SSLMODE", "")
	t.Setenv("WEB_ORIGIN", "http://a.lk, http://b.lk ,")
	t.Setenv("ADMIN_EMAILS", "Boss@Corp.lk")
	t.Setenv("SESSION_TTL_SECONDS", "60")
	t.Setenv("PORT", "")

	cfg := loadConfig()
	if cfg.Port != "3001" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if len(cfg.WebOrigins) != 2 || cfg.WebOrigins[1] != "http://b.lk" {
		t.Errorf("WebOrigins = %v", cfg.WebOrigins)
	}
	if cfg.SessionTTL != time.Minute {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if !cfg.IsAdminEmail(" boss@corp.lk") || cfg.IsAdminEmail("clerk@corp.lk") {
		t.Errorf("IsAdminEmail mismatch for %v", cfg.AdminEmails)
	}
	want := "host=db.local user=postgres password= dbname=tracker port=5432 sslmode=disable"
	if cfg.DatabaseURL != want {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
}
