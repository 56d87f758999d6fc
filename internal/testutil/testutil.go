package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"Gin_postgres_redis_machine_tracker/app"
	"Gin_postgres_redis_machine_tracker/db"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const TestSchema = "test_tracker"

// projectRoot returns the directory holding go.mod.
func projectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func getEnv(keys []string, def string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func baseDSN() string {
	if root := projectRoot(); root != "" {
		_ = godotenv.Load(filepath.Join(root, ".env"))
	}
	return db.DSN(
		getEnv([]string{"TEST_DB_HOST", "DB_HOST"}, "127.0.0.1"),
		getEnv([]string{"TEST_DB_USER", "DB_USER"}, "postgres"),
		getEnv([]string{"TEST_DB_PASSWORD", "DB_PASSWORD"}, "postgres"),
		getEnv([]string{"TEST_DB_NAME", "DB_NAME"}, "machine_tracker_test"),
		getEnv([]string{"TEST_DB_PORT", "DB_PORT"}, "5432"),
		"disable",
	)
}

func open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
}

// SetupTestDB gives each test its own migrated schema and drops it on cleanup.
// Tests are skipped when Postgres is not reachable.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	base := baseDSN()

	setup, err := open(base)
	if err == nil {
		if sqlDB, derr := setup.DB(); derr == nil {
			err = sqlDB.Ping()
		}
	}
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	schema := fmt.Sprintf("%s_%d", TestSchema, time.Now().UnixNano())
	if err := setup.Exec("CREATE SCHEMA IF NOT EXISTS " + schema).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	if sqlDB, _ := setup.DB(); sqlDB != nil {
		sqlDB.Close()
	}

	// search_path 写进 DSN，连接池里每个连接都落在测试 schema
	conn, err := open(base + " search_path=" + schema)
	if err != nil {
		t.Fatalf("connect test schema: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, _ := conn.DB(); sqlDB != nil {
			sqlDB.Close()
		}
		clean, err := open(base)
		if err != nil {
			return
		}
		clean.Exec("DROP SCHEMA IF EXISTS " + schema + " CASCADE")
		if sqlDB, _ := clean.DB(); sqlDB != nil {
			sqlDB.Close()
		}
	})
	return conn
}

// SetupTestRedis connects to TEST_REDIS_ADDR (db 15). Callers clean up their
// own keys since packages may share the database. Tests are skipped when Redis
// is not reachable.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr: getEnv([]string{"TEST_REDIS_ADDR", "REDIS_ADDR"}, "127.0.0.1:6379"),
		DB:   15,
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

// SetupRouter returns a bare test engine with the status validators registered.
func SetupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := app.RegisterValidators(); err != nil {
		t.Fatalf("register validators: %v", err)
	}
	r := gin.New()
	r.Use(app.RequestID(), gin.Recovery())
	return r
}

// DoRequest executes an HTTP request against the test router.
func DoRequest(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse decodes the {success, message, data} envelope.
func ParseResponse(w *httptest.ResponseRecorder) map[string]any {
	var result map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &result)
	return result
}
