package app

import (
	"context"
	"fmt"
	"time"

	"Gin_postgres_redis_machine_tracker/db"
	"Gin_postgres_redis_machine_tracker/idgen"
	"Gin_postgres_redis_machine_tracker/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Log    *zap.Logger
	Config Config

	appSess *session.AppSessionStore
}

func (a *App) AppSessions() *session.AppSessionStore { return a.appSess }

// New wires config, logging, Postgres, Redis and the gin engine.
func New() (*App, error) {
	cfg := loadConfig()

	log, err := NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	if err := idgen.Init(cfg.SnowflakeNode); err != nil {
		return nil, err
	}
	if err := RegisterValidators(); err != nil {
		return nil, err
	}

	// --- DB: Postgres ---
	gormLevel := logger.Warn
	if cfg.LogLevel == "debug" {
		gormLevel = logger.Info
	}
	dbConn, err := db.ConnectDB(cfg.DatabaseURL, gormLevel)
	if err != nil {
		return nil, err
	}

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	// --- Gin ---
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(RequestID(), RequestLogger(log), gin.Recovery())
	useCORS(r, cfg.WebOrigins)

	return &App{
		Router: r, DB: dbConn, RDB: rdb, Log: log, Config: cfg,
		appSess: session.NewAppSessionStore(rdb, cfg.SessionTTL),
	}, nil
}

func (a *App) Close() {
	_ = a.RDB.Close()
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.Log.Sync()
}
