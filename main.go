package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"Gin_postgres_redis_machine_tracker/app"
	"Gin_postgres_redis_machine_tracker/db"
	"Gin_postgres_redis_machine_tracker/routes"

	"go.uber.org/zap"
)

func main() {
	app.LoadEnv()
	application, err := app.New()
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer application.Close()

	r := application.Router
	repo := db.NewRepo(application.DB)
	app.BootstrapPermissions(context.Background(), repo, application.Log)

	// Health：DB 与 Redis 都可用才算健康
	r.GET("/healthz", func(c *app.Ctx) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := repo.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, app.H{"ok": false, "db": err.Error()})
			return
		}
		if err := application.RDB.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, app.H{"ok": false, "redis": err.Error()})
			return
		}
		c.JSON(http.StatusOK, app.H{"ok": true})
	})

	routes.RegisterRoutes(r, application)

	port := application.Config.Port
	application.Log.Info("listening", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		application.Log.Fatal("server stopped", zap.Error(err))
	}
}
