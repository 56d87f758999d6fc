// app/bootstrap.go
package app

import (
	"context"

	"Gin_postgres_redis_machine_tracker/db"

	"go.uber.org/zap"
)

// DefaultPermissions are seeded on startup.
var DefaultPermissions = []string{
	PermManagePermissions,
	"manage_items",
	"manage_rent_machines",
	"manage_purchase_orders",
	"approve_purchase_orders",
	"manage_it_assets",
}

func BootstrapPermissions(ctx context.Context, repo *db.Repo, log *zap.Logger) {
	for _, name := range DefaultPermissions {
		p, err := repo.EnsurePermission(ctx, name)
		if err != nil {
			log.Warn("bootstrap permission failed", zap.String("permission", name), zap.Error(err))
			continue
		}
		log.Debug("permission ready", zap.String("permission", p.Name), zap.String("id", p.PermissionID))
	}
}
