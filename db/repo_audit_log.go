package db

import (
	"context"
	"fmt"

	"Gin_postgres_redis_machine_tracker/models"

	"gorm.io/gorm"
)

func writeAudit(tx *gorm.DB, actorID *uint, action, targetType, targetID string, detail *string) error {
	entry := &models.AuditLog{
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Detail:     detail,
	}
	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func (r *Repo) ListAuditLogs(ctx context.Context, targetType, targetID string, p Page) ([]models.AuditLog, error) {
	tx := r.DB.WithContext(ctx).Model(&models.AuditLog{})
	if targetType != "" {
		tx = tx.Where("target_type = ?", targetType)
	}
	if targetID != "" {
		tx = tx.Where("target_id = ?", targetID)
	}
	var out []models.AuditLog
	if err := p.apply(tx.Order("created_at DESC")).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return out, nil
}
