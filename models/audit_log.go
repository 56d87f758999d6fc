package models

import "time"

const AuditLogTable = "audit_logs"

// AuditLog 审批、状态变更等操作留痕（审批字段会被覆盖，历史只在这里）
type AuditLog struct {
	ID         string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ActorID    *uint     `gorm:"index" json:"actorId,omitempty"`
	Action     string    `gorm:"size:60;not null;index" json:"action"`
	TargetType string    `gorm:"size:40;not null" json:"targetType"`
	TargetID   string    `gorm:"size:40;not null;index" json:"targetId"`
	Detail     *string   `gorm:"size:500" json:"detail,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
}

func (AuditLog) TableName() string { return AuditLogTable }
