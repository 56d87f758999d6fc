package controllers

import (
	"github.com/gin-gonic/gin"
)

type AuditController struct{ *Srv }

func NewAuditController(s *Srv) *AuditController { return &AuditController{Srv: s} }

// GET /auditlogs?target_type=purchase_order&target_id=2025H/00001
func (ac *AuditController) List(c *gin.Context) {
	logs, err := ac.Repo.ListAuditLogs(c.Request.Context(), c.Query("target_type"), c.Query("target_id"), pageOf(c))
	if err != nil {
		ac.fail(c, err)
		return
	}
	list(c, "Audit logs retrieved successfully", logs)
}
