package app

import (
	"net/http"
	"strings"

	"Gin_postgres_redis_machine_tracker/db"
	"Gin_postgres_redis_machine_tracker/session"

	"github.com/gin-gonic/gin"
)

// 管理权限名
const PermManagePermissions = "manage_permissions"

func bearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// AuthRequired 校验 JWT，并确认 Redis 会话未被注销
func AuthRequired(secret string, appSess *session.AppSessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearer(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"success": false, "message": "unauthorized"})
			return
		}
		claims, err := ParseToken(secret, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"success": false, "message": "invalid token"})
			return
		}
		as, err := appSess.Get(c.Request.Context(), claims.ID)
		if err != nil || as.EmployeeID != claims.EmployeeID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"success": false, "message": "session expired"})
			return
		}
		c.Set("employeeID", claims.EmployeeID)
		c.Set("email", claims.Email)
		c.Set("sessionID", claims.ID)
		c.Next()
	}
}

// EmployeeID returns the authenticated employee, if any.
func EmployeeID(c *gin.Context) (uint, bool) {
	v, ok := c.Get("employeeID")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// PermissionRequired lets through ADMIN_EMAILS and holders of perm.
func PermissionRequired(repo *db.Repo, cfg Config, perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		eid, ok := EmployeeID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"success": false, "message": "unauthorized"})
			return
		}
		if cfg.IsAdminEmail(c.GetString("email")) {
			c.Next()
			return
		}
		has, err := repo.HasPermission(c.Request.Context(), eid, perm)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, H{"success": false, "message": "Server error"})
			return
		}
		if !has {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"success": false, "message": "forbidden"})
			return
		}
		c.Next()
	}
}
