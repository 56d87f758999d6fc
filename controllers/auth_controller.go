// controllers/auth_controller.go
package controllers

import (
	"net/http"

	"Gin_postgres_redis_machine_tracker/app"
	"Gin_postgres_redis_machine_tracker/db"
	"Gin_postgres_redis_machine_tracker/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /login：校验密码，签发 JWT，jti 写入 Redis 会话
func (ac *AuthController) Login(c *gin.Context) {
	var in loginReq
	if !bind(c, &in) {
		return
	}
	ctx := c.Request.Context()
	e, good := ac.checkCredentials(c, in.Email, in.Password)
	if !good {
		return
	}

	sid := uuid.NewString()
	if err := ac.AppSess.Create(ctx, sid, e.EmployeeID, e.Email); err != nil {
		ac.fail(c, err)
		return
	}
	token, err := app.IssueToken(ac.Cfg.JWTSecret, e.EmployeeID, e.Email, sid, ac.AppSess.TTL())
	if err != nil {
		ac.fail(c, err)
		return
	}
	_ = ac.Repo.TouchEmployeeSeen(ctx, e.EmployeeID)
	ok(c, "Login successful", gin.H{"token": token, "employee": e})
}

// checkCredentials 登录和改密码共用：锁定检查、失败计数，未知邮箱与错密码同样回 401
func (ac *AuthController) checkCredentials(c *gin.Context, email, password string) (*models.Employee, bool) {
	ctx := c.Request.Context()
	if locked, err := ac.Attempts.Locked(ctx, email); err != nil {
		ac.fail(c, err)
		return nil, false
	} else if locked {
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "message": "Too many failed attempts, try again later"})
		return nil, false
	}

	e, err := ac.Repo.FindEmployeeByEmail(ctx, email)
	if err != nil && !db.IsNotFound(err) {
		ac.fail(c, err)
		return nil, false
	}
	if e == nil || bcrypt.CompareHashAndPassword([]byte(e.Password), []byte(password)) != nil {
		if _, ferr := ac.Attempts.Fail(ctx, email); ferr != nil {
			ac.Log.Warn("count login failure", zap.Error(ferr))
		}
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
		return nil, false
	}
	ac.Attempts.Reset(ctx, email)
	return e, true
}

// POST /logout 删除 Redis 会话，令牌随即失效
func (ac *AuthController) Logout(c *gin.Context) {
	if sid := c.GetString("sessionID"); sid != "" {
		if err := ac.AppSess.Delete(c.Request.Context(), sid); err != nil {
			ac.fail(c, err)
			return
		}
	}
	ok(c, "Logged out", nil)
}

func (ac *AuthController) WhoAmI(c *gin.Context) {
	eid, _ := app.EmployeeID(c)
	e, err := ac.Repo.FindEmployeeByID(c.Request.Context(), eid)
	if err != nil {
		ac.fail(c, err)
		return
	}
	ok(c, "Current employee", gin.H{"employee": e, "isAdmin": ac.Cfg.IsAdminEmail(e.Email)})
}

// PUT /employepswupdate：按邮箱改密码，需要旧密码；成功后撤销该员工全部会话
func (ac *AuthController) UpdatePassword(c *gin.Context) {
	var in struct {
		Email       string `json:"email" binding:"required,email"`
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required,min=6"`
	}
	if !bind(c, &in) {
		return
	}
	ctx := c.Request.Context()
	e, good := ac.checkCredentials(c, in.Email, in.OldPassword)
	if !good {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		ac.fail(c, err)
		return
	}
	if err := ac.Repo.UpdateEmployeePassword(ctx, e.EmployeeID, string(hash)); err != nil {
		ac.fail(c, err)
		return
	}
	if err := ac.AppSess.RevokeAllForEmployee(ctx, e.EmployeeID); err != nil {
		ac.Log.Warn("revoke sessions", zap.Uint("employee_id", e.EmployeeID), zap.Error(err))
	}
	ok(c, "Password updated successfully", nil)
}
