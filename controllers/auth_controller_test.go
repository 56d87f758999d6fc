package controllers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"Gin_postgres_redis_machine_tracker/app"
	"Gin_postgres_redis_machine_tracker/db"
	"Gin_postgres_redis_machine_tracker/internal/testutil"
	"Gin_postgres_redis_machine_tracker/models"
	"Gin_postgres_redis_machine_tracker/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func authRouter(t *testing.T) *gin.Engine {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	rdb := testutil.SetupTestRedis(t)
	repo := db.NewRepo(conn)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	e := &models.Employee{Name: "Keeper", Email: "keeper@example.com", Password: string(hash)}
	if err := repo.CreateEmployee(context.Background(), e); err != nil {
		t.Fatal(err)
	}

	attempts := session.NewLoginAttempts(rdb, time.Minute, 3)
	for _, email := range []string{e.Email, "nobody@example.com"} {
		attempts.Reset(context.Background(), email)
	}
	t.Cleanup(func() {
		attempts.Reset(context.Background(), e.Email)
		attempts.Reset(context.Background(), "nobody@example.com")
	})

	ac := NewAuthController(&Srv{
		Repo:     repo,
		AppSess:  session.NewAppSessionStore(rdb, time.Minute),
		Attempts: attempts,
		Log:      zap.NewNop(),
		Cfg:      app.Config{JWTSecret: "test-secret"},
	})
	r := testutil.SetupRouter(t)
	r.POST("/login", ac.Login)
	r.PUT("/employepswupdate", ac.UpdatePassword)
	return r
}

func pswUpdate(old string) gin.H {
	return gin.H{"email": "keeper@example.com", "oldPassword": old, "newPassword": "secret2"}
}

func TestUpdatePasswordThrottled(t *testing.T) {
	r := authRouter(t)

	for i := 0; i < 3; i++ {
		w := testutil.DoRequest(r, http.MethodPut, "/employepswupdate", pswUpdate("guess"), "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status = %d", i+1, w.Code)
		}
	}
	// 锁定后正确的旧密码也不放行
	w := testutil.DoRequest(r, http.MethodPut, "/employepswupdate", pswUpdate("secret1"), "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("after lockout: status = %d", w.Code)
	}
	w = testutil.DoRequest(r, http.MethodPost, "/login", gin.H{"email": "keeper@example.com", "password": "secret1"}, "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("login shares the lockout: status = %d", w.Code)
	}
}

func TestUpdatePasswordUnknownEmail(t *testing.T) {
	r := authRouter(t)
	w := testutil.DoRequest(r, http.MethodPut, "/employepswupdate",
		gin.H{"email": "nobody@example.com", "oldPassword": "x", "newPassword": "secret2"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	if msg := testutil.ParseResponse(w)["message"]; msg != "Invalid email or password" {
		t.Fatalf("message = %v", msg)
	}
}

func TestUpdatePasswordThenLogin(t *testing.T) {
	r := authRouter(t)
	if w := testutil.DoRequest(r, http.MethodPut, "/employepswupdate", pswUpdate("secret1"), ""); w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	if w := testutil.DoRequest(r, http.MethodPost, "/login", gin.H{"email": "keeper@example.com", "password": "secret1"}, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("old password still works: %d", w.Code)
	}
	w := testutil.DoRequest(r, http.MethodPost, "/login", gin.H{"email": "keeper@example.com", "password": "secret2"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login with new password: %d %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]any)
	if tok, _ := data["token"].(string); tok == "" {
		t.Fatal("no token issued")
	}
}
