// controllers/srv.go
package controllers

import (
	"time"

	"Gin_postgres_redis_machine_tracker/app"
	"Gin_postgres_redis_machine_tracker/db"
	"Gin_postgres_redis_machine_tracker/session"

	"go.uber.org/zap"
)

type Srv struct {
	Repo     *db.Repo
	AppSess  *session.AppSessionStore
	Attempts *session.LoginAttempts
	Log      *zap.Logger
	Cfg      app.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:     db.NewRepo(a.DB),
		AppSess:  a.AppSessions(),
		Attempts: session.NewLoginAttempts(a.RDB, 15*time.Minute, 5),
		Log:      a.Log,
		Cfg:      a.Config,
	}
}

func (s *Srv) GetAppSess() *session.AppSessionStore { return s.AppSess }
