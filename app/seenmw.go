// app/seenmw.go
package app

import (
	"fmt"
	"time"

	"Gin_postgres_redis_machine_tracker/db"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// TouchLastSeen 节流更新员工 last_seen_at
func TouchLastSeen(repo *db.Repo, rdb *redis.Client, throttle time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		eid, ok := EmployeeID(c)
		if !ok || eid == 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("employee:lastseen:%d", eid)
		if ok, _ := rdb.SetNX(c, key, "1", throttle).Result(); ok {
			_ = repo.TouchEmployeeSeen(c, eid) // 忽略错误，不阻塞请求
		}
		c.Next()
	}
}
