// controllers/respond.go
package controllers

import (
	"net/http"
	"reflect"
	"strconv"

	"Gin_postgres_redis_machine_tracker/db"
	"Gin_postgres_redis_machine_tracker/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 统一响应 {success, message, data}

func ok(c *gin.Context, msg string, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg, "data": data})
}

func created(c *gin.Context, msg string, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": msg, "data": data})
}

func list(c *gin.Context, msg string, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg, "data": data, "count": lenOf(data)})
}

func lenOf(v any) int {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len()
	}
	return 0
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msg})
}

// statusOf maps a business error kind to its HTTP status.
func statusOf(err error) int {
	switch db.KindOf(err) {
	case db.KindValidation, db.KindConflict:
		return http.StatusBadRequest
	case db.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// fail 业务错误原样返回；其他错误记录日志后只回通用消息
func (s *Srv) fail(c *gin.Context, err error) {
	code := statusOf(err)
	if code != http.StatusInternalServerError {
		c.JSON(code, gin.H{"success": false, "message": err.Error()})
		return
	}
	_ = c.Error(err)
	if s.Log != nil {
		s.Log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("requestID")),
			zap.Error(err),
		)
	}
	c.JSON(code, gin.H{"success": false, "message": "Server error"})
}

// bind decodes the JSON body and answers 400 itself on failure.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, err.Error())
		return false
	}
	return true
}

func queryUint(c *gin.Context, key string) (uint, bool) {
	v := c.Query(key)
	if v == "" {
		return 0, true
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		badRequest(c, key+" must be a positive integer")
		return 0, false
	}
	return uint(n), true
}

func paramUint(c *gin.Context, key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		badRequest(c, "invalid "+key)
		return 0, false
	}
	return uint(n), true
}

// queryDate parses an optional YYYY-MM-DD query value.
func queryDate(c *gin.Context, key string) (*models.Date, bool) {
	v := c.Query(key)
	if v == "" {
		return nil, true
	}
	d, err := models.ParseDate(v)
	if err != nil {
		badRequest(c, key+" must be a date (YYYY-MM-DD)")
		return nil, false
	}
	return &d, true
}

func pageOf(c *gin.Context) db.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "0"))
	return db.Page{Page: page, Size: size}
}

// required 检查必填 query 参数，缺一个就回 400
func required(c *gin.Context, keys ...string) bool {
	for _, k := range keys {
		if c.Query(k) == "" {
			badRequest(c, k+" is required")
			return false
		}
	}
	return true
}
