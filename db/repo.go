package db

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// Page 列表分页参数，Size 0 表示不分页
type Page struct {
	Page int
	Size int
}

func (p Page) apply(tx *gorm.DB) *gorm.DB {
	if p.Size <= 0 {
		return tx
	}
	if p.Size > 200 {
		p.Size = 200
	}
	if p.Page <= 0 {
		p.Page = 1
	}
	return tx.Offset((p.Page - 1) * p.Size).Limit(p.Size)
}

func (r *Repo) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// exists reports whether model has a row matching query.
func exists(tx *gorm.DB, model any, query string, args ...any) (bool, error) {
	var n int64
	if err := tx.Model(model).Where(query, args...).Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// mustExist returns a NotFound error carrying msg when no row matches.
func mustExist(tx *gorm.DB, model any, msg string, query string, args ...any) error {
	ok, err := exists(tx, model, query, args...)
	if err != nil {
		return err
	}
	if !ok {
		return NotFound("%s", msg)
	}
	return nil
}

// take loads one row into dest, mapping a miss to NotFound(msg).
func take(tx *gorm.DB, dest any, msg string, query string, args ...any) error {
	err := tx.Where(query, args...).Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound("%s", msg)
	}
	return err
}
