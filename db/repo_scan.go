package db

import (
	"context"
	"errors"
	"fmt"

	"Gin_postgres_redis_machine_tracker/models"

	"gorm.io/gorm"
)

// CreateScan stores one scan event of any kind. An item can be scanned once a day per kind.
func (r *Repo) CreateScan(ctx context.Context, s models.Scan) error {
	catID, itemID, day := s.ScanKey()
	if itemID == "" || day.IsZero() {
		return Validation("item_id and scanned_date are required")
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.Category{}, fmt.Sprintf("category %d not found", catID), "cat_id = ?", catID); err != nil {
			return err
		}
		if err := mustExist(tx, &models.Item{}, "item "+itemID+" not found", "item_code = ?", itemID); err != nil {
			return err
		}
		dup, err := exists(tx, s, "item_id = ? AND scanned_date = ?", itemID, day)
		if err != nil {
			return err
		}
		if dup {
			return Conflict("Already scanned")
		}
		if err := tx.Create(s).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return Conflict("Already scanned")
			}
			return fmt.Errorf("create scan: %w", err)
		}
		return nil
	})
}

type ScansQuery struct {
	Branch string
	ItemID string
	Day    *models.Date
	Page
}

// ListScans fills dest, a pointer to a slice of one scan kind.
func (r *Repo) ListScans(ctx context.Context, dest any, q ScansQuery) error {
	tx := r.DB.WithContext(ctx)
	if q.Branch != "" {
		tx = tx.Where("branch = ?", q.Branch)
	}
	if q.ItemID != "" {
		tx = tx.Where("item_id = ?", q.ItemID)
	}
	if q.Day != nil {
		tx = tx.Where("scanned_date = ?", *q.Day)
	}
	if err := q.Page.apply(tx.Order("scanned_date DESC, id DESC")).Find(dest).Error; err != nil {
		return fmt.Errorf("list scans: %w", err)
	}
	return nil
}

// UpdateLatestCountScanBranch sets current_branch on the newest count scan of an item.
func (r *Repo) UpdateLatestCountScanBranch(ctx context.Context, itemID, currentBranch string) (*models.ItemCountScan, error) {
	var s models.ItemCountScan
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("item_id = ?", itemID).Order("scanned_date DESC, id DESC").Take(&s).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("no count scan found for item %s", itemID)
		}
		if err != nil {
			return err
		}
		s.CurrentBranch = currentBranch
		return tx.Model(&s).Update("current_branch", currentBranch).Error
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type CategoryCount struct {
	CategoryID uint   `json:"category_id"`
	CatName    string `json:"cat_name"`
	Total      int64  `json:"total"`
}

// IdleCountsByCategory groups idle scans of a branch on a day per category.
func (r *Repo) IdleCountsByCategory(ctx context.Context, branch string, day models.Date) ([]CategoryCount, error) {
	var out []CategoryCount
	err := r.DB.WithContext(ctx).
		Table(models.IdleScanTable+" s").
		Select("s.category_id, c.cat_name, COUNT(*) AS total").
		Joins("LEFT JOIN "+models.CategoryTable+" c ON c.cat_id = s.category_id").
		Where("s.branch = ? AND s.scanned_date = ?", branch, day).
		Group("s.category_id, c.cat_name").
		Order("s.category_id").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("idle counts: %w", err)
	}
	return out, nil
}
