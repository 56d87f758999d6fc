package db

import (
	"context"
	"fmt"

	"Gin_postgres_redis_machine_tracker/idgen"
	"Gin_postgres_redis_machine_tracker/models"

	"gorm.io/gorm"
)

type ItemsQuery struct {
	Branch string
	CatID  uint
	Q      string // serial / name 模糊
	Page
}

func (r *Repo) CreateItem(ctx context.Context, it *models.Item) error {
	if it.ItemCode == "" && !idgen.KnownItemBranch(it.Branch) {
		return Validation("unknown branch %q", it.Branch)
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.Category{}, fmt.Sprintf("category %d not found", it.CatID), "cat_id = ?", it.CatID); err != nil {
			return err
		}
		if ok, err := exists(tx, &models.Item{}, "serial_no = ?", it.SerialNo); err != nil {
			return err
		} else if ok {
			return Conflict("item with serial_no %s already exists", it.SerialNo)
		}
		return storageErr(tx.Create(it).Error, "item "+it.SerialNo)
	})
}

func (r *Repo) ListItems(ctx context.Context, q ItemsQuery) ([]models.Item, int64, error) {
	tx := r.DB.WithContext(ctx).Model(&models.Item{})
	if q.Branch != "" {
		tx = tx.Where("branch = ?", q.Branch)
	}
	if q.CatID != 0 {
		tx = tx.Where("cat_id = ?", q.CatID)
	}
	if q.Q != "" {
		like := "%" + q.Q + "%"
		tx = tx.Where("serial_no ILIKE ? OR name ILIKE ?", like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}
	var out []models.Item
	if err := q.Page.apply(tx.Preload("Category").Order("item_code")).Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	return out, total, nil
}

func (r *Repo) GetItem(ctx context.Context, code string) (*models.Item, error) {
	var it models.Item
	if err := take(r.DB.WithContext(ctx).Preload("Category"), &it, "item "+code+" not found", "item_code = ?", code); err != nil {
		return nil, err
	}
	return &it, nil
}

// importDate 接受 null 或 YYYY-MM-DD 字符串，返回可直接写列的值
func importDate(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		if x == "" {
			return nil, nil
		}
		d, err := models.ParseDate(x)
		if err != nil {
			return nil, Validation("import_date: %v", err)
		}
		return d, nil
	}
	return nil, Validation("import_date must be a date string")
}

// UpdateItem changes the mutable fields of an item. The code never changes.
func (r *Repo) UpdateItem(ctx context.Context, code string, fields map[string]any) (*models.Item, error) {
	delete(fields, "item_code")
	if len(fields) == 0 {
		return nil, Validation("nothing to update")
	}
	if v, ok := fields["branch"]; ok {
		b, isStr := v.(string)
		if !isStr {
			return nil, Validation("branch must be a string")
		}
		if !idgen.KnownItemBranch(b) {
			return nil, Validation("unknown branch %q", b)
		}
	}
	if v, ok := fields["import_date"]; ok {
		d, err := importDate(v)
		if err != nil {
			return nil, err
		}
		fields["import_date"] = d
	}
	var it models.Item
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := take(tx, &it, "item "+code+" not found", "item_code = ?", code); err != nil {
			return err
		}
		if err := tx.Model(&it).Updates(fields).Error; err != nil {
			return storageErr(err, "item "+code)
		}
		return tx.Take(&it, "item_code = ?", code).Error
	})
	if err != nil {
		return nil, err
	}
	return &it, nil
}
