package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Gin_postgres_redis_machine_tracker/idgen"
	"Gin_postgres_redis_machine_tracker/models"

	"gorm.io/gorm"
)

// 批量导入：先整体校验，再在一个事务里逐条 create / update / skip。
// 分区字段（分厂、类别等）不一致时跳过，不报错也不改数据。

type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
)

type BulkRecord[T any] struct {
	Outcome Outcome `json:"outcome"`
	Record  T       `json:"record"`
}

type BulkResult[T any] struct {
	Created int             `json:"created"`
	Updated int             `json:"updated"`
	Skipped int             `json:"skipped"`
	Records []BulkRecord[T] `json:"records"`
}

func (b *BulkResult[T]) add(o Outcome, rec T) {
	switch o {
	case OutcomeCreated:
		b.Created++
	case OutcomeUpdated:
		b.Updated++
	case OutcomeSkipped:
		b.Skipped++
	}
	b.Records = append(b.Records, BulkRecord[T]{Outcome: o, Record: rec})
}

// decide picks what happens to one incoming record.
func decide(found, samePartition bool) Outcome {
	switch {
	case !found:
		return OutcomeCreated
	case !samePartition:
		return OutcomeSkipped
	}
	return OutcomeUpdated
}

type reconcileSpec[T any] struct {
	name      string
	keyColumn string
	key       func(*T) string
	// samePartition compares the guarded field(s) of the stored and incoming rows.
	samePartition func(stored, in *T) bool
	// carry copies identity (primary key, created_at) onto the incoming row before a full update.
	carry func(stored, in *T)
}

func reconcile[T any](ctx context.Context, db *gorm.DB, rows []T, spec reconcileSpec[T]) (*BulkResult[T], error) {
	res := &BulkResult[T]{Records: make([]BulkRecord[T], 0, len(rows))}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			in := rows[i]
			key := spec.key(&in)

			var stored T
			err := tx.Where(spec.keyColumn+" = ?", key).Take(&stored).Error
			found := err == nil
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("lookup %s %s: %w", spec.name, key, err)
			}

			switch decide(found, found && spec.samePartition(&stored, &in)) {
			case OutcomeCreated:
				if err := tx.Create(&in).Error; err != nil {
					return storageErr(err, spec.name+" "+key)
				}
				res.add(OutcomeCreated, in)
			case OutcomeSkipped:
				res.add(OutcomeSkipped, stored)
			case OutcomeUpdated:
				spec.carry(&stored, &in)
				if err := tx.Save(&in).Error; err != nil {
					return storageErr(err, spec.name+" "+key)
				}
				res.add(OutcomeUpdated, in)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func validateItems(items []models.Item) error {
	if len(items) == 0 {
		return Validation("no items provided")
	}
	for i, it := range items {
		switch {
		case strings.TrimSpace(it.SerialNo) == "":
			return Validation("record %d: serial_no is required", i+1)
		case strings.TrimSpace(it.Name) == "":
			return Validation("record %d: name is required", i+1)
		case it.CatID == 0:
			return Validation("record %d: cat_id is required", i+1)
		case !idgen.KnownItemBranch(it.Branch):
			return Validation("record %d: unknown branch %q", i+1, it.Branch)
		}
	}
	return nil
}

func distinct[K comparable, T any](rows []T, f func(T) K) []K {
	seen := make(map[K]bool)
	var out []K
	for _, r := range rows {
		k := f(r)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// missingIDs returns the ids that have no row in model.
func missingIDs[K comparable](tx *gorm.DB, model any, column string, ids []K) ([]K, error) {
	var found []K
	if err := tx.Model(model).Where(column+" IN ?", ids).Pluck(column, &found).Error; err != nil {
		return nil, err
	}
	have := make(map[K]bool, len(found))
	for _, f := range found {
		have[f] = true
	}
	var miss []K
	for _, id := range ids {
		if !have[id] {
			miss = append(miss, id)
		}
	}
	return miss, nil
}

// BulkUpsertItems reconciles items by serial_no; branch is the partition field.
func (r *Repo) BulkUpsertItems(ctx context.Context, items []models.Item) (*BulkResult[models.Item], error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}
	cats := distinct(items, func(it models.Item) uint { return it.CatID })
	miss, err := missingIDs(r.DB.WithContext(ctx), &models.Category{}, "cat_id", cats)
	if err != nil {
		return nil, fmt.Errorf("check categories: %w", err)
	}
	if len(miss) > 0 {
		return nil, NotFound("categories not found: %v", miss)
	}
	return reconcile(ctx, r.DB, items, reconcileSpec[models.Item]{
		name:      "item",
		keyColumn: "serial_no",
		key:       func(it *models.Item) string { return it.SerialNo },
		samePartition: func(stored, in *models.Item) bool {
			return stored.Branch == in.Branch
		},
		carry: func(stored, in *models.Item) {
			in.ItemCode = stored.ItemCode
			in.CreatedAt = stored.CreatedAt
		},
	})
}

// BulkUpsertITAssets reconciles IT assets by serial_no; the IT category is the partition field.
func (r *Repo) BulkUpsertITAssets(ctx context.Context, assets []models.ITAsset) (*BulkResult[models.ITAsset], error) {
	if len(assets) == 0 {
		return nil, Validation("no assets provided")
	}
	for i, a := range assets {
		if strings.TrimSpace(a.SerialNo) == "" || strings.TrimSpace(a.Name) == "" || a.ITCategoryID == 0 {
			return nil, Validation("record %d: serial_no, name and it_category_id are required", i+1)
		}
	}
	cats := distinct(assets, func(a models.ITAsset) uint { return a.ITCategoryID })
	miss, err := missingIDs(r.DB.WithContext(ctx), &models.ITCategory{}, "it_cat_id", cats)
	if err != nil {
		return nil, fmt.Errorf("check IT categories: %w", err)
	}
	if len(miss) > 0 {
		return nil, NotFound("IT categories not found: %v", miss)
	}
	return reconcile(ctx, r.DB, assets, reconcileSpec[models.ITAsset]{
		name:      "IT asset",
		keyColumn: "serial_no",
		key:       func(a *models.ITAsset) string { return a.SerialNo },
		samePartition: func(stored, in *models.ITAsset) bool {
			return stored.ITCategoryID == in.ITCategoryID
		},
		carry: func(stored, in *models.ITAsset) {
			in.AssetID = stored.AssetID
			in.CreatedAt = stored.CreatedAt
		},
	})
}

// BulkUpsertAssetUsers reconciles asset users by epf_no; branch and designation must both match.
func (r *Repo) BulkUpsertAssetUsers(ctx context.Context, users []models.AssetUser) (*BulkResult[models.AssetUser], error) {
	if len(users) == 0 {
		return nil, Validation("no asset users provided")
	}
	for i, u := range users {
		if strings.TrimSpace(u.EPFNo) == "" || strings.TrimSpace(u.FullName) == "" {
			return nil, Validation("record %d: epf_no and full_name are required", i+1)
		}
	}
	return reconcile(ctx, r.DB, users, reconcileSpec[models.AssetUser]{
		name:      "asset user",
		keyColumn: "epf_no",
		key:       func(u *models.AssetUser) string { return u.EPFNo },
		samePartition: func(stored, in *models.AssetUser) bool {
			return stored.Branch == in.Branch && stored.Designation == in.Designation
		},
		carry: func(stored, in *models.AssetUser) {
			in.AssetUserID = stored.AssetUserID
			in.CreatedAt = stored.CreatedAt
		},
	})
}
