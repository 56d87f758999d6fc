package db

import (
	"context"
	"errors"
	"fmt"

	"Gin_postgres_redis_machine_tracker/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *Repo) CreateITAsset(ctx context.Context, a *models.ITAsset) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.ITCategory{}, fmt.Sprintf("IT category %d not found", a.ITCategoryID), "it_cat_id = ?", a.ITCategoryID); err != nil {
			return err
		}
		return storageErr(tx.Create(a).Error, "IT asset "+a.SerialNo)
	})
}

func (r *Repo) ListITAssets(ctx context.Context, categoryID uint, p Page) ([]models.ITAsset, error) {
	tx := r.DB.WithContext(ctx).Preload("ITCategory").Order("asset_id")
	if categoryID != 0 {
		tx = tx.Where("it_category_id = ?", categoryID)
	}
	var out []models.ITAsset
	if err := p.apply(tx).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list IT assets: %w", err)
	}
	return out, nil
}

func (r *Repo) GetITAsset(ctx context.Context, assetID string) (*models.ITAsset, error) {
	var a models.ITAsset
	if err := take(r.DB.WithContext(ctx).Preload("ITCategory"), &a, "IT asset "+assetID+" not found", "asset_id = ?", assetID); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repo) CreateAssetUser(ctx context.Context, u *models.AssetUser) error {
	return storageErr(r.DB.WithContext(ctx).Create(u).Error, "asset user "+u.EPFNo)
}

func (r *Repo) ListAssetUsers(ctx context.Context, branch string) ([]models.AssetUser, error) {
	tx := r.DB.WithContext(ctx).Order("asset_user_id")
	if branch != "" {
		tx = tx.Where("branch = ?", branch)
	}
	var out []models.AssetUser
	if err := tx.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list asset users: %w", err)
	}
	return out, nil
}

// 资产分配：同一资产最多一个 is_current_user = true

func (r *Repo) CreateAssignment(ctx context.Context, a *models.AssetAssignment) error {
	if a.ITAssetID == "" || a.AssetUserID == 0 || a.AssignedDate.IsZero() {
		return Validation("assetId, assetUserId and assignedDate are required")
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var asset models.ITAsset
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("asset_id = ?", a.ITAssetID).Take(&asset).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("IT asset %s not found", a.ITAssetID)
		}
		if err != nil {
			return err
		}
		if err := mustExist(tx, &models.AssetUser{}, fmt.Sprintf("asset user %d not found", a.AssetUserID), "asset_user_id = ?", a.AssetUserID); err != nil {
			return err
		}
		if a.IsCurrentUser {
			busy, err := exists(tx, &models.AssetAssignment{}, "it_asset_id = ? AND is_current_user", a.ITAssetID)
			if err != nil {
				return err
			}
			if busy {
				return Conflict("asset %s already has a current user", a.ITAssetID)
			}
		}
		if err := tx.Create(a).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return Conflict("asset %s already has a current user", a.ITAssetID)
			}
			return fmt.Errorf("create assignment: %w", err)
		}
		return nil
	})
}

func (r *Repo) ListAssignments(ctx context.Context, assetID string) ([]models.AssetAssignment, error) {
	tx := r.DB.WithContext(ctx).Preload("Asset").Preload("User").Order("assigned_date DESC, assignment_id DESC")
	if assetID != "" {
		tx = tx.Where("it_asset_id = ?", assetID)
	}
	var out []models.AssetAssignment
	if err := tx.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return out, nil
}

// CurrentAssignment returns the open assignment of an asset, nil when it is free.
func (r *Repo) CurrentAssignment(ctx context.Context, assetID string) (*models.AssetAssignment, error) {
	var a models.AssetAssignment
	err := r.DB.WithContext(ctx).Preload("User").
		Where("it_asset_id = ? AND is_current_user", assetID).Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("current assignment: %w", err)
	}
	return &a, nil
}

// AvailableAssets lists assets nobody currently holds.
func (r *Repo) AvailableAssets(ctx context.Context) ([]models.ITAsset, error) {
	sub := r.DB.Model(&models.AssetAssignment{}).
		Select("1").
		Where("asset_assignments.it_asset_id = it_assets.asset_id AND asset_assignments.is_current_user")
	var out []models.ITAsset
	if err := r.DB.WithContext(ctx).Preload("ITCategory").
		Where("NOT EXISTS (?)", sub).
		Order("asset_id").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("available assets: %w", err)
	}
	return out, nil
}

// ReturnAssignment clears the current-user flag and stamps the return date.
// Returning twice is a no-op.
func (r *Repo) ReturnAssignment(ctx context.Context, assignmentID uint, returned models.Date) (*models.AssetAssignment, error) {
	var a models.AssetAssignment
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("assignment_id = ?", assignmentID).Take(&a).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("assignment %d not found", assignmentID)
		}
		if err != nil {
			return err
		}
		if !a.IsCurrentUser && a.ReturnedDate != nil {
			return nil
		}
		if returned.IsZero() {
			returned = models.Today()
		}
		if err := tx.Model(&a).Updates(map[string]any{
			"is_current_user": false,
			"returned_date":   returned,
		}).Error; err != nil {
			return fmt.Errorf("return assignment: %w", err)
		}
		a.IsCurrentUser, a.ReturnedDate = false, &returned
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}
