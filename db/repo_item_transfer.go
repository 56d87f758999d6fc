package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Gin_postgres_redis_machine_tracker/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 物品调拨状态机：Pending -> Accepted
// item.branch 不会被改写，当前位置由调拨记录推出来

// CreateTransfer opens a transfer. Only one Pending transfer may exist per item;
// the partial unique index is the real guard, the check below just gives the
// caller a readable message.
func (r *Repo) CreateTransfer(ctx context.Context, t *models.ItemTransfer) error {
	if t.Status == "" {
		t.Status = models.TransferPending
	}
	if !t.Status.Valid() {
		return Validation("invalid transfer status %q", t.Status)
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 锁住物品行，串行化同一物品的并发申请
		var item models.Item
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("item_code = ?", t.ItemID).Take(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFound("item %s not found", t.ItemID)
			}
			return err
		}
		if err := mustExist(tx, &models.Employee{}, fmt.Sprintf("employee %d not found", t.EmployeeID), "employee_id = ?", t.EmployeeID); err != nil {
			return err
		}

		var latest models.ItemTransfer
		err := tx.Where("item_id = ?", t.ItemID).
			Order("created_at DESC, item_transfer_id DESC").
			Take(&latest).Error
		switch {
		case err == nil && latest.Status == models.TransferPending:
			return Conflict("item %s already has a pending transfer", t.ItemID)
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if t.Status == models.TransferAccepted && t.ArrivedDate == nil {
			now := time.Now()
			t.ArrivedDate = &now
		}
		if err := tx.Create(t).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return Conflict("item %s already has a pending transfer", t.ItemID)
			}
			return fmt.Errorf("create transfer: %w", err)
		}
		return nil
	})
}

// AcceptTransfer marks the latest Pending transfer of an item as Accepted.
func (r *Repo) AcceptTransfer(ctx context.Context, itemCode, acceptBy string) (*models.ItemTransfer, error) {
	var t models.ItemTransfer
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("item_id = ? AND status = ?", itemCode, models.TransferPending).
			Order("created_at DESC, item_transfer_id DESC").
			Take(&t).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("no pending transfer found for item %s", itemCode)
		}
		if err != nil {
			return err
		}
		now := time.Now()
		if err := tx.Model(&t).Updates(map[string]any{
			"status":       models.TransferAccepted,
			"accept_by":    acceptBy,
			"arrived_date": now,
		}).Error; err != nil {
			return fmt.Errorf("accept transfer: %w", err)
		}
		t.Status, t.AcceptBy, t.ArrivedDate = models.TransferAccepted, acceptBy, &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CurrentLocation 当前所在分厂
type CurrentLocation struct {
	ItemCode   string               `json:"item_code"`
	NewBranch  string               `json:"new_branch"`
	FromTx     bool                 `json:"from_transfer"`
	LastAccept *models.ItemTransfer `json:"last_transfer,omitempty"`
}

// CurrentSendingBranch derives where an item is now: the sending branch of the
// latest accepted transfer, or the item's home branch when it never moved.
func (r *Repo) CurrentSendingBranch(ctx context.Context, itemCode string) (*CurrentLocation, error) {
	db := r.DB.WithContext(ctx)
	var item models.Item
	if err := take(db, &item, "item "+itemCode+" not found", "item_code = ?", itemCode); err != nil {
		return nil, err
	}
	var t models.ItemTransfer
	err := db.Where("item_id = ? AND status = ?", itemCode, models.TransferAccepted).
		Order("arrived_date DESC NULLS LAST, item_transfer_id DESC").
		Take(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &CurrentLocation{ItemCode: itemCode, NewBranch: item.Branch}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest accepted transfer: %w", err)
	}
	return &CurrentLocation{ItemCode: itemCode, NewBranch: t.SendingBranch, FromTx: true, LastAccept: &t}, nil
}

type TransfersQuery struct {
	Branch        string // owner 或 sending
	PrevBranch    string
	SendingBranch string
	ItemID        string
	Status        models.TransferStatus
	Page
}

func (r *Repo) ListTransfers(ctx context.Context, q TransfersQuery) ([]models.ItemTransfer, error) {
	tx := r.DB.WithContext(ctx).Model(&models.ItemTransfer{}).Preload("Item")
	if q.Branch != "" {
		tx = tx.Where("owner_branch = ? OR sending_branch = ?", q.Branch, q.Branch)
	}
	if q.PrevBranch != "" {
		tx = tx.Where("prev_used_branch = ?", q.PrevBranch)
	}
	if q.SendingBranch != "" {
		tx = tx.Where("sending_branch = ?", q.SendingBranch)
	}
	if q.ItemID != "" {
		tx = tx.Where("item_id = ?", q.ItemID)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	var out []models.ItemTransfer
	if err := q.Page.apply(tx.Order("created_at DESC, item_transfer_id DESC")).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	return out, nil
}
