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

func (r *Repo) CreatePurchaseOrder(ctx context.Context, po *models.PurchaseOrder) error {
	if po.Status == "" {
		po.Status = models.POPending
	}
	if !po.Status.Valid() {
		return Validation("invalid purchase order status %q", po.Status)
	}
	if po.Branch == "" {
		return Validation("branch is required")
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.Supplier{}, fmt.Sprintf("supplier %d not found", po.SupplierID), "supplier_id = ?", po.SupplierID); err != nil {
			return err
		}
		if err := mustExist(tx, &models.Employee{}, fmt.Sprintf("employee %d not found", po.CreatedBy), "employee_id = ?", po.CreatedBy); err != nil {
			return err
		}
		return storageErr(tx.Create(po).Error, "purchase order")
	})
}

type POQuery struct {
	Branch string
	Status models.POStatus
	Page
}

func (r *Repo) ListPurchaseOrders(ctx context.Context, q POQuery) ([]models.PurchaseOrder, error) {
	tx := r.DB.WithContext(ctx).Preload("Supplier").Preload("Creator")
	if q.Branch != "" {
		tx = tx.Where("branch = ?", q.Branch)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	var out []models.PurchaseOrder
	if err := q.Page.apply(tx.Order("created_at DESC")).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	return out, nil
}

func (r *Repo) GetPurchaseOrder(ctx context.Context, poID string) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	if err := take(r.DB.WithContext(ctx).Preload("Supplier").Preload("Creator"), &po,
		"purchase order "+poID+" not found", "po_id = ?", poID); err != nil {
		return nil, err
	}
	return &po, nil
}

// UpdatePurchaseOrderStatus only touches status; approvals never call it.
func (r *Repo) UpdatePurchaseOrderStatus(ctx context.Context, poID string, s models.POStatus, actor *uint) (*models.PurchaseOrder, error) {
	if !s.Valid() {
		return nil, Validation("invalid purchase order status %q", s)
	}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.PurchaseOrder{}).Where("po_id = ?", poID).Update("status", s)
		if res.Error != nil {
			return fmt.Errorf("update purchase order status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return NotFound("purchase order %s not found", poID)
		}
		detail := string(s)
		return writeAudit(tx, actor, "po.status", "purchase_order", poID, &detail)
	})
	if err != nil {
		return nil, err
	}
	return r.GetPurchaseOrder(ctx, poID)
}

// UpdatePurchaseOrder rewrites the editable header fields of a PO.
func (r *Repo) UpdatePurchaseOrder(ctx context.Context, poID string, in *models.PurchaseOrder) (*models.PurchaseOrder, error) {
	if in.Status != "" && !in.Status.Valid() {
		return nil, Validation("invalid purchase order status %q", in.Status)
	}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var po models.PurchaseOrder
		if err := take(tx, &po, "purchase order "+poID+" not found", "po_id = ?", poID); err != nil {
			return err
		}
		if in.SupplierID != 0 && in.SupplierID != po.SupplierID {
			if err := mustExist(tx, &models.Supplier{}, fmt.Sprintf("supplier %d not found", in.SupplierID), "supplier_id = ?", in.SupplierID); err != nil {
				return err
			}
		}
		// 编号、创建人不改
		err := tx.Model(&po).
			Select("date", "invoice_to", "deliver_to", "attention", "payment_mode", "payment_term",
				"instruction", "pr_nos", "supplier_id", "status", "branch").
			Updates(&models.PurchaseOrder{
				Date:        in.Date,
				InvoiceTo:   in.InvoiceTo,
				DeliverTo:   in.DeliverTo,
				Attention:   in.Attention,
				PaymentMode: in.PaymentMode,
				PaymentTerm: in.PaymentTerm,
				Instruction: in.Instruction,
				PRNos:       in.PRNos,
				SupplierID:  firstNonZero(in.SupplierID, po.SupplierID),
				Status:      models.POStatus(firstNonEmpty(string(in.Status), string(po.Status))),
				Branch:      firstNonEmpty(in.Branch, po.Branch),
			}).Error
		return storageErr(err, "purchase order "+poID)
	})
	if err != nil {
		return nil, err
	}
	return r.GetPurchaseOrder(ctx, poID)
}

func firstNonZero(a, b uint) uint {
	if a != 0 {
		return a
	}
	return b
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// 审批：两道独立开关，互不依赖，也不会改 PO 状态

func (r *Repo) CreateApproval(ctx context.Context, poNo string) (*models.POApproval, error) {
	if poNo == "" {
		return nil, Validation("po_no is required")
	}
	a := &models.POApproval{PONo: poNo}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.PurchaseOrder{}, "purchase order "+poNo+" not found", "po_id = ?", poNo); err != nil {
			return err
		}
		if err := tx.Create(a).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return Conflict("approval record for PO %s already exists", poNo)
			}
			return fmt.Errorf("create approval: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// SetApproval stamps gate 1 or 2. Prior state is not checked, a second call overwrites.
func (r *Repo) SetApproval(ctx context.Context, gate int, poNo string, by uint) (*models.POApproval, error) {
	if gate != 1 && gate != 2 {
		return nil, Validation("unknown approval gate %d", gate)
	}
	if poNo == "" || by == 0 {
		return nil, Validation("po_no and approval%d_by are required", gate)
	}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.Employee{}, fmt.Sprintf("employee %d not found", by), "employee_id = ?", by); err != nil {
			return err
		}
		g := fmt.Sprint(gate)
		res := tx.Model(&models.POApproval{}).Where("po_no = ?", poNo).Updates(map[string]any{
			"approval" + g:           true,
			"approval" + g + "_by":   by,
			"approved" + g + "_date": time.Now(),
		})
		if res.Error != nil {
			return fmt.Errorf("update approval: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return NotFound("approval record for PO %s not found", poNo)
		}
		return writeAudit(tx, &by, "po.approval"+g, "purchase_order", poNo, nil)
	})
	if err != nil {
		return nil, err
	}
	return r.GetApproval(ctx, poNo)
}

func (r *Repo) GetApproval(ctx context.Context, poNo string) (*models.POApproval, error) {
	var a models.POApproval
	if err := take(r.DB.WithContext(ctx), &a, "approval record for PO "+poNo+" not found", "po_no = ?", poNo); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repo) ListApprovals(ctx context.Context) ([]models.POApproval, error) {
	var out []models.POApproval
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	return out, nil
}

// RecordPrint counts a print of a PO. The first call creates the pool row,
// later calls increment it; created reports which one happened.
func (r *Repo) RecordPrint(ctx context.Context, poID string, printedBy *uint, ref int64) (pool *models.POPrintPool, created bool, err error) {
	if poID == "" {
		return nil, false, Validation("po_id is required")
	}
	now := time.Now()
	pool = &models.POPrintPool{}
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.PurchaseOrder{}, "purchase order "+poID+" not found", "po_id = ?", poID); err != nil {
			return err
		}
		row := models.POPrintPool{
			POID:          poID,
			FirstPrint:    true,
			PrintCount:    1,
			PrintedBy:     printedBy,
			LastPrintDate: &now,
			LastPrintRef:  ref,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "po_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"print_count":     gorm.Expr(models.POPrintPoolTable + ".print_count + 1"),
				"first_print":     false,
				"printed_by":      printedBy,
				"last_print_date": now,
				"last_print_ref":  ref,
				"updated_at":      now,
			}),
		}).Create(&row).Error; err != nil {
			return fmt.Errorf("record print: %w", err)
		}
		return tx.Where("po_id = ?", poID).Take(pool).Error
	})
	if err != nil {
		return nil, false, err
	}
	return pool, pool.PrintCount == 1, nil
}

func (r *Repo) GetPrintPool(ctx context.Context, poID string) (*models.POPrintPool, error) {
	var p models.POPrintPool
	if err := take(r.DB.WithContext(ctx), &p, "print record for PO "+poID+" not found", "po_id = ?", poID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) ListPrintPools(ctx context.Context) ([]models.POPrintPool, error) {
	var out []models.POPrintPool
	if err := r.DB.WithContext(ctx).Order("last_print_date DESC NULLS LAST").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list print pools: %w", err)
	}
	return out, nil
}
