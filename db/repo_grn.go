package db

import (
	"context"
	"errors"
	"fmt"

	"Gin_postgres_redis_machine_tracker/models"

	"gorm.io/gorm"
)

func (r *Repo) CreateGRN(ctx context.Context, g *models.GRN) error {
	if g.POID == "" || g.GRNDate.IsZero() {
		return Validation("po_id and grn_date are required")
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.PurchaseOrder{}, "purchase order "+g.POID+" not found", "po_id = ?", g.POID); err != nil {
			return err
		}
		if g.CreatedBy != 0 {
			if err := mustExist(tx, &models.Employee{}, fmt.Sprintf("employee %d not found", g.CreatedBy), "employee_id = ?", g.CreatedBy); err != nil {
				return err
			}
		}
		g.RentMachines = nil
		return storageErr(tx.Create(g).Error, "GRN")
	})
}

func (r *Repo) ListGRNs(ctx context.Context) ([]models.GRN, error) {
	var out []models.GRN
	if err := r.DB.WithContext(ctx).Order("grn_date DESC, grn_id DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list GRNs: %w", err)
	}
	return out, nil
}

// GRNsByPO returns the GRNs of a PO with the machines received on each.
func (r *Repo) GRNsByPO(ctx context.Context, poID string) ([]models.GRN, error) {
	var out []models.GRN
	err := r.DB.WithContext(ctx).
		Preload("RentMachines.RentMachine").
		Preload("RentMachines.CPO.Category").
		Where("po_id = ?", poID).
		Order("grn_date, grn_id").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("GRNs by po: %w", err)
	}
	return out, nil
}

// DeleteGRN removes an empty GRN. A GRN with received machines stays.
func (r *Repo) DeleteGRN(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		used, err := exists(tx, &models.GRNRentMachine{}, "grn_id = ?", id)
		if err != nil {
			return err
		}
		if used {
			return Conflict("GRN %d has received machines and cannot be deleted", id)
		}
		res := tx.Where("grn_id = ?", id).Delete(&models.GRN{})
		if res.Error != nil {
			return fmt.Errorf("delete GRN: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return NotFound("GRN %d not found", id)
		}
		return nil
	})
}

// ReceiptLine 一条收货：哪个 GRN、哪条 CPO 行、哪台机器
type ReceiptLine struct {
	GRNID      uint   `json:"grn_id" binding:"required"`
	CPOID      uint   `json:"cpo_id" binding:"required"`
	RentItemID string `json:"rent_item_id" binding:"required"`
	Branch     string `json:"branch"` // 空则用 PO 的分厂
	Additional string `json:"additional"`
}

type pairKey struct {
	CPOID      uint
	RentItemID string
}

func receiptDuplicates(lines []ReceiptLine) []pairKey {
	seen := make(map[pairKey]bool, len(lines))
	var dups []pairKey
	for _, l := range lines {
		k := pairKey{l.CPOID, l.RentItemID}
		if seen[k] {
			dups = append(dups, k)
		}
		seen[k] = true
	}
	return dups
}

// ReceiveRentMachines books machines in against GRNs. Everything happens in
// one transaction: the junction rows, the machine status/branch moves to
// Available To Allocation and the life windows. Any failure undoes the batch.
func (r *Repo) ReceiveRentMachines(ctx context.Context, lines []ReceiptLine) ([]models.GRNRentMachine, error) {
	if len(lines) == 0 {
		return nil, Validation("no GRN rent machine lines provided")
	}
	for i, l := range lines {
		if l.GRNID == 0 || l.CPOID == 0 || l.RentItemID == "" {
			return nil, Validation("line %d: grn_id, cpo_id and rent_item_id are required", i+1)
		}
	}
	if dups := receiptDuplicates(lines); len(dups) > 0 {
		return nil, Conflict("duplicate cpo/rent machine pairs in batch: %v", dups)
	}

	var rows []models.GRNRentMachine
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pairs := make([][]any, len(lines))
		for i, l := range lines {
			pairs[i] = []any{l.CPOID, l.RentItemID}
		}
		var existing []models.GRNRentMachine
		if err := tx.Where("(cpo_id, rent_item_id) IN ?", pairs).Find(&existing).Error; err != nil {
			return fmt.Errorf("check received pairs: %w", err)
		}
		if len(existing) > 0 {
			got := make([]pairKey, len(existing))
			for i, e := range existing {
				got[i] = pairKey{e.CPOID, e.RentItemID}
			}
			return Conflict("machines already received on these cpo lines: %v", got)
		}

		grns := map[uint]*models.GRN{}
		cpos := map[uint]*models.CategoryPurchaseOrder{}
		branches := map[string]string{}
		for i, l := range lines {
			g, ok := grns[l.GRNID]
			if !ok {
				g = &models.GRN{}
				if err := take(tx.Preload("PurchaseOrder"), g, fmt.Sprintf("GRN %d not found", l.GRNID), "grn_id = ?", l.GRNID); err != nil {
					return err
				}
				grns[l.GRNID] = g
				if g.PurchaseOrder != nil {
					branches[g.POID] = g.PurchaseOrder.Branch
				}
			}
			c, ok := cpos[l.CPOID]
			if !ok {
				c = &models.CategoryPurchaseOrder{}
				if err := take(tx, c, fmt.Sprintf("category purchase order %d not found", l.CPOID), "cpo_id = ?", l.CPOID); err != nil {
					return err
				}
				cpos[l.CPOID] = c
			}
			if c.POID != g.POID {
				return Validation("line %d: cpo %d belongs to PO %s, GRN %d to PO %s", i+1, c.CPOID, c.POID, g.GRNID, g.POID)
			}
			if err := mustExist(tx, &models.RentMachine{}, "rent machine "+l.RentItemID+" not found", "rent_item_id = ?", l.RentItemID); err != nil {
				return err
			}
			rows = append(rows, models.GRNRentMachine{
				GRNID:      l.GRNID,
				CPOID:      l.CPOID,
				RentItemID: l.RentItemID,
				Additional: l.Additional,
			})
		}

		if err := tx.Create(&rows).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return Conflict("a machine in the batch was already received on its cpo line")
			}
			return fmt.Errorf("insert GRN rent machines: %w", err)
		}

		for _, l := range lines {
			g, c := grns[l.GRNID], cpos[l.CPOID]
			branch := l.Branch
			if branch == "" {
				branch = branches[g.POID]
			}
			res := tx.Model(&models.RentMachine{}).
				Where("rent_item_id = ?", l.RentItemID).
				Updates(map[string]any{
					"rented_by":      branch,
					"machine_status": models.MachineAvailableToAllocation,
				})
			if res.Error != nil {
				return fmt.Errorf("update rent machine %s: %w", l.RentItemID, res.Error)
			}
			if res.RowsAffected == 0 {
				return NotFound("rent machine %s not found", l.RentItemID)
			}
			grnID := g.GRNID
			life := models.RentMachineLife{
				RentItemID: l.RentItemID,
				POID:       g.POID,
				CPOID:      c.CPOID,
				Branch:     branch,
				GRNID:      &grnID,
				FromDate:   c.FromDate,
				ToDate:     c.ToDate,
			}
			if err := tx.Create(&life).Error; err != nil {
				return fmt.Errorf("create rent machine life: %w", err)
			}
			var actor *uint
			if g.CreatedBy != 0 {
				actor = &g.CreatedBy
			}
			detail := fmt.Sprintf("GRN %d, cpo %d, branch %s", g.GRNID, c.CPOID, branch)
			if err := writeAudit(tx, actor, "rent_machine.receive", "rent_machine", l.RentItemID, &detail); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repo) ListGRNRentMachines(ctx context.Context, rentItemID string) ([]models.GRNRentMachine, error) {
	tx := r.DB.WithContext(ctx).Preload("RentMachine").Preload("CPO").Order("g_rm_id")
	if rentItemID != "" {
		tx = tx.Where("rent_item_id = ?", rentItemID)
	}
	var out []models.GRNRentMachine
	if err := tx.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list GRN rent machines: %w", err)
	}
	return out, nil
}
