package db

import (
	"context"
	"errors"
	"fmt"

	"Gin_postgres_redis_machine_tracker/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 租赁机生命周期：
// Available To Grn -> (GRN) Available To Allocation -> In Allocation -> Pending Transfer / Returned -> In Pending Renew PO
// 每个流程一个事务，先锁机器行再改状态

func lockMachine(tx *gorm.DB, rentItemID string) (*models.RentMachine, error) {
	var m models.RentMachine
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("rent_item_id = ?", rentItemID).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("rent machine %s not found", rentItemID)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func setMachineStatus(tx *gorm.DB, rentItemID string, s models.MachineStatus) error {
	res := tx.Model(&models.RentMachine{}).Where("rent_item_id = ?", rentItemID).Update("machine_status", s)
	if res.Error != nil {
		return fmt.Errorf("set machine status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFound("rent machine %s not found", rentItemID)
	}
	return nil
}

// AllocateMachine puts a received machine to work on a style.
func (r *Repo) AllocateMachine(ctx context.Context, a *models.RentMachineAllocation) error {
	if a.RentItemID == "" || a.FromDate.IsZero() {
		return Validation("rent_item_id and from_date are required")
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := lockMachine(tx, a.RentItemID)
		if err != nil {
			return err
		}
		if !m.MachineStatus.Allocatable() {
			return Conflict("rent machine %s is %q, only %q machines can be allocated", m.RentItemID, m.MachineStatus, models.MachineAvailableToAllocation)
		}
		a.Status = models.AllocationActive
		if err := tx.Create(a).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return Conflict("rent machine %s already has an active allocation", a.RentItemID)
			}
			return fmt.Errorf("create allocation: %w", err)
		}
		return setMachineStatus(tx, a.RentItemID, models.MachineInAllocation)
	})
}

// ReleaseAllocation closes the active allocation. toTransfer parks the
// machine as Pending Transfer, otherwise it becomes allocatable again.
func (r *Repo) ReleaseAllocation(ctx context.Context, rentItemID string, end models.Date, toTransfer bool) (*models.RentMachine, error) {
	var m *models.RentMachine
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if m, err = lockMachine(tx, rentItemID); err != nil {
			return err
		}
		if m.MachineStatus != models.MachineInAllocation {
			return Conflict("rent machine %s is %q, not allocated", rentItemID, m.MachineStatus)
		}
		if err := closeActiveAllocation(tx, rentItemID, end); err != nil {
			return err
		}
		next := models.MachineAvailableToAllocation
		if toTransfer {
			next = models.MachinePendingTransfer
		}
		if err := setMachineStatus(tx, rentItemID, next); err != nil {
			return err
		}
		m.MachineStatus = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func closeActiveAllocation(tx *gorm.DB, rentItemID string, end models.Date) error {
	if end.IsZero() {
		end = models.Today()
	}
	return tx.Model(&models.RentMachineAllocation{}).
		Where("rent_item_id = ? AND status = ?", rentItemID, models.AllocationActive).
		Updates(map[string]any{"status": models.AllocationInactive, "to_date": end}).Error
}

func (r *Repo) ListAllocations(ctx context.Context, rentItemID string, status models.AllocationStatus) ([]models.RentMachineAllocation, error) {
	tx := r.DB.WithContext(ctx).Preload("RentMachine").Order("from_date DESC, allocation_id DESC")
	if rentItemID != "" {
		tx = tx.Where("rent_item_id = ?", rentItemID)
	}
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	var out []models.RentMachineAllocation
	if err := tx.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	return out, nil
}

// ReturnMachine sends a machine back to the supplier.
func (r *Repo) ReturnMachine(ctx context.Context, ret *models.RentMachineReturn) error {
	if ret.RentItemID == "" || ret.ReturnDate.IsZero() {
		return Validation("rent_item_id and return_date are required")
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := lockMachine(tx, ret.RentItemID)
		if err != nil {
			return err
		}
		if !m.MachineStatus.Returnable() {
			return Conflict("rent machine %s is %q and cannot be returned", m.RentItemID, m.MachineStatus)
		}
		if err := closeActiveAllocation(tx, ret.RentItemID, ret.ReturnDate); err != nil {
			return err
		}
		if err := tx.Create(ret).Error; err != nil {
			return fmt.Errorf("create return: %w", err)
		}
		if err := setMachineStatus(tx, ret.RentItemID, models.MachineReturned); err != nil {
			return err
		}
		detail := fmt.Sprintf("%s -> %s", m.MachineStatus, models.MachineReturned)
		return writeAudit(tx, nil, "rent_machine.return", "rent_machine", ret.RentItemID, &detail)
	})
}

func (r *Repo) ListReturns(ctx context.Context, rentItemID string) ([]models.RentMachineReturn, error) {
	tx := r.DB.WithContext(ctx).Preload("RentMachine").Order("return_date DESC, return_id DESC")
	if rentItemID != "" {
		tx = tx.Where("rent_item_id = ?", rentItemID)
	}
	var out []models.RentMachineReturn
	if err := tx.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	return out, nil
}

// RenewMachine records a renewal line against a PO and parks the machine
// until the renewal PO is received.
func (r *Repo) RenewMachine(ctx context.Context, rn *models.POMachineRenewal) error {
	if rn.POID == "" || rn.RentItemID == "" || rn.FromDate.IsZero() || rn.ToDate.IsZero() {
		return Validation("po_id, rent_item_id, from_date and to_date are required")
	}
	if rn.ToDate.Before(rn.FromDate) {
		return Validation("to_date must not be before from_date")
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := lockMachine(tx, rn.RentItemID)
		if err != nil {
			return err
		}
		if !m.MachineStatus.Renewable() {
			return Conflict("rent machine %s is %q and cannot be renewed", m.RentItemID, m.MachineStatus)
		}
		if err := mustExist(tx, &models.PurchaseOrder{}, "purchase order "+rn.POID+" not found", "po_id = ?", rn.POID); err != nil {
			return err
		}
		dup, err := exists(tx, &models.POMachineRenewal{},
			"po_id = ? AND rent_item_id = ? AND from_date = ? AND to_date = ?",
			rn.POID, rn.RentItemID, rn.FromDate, rn.ToDate)
		if err != nil {
			return err
		}
		if dup {
			return Conflict("This machine has already been renewed for the given period under the same PO.")
		}
		if err := tx.Create(rn).Error; err != nil {
			return storageErr(err, "machine renewal")
		}
		return setMachineStatus(tx, rn.RentItemID, models.MachineInPendingRenewPO)
	})
}

func (r *Repo) ListRenewals(ctx context.Context, poID string) ([]models.POMachineRenewal, error) {
	tx := r.DB.WithContext(ctx).Order("from_date DESC, mr_id DESC")
	if poID != "" {
		tx = tx.Where("po_id = ?", poID)
	}
	var out []models.POMachineRenewal
	if err := tx.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list renewals: %w", err)
	}
	return out, nil
}

// Rent machine life

func (r *Repo) CreateRentMachineLife(ctx context.Context, l *models.RentMachineLife) error {
	if l.RentItemID == "" || l.POID == "" || l.FromDate.IsZero() || l.ToDate.IsZero() {
		return Validation("rent_item_id, po_id, from_date and to_date are required")
	}
	if l.ToDate.Before(l.FromDate) {
		return Validation("to_date must not be before from_date")
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.RentMachine{}, "rent machine "+l.RentItemID+" not found", "rent_item_id = ?", l.RentItemID); err != nil {
			return err
		}
		if err := mustExist(tx, &models.PurchaseOrder{}, "purchase order "+l.POID+" not found", "po_id = ?", l.POID); err != nil {
			return err
		}
		return storageErr(tx.Create(l).Error, "rent machine life")
	})
}

func (r *Repo) ListRentMachineLives(ctx context.Context, rentItemID string) ([]models.RentMachineLife, error) {
	tx := r.DB.WithContext(ctx).Order("to_date DESC, id DESC")
	if rentItemID != "" {
		tx = tx.Where("rent_item_id = ?", rentItemID)
	}
	var out []models.RentMachineLife
	if err := tx.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list rent machine lives: %w", err)
	}
	return out, nil
}

type ExpiredMachine struct {
	ID            uint                 `json:"id"`
	RentItemID    string               `json:"rent_item_id"`
	SerialNo      string               `json:"serial_no"`
	Name          string               `json:"name"`
	RentedBy      string               `json:"rented_by"`
	MachineStatus models.MachineStatus `json:"machine_status"`
	POID          string               `gorm:"column:po_id" json:"po_id"`
	CPOID         uint                 `gorm:"column:cpo_id" json:"cpo_id"`
	Branch        string               `json:"branch"`
	GRNID         *uint                `gorm:"column:grn_id" json:"grn_id"`
	FromDate      models.Date          `json:"from_date"`
	ToDate        models.Date          `json:"to_date"`
}

// ExpiredUnreturned lists machines whose latest life window ended before
// today and that are not Returned. Nothing changes state here.
func (r *Repo) ExpiredUnreturned(ctx context.Context, today models.Date) ([]ExpiredMachine, error) {
	db := r.DB.WithContext(ctx)

	// 每台机器只看最新一段租期
	latest := db.
		Table(models.RentMachineLifeTable + " l").
		Select(`DISTINCT ON (l.rent_item_id)
			l.id, l.rent_item_id, l.po_id, l.cpo_id, l.branch, l.grn_id, l.from_date, l.to_date`).
		Order("l.rent_item_id, l.to_date DESC, l.id DESC")

	var out []ExpiredMachine
	err := db.
		Table("(?) AS ll", latest).
		Select(`ll.id, ll.rent_item_id, m.serial_no, m.name, m.rented_by, m.machine_status,
			ll.po_id, ll.cpo_id, ll.branch, ll.grn_id, ll.from_date, ll.to_date`).
		Joins("JOIN "+models.RentMachineTable+" m ON m.rent_item_id = ll.rent_item_id").
		Where("ll.to_date < ? AND m.machine_status <> ?", today, models.MachineReturned).
		Order("ll.to_date, ll.rent_item_id").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("expired machines: %w", err)
	}
	return out, nil
}
