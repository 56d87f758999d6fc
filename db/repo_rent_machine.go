package db

import (
	"context"
	"fmt"

	"Gin_postgres_redis_machine_tracker/models"

	"gorm.io/gorm"
)

func (r *Repo) CreateRentMachine(ctx context.Context, m *models.RentMachine) error {
	if m.MachineStatus == "" {
		m.MachineStatus = models.MachineAvailableToGrn
	}
	if !m.MachineStatus.Valid() {
		return Validation("invalid machine_status %q, allowed: %s", m.MachineStatus, models.AllowedMachineStatuses())
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.Category{}, fmt.Sprintf("category %d not found", m.CatID), "cat_id = ?", m.CatID); err != nil {
			return err
		}
		if err := mustExist(tx, &models.Supplier{}, fmt.Sprintf("supplier %d not found", m.SupID), "supplier_id = ?", m.SupID); err != nil {
			return err
		}
		if dup, err := exists(tx, &models.RentMachine{}, "serial_no = ?", m.SerialNo); err != nil {
			return err
		} else if dup {
			return Conflict("rent machine with serial_no %s already exists", m.SerialNo)
		}
		return storageErr(tx.Create(m).Error, "rent machine "+m.SerialNo)
	})
}

type RentMachinesQuery struct {
	RentedBy string
	Status   models.MachineStatus
	CatID    uint
	Page
}

func (r *Repo) ListRentMachines(ctx context.Context, q RentMachinesQuery) ([]models.RentMachine, int64, error) {
	tx := r.DB.WithContext(ctx).Model(&models.RentMachine{})
	if q.RentedBy != "" {
		tx = tx.Where("rented_by = ?", q.RentedBy)
	}
	if q.Status != "" {
		tx = tx.Where("machine_status = ?", q.Status)
	}
	if q.CatID != 0 {
		tx = tx.Where("cat_id = ?", q.CatID)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count rent machines: %w", err)
	}
	var out []models.RentMachine
	if err := q.Page.apply(tx.Preload("Category").Preload("Supplier").Order("rent_item_id")).Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list rent machines: %w", err)
	}
	return out, total, nil
}

func (r *Repo) GetRentMachine(ctx context.Context, rentItemID string) (*models.RentMachine, error) {
	var m models.RentMachine
	if err := take(r.DB.WithContext(ctx).Preload("Category").Preload("Supplier"), &m,
		"rent machine "+rentItemID+" not found", "rent_item_id = ?", rentItemID); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repo) GetRentMachineBySerial(ctx context.Context, serial string) (*models.RentMachine, error) {
	var m models.RentMachine
	if err := take(r.DB.WithContext(ctx).Preload("Category").Preload("Supplier"), &m,
		"rent machine with serial_no "+serial+" not found", "serial_no = ?", serial); err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateRentMachine applies a partial update. machine_status is checked
// against the six known values; any of them is accepted on this path.
func (r *Repo) UpdateRentMachine(ctx context.Context, rentItemID string, fields map[string]any) (*models.RentMachine, error) {
	delete(fields, "rent_item_id")
	if len(fields) == 0 {
		return nil, Validation("nothing to update")
	}
	if v, ok := fields["machine_status"]; ok {
		s, _ := v.(models.MachineStatus)
		if !s.Valid() {
			return nil, Validation("invalid machine_status %q, allowed: %s", v, models.AllowedMachineStatuses())
		}
	}
	var m models.RentMachine
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := take(tx, &m, "rent machine "+rentItemID+" not found", "rent_item_id = ?", rentItemID); err != nil {
			return err
		}
		if id, ok := fields["cat_id"].(uint); ok {
			if err := mustExist(tx, &models.Category{}, fmt.Sprintf("category %d not found", id), "cat_id = ?", id); err != nil {
				return err
			}
		}
		if id, ok := fields["sup_id"].(uint); ok {
			if err := mustExist(tx, &models.Supplier{}, fmt.Sprintf("supplier %d not found", id), "supplier_id = ?", id); err != nil {
				return err
			}
		}
		if err := tx.Model(&m).Updates(fields).Error; err != nil {
			return storageErr(err, "rent machine "+rentItemID)
		}
		return tx.Take(&m, "rent_item_id = ?", rentItemID).Error
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

type MachineTotal struct {
	Key   string `json:"key"`
	Label string `json:"label,omitempty"`
	Total int64  `json:"total"`
}

// RentMachineTotalsByCategory counts machines per category, optionally for one status.
func (r *Repo) RentMachineTotalsByCategory(ctx context.Context, status models.MachineStatus) ([]MachineTotal, error) {
	tx := r.DB.WithContext(ctx).
		Table(models.RentMachineTable+" m").
		Select("CAST(m.cat_id AS TEXT) AS key, c.cat_name AS label, COUNT(*) AS total").
		Joins("LEFT JOIN "+models.CategoryTable+" c ON c.cat_id = m.cat_id").
		Group("m.cat_id, c.cat_name").
		Order("m.cat_id")
	if status != "" {
		tx = tx.Where("m.machine_status = ?", status)
	}
	var out []MachineTotal
	if err := tx.Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("totals by category: %w", err)
	}
	return out, nil
}

func (r *Repo) RentMachineTotalsByBranch(ctx context.Context, status models.MachineStatus) ([]MachineTotal, error) {
	tx := r.DB.WithContext(ctx).
		Table(models.RentMachineTable).
		Select("COALESCE(rented_by, '') AS key, COUNT(*) AS total").
		Group("rented_by").
		Order("rented_by")
	if status != "" {
		tx = tx.Where("machine_status = ?", status)
	}
	var out []MachineTotal
	if err := tx.Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("totals by branch: %w", err)
	}
	return out, nil
}
