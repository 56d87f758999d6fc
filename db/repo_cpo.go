package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Gin_postgres_redis_machine_tracker/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CPO 行唯一键：(po_id, cat_id, from_date, to_date)
// 预检查只为了给出清楚的报错，唯一索引才是最终保证

type cpoKey struct {
	POID  string
	CatID uint
	From  string
	To    string
}

func (k cpoKey) String() string {
	return fmt.Sprintf("(%s, %d, %s, %s)", k.POID, k.CatID, k.From, k.To)
}

func keyOf(c *models.CategoryPurchaseOrder) cpoKey {
	return cpoKey{POID: c.POID, CatID: c.CatID, From: c.FromDate.String(), To: c.ToDate.String()}
}

// batchDuplicates returns the tuples that appear more than once in lines.
func batchDuplicates(lines []models.CategoryPurchaseOrder) []cpoKey {
	seen := make(map[cpoKey]int, len(lines))
	var dups []cpoKey
	for i := range lines {
		k := keyOf(&lines[i])
		seen[k]++
		if seen[k] == 2 {
			dups = append(dups, k)
		}
	}
	return dups
}

func validateCPOLine(i int, c *models.CategoryPurchaseOrder) error {
	switch {
	case strings.TrimSpace(c.POID) == "":
		return Validation("line %d: po_id is required", i+1)
	case c.CatID == 0:
		return Validation("line %d: cat_id is required", i+1)
	case c.FromDate.IsZero() || c.ToDate.IsZero():
		return Validation("line %d: from_date and to_date are required", i+1)
	case c.ToDate.Before(c.FromDate):
		return Validation("line %d: to_date must not be before from_date", i+1)
	case c.Qty <= 0:
		return Validation("line %d: qty must be positive", i+1)
	case c.PerDayCost.IsNegative():
		return Validation("line %d: perday_cost must not be negative", i+1)
	case c.DPercent.IsNegative() || c.DPercent.GreaterThan(decimal.NewFromInt(100)):
		return Validation("line %d: d_percent must be between 0 and 100", i+1)
	}
	return nil
}

func validateCPOBatch(lines []models.CategoryPurchaseOrder) error {
	if len(lines) == 0 {
		return Validation("no category purchase order lines provided")
	}
	for i := range lines {
		if err := validateCPOLine(i, &lines[i]); err != nil {
			return err
		}
	}
	if dups := batchDuplicates(lines); len(dups) > 0 {
		return Conflict("duplicate lines in batch: %v", dups)
	}
	return nil
}

func checkCPORefs(tx *gorm.DB, lines []models.CategoryPurchaseOrder) error {
	pos := distinct(lines, func(c models.CategoryPurchaseOrder) string { return c.POID })
	miss, err := missingIDs(tx, &models.PurchaseOrder{}, "po_id", pos)
	if err != nil {
		return err
	}
	if len(miss) > 0 {
		return NotFound("purchase orders not found: %v", miss)
	}
	cats := distinct(lines, func(c models.CategoryPurchaseOrder) uint { return c.CatID })
	missCats, err := missingIDs(tx, &models.Category{}, "cat_id", cats)
	if err != nil {
		return err
	}
	if len(missCats) > 0 {
		return NotFound("categories not found: %v", missCats)
	}
	return nil
}

// tupleTaken reports whether another row (not selfID) already holds the tuple of c.
func tupleTaken(tx *gorm.DB, c *models.CategoryPurchaseOrder, selfID uint) (bool, error) {
	q := tx.Model(&models.CategoryPurchaseOrder{}).
		Where("po_id = ? AND cat_id = ? AND from_date = ? AND to_date = ?", c.POID, c.CatID, c.FromDate, c.ToDate)
	if selfID != 0 {
		q = q.Where("cpo_id <> ?", selfID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func cpoCreateErr(err error, c *models.CategoryPurchaseOrder) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return Conflict("category purchase order %v already exists", keyOf(c))
	}
	return storageErr(err, "category purchase order")
}

func (r *Repo) CreateCPO(ctx context.Context, c *models.CategoryPurchaseOrder) error {
	if err := validateCPOLine(0, c); err != nil {
		return err
	}
	c.CPOID = 0
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkCPORefs(tx, []models.CategoryPurchaseOrder{*c}); err != nil {
			return err
		}
		taken, err := tupleTaken(tx, c, 0)
		if err != nil {
			return err
		}
		if taken {
			return Conflict("category purchase order %v already exists", keyOf(c))
		}
		if err := tx.Create(c).Error; err != nil {
			return cpoCreateErr(err, c)
		}
		return nil
	})
}

// BulkCreateCPO inserts all lines or none.
func (r *Repo) BulkCreateCPO(ctx context.Context, lines []models.CategoryPurchaseOrder) ([]models.CategoryPurchaseOrder, error) {
	if err := validateCPOBatch(lines); err != nil {
		return nil, err
	}
	db := r.DB.WithContext(ctx)
	if err := checkCPORefs(db, lines); err != nil {
		return nil, err
	}
	var taken []cpoKey
	for i := range lines {
		lines[i].CPOID = 0
		ok, err := tupleTaken(db, &lines[i], 0)
		if err != nil {
			return nil, fmt.Errorf("check cpo duplicates: %w", err)
		}
		if ok {
			taken = append(taken, keyOf(&lines[i]))
		}
	}
	if len(taken) > 0 {
		return nil, Conflict("category purchase orders already exist: %v", taken)
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&lines).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return Conflict("a category purchase order line in the batch already exists")
			}
			return fmt.Errorf("bulk create cpo: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// BulkUpsertCPO creates lines without cpo_id and updates the others. An
// update may not collide with any other existing row.
func (r *Repo) BulkUpsertCPO(ctx context.Context, lines []models.CategoryPurchaseOrder) (*BulkResult[models.CategoryPurchaseOrder], error) {
	if err := validateCPOBatch(lines); err != nil {
		return nil, err
	}
	res := &BulkResult[models.CategoryPurchaseOrder]{}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkCPORefs(tx, lines); err != nil {
			return err
		}
		for i := range lines {
			c := &lines[i]
			taken, err := tupleTaken(tx, c, c.CPOID)
			if err != nil {
				return err
			}
			if taken {
				return Conflict("line %d: category purchase order %v conflicts with an existing line", i+1, keyOf(c))
			}
			if c.CPOID == 0 {
				if err := tx.Create(c).Error; err != nil {
					return cpoCreateErr(err, c)
				}
				res.add(OutcomeCreated, *c)
				continue
			}
			if err := updateCPO(tx, c); err != nil {
				return err
			}
			res.add(OutcomeUpdated, *c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func updateCPO(tx *gorm.DB, c *models.CategoryPurchaseOrder) error {
	var stored models.CategoryPurchaseOrder
	if err := take(tx, &stored, fmt.Sprintf("category purchase order %d not found", c.CPOID), "cpo_id = ?", c.CPOID); err != nil {
		return err
	}
	err := tx.Model(&stored).
		Select("po_id", "cat_id", "qty", "perday_cost", "d_percent", "from_date", "to_date").
		Updates(c).Error
	if err != nil {
		return cpoCreateErr(err, c)
	}
	c.CreatedAt = stored.CreatedAt
	return nil
}

// UpdateCPO rewrites one line, checking the tuple against every other line.
func (r *Repo) UpdateCPO(ctx context.Context, id uint, c *models.CategoryPurchaseOrder) error {
	if err := validateCPOLine(0, c); err != nil {
		return err
	}
	c.CPOID = id
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkCPORefs(tx, []models.CategoryPurchaseOrder{*c}); err != nil {
			return err
		}
		taken, err := tupleTaken(tx, c, id)
		if err != nil {
			return err
		}
		if taken {
			return Conflict("category purchase order %v conflicts with an existing line", keyOf(c))
		}
		return updateCPO(tx, c)
	})
}

func (r *Repo) DeleteCPO(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		used, err := exists(tx, &models.GRNRentMachine{}, "cpo_id = ?", id)
		if err != nil {
			return err
		}
		if used {
			return Conflict("category purchase order %d has received machines", id)
		}
		res := tx.Where("cpo_id = ?", id).Delete(&models.CategoryPurchaseOrder{})
		if res.Error != nil {
			return fmt.Errorf("delete cpo: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return NotFound("category purchase order %d not found", id)
		}
		return nil
	})
}

type CPOLine struct {
	models.CategoryPurchaseOrder
	LineTotal decimal.Decimal `json:"line_total"`
}

type POLines struct {
	POID  string          `json:"po_id"`
	Lines []CPOLine       `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

func (r *Repo) ListCPO(ctx context.Context) ([]models.CategoryPurchaseOrder, error) {
	var out []models.CategoryPurchaseOrder
	if err := r.DB.WithContext(ctx).Preload("Category").Order("cpo_id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list cpo: %w", err)
	}
	return out, nil
}

// CPOByPO lists the lines of a PO with their totals.
func (r *Repo) CPOByPO(ctx context.Context, poID string) (*POLines, error) {
	var rows []models.CategoryPurchaseOrder
	if err := r.DB.WithContext(ctx).Preload("Category").
		Where("po_id = ?", poID).Order("cpo_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("cpo by po: %w", err)
	}
	out := &POLines{POID: poID, Lines: make([]CPOLine, 0, len(rows)), Total: decimal.Zero}
	for _, c := range rows {
		lt := c.LineTotal()
		out.Lines = append(out.Lines, CPOLine{CategoryPurchaseOrder: c, LineTotal: lt})
		out.Total = out.Total.Add(lt)
	}
	return out, nil
}
