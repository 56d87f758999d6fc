package db

import (
	"context"
	"fmt"
	"strings"

	"Gin_postgres_redis_machine_tracker/models"

	"gorm.io/gorm"
)

// Branches / categories / suppliers

func (r *Repo) CreateBranch(ctx context.Context, b *models.Branch) error {
	return storageErr(r.DB.WithContext(ctx).Create(b).Error, "branch "+b.BranchName)
}

func (r *Repo) ListBranches(ctx context.Context) ([]models.Branch, error) {
	var out []models.Branch
	if err := r.DB.WithContext(ctx).Order("branch_name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return out, nil
}

func (r *Repo) CreateCategory(ctx context.Context, c *models.Category) error {
	return storageErr(r.DB.WithContext(ctx).Create(c).Error, "category "+c.CatName)
}

func (r *Repo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := r.DB.WithContext(ctx).Order("cat_id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (r *Repo) CreateITCategory(ctx context.Context, c *models.ITCategory) error {
	return storageErr(r.DB.WithContext(ctx).Create(c).Error, "IT category "+c.Name)
}

func (r *Repo) ListITCategories(ctx context.Context) ([]models.ITCategory, error) {
	var out []models.ITCategory
	if err := r.DB.WithContext(ctx).Order("it_cat_id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list IT categories: %w", err)
	}
	return out, nil
}

func (r *Repo) CreateSupplier(ctx context.Context, s *models.Supplier) error {
	return storageErr(r.DB.WithContext(ctx).Create(s).Error, "supplier "+s.Name)
}

func (r *Repo) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	var out []models.Supplier
	if err := r.DB.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return out, nil
}

// Employees

func (r *Repo) CreateEmployee(ctx context.Context, e *models.Employee) error {
	e.Email = strings.ToLower(strings.TrimSpace(e.Email))
	return storageErr(r.DB.WithContext(ctx).Create(e).Error, "employee "+e.Email)
}

func (r *Repo) ListEmployees(ctx context.Context, branch string) ([]models.Employee, error) {
	tx := r.DB.WithContext(ctx).Order("employee_id")
	if branch != "" {
		tx = tx.Where("branch = ?", branch)
	}
	var out []models.Employee
	if err := tx.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return out, nil
}

func (r *Repo) FindEmployeeByID(ctx context.Context, id uint) (*models.Employee, error) {
	var e models.Employee
	if err := take(r.DB.WithContext(ctx), &e, fmt.Sprintf("employee %d not found", id), "employee_id = ?", id); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repo) FindEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var e models.Employee
	if err := take(r.DB.WithContext(ctx), &e, "employee "+email+" not found", "email = ?", email); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repo) UpdateEmployeePassword(ctx context.Context, id uint, hash string) error {
	res := r.DB.WithContext(ctx).Model(&models.Employee{}).
		Where("employee_id = ?", id).
		Update("password", hash)
	if res.Error != nil {
		return fmt.Errorf("update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFound("employee %d not found", id)
	}
	return nil
}

func (r *Repo) TouchEmployeeSeen(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Model(&models.Employee{}).
		Where("employee_id = ?", id).
		Update("last_seen_at", gorm.Expr("NOW()")).Error
}

// Permissions

func (r *Repo) CreatePermission(ctx context.Context, p *models.Permission) error {
	return storageErr(r.DB.WithContext(ctx).Create(p).Error, "permission "+p.Name)
}

// EnsurePermission creates the named permission when it is missing.
func (r *Repo) EnsurePermission(ctx context.Context, name string) (*models.Permission, error) {
	var p models.Permission
	err := r.DB.WithContext(ctx).Where("permission = ?", name).
		Attrs(models.Permission{Name: name}).
		FirstOrCreate(&p).Error
	if err != nil {
		return nil, storageErr(err, "permission "+name)
	}
	return &p, nil
}

func (r *Repo) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	var out []models.Permission
	if err := r.DB.WithContext(ctx).Order("permission_id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return out, nil
}

func (r *Repo) GrantPermission(ctx context.Context, ep *models.EmployeePermission) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.Employee{}, fmt.Sprintf("employee %d not found", ep.EmployeeID), "employee_id = ?", ep.EmployeeID); err != nil {
			return err
		}
		if err := mustExist(tx, &models.Permission{}, "permission "+ep.PermissionID+" not found", "permission_id = ?", ep.PermissionID); err != nil {
			return err
		}
		return storageErr(tx.Create(ep).Error, "employee permission")
	})
}

func (r *Repo) ListEmployeePermissions(ctx context.Context, employeeID uint) ([]models.EmployeePermission, error) {
	tx := r.DB.WithContext(ctx).Preload("Permission").Order("emp_perm_id")
	if employeeID != 0 {
		tx = tx.Where("employee_id = ?", employeeID)
	}
	var out []models.EmployeePermission
	if err := tx.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list employee permissions: %w", err)
	}
	return out, nil
}

func (r *Repo) HasPermission(ctx context.Context, employeeID uint, name string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Table(models.EmployeePermissionTable+" ep").
		Joins("JOIN "+models.PermissionTable+" p ON p.permission_id = ep.permission_id").
		Where("ep.employee_id = ? AND p.permission = ?", employeeID, name).
		Count(&n).Error
	return n > 0, err
}
