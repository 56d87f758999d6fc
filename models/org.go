// models/org.go
package models

import "time"

const (
	BranchTable             = "branches"
	CategoryTable           = "categories"
	ITCategoryTable         = "it_categories"
	SupplierTable           = "suppliers"
	EmployeeTable           = "employees"
	PermissionTable         = "permissions"
	EmployeePermissionTable = "employee_permissions"
)

type Branch struct {
	BranchID      uint      `gorm:"column:branch_id;primaryKey" json:"branch_id"`
	BranchName    string    `gorm:"size:60;uniqueIndex;not null" json:"branch_name"`
	Location      string    `gorm:"size:200" json:"location"`
	ContactNumber string    `gorm:"size:20" json:"contact_number"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Category struct {
	CatID     uint      `gorm:"column:cat_id;primaryKey" json:"cat_id"`
	CatName   string    `gorm:"size:120;uniqueIndex;not null" json:"cat_name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ITCategory struct {
	ITCatID   uint      `gorm:"column:it_cat_id;primaryKey" json:"it_cat_id"`
	Name      string    `gorm:"size:120;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Supplier struct {
	SupplierID uint      `gorm:"column:supplier_id;primaryKey" json:"supplier_id"`
	Name       string    `gorm:"size:200;not null" json:"name"`
	Address    string    `gorm:"size:255" json:"address"`
	Contact    string    `gorm:"size:10" json:"contact"`
	VatNo      string    `gorm:"column:vatno;size:40" json:"vatno"`
	SVatNo     string    `gorm:"column:svatno;size:40" json:"svatno"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Employee struct {
	EmployeeID  uint       `gorm:"column:employee_id;primaryKey" json:"employee_id"`
	Name        string     `gorm:"size:200;not null" json:"name"`
	Email       string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Branch      string     `gorm:"size:60" json:"branch"`
	Address     string     `gorm:"size:255" json:"address"`
	Contact     string     `gorm:"size:20" json:"contact"`
	Designation string     `gorm:"size:120" json:"designation"`
	Password    string     `gorm:"size:100;not null" json:"-"` // bcrypt hash
	LastSeenAt  *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Permission struct {
	PermissionID string    `gorm:"column:permission_id;primaryKey;size:10" json:"permission_id"`
	Name         string    `gorm:"column:permission;size:120;uniqueIndex;not null" json:"permission"`
	CreatedAt    time.Time `json:"createdAt"`
}

type EmployeePermission struct {
	EmpPermID    string      `gorm:"column:emp_perm_id;primaryKey;size:10" json:"emp_perm_id"`
	EmployeeID   uint        `gorm:"not null;uniqueIndex:emp_perm_pair,priority:1" json:"employee_id"`
	PermissionID string      `gorm:"size:10;not null;uniqueIndex:emp_perm_pair,priority:2" json:"permission_id"`
	Employee     *Employee   `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
	Permission   *Permission `gorm:"foreignKey:PermissionID;references:PermissionID" json:"permission,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
}

func (Branch) TableName() string             { return BranchTable }
func (Category) TableName() string           { return CategoryTable }
func (ITCategory) TableName() string         { return ITCategoryTable }
func (Supplier) TableName() string           { return SupplierTable }
func (Employee) TableName() string           { return EmployeeTable }
func (Permission) TableName() string         { return PermissionTable }
func (EmployeePermission) TableName() string { return EmployeePermissionTable }
