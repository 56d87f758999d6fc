// models/rent_machine.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RentMachineTable           = "rent_machines"
	RentMachineLifeTable       = "rent_machine_lives"
	RentMachineAllocationTable = "rent_machine_allocations"
	RentMachineReturnTable     = "rent_machine_returns"
	POMachineRenewalTable      = "po_machine_renewals"
)

type RentMachine struct {
	RentItemID    string        `gorm:"column:rent_item_id;primaryKey;size:20" json:"rent_item_id"`
	SerialNo      string        `gorm:"column:serial_no;size:120;uniqueIndex;not null" json:"serial_no"`
	Name          string        `gorm:"size:200;not null" json:"name"`
	Description   string        `gorm:"size:500" json:"description"`
	RentedBy      string        `gorm:"column:rented_by;size:60;index" json:"rented_by"` // 当前租用分厂
	BoxNo         string        `gorm:"column:box_no;size:60" json:"box_no"`
	ModelNo       string        `gorm:"column:model_no;size:120" json:"model_no"`
	MotorNo       string        `gorm:"column:motor_no;size:120" json:"motor_no"`
	CatID         uint          `gorm:"column:cat_id;not null;index" json:"cat_id"`
	Category      *Category     `gorm:"foreignKey:CatID;references:CatID" json:"category,omitempty"`
	SupID         uint          `gorm:"column:sup_id;not null" json:"sup_id"`
	Supplier      *Supplier     `gorm:"foreignKey:SupID;references:SupplierID" json:"supplier,omitempty"`
	Brand         string        `gorm:"size:120" json:"brand"`
	Condition     string        `gorm:"size:60" json:"condition"`
	MachineStatus MachineStatus `gorm:"column:machine_status;size:40;not null;default:'Available To Grn';index" json:"machine_status"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// RentMachineLife 一台机器在某张 PO / CPO 行下的租期
type RentMachineLife struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	RentItemID  string       `gorm:"column:rent_item_id;size:20;not null;index" json:"rent_item_id"`
	RentMachine *RentMachine `gorm:"foreignKey:RentItemID;references:RentItemID" json:"rent_machine,omitempty"`
	POID        string       `gorm:"column:po_id;size:30;not null;index" json:"po_id"`
	CPOID       uint         `gorm:"column:cpo_id;not null" json:"cpo_id"`
	Branch      string       `gorm:"size:60" json:"branch"`
	GRNID       *uint        `gorm:"column:grn_id" json:"grn_id"`
	FromDate    Date         `gorm:"column:from_date;not null" json:"from_date"`
	ToDate      Date         `gorm:"column:to_date;not null;index" json:"to_date"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// ExpiredUnreturned: the window ended before today and the machine is still out.
func (l RentMachineLife) ExpiredUnreturned(status MachineStatus, today Date) bool {
	return l.ToDate.Before(today) && status != MachineReturned
}

type RentMachineAllocation struct {
	AllocationID uint             `gorm:"column:allocation_id;primaryKey" json:"allocation_id"`
	RentItemID   string           `gorm:"column:rent_item_id;size:20;not null;index" json:"rent_item_id"`
	RentMachine  *RentMachine     `gorm:"foreignKey:RentItemID;references:RentItemID" json:"rent_machine,omitempty"`
	StyleNo      string           `gorm:"column:style_no;size:60" json:"style_no"`
	FromDate     Date             `gorm:"column:from_date;not null" json:"from_date"`
	ToDate       *Date            `gorm:"column:to_date" json:"to_date"`
	Status       AllocationStatus `gorm:"size:20;not null;default:'Active'" json:"status"`
	PONo         string           `gorm:"column:po_no;size:30" json:"po_no"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

type RentMachineReturn struct {
	ReturnID    uint         `gorm:"column:return_id;primaryKey" json:"return_id"`
	RentItemID  string       `gorm:"column:rent_item_id;size:20;not null;index" json:"rent_item_id"`
	RentMachine *RentMachine `gorm:"foreignKey:RentItemID;references:RentItemID" json:"rent_machine,omitempty"`
	ReturnDate  Date         `gorm:"column:return_date;not null" json:"return_date"`
	Additional1 string       `gorm:"column:additional1;size:255" json:"Additional1"`
	Additional2 string       `gorm:"column:additional2;size:255" json:"Additional2"`
	CreatedAt   time.Time    `json:"createdAt"`
}

type POMachineRenewal struct {
	MRID       uint            `gorm:"column:mr_id;primaryKey" json:"mr_id"`
	POID       string          `gorm:"column:po_id;size:30;not null;uniqueIndex:po_renewal_uniq,priority:1" json:"po_id"`
	RentItemID string          `gorm:"column:rent_item_id;size:20;not null;uniqueIndex:po_renewal_uniq,priority:2" json:"rent_item_id"`
	FromDate   Date            `gorm:"column:from_date;not null;uniqueIndex:po_renewal_uniq,priority:3" json:"from_date"`
	ToDate     Date            `gorm:"column:to_date;not null;uniqueIndex:po_renewal_uniq,priority:4" json:"to_date"`
	Qty        int             `gorm:"not null;default:1" json:"qty"`
	PerDayCost decimal.Decimal `gorm:"column:perday_cost;type:numeric(12,2);not null" json:"perday_cost"`
	DPercent   decimal.Decimal `gorm:"column:d_percent;type:numeric(5,2);not null;default:0" json:"d_percent"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func (RentMachine) TableName() string           { return RentMachineTable }
func (RentMachineLife) TableName() string       { return RentMachineLifeTable }
func (RentMachineAllocation) TableName() string { return RentMachineAllocationTable }
func (RentMachineReturn) TableName() string     { return RentMachineReturnTable }
func (POMachineRenewal) TableName() string      { return POMachineRenewalTable }
