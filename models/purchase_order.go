// models/purchase_order.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PurchaseOrderTable         = "purchase_orders"
	CategoryPurchaseOrderTable = "category_purchase_orders"
	GRNTable                   = "grns"
	GRNRentMachineTable        = "grn_rent_machines"
	POApprovalTable            = "po_approvals"
	POPrintPoolTable           = "po_print_pools"
)

type PurchaseOrder struct {
	POID        string    `gorm:"column:po_id;primaryKey;size:30" json:"po_id"`
	Date        Date      `gorm:"column:date" json:"date"`
	InvoiceTo   string    `gorm:"column:invoice_to;size:255" json:"invoice_to"`
	DeliverTo   string    `gorm:"column:deliver_to;size:255" json:"deliver_to"`
	Attention   string    `gorm:"size:255" json:"attention"`
	PaymentMode string    `gorm:"column:payment_mode;size:60" json:"payment_mode"`
	PaymentTerm string    `gorm:"column:payment_term;size:120" json:"payment_term"`
	Instruction string    `gorm:"size:1000" json:"instruction"`
	PRNos       string    `gorm:"column:pr_nos;size:255" json:"pr_nos"`
	CreatedBy   uint      `gorm:"column:created_by;not null" json:"created_by"`
	Creator     *Employee `gorm:"foreignKey:CreatedBy;references:EmployeeID" json:"creator,omitempty"`
	SupplierID  uint      `gorm:"column:supplier_id;not null;index" json:"supplier_id"`
	Supplier    *Supplier `gorm:"foreignKey:SupplierID;references:SupplierID" json:"supplier,omitempty"`
	Status      POStatus  `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	Branch      string    `gorm:"size:60;not null;index" json:"branch"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategoryPurchaseOrder PO 行：(po, 类别, 起止日期) 唯一
type CategoryPurchaseOrder struct {
	CPOID      uint            `gorm:"column:cpo_id;primaryKey" json:"cpo_id"`
	POID       string          `gorm:"column:po_id;size:30;not null;uniqueIndex:cpo_line_uniq,priority:1" json:"po_id"`
	CatID      uint            `gorm:"column:cat_id;not null;uniqueIndex:cpo_line_uniq,priority:2" json:"cat_id"`
	Category   *Category       `gorm:"foreignKey:CatID;references:CatID" json:"category,omitempty"`
	Qty        int             `gorm:"not null" json:"qty"`
	PerDayCost decimal.Decimal `gorm:"column:perday_cost;type:numeric(12,2);not null" json:"perday_cost"`
	DPercent   decimal.Decimal `gorm:"column:d_percent;type:numeric(5,2);not null;default:0" json:"d_percent"`
	FromDate   Date            `gorm:"column:from_date;not null;uniqueIndex:cpo_line_uniq,priority:3" json:"from_date"`
	ToDate     Date            `gorm:"column:to_date;not null;uniqueIndex:cpo_line_uniq,priority:4" json:"to_date"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

var hundred = decimal.NewFromInt(100)

// LineTotal = qty * per-day cost * days * (1 - discount%).
func (c CategoryPurchaseOrder) LineTotal() decimal.Decimal {
	return rentalTotal(c.Qty, c.PerDayCost, c.DPercent, c.FromDate, c.ToDate)
}

func (r POMachineRenewal) LineTotal() decimal.Decimal {
	return rentalTotal(r.Qty, r.PerDayCost, r.DPercent, r.FromDate, r.ToDate)
}

func rentalTotal(qty int, perDay, discount decimal.Decimal, from, to Date) decimal.Decimal {
	days := from.DaysInclusive(to)
	if qty <= 0 || days == 0 {
		return decimal.Zero
	}
	gross := perDay.Mul(decimal.NewFromInt(int64(qty))).Mul(decimal.NewFromInt(int64(days)))
	net := gross.Mul(hundred.Sub(discount)).Div(hundred)
	return net.Round(2)
}

type GRN struct {
	GRNID         uint             `gorm:"column:grn_id;primaryKey" json:"grn_id"`
	POID          string           `gorm:"column:po_id;size:30;not null;index" json:"po_id"`
	PurchaseOrder *PurchaseOrder   `gorm:"foreignKey:POID;references:POID" json:"purchase_order,omitempty"`
	GRNDate       Date             `gorm:"column:grn_date;not null" json:"grn_date"`
	CreatedBy     uint             `gorm:"column:created_by" json:"created_by"`
	Additional    string           `gorm:"size:255" json:"additional"`
	RentMachines  []GRNRentMachine `gorm:"foreignKey:GRNID;references:GRNID" json:"rent_machines,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// GRNRentMachine 收货明细：(cpo 行, 机器) 唯一，防止重复收货
type GRNRentMachine struct {
	GRMID       uint                   `gorm:"column:g_rm_id;primaryKey" json:"g_rm_id"`
	GRNID       uint                   `gorm:"column:grn_id;not null;index" json:"grn_id"`
	CPOID       uint                   `gorm:"column:cpo_id;not null;uniqueIndex:grn_rm_cpo_machine,priority:1" json:"cpo_id"`
	CPO         *CategoryPurchaseOrder `gorm:"foreignKey:CPOID;references:CPOID" json:"cpo,omitempty"`
	RentItemID  string                 `gorm:"column:rent_item_id;size:20;not null;uniqueIndex:grn_rm_cpo_machine,priority:2" json:"rent_item_id"`
	RentMachine *RentMachine           `gorm:"foreignKey:RentItemID;references:RentItemID" json:"rent_machine,omitempty"`
	Additional  string                 `gorm:"size:255" json:"additional"`
	CreatedAt   time.Time              `json:"createdAt"`
}

type POApproval struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	PONo          string     `gorm:"column:po_no;size:30;uniqueIndex;not null" json:"po_no"`
	Approval1     bool       `gorm:"column:approval1;not null;default:false" json:"approval1"`
	Approval1By   *uint      `gorm:"column:approval1_by" json:"approval1_by"`
	Approved1Date *time.Time `gorm:"column:approved1_date" json:"approved1_date"`
	Approval2     bool       `gorm:"column:approval2;not null;default:false" json:"approval2"`
	Approval2By   *uint      `gorm:"column:approval2_by" json:"approval2_by"`
	Approved2Date *time.Time `gorm:"column:approved2_date" json:"approved2_date"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// FullyApproved is informational only, nothing acts on it.
func (a POApproval) FullyApproved() bool { return a.Approval1 && a.Approval2 }

type POPrintPool struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	POID          string     `gorm:"column:po_id;size:30;uniqueIndex;not null" json:"po_id"`
	FirstPrint    bool       `gorm:"column:first_print;not null;default:true" json:"first_print"`
	PrintCount    int        `gorm:"column:print_count;not null;default:0" json:"print_count"`
	PrintedBy     *uint      `gorm:"column:printed_by" json:"printed_by"`
	LastPrintDate *time.Time `gorm:"column:last_print_date" json:"last_print_date"`
	LastPrintRef  int64      `gorm:"column:last_print_ref" json:"last_print_ref,string"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (PurchaseOrder) TableName() string         { return PurchaseOrderTable }
func (CategoryPurchaseOrder) TableName() string { return CategoryPurchaseOrderTable }
func (GRN) TableName() string                   { return GRNTable }
func (GRNRentMachine) TableName() string        { return GRNRentMachineTable }
func (POApproval) TableName() string            { return POApprovalTable }
func (POPrintPool) TableName() string           { return POPrintPoolTable }
