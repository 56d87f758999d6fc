// models/item.go
package models

import "time"

const (
	ItemTable         = "items"
	ItemTransferTable = "item_transfers"
)

type Item struct {
	ItemCode    string    `gorm:"column:item_code;primaryKey;size:20" json:"item_code"`
	SerialNo    string    `gorm:"column:serial_no;size:120;uniqueIndex;not null" json:"serial_no"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	Branch      string    `gorm:"size:60;index;not null" json:"branch"` // 归属分厂，不随调拨改写
	BoxNo       string    `gorm:"column:box_no;size:60" json:"box_no"`
	ModelNo     string    `gorm:"column:model_no;size:120" json:"model_no"`
	MotorNo     string    `gorm:"column:motor_no;size:120" json:"motor_no"`
	CatID       uint      `gorm:"column:cat_id;index;not null" json:"cat_id"`
	Category    *Category `gorm:"foreignKey:CatID;references:CatID" json:"category,omitempty"`
	Supplier    string    `gorm:"size:200" json:"supplier"`
	Brand       string    `gorm:"size:120" json:"brand"`
	Condition   string    `gorm:"size:60" json:"condition"`
	ImportDate  *Date     `gorm:"column:import_date" json:"import_date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ItemTransfer struct {
	ItemTransferID uint           `gorm:"column:item_transfer_id;primaryKey" json:"item_transfer_id"`
	ItemID         string         `gorm:"column:item_id;size:20;not null;index" json:"item_id"`
	Item           *Item          `gorm:"foreignKey:ItemID;references:ItemCode" json:"item,omitempty"`
	OwnerBranch    string         `gorm:"size:60;not null;index" json:"owner_branch"`
	PrevUsedBranch string         `gorm:"size:60;index" json:"prev_used_branch"`
	SendingBranch  string         `gorm:"size:60;not null;index" json:"sending_branch"`
	EmployeeID     uint           `gorm:"not null" json:"employee_id"`
	Employee       *Employee      `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
	Status         TransferStatus `gorm:"size:20;not null;default:'Pending'" json:"status"`
	AcceptBy       string         `gorm:"size:120" json:"accept_by"`
	ArrivedDate    *time.Time     `gorm:"index" json:"arrived_date"`
	CreatedAt      time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func (Item) TableName() string         { return ItemTable }
func (ItemTransfer) TableName() string { return ItemTransferTable }
