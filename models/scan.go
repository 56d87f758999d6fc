// models/scan.go
package models

import "time"

const (
	ItemScanTable      = "item_scans"
	ItemCountScanTable = "item_count_scans"
	IdleScanTable      = "idle_scans"
)

// Scan 三种扫码记录共用：同一物品同一天只能扫一次
type Scan interface {
	ScanKey() (categoryID uint, itemID string, day Date)
}

type ItemScan struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CategoryID  uint      `gorm:"column:category_id;not null" json:"category_id"`
	ItemID      string    `gorm:"column:item_id;size:20;not null;uniqueIndex:item_scans_item_day,priority:1" json:"item_id"`
	ScannedDate Date      `gorm:"column:scanned_date;not null;uniqueIndex:item_scans_item_day,priority:2" json:"scanned_date"`
	Branch      string    `gorm:"size:60;index" json:"branch"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ItemCountScan struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CategoryID    uint      `gorm:"column:category_id;not null" json:"category_id"`
	ItemID        string    `gorm:"column:item_id;size:20;not null;uniqueIndex:item_count_scans_item_day,priority:1" json:"item_id"`
	ScannedDate   Date      `gorm:"column:scanned_date;not null;uniqueIndex:item_count_scans_item_day,priority:2" json:"scanned_date"`
	Branch        string    `gorm:"size:60;index" json:"branch"`
	CurrentBranch string    `gorm:"column:current_branch;size:60" json:"current_branch"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type IdleScan struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CategoryID    uint      `gorm:"column:category_id;not null;index" json:"category_id"`
	ItemID        string    `gorm:"column:item_id;size:20;not null;uniqueIndex:idle_scans_item_day,priority:1" json:"item_id"`
	ScannedDate   Date      `gorm:"column:scanned_date;not null;uniqueIndex:idle_scans_item_day,priority:2" json:"scanned_date"`
	Branch        string    `gorm:"size:60;index" json:"branch"`
	CurrentBranch string    `gorm:"column:current_branch;size:60" json:"current_branch"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (s *ItemScan) ScanKey() (uint, string, Date)      { return s.CategoryID, s.ItemID, s.ScannedDate }
func (s *ItemCountScan) ScanKey() (uint, string, Date) { return s.CategoryID, s.ItemID, s.ScannedDate }
func (s *IdleScan) ScanKey() (uint, string, Date)      { return s.CategoryID, s.ItemID, s.ScannedDate }

func (ItemScan) TableName() string      { return ItemScanTable }
func (ItemCountScan) TableName() string { return ItemCountScanTable }
func (IdleScan) TableName() string      { return IdleScanTable }
