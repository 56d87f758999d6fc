// models/it_asset.go
package models

import "time"

const (
	ITAssetTable         = "it_assets"
	AssetUserTable       = "asset_users"
	AssetAssignmentTable = "asset_assignments"
)

type ITAsset struct {
	AssetID      string      `gorm:"column:asset_id;primaryKey;size:20" json:"asset_id"`
	SerialNo     string      `gorm:"column:serial_no;size:120;uniqueIndex;not null" json:"serial_no"`
	Brand        string      `gorm:"size:120" json:"brand"`
	Name         string      `gorm:"size:200;not null" json:"name"`
	Processor    string      `gorm:"size:120" json:"processor"`
	OS           string      `gorm:"column:os;size:120" json:"os"`
	Storage      string      `gorm:"size:60" json:"storage"`
	RAM          string      `gorm:"column:ram;size:60" json:"ram"`
	VirusGuard   string      `gorm:"column:virus_guard;size:120" json:"virus_guard"`
	Condition    string      `gorm:"size:60" json:"condition"`
	Supplier     string      `gorm:"size:200" json:"supplier"`
	Description  string      `gorm:"size:500" json:"description"`
	ITCategoryID uint        `gorm:"column:it_category_id;not null;index" json:"it_category_id"`
	ITCategory   *ITCategory `gorm:"foreignKey:ITCategoryID;references:ITCatID" json:"it_category,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

type AssetUser struct {
	AssetUserID    uint      `gorm:"column:asset_user_id;primaryKey" json:"asset_user_id"`
	EPFNo          string    `gorm:"column:epf_no;size:40;uniqueIndex;not null" json:"epf_no"`
	FullName       string    `gorm:"size:200;not null" json:"full_name"`
	Branch         string    `gorm:"size:60;index" json:"branch"`
	Designation    string    `gorm:"size:120" json:"designation"`
	DateOfJoined   *Date     `gorm:"column:date_of_joined" json:"date_of_joined"`
	DateOfResigned *Date     `gorm:"column:date_of_resigned" json:"date_of_resigned"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type AssetAssignment struct {
	AssignmentID  uint       `gorm:"column:assignment_id;primaryKey" json:"assignment_id"`
	ITAssetID     string     `gorm:"column:it_asset_id;size:20;not null;index" json:"it_asset_id"`
	Asset         *ITAsset   `gorm:"foreignKey:ITAssetID;references:AssetID" json:"asset,omitempty"`
	AssetUserID   uint       `gorm:"column:asset_user_id;not null;index" json:"asset_user_id"`
	User          *AssetUser `gorm:"foreignKey:AssetUserID;references:AssetUserID" json:"user,omitempty"`
	AssignedDate  Date       `gorm:"column:assigned_date;not null" json:"assigned_date"`
	ReturnedDate  *Date      `gorm:"column:returned_date" json:"returned_date"`
	IsCurrentUser bool       `gorm:"column:is_current_user;not null;default:false" json:"is_current_user"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (ITAsset) TableName() string         { return ITAssetTable }
func (AssetUser) TableName() string       { return AssetUserTable }
func (AssetAssignment) TableName() string { return AssetAssignmentTable }
