// models/hooks.go
package models

import (
	"Gin_postgres_redis_machine_tracker/idgen"

	"gorm.io/gorm"
)

// 编号只在调用方没给时生成；与 INSERT 在同一事务里

func (it *Item) BeforeCreate(tx *gorm.DB) error {
	if it.ItemCode != "" {
		return nil
	}
	prefix, err := idgen.ItemPrefix(it.Branch)
	if err != nil {
		return err
	}
	code, err := idgen.Next(tx, idgen.Spec{Table: ItemTable, Column: "item_code", Prefix: prefix, Width: idgen.ItemWidth})
	if err != nil {
		return err
	}
	it.ItemCode = code
	return nil
}

func (a *ITAsset) BeforeCreate(tx *gorm.DB) error {
	if a.AssetID != "" {
		return nil
	}
	code, err := idgen.Next(tx, idgen.Spec{Table: ITAssetTable, Column: "asset_id", Prefix: idgen.ITAssetPrefix, Width: idgen.ITAssetWidth})
	if err != nil {
		return err
	}
	a.AssetID = code
	return nil
}

func (m *RentMachine) BeforeCreate(tx *gorm.DB) error {
	if m.MachineStatus == "" {
		m.MachineStatus = MachineAvailableToGrn
	}
	if m.RentItemID != "" {
		return nil
	}
	code, err := idgen.Next(tx, idgen.Spec{Table: RentMachineTable, Column: "rent_item_id", Prefix: idgen.RentMachinePrefix, Width: idgen.RentMachineWidth})
	if err != nil {
		return err
	}
	m.RentItemID = code
	return nil
}

func (po *PurchaseOrder) BeforeCreate(tx *gorm.DB) error {
	if po.Status == "" {
		po.Status = POPending
	}
	if po.POID != "" {
		return nil
	}
	prefix := idgen.PurchaseOrderPrefix(idgen.PurchaseOrderYear(po.Date.Time), po.Branch)
	code, err := idgen.Next(tx, idgen.Spec{Table: PurchaseOrderTable, Column: "po_id", Prefix: prefix, Width: idgen.PurchaseOrderWidth})
	if err != nil {
		return err
	}
	po.POID = code
	return nil
}

func (p *Permission) BeforeCreate(tx *gorm.DB) error {
	if p.PermissionID != "" {
		return nil
	}
	code, err := idgen.Next(tx, idgen.Spec{Table: PermissionTable, Column: "permission_id", Prefix: idgen.PermissionPrefix, Width: idgen.PermissionWidth})
	if err != nil {
		return err
	}
	p.PermissionID = code
	return nil
}

func (ep *EmployeePermission) BeforeCreate(tx *gorm.DB) error {
	if ep.EmpPermID != "" {
		return nil
	}
	code, err := idgen.Next(tx, idgen.Spec{Table: EmployeePermissionTable, Column: "emp_perm_id", Prefix: idgen.EmployeePermissionPrefix, Width: idgen.EmployeePermissionWidth})
	if err != nil {
		return err
	}
	ep.EmpPermID = code
	return nil
}

func (t *ItemTransfer) BeforeCreate(tx *gorm.DB) error {
	if t.Status == "" {
		t.Status = TransferPending
	}
	return nil
}
