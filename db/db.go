package db

import (
	"fmt"
	"strings"

	"Gin_postgres_redis_machine_tracker/idgen"
	"Gin_postgres_redis_machine_tracker/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN 由各个 DB_* 环境变量拼出
func DSN(host, user, password, name, port, sslmode string) string {
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, name, port, sslmode,
	)
}

// ConnectDB opens Postgres and migrates the schema.
func ConnectDB(dsn string, level logger.LogLevel) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return conn, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&idgen.Sequence{},
		&models.Branch{}, &models.Category{}, &models.ITCategory{}, &models.Supplier{},
		&models.Employee{}, &models.Permission{}, &models.EmployeePermission{},
		&models.Item{}, &models.ItemTransfer{},
		&models.ItemScan{}, &models.ItemCountScan{}, &models.IdleScan{},
		&models.ITAsset{}, &models.AssetUser{}, &models.AssetAssignment{},
		&models.RentMachine{}, &models.PurchaseOrder{}, &models.CategoryPurchaseOrder{},
		&models.GRN{}, &models.GRNRentMachine{}, &models.RentMachineLife{},
		&models.RentMachineAllocation{}, &models.RentMachineReturn{}, &models.POMachineRenewal{},
		&models.POApproval{}, &models.POPrintPool{}, &models.AuditLog{},
	); err != nil {
		return err
	}

	stmts := []string{
		// 同一物品最多一条 Pending 调拨
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %[1]s_one_pending_per_item
		  ON %[1]s (item_id) WHERE status = '%[2]s'`, models.ItemTransferTable, models.TransferPending),
		// 当前位置查询：最近一次 Accepted
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_accepted_item_arrived_desc
		  ON %[1]s (item_id, arrived_date DESC) WHERE status = '%[2]s'`, models.ItemTransferTable, models.TransferAccepted),
		// 一台资产同一时间只有一个当前使用人
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %[1]s_one_current_per_asset
		  ON %[1]s (it_asset_id) WHERE is_current_user`, models.AssetAssignmentTable),
		// 一台租赁机同一时间只有一条 Active 分配
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %[1]s_one_active_per_machine
		  ON %[1]s (rent_item_id) WHERE status = '%[2]s'`, models.RentMachineAllocationTable, models.AllocationActive),
		machineStatusCheck(),
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			return err
		}
	}
	return nil
}

func machineStatusCheck() string {
	vals := make([]string, len(models.MachineStatuses))
	for i, s := range models.MachineStatuses {
		vals[i] = "'" + string(s) + "'"
	}
	return fmt.Sprintf(`DO $$ BEGIN
	  ALTER TABLE %[1]s ADD CONSTRAINT %[1]s_machine_status_chk CHECK (machine_status IN (%[2]s));
	EXCEPTION WHEN duplicate_object THEN NULL;
	END $$`, models.RentMachineTable, strings.Join(vals, ", "))
}
