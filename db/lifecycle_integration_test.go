package db_test

import (
	"errors"
	"testing"

	"Gin_postgres_redis_machine_tracker/db"
	"Gin_postgres_redis_machine_tracker/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestApprovalGates(t *testing.T) {
	f := setup(t)
	po := f.po(t)
	eid := f.employee.EmployeeID

	if _, err := f.repo.SetApproval(f.ctx, 1, po.POID, eid); !db.IsNotFound(err) {
		t.Fatalf("approve without approval row: %v", err)
	}
	if _, err := f.repo.CreateApproval(f.ctx, po.POID); err != nil {
		t.Fatalf("CreateApproval: %v", err)
	}
	if _, err := f.repo.CreateApproval(f.ctx, po.POID); !db.IsConflict(err) {
		t.Fatalf("second approval row: %v", err)
	}

	a, err := f.repo.SetApproval(f.ctx, 2, po.POID, eid)
	if err != nil {
		t.Fatalf("gate 2 first: %v", err)
	}
	if !a.Approval2 || a.Approval1 || a.FullyApproved() {
		t.Fatalf("after gate 2 = %+v", a)
	}
	first := *a.Approved2Date

	if _, err := f.repo.SetApproval(f.ctx, 2, po.POID, 9999); !db.IsNotFound(err) {
		t.Fatalf("unknown approver: %v", err)
	}
	if _, err := f.repo.SetApproval(f.ctx, 3, po.POID, eid); db.KindOf(err) != db.KindValidation {
		t.Fatalf("unknown gate: %v", err)
	}

	other := &models.Employee{Name: "Manager", Email: "manager@example.com", Password: "x"}
	if err := f.repo.CreateEmployee(f.ctx, other); err != nil {
		t.Fatal(err)
	}
	a, err = f.repo.SetApproval(f.ctx, 2, po.POID, other.EmployeeID)
	if err != nil {
		t.Fatalf("gate 2 again: %v", err)
	}
	if a.Approval2By == nil || *a.Approval2By != other.EmployeeID {
		t.Fatalf("approver not overwritten: %+v", a)
	}
	if a.Approved2Date.Before(first) {
		t.Fatalf("approval date went backwards: %v < %v", a.Approved2Date, first)
	}

	a, err = f.repo.SetApproval(f.ctx, 1, po.POID, eid)
	if err != nil {
		t.Fatal(err)
	}
	if !a.FullyApproved() {
		t.Fatalf("both gates set but not fully approved: %+v", a)
	}

	got, err := f.repo.GetPurchaseOrder(f.ctx, po.POID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.POPending {
		t.Fatalf("approvals changed PO status to %s", got.Status)
	}
}

func TestCPOUpdateChecksOtherRows(t *testing.T) {
	f := setup(t)
	po := f.po(t)
	march := f.cpo(t, po.POID, "2025-03-01", "2025-03-31")
	april := f.cpo(t, po.POID, "2025-04-01", "2025-04-30")
	for _, c := range []*models.CategoryPurchaseOrder{&march, &april} {
		if err := f.repo.CreateCPO(f.ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	same := f.cpo(t, po.POID, "2025-03-01", "2025-03-31")
	same.Qty = 5
	if err := f.repo.UpdateCPO(f.ctx, march.CPOID, &same); err != nil {
		t.Fatalf("re-save with own tuple: %v", err)
	}

	onto := f.cpo(t, po.POID, "2025-04-01", "2025-04-30")
	if err := f.repo.UpdateCPO(f.ctx, march.CPOID, &onto); !db.IsConflict(err) {
		t.Fatalf("update onto another line's tuple: %v", err)
	}

	check := func(wantLines int) {
		t.Helper()
		lines, err := f.repo.ListCPO(f.ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(lines) != wantLines {
			t.Fatalf("lines = %d, want %d", len(lines), wantLines)
		}
		for _, l := range lines {
			switch l.CPOID {
			case march.CPOID:
				if l.FromDate.String() != "2025-03-01" || l.Qty != 5 {
					t.Fatalf("march line changed: %+v", l)
				}
			case april.CPOID:
				if l.FromDate.String() != "2025-04-01" || l.Qty != 1 {
					t.Fatalf("april line changed: %+v", l)
				}
			}
		}
	}
	check(2)

	moved := f.cpo(t, po.POID, "2025-04-01", "2025-04-30")
	moved.CPOID = march.CPOID
	batch := []models.CategoryPurchaseOrder{
		f.cpo(t, po.POID, "2025-05-01", "2025-05-31"),
		moved,
	}
	if _, err := f.repo.BulkUpsertCPO(f.ctx, batch); !db.IsConflict(err) {
		t.Fatalf("mixed batch with a colliding update: %v", err)
	}
	check(2)

	keep := f.cpo(t, po.POID, "2025-03-01", "2025-03-31")
	keep.CPOID = march.CPOID
	keep.Qty = 5
	res, err := f.repo.BulkUpsertCPO(f.ctx, []models.CategoryPurchaseOrder{
		keep,
		f.cpo(t, po.POID, "2025-06-01", "2025-06-30"),
	})
	if err != nil {
		t.Fatalf("BulkUpsertCPO: %v", err)
	}
	if res.Created != 1 || res.Updated != 1 {
		t.Fatalf("created/updated = %d/%d", res.Created, res.Updated)
	}
	check(3)
}

func (f *fixture) setStatus(t *testing.T, id string, s models.MachineStatus) {
	t.Helper()
	if err := f.repo.DB.Model(&models.RentMachine{}).Where("rent_item_id = ?", id).
		Update("machine_status", s).Error; err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) status(t *testing.T, id string) models.MachineStatus {
	t.Helper()
	m, err := f.repo.GetRentMachine(f.ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	return m.MachineStatus
}

func TestAllocationLifecycle(t *testing.T) {
	f := setup(t)
	m1 := f.machine(t, "AL-1")
	m2 := f.machine(t, "AL-2")
	alloc := func(id string) *models.RentMachineAllocation {
		return &models.RentMachineAllocation{RentItemID: id, StyleNo: "ST-1", FromDate: date(t, "2025-03-05")}
	}

	if err := f.repo.AllocateMachine(f.ctx, alloc(m1.RentItemID)); !db.IsConflict(err) {
		t.Fatalf("allocate before receipt: %v", err)
	}

	f.setStatus(t, m1.RentItemID, models.MachineAvailableToAllocation)
	f.setStatus(t, m2.RentItemID, models.MachineAvailableToAllocation)
	if err := f.repo.AllocateMachine(f.ctx, alloc(m1.RentItemID)); err != nil {
		t.Fatalf("AllocateMachine: %v", err)
	}
	if s := f.status(t, m1.RentItemID); s != models.MachineInAllocation {
		t.Fatalf("status after allocate = %s", s)
	}
	if err := f.repo.AllocateMachine(f.ctx, alloc(m1.RentItemID)); !db.IsConflict(err) {
		t.Fatalf("second allocate: %v", err)
	}

	dup := alloc(m1.RentItemID)
	dup.Status = models.AllocationActive
	if err := f.repo.DB.Create(dup).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("second active allocation row: %v", err)
	}

	m, err := f.repo.ReleaseAllocation(f.ctx, m1.RentItemID, date(t, "2025-03-20"), true)
	if err != nil {
		t.Fatalf("ReleaseAllocation: %v", err)
	}
	if m.MachineStatus != models.MachinePendingTransfer {
		t.Fatalf("release to transfer = %s", m.MachineStatus)
	}
	active, err := f.repo.ListAllocations(f.ctx, m1.RentItemID, models.AllocationActive)
	if err != nil || len(active) != 0 {
		t.Fatalf("active allocations after release = %v, %v", active, err)
	}
	if _, err := f.repo.ReleaseAllocation(f.ctx, m1.RentItemID, models.Date{}, false); !db.IsConflict(err) {
		t.Fatalf("release twice: %v", err)
	}

	if err := f.repo.AllocateMachine(f.ctx, alloc(m2.RentItemID)); err != nil {
		t.Fatal(err)
	}
	m, err = f.repo.ReleaseAllocation(f.ctx, m2.RentItemID, models.Date{}, false)
	if err != nil {
		t.Fatal(err)
	}
	if m.MachineStatus != models.MachineAvailableToAllocation {
		t.Fatalf("plain release = %s", m.MachineStatus)
	}
}

func TestReturnAndRenew(t *testing.T) {
	f := setup(t)
	po := f.po(t)
	m := f.machine(t, "RT-1")

	ret := func() *models.RentMachineReturn {
		return &models.RentMachineReturn{RentItemID: m.RentItemID, ReturnDate: date(t, "2025-04-01")}
	}
	if err := f.repo.ReturnMachine(f.ctx, ret()); !db.IsConflict(err) {
		t.Fatalf("return before receipt: %v", err)
	}
	f.setStatus(t, m.RentItemID, models.MachineInAllocation)
	if err := f.repo.ReturnMachine(f.ctx, ret()); err != nil {
		t.Fatalf("ReturnMachine: %v", err)
	}
	if s := f.status(t, m.RentItemID); s != models.MachineReturned {
		t.Fatalf("status after return = %s", s)
	}
	if err := f.repo.ReturnMachine(f.ctx, ret()); !db.IsConflict(err) {
		t.Fatalf("return twice: %v", err)
	}

	renewal := func() *models.POMachineRenewal {
		return &models.POMachineRenewal{
			POID: po.POID, RentItemID: m.RentItemID, Qty: 1,
			PerDayCost: decimal.NewFromInt(400), DPercent: decimal.Zero,
			FromDate: date(t, "2025-04-01"), ToDate: date(t, "2025-04-30"),
		}
	}
	if err := f.repo.RenewMachine(f.ctx, renewal()); err != nil {
		t.Fatalf("RenewMachine: %v", err)
	}
	if s := f.status(t, m.RentItemID); s != models.MachineInPendingRenewPO {
		t.Fatalf("status after renew = %s", s)
	}
	if err := f.repo.RenewMachine(f.ctx, renewal()); !db.IsConflict(err) {
		t.Fatalf("duplicate renewal: %v", err)
	}
	rs, err := f.repo.ListRenewals(f.ctx, po.POID)
	if err != nil || len(rs) != 1 {
		t.Fatalf("renewals = %v, %v", rs, err)
	}
}

func TestRecordPrintCounts(t *testing.T) {
	f := setup(t)
	po := f.po(t)
	by := f.employee.EmployeeID

	pool, created, err := f.repo.RecordPrint(f.ctx, po.POID, &by, 101)
	if err != nil {
		t.Fatalf("first print: %v", err)
	}
	if !created || pool.PrintCount != 1 || !pool.FirstPrint {
		t.Fatalf("first print = %+v (created %v)", pool, created)
	}

	pool, created, err = f.repo.RecordPrint(f.ctx, po.POID, &by, 102)
	if err != nil {
		t.Fatalf("second print: %v", err)
	}
	if created || pool.PrintCount != 2 || pool.FirstPrint || pool.LastPrintRef != 102 {
		t.Fatalf("second print = %+v (created %v)", pool, created)
	}

	if _, _, err := f.repo.RecordPrint(f.ctx, "NO-SUCH-PO", &by, 103); !db.IsNotFound(err) {
		t.Fatalf("unknown PO: %v", err)
	}
}

func TestScanOncePerDay(t *testing.T) {
	f := setup(t)
	it := f.item(t, "SC-1", "Hettipola")
	scan := func(day string) *models.ItemScan {
		return &models.ItemScan{CategoryID: f.cat.CatID, ItemID: it.ItemCode, ScannedDate: date(t, day), Branch: "Hettipola"}
	}

	if err := f.repo.CreateScan(f.ctx, scan("2025-03-01")); err != nil {
		t.Fatalf("CreateScan: %v", err)
	}
	err := f.repo.CreateScan(f.ctx, scan("2025-03-01"))
	if !db.IsConflict(err) || err.Error() != "Already scanned" {
		t.Fatalf("same-day scan: %v", err)
	}
	if err := f.repo.CreateScan(f.ctx, scan("2025-03-02")); err != nil {
		t.Fatalf("next-day scan: %v", err)
	}
	count := &models.ItemCountScan{CategoryID: f.cat.CatID, ItemID: it.ItemCode, ScannedDate: date(t, "2025-03-01"), Branch: "Hettipola"}
	if err := f.repo.CreateScan(f.ctx, count); err != nil {
		t.Fatalf("other scan kind on the same day: %v", err)
	}
}

func TestBulkUpsertITAssetsSkipsOtherCategory(t *testing.T) {
	f := setup(t)
	laptops := &models.ITCategory{Name: "Laptop"}
	printers := &models.ITCategory{Name: "Printer"}
	for _, c := range []*models.ITCategory{laptops, printers} {
		if err := f.repo.CreateITCategory(f.ctx, c); err != nil {
			t.Fatal(err)
		}
	}
	stored := &models.ITAsset{SerialNo: "A-1", Name: "ThinkPad", ITCategoryID: laptops.ITCatID}
	if err := f.repo.CreateITAsset(f.ctx, stored); err != nil {
		t.Fatal(err)
	}

	res, err := f.repo.BulkUpsertITAssets(f.ctx, []models.ITAsset{
		{SerialNo: "A-1", Name: "ThinkPad T14", ITCategoryID: laptops.ITCatID},
		{SerialNo: "A-1", Name: "moved", ITCategoryID: printers.ITCatID},
		{SerialNo: "A-2", Name: "LaserJet", ITCategoryID: printers.ITCatID},
	})
	if err != nil {
		t.Fatalf("BulkUpsertITAssets: %v", err)
	}
	if res.Created != 1 || res.Updated != 1 || res.Skipped != 1 {
		t.Fatalf("created/updated/skipped = %d/%d/%d", res.Created, res.Updated, res.Skipped)
	}
	got, err := f.repo.GetITAsset(f.ctx, stored.AssetID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "ThinkPad T14" || got.ITCategoryID != laptops.ITCatID {
		t.Fatalf("stored asset = %+v", got)
	}
}

func TestBulkUpsertAssetUsersSkipsOtherPartition(t *testing.T) {
	f := setup(t)
	stored := &models.AssetUser{EPFNo: "E1", FullName: "Alice", Branch: "Hettipola", Designation: "Operator"}
	if err := f.repo.CreateAssetUser(f.ctx, stored); err != nil {
		t.Fatal(err)
	}

	res, err := f.repo.BulkUpsertAssetUsers(f.ctx, []models.AssetUser{
		{EPFNo: "E1", FullName: "Alice Perera", Branch: "Hettipola", Designation: "Operator"},
		{EPFNo: "E1", FullName: "other designation", Branch: "Hettipola", Designation: "Supervisor"},
		{EPFNo: "E1", FullName: "other branch", Branch: "Mathara", Designation: "Operator"},
		{EPFNo: "E2", FullName: "Bob", Branch: "Mathara", Designation: "Operator"},
	})
	if err != nil {
		t.Fatalf("BulkUpsertAssetUsers: %v", err)
	}
	if res.Created != 1 || res.Updated != 1 || res.Skipped != 2 {
		t.Fatalf("created/updated/skipped = %d/%d/%d", res.Created, res.Updated, res.Skipped)
	}
	users, err := f.repo.ListAssetUsers(f.ctx, "Hettipola")
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].FullName != "Alice Perera" || users[0].Designation != "Operator" {
		t.Fatalf("stored users = %+v", users)
	}
}

func TestUpdateItemImportDate(t *testing.T) {
	f := setup(t)
	it := f.item(t, "UD-1", "Hettipola")

	got, err := f.repo.UpdateItem(f.ctx, it.ItemCode, map[string]any{"import_date": "2025-02-10", "name": "renamed"})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if got.ImportDate == nil || got.ImportDate.String() != "2025-02-10" || got.Name != "renamed" {
		t.Fatalf("updated item = %+v", got)
	}
	if _, err := f.repo.UpdateItem(f.ctx, it.ItemCode, map[string]any{"branch": float64(3)}); db.KindOf(err) != db.KindValidation {
		t.Fatalf("numeric branch: %v", err)
	}
}
