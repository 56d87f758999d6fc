package controllers

import (
	"bytes"
	"testing"

	"Gin_postgres_redis_machine_tracker/db"
	"Gin_postgres_redis_machine_tracker/models"

	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func TestParseItemSheet(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Serial_No", "name", "branch", "cat_id", "import_date", "brand"},
		{"SN-1", "Overlock", "Hettipola", "2", "2025-01-15", "Juki"},
		{"", "", "", "", "", ""},
		{"SN-2", "Flatlock", "Mathara", "3", "", ""},
	})
	items, err := parseItemSheet(buf)
	if err != nil {
		t.Fatalf("parseItemSheet: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	first := items[0]
	if first.SerialNo != "SN-1" || first.CatID != 2 || first.Brand != "Juki" {
		t.Fatalf("first = %+v", first)
	}
	if first.ImportDate == nil || first.ImportDate.String() != "2025-01-15" {
		t.Fatalf("import_date = %v", first.ImportDate)
	}
	if items[1].ImportDate != nil {
		t.Fatal("blank import_date should stay nil")
	}
}

func TestParseItemSheetErrors(t *testing.T) {
	cases := map[string][][]any{
		"missing column": {{"serial_no", "name", "branch"}, {"SN-1", "x", "Hettipola"}},
		"bad cat_id":     {{"serial_no", "name", "branch", "cat_id"}, {"SN-1", "x", "Hettipola", "two"}},
		"header only":    {{"serial_no", "name", "branch", "cat_id"}},
	}
	for name, rows := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseItemSheet(workbook(t, rows))
			if db.KindOf(err) != db.KindValidation {
				t.Fatalf("got %v, want validation error", err)
			}
		})
	}
	if _, err := parseItemSheet(bytes.NewBufferString("not a workbook")); err == nil {
		t.Fatal("garbage accepted as workbook")
	}
}

func TestExpiredWorkbook(t *testing.T) {
	grn := uint(4)
	from, _ := models.ParseDate("2025-01-01")
	to, _ := models.ParseDate("2025-01-31")
	f, err := expiredWorkbook([]db.ExpiredMachine{{
		RentItemID: "NURENT0000001", SerialNo: "RM-1", Name: "Overlock", RentedBy: "Hettipola",
		MachineStatus: models.MachineInAllocation, POID: "NUPO/25/H/00001", CPOID: 9,
		Branch: "Hettipola", GRNID: &grn, FromDate: from, ToDate: to,
	}})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows("Expired")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(rows))
	}
	if rows[0][0] != "Rent Item ID" || rows[1][0] != "NURENT0000001" {
		t.Fatalf("rows = %v", rows)
	}
	if rows[1][8] != "4" || rows[1][10] != "2025-01-31" {
		t.Fatalf("grn/to = %q/%q", rows[1][8], rows[1][10])
	}
}
