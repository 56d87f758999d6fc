package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestDateJSON(t *testing.T) {
	var v struct {
		D Date  `json:"d"`
		P *Date `json:"p"`
		Z Date  `json:"z"`
	}
	if err := json.Unmarshal([]byte(`{"d":"2025-03-04","p":"2025-03-05T10:00:00Z","z":null}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.D.String() != "2025-03-04" || v.P.String() != "2025-03-05" || !v.Z.IsZero() {
		t.Fatalf("unexpected decode: %+v", v)
	}
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"d":"2025-03-04","p":"2025-03-05","z":null}` {
		t.Fatalf("marshal = %s", b)
	}
	if err := json.Unmarshal([]byte(`{"d":"04/03/2025"}`), &v); err == nil {
		t.Fatal("expected error for bad layout")
	}
}

func TestDateScanValue(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2025, 1, 2, 15, 4, 5, 0, time.Local)); err != nil {
		t.Fatal(err)
	}
	v, _ := d.Value()
	if v != "2025-01-02" {
		t.Fatalf("Value = %v", v)
	}
	if err := d.Scan(nil); err != nil || !d.IsZero() {
		t.Fatalf("scan nil: %v %v", d, err)
	}
	if v, _ := d.Value(); v != nil {
		t.Fatalf("zero Value = %v", v)
	}
}

func TestDaysInclusive(t *testing.T) {
	from := mustDate(t, "2025-01-01")
	if n := from.DaysInclusive(mustDate(t, "2025-01-31")); n != 31 {
		t.Fatalf("days = %d", n)
	}
	if n := from.DaysInclusive(from); n != 1 {
		t.Fatalf("same day = %d", n)
	}
	if n := from.DaysInclusive(mustDate(t, "2024-12-31")); n != 0 {
		t.Fatalf("reversed = %d", n)
	}
}

func TestExpiredUnreturned(t *testing.T) {
	today := mustDate(t, "2025-06-10")
	life := RentMachineLife{FromDate: mustDate(t, "2025-05-01"), ToDate: mustDate(t, "2025-06-09")}
	if !life.ExpiredUnreturned(MachineInAllocation, today) {
		t.Fatal("window ended yesterday, machine still allocated: expired")
	}
	if life.ExpiredUnreturned(MachineReturned, today) {
		t.Fatal("returned machines are never expired")
	}
	life.ToDate = today
	if life.ExpiredUnreturned(MachineInAllocation, today) {
		t.Fatal("window ending today is not expired yet")
	}
}

func TestLineTotal(t *testing.T) {
	line := CategoryPurchaseOrder{
		Qty:        2,
		PerDayCost: decimal.RequireFromString("150.00"),
		DPercent:   decimal.RequireFromString("10"),
		FromDate:   mustDate(t, "2025-01-01"),
		ToDate:     mustDate(t, "2025-01-10"),
	}
	// 2 * 150 * 10 days = 3000, minus 10% = 2700
	if got := line.LineTotal(); !got.Equal(decimal.RequireFromString("2700")) {
		t.Fatalf("LineTotal = %s", got)
	}
	line.Qty = 0
	if !line.LineTotal().IsZero() {
		t.Fatal("zero qty should total zero")
	}
}

func TestFullyApproved(t *testing.T) {
	a := POApproval{Approval1: true}
	if a.FullyApproved() {
		t.Fatal("one gate is not enough")
	}
	a.Approval2 = true
	if !a.FullyApproved() {
		t.Fatal("both gates set")
	}
}
