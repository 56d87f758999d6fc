package db

import (
	"testing"

	"Gin_postgres_redis_machine_tracker/models"

	"github.com/shopspring/decimal"
)

func day(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func cpoLine(t *testing.T, po string, cat uint, from, to string) models.CategoryPurchaseOrder {
	return models.CategoryPurchaseOrder{
		POID:       po,
		CatID:      cat,
		Qty:        2,
		PerDayCost: decimal.NewFromInt(1000),
		DPercent:   decimal.NewFromInt(10),
		FromDate:   day(t, from),
		ToDate:     day(t, to),
	}
}

func TestDecide(t *testing.T) {
	cases := []struct {
		found, same bool
		want        Outcome
	}{
		{false, false, OutcomeCreated},
		{true, false, OutcomeSkipped},
		{true, true, OutcomeUpdated},
	}
	for _, c := range cases {
		if got := decide(c.found, c.same); got != c.want {
			t.Errorf("decide(%v, %v) = %s, want %s", c.found, c.same, got, c.want)
		}
	}
}

func TestBulkResultCounts(t *testing.T) {
	res := &BulkResult[string]{}
	res.add(OutcomeCreated, "a")
	res.add(OutcomeSkipped, "b")
	res.add(OutcomeUpdated, "c")
	res.add(OutcomeCreated, "d")
	if res.Created != 2 || res.Updated != 1 || res.Skipped != 1 {
		t.Fatalf("counts = %d/%d/%d", res.Created, res.Updated, res.Skipped)
	}
	if len(res.Records) != 4 || res.Records[1].Outcome != OutcomeSkipped {
		t.Fatalf("records = %+v", res.Records)
	}
}

func TestValidateItems(t *testing.T) {
	ok := models.Item{SerialNo: "SN1", Name: "Overlock", CatID: 1, Branch: "Hettipola"}
	if err := validateItems([]models.Item{ok}); err != nil {
		t.Fatalf("valid item rejected: %v", err)
	}
	if err := validateItems(nil); KindOf(err) != KindValidation {
		t.Fatalf("empty batch: %v", err)
	}

	bad := ok
	bad.Branch = "Colombo"
	err := validateItems([]models.Item{ok, bad})
	if KindOf(err) != KindValidation {
		t.Fatalf("unknown branch: %v", err)
	}
	if want := `record 2: unknown branch "Colombo"`; err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}

	noSerial := ok
	noSerial.SerialNo = "  "
	if err := validateItems([]models.Item{noSerial}); KindOf(err) != KindValidation {
		t.Fatalf("blank serial: %v", err)
	}
}

func TestValidateCPOLine(t *testing.T) {
	good := cpoLine(t, "NUPO/25/H/00001", 1, "2025-01-01", "2025-01-31")
	if err := validateCPOLine(0, &good); err != nil {
		t.Fatalf("valid line rejected: %v", err)
	}

	mutate := map[string]func(c *models.CategoryPurchaseOrder){
		"no po":          func(c *models.CategoryPurchaseOrder) { c.POID = "" },
		"no category":    func(c *models.CategoryPurchaseOrder) { c.CatID = 0 },
		"reversed dates": func(c *models.CategoryPurchaseOrder) { c.FromDate, c.ToDate = c.ToDate, c.FromDate },
		"zero qty":       func(c *models.CategoryPurchaseOrder) { c.Qty = 0 },
		"negative cost":  func(c *models.CategoryPurchaseOrder) { c.PerDayCost = decimal.NewFromInt(-1) },
		"discount > 100": func(c *models.CategoryPurchaseOrder) { c.DPercent = decimal.NewFromInt(101) },
		"missing date":   func(c *models.CategoryPurchaseOrder) { c.ToDate = models.Date{} },
	}
	for name, f := range mutate {
		t.Run(name, func(t *testing.T) {
			c := good
			f(&c)
			if err := validateCPOLine(0, &c); KindOf(err) != KindValidation {
				t.Fatalf("got %v, want validation error", err)
			}
		})
	}
}

func TestBatchDuplicates(t *testing.T) {
	a := cpoLine(t, "PO1", 1, "2025-01-01", "2025-01-31")
	b := cpoLine(t, "PO1", 2, "2025-01-01", "2025-01-31")
	c := cpoLine(t, "PO1", 1, "2025-02-01", "2025-02-28")

	if dups := batchDuplicates([]models.CategoryPurchaseOrder{a, b, c}); len(dups) != 0 {
		t.Fatalf("distinct tuples reported as duplicates: %v", dups)
	}
	dups := batchDuplicates([]models.CategoryPurchaseOrder{a, b, a, a})
	if len(dups) != 1 || dups[0] != keyOf(&a) {
		t.Fatalf("dups = %v", dups)
	}
	if err := validateCPOBatch([]models.CategoryPurchaseOrder{a, a}); KindOf(err) != KindConflict {
		t.Fatalf("validateCPOBatch duplicate: %v", err)
	}
	if err := validateCPOBatch(nil); KindOf(err) != KindValidation {
		t.Fatalf("validateCPOBatch empty: %v", err)
	}
}

func TestReceiptDuplicates(t *testing.T) {
	lines := []ReceiptLine{
		{GRNID: 1, CPOID: 1, RentItemID: "NURENT0000001"},
		{GRNID: 1, CPOID: 1, RentItemID: "NURENT0000002"},
		{GRNID: 2, CPOID: 2, RentItemID: "NURENT0000001"},
	}
	if dups := receiptDuplicates(lines); len(dups) != 0 {
		t.Fatalf("unexpected dups: %v", dups)
	}
	lines = append(lines, ReceiptLine{GRNID: 3, CPOID: 1, RentItemID: "NURENT0000002"})
	dups := receiptDuplicates(lines)
	if len(dups) != 1 || dups[0] != (pairKey{1, "NURENT0000002"}) {
		t.Fatalf("dups = %v", dups)
	}
}
