package idgen

import (
	"errors"
	"testing"
	"time"
)

func TestItemPrefix(t *testing.T) {
	cases := map[string]string{
		"Hettipola":   "ITMH",
		"Mathara":     "ITMM",
		"Welioya":     "ITMW",
		"Bakamuna1":   "ITMB1",
		"Bakamuna2":   "ITMB2",
		"Sample Room": "ITMSR",
		" Hettipola ": "ITMH",
	}
	for branch, want := range cases {
		got, err := ItemPrefix(branch)
		if err != nil {
			t.Fatalf("ItemPrefix(%q) error: %v", branch, err)
		}
		if got != want {
			t.Errorf("ItemPrefix(%q) = %q, want %q", branch, got, want)
		}
	}
}

func TestItemPrefixUnknownBranch(t *testing.T) {
	_, err := ItemPrefix("Colombo")
	if !errors.Is(err, ErrUnknownBranch) {
		t.Fatalf("expected ErrUnknownBranch, got %v", err)
	}
	if KnownItemBranch("Colombo") {
		t.Fatal("Colombo should not be a known item branch")
	}
}

func TestPurchaseOrderPrefix(t *testing.T) {
	cases := []struct {
		branch string
		want   string
	}{
		{"Bakamuna1", "2025B1/"},
		{"Hettipola", "2025H/"},
		{"Piliyandala", "2025P/"},
		{"Sample Room", "2025X/"},
		{"", "2025X/"},
	}
	for _, c := range cases {
		if got := PurchaseOrderPrefix(2025, c.branch); got != c.want {
			t.Errorf("PurchaseOrderPrefix(%q) = %q, want %q", c.branch, got, c.want)
		}
	}
}

func TestPurchaseOrderYear(t *testing.T) {
	d := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	if got := PurchaseOrderYear(d); got != 2024 {
		t.Fatalf("year = %d", got)
	}
	if got := PurchaseOrderYear(time.Time{}); got != time.Now().Year() {
		t.Fatalf("zero date year = %d", got)
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		prefix string
		n      int64
		width  int
		want   string
	}{
		{"ITMH", 1, ItemWidth, "ITMH001"},
		{"ITMH", 11, ItemWidth, "ITMH011"},
		{"ITMH", 1234, ItemWidth, "ITMH1234"},
		{RentMachinePrefix, 42, RentMachineWidth, "NURENT0000042"},
		{"2025H/", 7, PurchaseOrderWidth, "2025H/00007"},
		{ITAssetPrefix, 3, ITAssetWidth, "ITMIT003"},
	}
	for _, c := range cases {
		if got := Format(c.prefix, c.n, c.width); got != c.want {
			t.Errorf("Format(%q, %d, %d) = %q, want %q", c.prefix, c.n, c.width, got, c.want)
		}
	}
}

func TestParseSuffix(t *testing.T) {
	if n, ok := ParseSuffix("ITMH010", "ITMH"); !ok || n != 10 {
		t.Fatalf("ParseSuffix ITMH010 = %d, %v", n, ok)
	}
	if n, ok := ParseSuffix("2025B1/00042", "2025B1/"); !ok || n != 42 {
		t.Fatalf("ParseSuffix PO = %d, %v", n, ok)
	}
	for _, bad := range []string{"ITMH", "ITMHX01", "ITMB1001x", "PERM001"} {
		if _, ok := ParseSuffix(bad, "ITMH"); ok {
			t.Errorf("ParseSuffix(%q) should fail", bad)
		}
	}
}

func TestPrintRefUnique(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 100; i++ {
		ref := PrintRef()
		if seen[ref] {
			t.Fatalf("duplicate print ref %d", ref)
		}
		seen[ref] = true
	}
}
