package db

import (
	"context"
	"testing"

	"Gin_postgres_redis_machine_tracker/models"
)

func TestUpdateItemRejectsBadFields(t *testing.T) {
	r := &Repo{} // 校验在访问数据库之前
	cases := map[string]map[string]any{
		"numeric branch":    {"branch": float64(5)},
		"unknown branch":    {"branch": "Colombo"},
		"bad import_date":   {"import_date": "15/01/2025"},
		"numeric date":      {"import_date": float64(20250115)},
		"only the code key": {"item_code": "ITMH002"},
	}
	for name, fields := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := r.UpdateItem(context.Background(), "ITMH001", fields)
			if KindOf(err) != KindValidation {
				t.Fatalf("got %v, want validation error", err)
			}
		})
	}
}

func TestImportDate(t *testing.T) {
	v, err := importDate("2025-01-15")
	if err != nil {
		t.Fatal(err)
	}
	d, ok := v.(models.Date)
	if !ok || d.String() != "2025-01-15" {
		t.Fatalf("importDate = %#v", v)
	}
	for _, in := range []any{nil, ""} {
		if v, err := importDate(in); err != nil || v != nil {
			t.Fatalf("importDate(%#v) = %v, %v", in, v, err)
		}
	}
}
