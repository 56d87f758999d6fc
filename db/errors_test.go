package db

import (
	"errors"
	"fmt"
	"testing"

	"Gin_postgres_redis_machine_tracker/idgen"

	"gorm.io/gorm"
)

func TestStorageErr(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want Kind
	}{
		{"not found", gorm.ErrRecordNotFound, KindNotFound},
		{"wrapped not found", fmt.Errorf("take: %w", gorm.ErrRecordNotFound), KindNotFound},
		{"duplicate", gorm.ErrDuplicatedKey, KindConflict},
		{"fk", gorm.ErrForeignKeyViolated, KindNotFound},
		{"branch", fmt.Errorf("%w: %q", idgen.ErrUnknownBranch, "Colombo"), KindValidation},
		{"business passthrough", Conflict("x"), KindConflict},
		{"other", errors.New("connection reset"), 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := storageErr(c.in, "item")
			if KindOf(got) != c.want {
				t.Fatalf("KindOf(%v) = %v, want %v", got, KindOf(got), c.want)
			}
			if c.want == 0 && !errors.Is(got, c.in) {
				t.Fatalf("unexpected errors must stay wrapped: %v", got)
			}
		})
	}
	if storageErr(nil, "item") != nil {
		t.Fatal("nil in, nil out")
	}
}

func TestErrorMessages(t *testing.T) {
	err := NotFound("employee %d not found", 7)
	if err.Error() != "employee 7 not found" || !IsNotFound(err) {
		t.Fatalf("unexpected %v", err)
	}
	if !IsConflict(fmt.Errorf("wrap: %w", Conflict("dup"))) {
		t.Fatal("conflict must survive wrapping")
	}
}
