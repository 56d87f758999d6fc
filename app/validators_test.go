package app

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestStatusValidators(t *testing.T) {
	v := validator.New()
	if err := registerOn(v); err != nil {
		t.Fatalf("registerOn: %v", err)
	}

	type in struct {
		Machine  string `validate:"omitempty,machine_status"`
		Transfer string `validate:"omitempty,transfer_status"`
		PO       string `validate:"omitempty,po_status"`
	}

	ok := []in{
		{},
		{Machine: "In Allocation"},
		{Machine: "Available To Grn", Transfer: "Accepted", PO: "Approved"},
	}
	for _, c := range ok {
		if err := v.Struct(c); err != nil {
			t.Errorf("%+v: unexpected error %v", c, err)
		}
	}

	bad := []in{
		{Machine: "Broken"},
		{Machine: "in allocation"},
		{Transfer: "Rejected"},
		{PO: "Draft"},
	}
	for _, c := range bad {
		if err := v.Struct(c); err == nil {
			t.Errorf("%+v: expected validation error", c)
		}
	}
}
