package models

import (
	"strings"
	"testing"
)

func TestParseMachineStatus(t *testing.T) {
	for _, s := range MachineStatuses {
		got, err := ParseMachineStatus(string(s))
		if err != nil {
			t.Fatalf("ParseMachineStatus(%q): %v", s, err)
		}
		if got != s {
			t.Fatalf("got %q want %q", got, s)
		}
	}
	for _, bad := range []string{"", "available to grn", "Lost", "Returned "} {
		_, err := ParseMachineStatus(bad)
		if err == nil {
			t.Fatalf("ParseMachineStatus(%q) should fail", bad)
		}
		if !strings.Contains(err.Error(), string(MachineInPendingRenewPO)) {
			t.Fatalf("error should list allowed values: %v", err)
		}
	}
	if len(MachineStatuses) != 6 {
		t.Fatalf("expected six machine statuses, got %d", len(MachineStatuses))
	}
}

func TestMachineStatusGuards(t *testing.T) {
	if !MachineAvailableToAllocation.Allocatable() {
		t.Fatal("Available To Allocation must be allocatable")
	}
	for _, s := range []MachineStatus{MachineAvailableToGrn, MachineInAllocation, MachineReturned, MachinePendingTransfer} {
		if s.Allocatable() {
			t.Errorf("%q should not be allocatable", s)
		}
	}
	if MachineReturned.Returnable() || MachineAvailableToGrn.Returnable() {
		t.Fatal("returned and not-yet-received machines cannot be returned")
	}
	if !MachineInAllocation.Returnable() {
		t.Fatal("allocated machine should be returnable")
	}
	if MachineAvailableToGrn.Renewable() || !MachineReturned.Renewable() {
		t.Fatal("renewal guard mismatch")
	}
}

func TestParseTransferStatus(t *testing.T) {
	if s, err := ParseTransferStatus("Pending"); err != nil || s != TransferPending {
		t.Fatalf("Pending: %v %v", s, err)
	}
	if s, err := ParseTransferStatus("Accepted"); err != nil || s != TransferAccepted {
		t.Fatalf("Accepted: %v %v", s, err)
	}
	if _, err := ParseTransferStatus("Rejected"); err == nil {
		t.Fatal("Rejected is not a transfer status")
	}
}

func TestParsePOStatus(t *testing.T) {
	for _, s := range POStatuses {
		if _, err := ParsePOStatus(string(s)); err != nil {
			t.Fatalf("%q: %v", s, err)
		}
	}
	if _, err := ParsePOStatus("pending"); err == nil {
		t.Fatal("status match is case sensitive")
	}
}
