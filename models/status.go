// models/status.go
package models

import (
	"fmt"
	"strings"
)

// MachineStatus 租赁机器状态，只允许下面六个值
type MachineStatus string

const (
	MachineAvailableToGrn        MachineStatus = "Available To Grn"
	MachineAvailableToAllocation MachineStatus = "Available To Allocation"
	MachineInAllocation          MachineStatus = "In Allocation"
	MachinePendingTransfer       MachineStatus = "Pending Transfer"
	MachineReturned              MachineStatus = "Returned"
	MachineInPendingRenewPO      MachineStatus = "In Pending Renew PO"
)

var MachineStatuses = []MachineStatus{
	MachineAvailableToGrn,
	MachineAvailableToAllocation,
	MachineInAllocation,
	MachinePendingTransfer,
	MachineReturned,
	MachineInPendingRenewPO,
}

func (s MachineStatus) Valid() bool {
	switch s {
	case MachineAvailableToGrn, MachineAvailableToAllocation, MachineInAllocation,
		MachinePendingTransfer, MachineReturned, MachineInPendingRenewPO:
		return true
	}
	return false
}

func ParseMachineStatus(s string) (MachineStatus, error) {
	ms := MachineStatus(s)
	if !ms.Valid() {
		return "", fmt.Errorf("invalid machine_status %q, allowed: %s", s, joinStatuses(MachineStatuses))
	}
	return ms, nil
}

// Allocatable: only machines received and not yet allocated.
func (s MachineStatus) Allocatable() bool { return s == MachineAvailableToAllocation }

func (s MachineStatus) Returnable() bool {
	return s != MachineReturned && s != MachineAvailableToGrn
}

func (s MachineStatus) Renewable() bool { return s != MachineAvailableToGrn }

// TransferStatus 调拨状态
type TransferStatus string

const (
	TransferPending  TransferStatus = "Pending"
	TransferAccepted TransferStatus = "Accepted"
)

var TransferStatuses = []TransferStatus{TransferPending, TransferAccepted}

func (s TransferStatus) Valid() bool {
	return s == TransferPending || s == TransferAccepted
}

func ParseTransferStatus(s string) (TransferStatus, error) {
	ts := TransferStatus(s)
	if !ts.Valid() {
		return "", fmt.Errorf("invalid transfer status %q, allowed: %s", s, joinStatuses(TransferStatuses))
	}
	return ts, nil
}

// POStatus 采购单状态
type POStatus string

const (
	POPending   POStatus = "Pending"
	POApproved  POStatus = "Approved"
	PORejected  POStatus = "Rejected"
	POCompleted POStatus = "Completed"
	POCancelled POStatus = "Cancelled"
)

var POStatuses = []POStatus{POPending, POApproved, PORejected, POCompleted, POCancelled}

func (s POStatus) Valid() bool {
	switch s {
	case POPending, POApproved, PORejected, POCompleted, POCancelled:
		return true
	}
	return false
}

func ParsePOStatus(s string) (POStatus, error) {
	ps := POStatus(s)
	if !ps.Valid() {
		return "", fmt.Errorf("invalid purchase order status %q, allowed: %s", s, joinStatuses(POStatuses))
	}
	return ps, nil
}

type AllocationStatus string

const (
	AllocationActive   AllocationStatus = "Active"
	AllocationInactive AllocationStatus = "Inactive"
)

type statusString interface {
	~string
}

func joinStatuses[S statusString](ss []S) string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// AllowedMachineStatuses is the comma separated list used in error messages.
func AllowedMachineStatuses() string { return joinStatuses(MachineStatuses) }
