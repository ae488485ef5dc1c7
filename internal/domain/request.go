package domain

import "time"

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
	RequestStatusReturned RequestStatus = "returned"
)

// Live reports whether a request in this status still blocks a new request
// for the same asset by the same requester.
func (s RequestStatus) Live() bool {
	return s == RequestStatusPending || s == RequestStatusApproved
}

const DirectAssignNote = "Assigned directly by HR"

type AssetRequest struct {
	ID             string        `json:"id"`
	AssetID        string        `json:"asset_id"`
	AssetName      string        `json:"asset_name"`
	AssetType      ProductType   `json:"asset_type"`
	RequesterID    string        `json:"requester_id"`
	HRID           string        `json:"hr_id"`
	CompanyName    string        `json:"company_name"`
	Status         RequestStatus `json:"status"`
	RequestedAt    time.Time     `json:"requested_at"`
	DecidedAt      *time.Time    `json:"decided_at,omitempty"`
	DecidedBy      *string       `json:"decided_by,omitempty"`
	ReturnDeadline *time.Time    `json:"return_deadline,omitempty"`
	ReturnedAt     *time.Time    `json:"returned_at,omitempty"`
	Note           string        `json:"note"`
	DirectAssign   bool          `json:"direct_assign"`
}

// Decision carries the audit stamp written when a pending request is decided
type Decision struct {
	Status         RequestStatus
	DecidedAt      time.Time
	DecidedBy      string
	ReturnDeadline *time.Time
}

type AssignmentStatus string

const (
	AssignmentStatusAssigned AssignmentStatus = "assigned"
	AssignmentStatusReturned AssignmentStatus = "returned"
)

// AssignedAsset mirrors an approved AssetRequest for per-employee and
// per-company queries. It is keyed one-to-one by RequestID.
type AssignedAsset struct {
	ID          string           `json:"id"`
	RequestID   string           `json:"request_id"`
	AssetID     string           `json:"asset_id"`
	AssetName   string           `json:"asset_name"`
	AssetType   ProductType      `json:"asset_type"`
	EmployeeID  string           `json:"employee_id"`
	HRID        string           `json:"hr_id"`
	CompanyName string           `json:"company_name"`
	AssignedAt  time.Time        `json:"assigned_at"`
	ReturnedAt  *time.Time       `json:"returned_at,omitempty"`
	Status      AssignmentStatus `json:"status"`
}
