package domain

import (
	"strings"
	"time"
)

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusProcessed RequestStatus = "processed"
)

// MaterialRequest is a pending-or-processed ask for a consumable.
// Status moves pending -> processed exactly once; after processing the
// stored quantity is the fulfilled quantity, which may differ from the
// one originally requested.
type MaterialRequest struct {
	ID          int64
	Description string
	Quantity    int
	Unit        string
	Requester   string
	Department  string
	RequestDate time.Time

	// Optional hints; fulfillment resolves the item by description
	// alone and ignores these.
	SAPID    string
	Location string

	Status RequestStatus
}

func (r *MaterialRequest) Normalize() {
	r.Description = strings.TrimSpace(r.Description)
	r.Unit = strings.TrimSpace(r.Unit)
	r.Requester = strings.TrimSpace(r.Requester)
	r.Department = strings.TrimSpace(r.Department)
	r.SAPID = strings.TrimSpace(r.SAPID)
	r.Location = strings.TrimSpace(r.Location)
}

func (r *MaterialRequest) Validate() error {
	if r.Description == "" {
		return NewValidationError("description", "required")
	}
	if r.Quantity <= 0 {
		return NewValidationError("qty", "must be greater than zero")
	}
	if r.Unit == "" {
		return NewValidationError("unit", "required")
	}
	if r.Requester == "" {
		return NewValidationError("requester_name", "required")
	}
	if r.Department == "" {
		return NewValidationError("department", "required")
	}
	if r.RequestDate.IsZero() {
		return NewValidationError("request_date", "required")
	}
	return nil
}
