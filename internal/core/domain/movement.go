package domain

import (
	"time"

	"github.com/google/uuid"
)

// MovementOriginRequest marks journal rows written by request
// fulfillment. It appears in both the group and joborder columns,
// matching the upstream data this system replaced.
const MovementOriginRequest = "FROM_REQUEST"

// Movement is one row of the append-only quantity journal. Positive
// quantities are receipts, negative are issues, transfers and request
// fulfillments. Rows are never updated or deleted.
//
// The signed sum per item key is the theoretical lifetime balance for
// that key. Administrative corrections (tag splits, supply
// adjustments) bypass the journal, so the sum only reconciles against
// the stores while no correction has occurred.
type Movement struct {
	ID          string
	Key         ItemKey
	Group       MaterialGroup
	Quantity    int
	CreatedAt   time.Time
	JobOrder    string
	Requester   string
	Department  string
}

// IssueContext carries the who/why of an issue movement. Receipts
// leave it empty.
type IssueContext struct {
	JobOrder   string
	Requester  string
	Department string
}

func NewReceiptMovement(key ItemKey, group MaterialGroup, qty int, at time.Time) Movement {
	return Movement{
		ID:        uuid.NewString(),
		Key:       key,
		Group:     group,
		Quantity:  qty,
		CreatedAt: at,
	}
}

func NewIssueMovement(key ItemKey, group MaterialGroup, qty int, at time.Time, issue IssueContext) Movement {
	return Movement{
		ID:         uuid.NewString(),
		Key:        key,
		Group:      group,
		Quantity:   -qty,
		CreatedAt:  at,
		JobOrder:   issue.JobOrder,
		Requester:  issue.Requester,
		Department: issue.Department,
	}
}
