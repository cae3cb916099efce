package domain

import "time"

// DefaultReorderPoint is assigned to supply rows created by a first
// receive. The threshold is advisory; nothing in the engine enforces
// it.
const DefaultReorderPoint = 2

// SupplyItem is the aggregate balance of a consumable, keyed by
// (sapid, description, unit). Location is last-known only and is
// overwritten by each receive.
type SupplyItem struct {
	ID           int64
	SAPID        string
	Description  string
	Quantity     int
	Unit         string
	Location     string
	ReorderPoint int
	CreatedAt    time.Time
}
