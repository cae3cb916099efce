package domain

import "time"

// StockTag is one traceable batch of bulk material. Tags sharing an
// item key stay independent unless a receive merges into an existing
// one; a tag is never deleted, only archived.
type StockTag struct {
	ID        int64
	Key       ItemKey
	Group     MaterialGroup
	Quantity  int
	CreatedAt time.Time
	Archived  bool
}

// StockSummary is one aggregated dashboard row: active tag quantities
// summed per (sapid, unit, location, group).
type StockSummary struct {
	SAPID       string
	Description string
	Unit        string
	Location    string
	Group       MaterialGroup
	Quantity    int
}
