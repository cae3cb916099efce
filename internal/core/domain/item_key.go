package domain

import "strings"

// ItemKey identifies a material across the tag, supply and movement
// tables. Fields are trimmed exactly once, at construction; stores
// write and compare the normalized form verbatim.
type ItemKey struct {
	SAPID       string
	Description string
	Unit        string
	Location    string
}

func NewItemKey(sapid, description, unit, location string) ItemKey {
	return ItemKey{
		SAPID:       strings.TrimSpace(sapid),
		Description: strings.TrimSpace(description),
		Unit:        strings.TrimSpace(unit),
		Location:    strings.TrimSpace(location),
	}
}

// Complete reports whether every field required for a receive or
// transfer is present.
func (k ItemKey) Complete() bool {
	return k.SAPID != "" && k.Description != "" && k.Unit != "" && k.Location != ""
}
