package domain

import "strings"

// MaterialGroup routes a receipt to the store that tracks it: the bulk
// groups get individual stock tags, the consumable group gets a single
// running balance per item, and anything else is journaled only.
type MaterialGroup string

const (
	GroupRawMaterial  MaterialGroup = "RM"
	GroupSemiFinished MaterialGroup = "SEMI"
	GroupFinishedGood MaterialGroup = "FG"
	GroupCopper       MaterialGroup = "COPPEP"
	GroupConsumable   MaterialGroup = "CONSUMABLE"
)

func NewMaterialGroup(s string) MaterialGroup {
	return MaterialGroup(strings.TrimSpace(s))
}

func (g MaterialGroup) IsBulk() bool {
	switch MaterialGroup(strings.ToUpper(string(g))) {
	case GroupRawMaterial, GroupSemiFinished, GroupFinishedGood, GroupCopper:
		return true
	}
	return false
}

func (g MaterialGroup) IsConsumable() bool {
	return strings.EqualFold(string(g), string(GroupConsumable))
}
