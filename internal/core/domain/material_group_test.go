package domain

import "testing"

func TestMaterialGroup_IsBulk(t *testing.T) {
	for _, g := range []string{"RM", "SEMI", "FG", "COPPEP", "rm", "fg"} {
		if !NewMaterialGroup(g).IsBulk() {
			t.Errorf("expected %q to be bulk", g)
		}
	}
	for _, g := range []string{"CONSUMABLE", "PACKAGING", ""} {
		if NewMaterialGroup(g).IsBulk() {
			t.Errorf("expected %q not to be bulk", g)
		}
	}
}

func TestMaterialGroup_IsConsumable(t *testing.T) {
	if !NewMaterialGroup(" consumable ").IsConsumable() {
		t.Error("expected trimmed, case-insensitive consumable match")
	}
	if NewMaterialGroup("RM").IsConsumable() {
		t.Error("RM is not consumable")
	}
}

func TestMaterialGroup_UntrackedPassThrough(t *testing.T) {
	g := NewMaterialGroup("TOOLING")
	if g.IsBulk() || g.IsConsumable() {
		t.Error("unknown group should route to neither store")
	}
}
