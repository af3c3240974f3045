package model

import (
	"testing"
)

func TestDefaultParameters_Valid(t *testing.T) {
	p := DefaultParameters()
	if err := p.Validate(); err != nil {
		t.Fatalf("default parameters should be valid: %v", err)
	}
	if got := p.UnitVolume(); got != 1 {
		t.Errorf("UnitVolume() = %v, want 1", got)
	}
	if got := p.TotalVolume(); got != 100 {
		t.Errorf("TotalVolume() = %v, want 100", got)
	}
}

func TestParameters_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Parameters)
		wantErr bool
	}{
		{"zero area", func(p *Parameters) { p.SKUArea = 0 }, true},
		{"negative height", func(p *Parameters) { p.SKUHeight = -1 }, true},
		{"negative items", func(p *Parameters) { p.ItemCount = -1 }, true},
		{"negative slots", func(p *Parameters) { p.SlotCount = -1 }, true},
		{"negative size limit", func(p *Parameters) { p.SizeLimit = -1 }, true},
		{"unknown linking", func(p *Parameters) { p.Linking = "loose" }, true},
		{"zero slots", func(p *Parameters) { p.SlotCount = 0 }, false},
		{"zero items", func(p *Parameters) { p.ItemCount = 0 }, false},
		{"empty linking", func(p *Parameters) { p.Linking = "" }, false},
		{"literal linking", func(p *Parameters) { p.Linking = LinkLiteral }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParameters()
			tt.mutate(&p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParameters_Items(t *testing.T) {
	p := Parameters{SKUArea: 2, SKUHeight: 1.5, ItemCount: 3}
	items := p.Items()
	if len(items) != 3 {
		t.Fatalf("len(Items()) = %d, want 3", len(items))
	}
	for i, it := range items {
		if it.Index != i || it.Volume != 3 {
			t.Errorf("item %d = %+v, want index %d volume 3", i, it, i)
		}
	}
	if got := (Parameters{}).Items(); got != nil {
		t.Errorf("Items() with no inventory = %v, want nil", got)
	}
}

func TestSolution_Slots(t *testing.T) {
	s := Solution{
		Parameters:  Parameters{SKUArea: 1, SKUHeight: 2, SlotCount: 3},
		Allocation:  map[int][]int{1: {0, 2, 3}, 2: {1}},
		ActiveSlots: []int{1, 2},
	}

	slots := s.Slots()
	if len(slots) != 3 {
		t.Fatalf("len(Slots()) = %d, want 3", len(slots))
	}
	if slots[0].Active || len(slots[0].Items) != 0 {
		t.Errorf("slot 0 = %+v, want inactive and empty", slots[0])
	}
	if !slots[1].Active || len(slots[1].Items) != 3 {
		t.Errorf("slot 1 = %+v, want active with 3 items", slots[1])
	}

	if got := s.UsedVolume(1); got != 6 {
		t.Errorf("UsedVolume(1) = %v, want 6", got)
	}
}

func TestSweepResult_Best(t *testing.T) {
	r := SweepResult{Entries: []SweepEntry{
		{SlotCount: 0, Status: SweepInfeasible},
		{SlotCount: 2, Status: SweepOptimal},
		{SlotCount: 3, Status: SweepOptimal},
	}}
	best, ok := r.Best()
	if !ok || best.SlotCount != 2 {
		t.Errorf("Best() = %+v, %v, want slot count 2", best, ok)
	}

	empty := SweepResult{Entries: []SweepEntry{{Status: SweepFailed}}}
	if _, ok := empty.Best(); ok {
		t.Error("Best() should fail without a feasible entry")
	}
}
