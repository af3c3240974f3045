package model

import (
	"errors"
	"fmt"
)

// Linking selects the form of the per-slot capacity constraint.
type Linking string

const (
	// LinkGated bounds the fill of a slot only while it is active:
	// v * active[k] * items_per_slot <= capacity.
	LinkGated Linking = "gated"
	// LinkLiteral is v * items_per_slot <= active[k] * capacity. With any
	// items to place it forces every slot active.
	LinkLiteral Linking = "literal"
)

// Valid reports whether l names a known linking form.
func (l Linking) Valid() bool {
	return l == LinkGated || l == LinkLiteral
}

// Parameters are the scalar facts of one palletization instance.
type Parameters struct {
	// Footprint and height of one SKU unit; volume = area * height.
	SKUArea   float64 `json:"sku_area" yaml:"sku_area"`
	SKUHeight float64 `json:"sku_height" yaml:"sku_height"`

	ItemCount int `json:"item_count" yaml:"item_count"` // N
	SlotCount int `json:"slot_count" yaml:"slot_count"` // K
	SizeLimit int `json:"size_limit" yaml:"size_limit"` // upper bound on capacity

	Linking       Linking `json:"linking" yaml:"linking"`
	SlackTieBreak bool    `json:"slack_tiebreak" yaml:"slack_tiebreak"`
}

// DefaultParameters mirrors the stock instance: 100 unit cubes, 10 slots,
// capacity at most 20.
func DefaultParameters() Parameters {
	return Parameters{
		SKUArea:   1,
		SKUHeight: 1,
		ItemCount: 100,
		SlotCount: 10,
		SizeLimit: 20,
		Linking:   LinkGated,
	}
}

// UnitVolume returns the volume of a single item.
func (p Parameters) UnitVolume() float64 {
	return p.SKUArea * p.SKUHeight
}

// TotalVolume returns the volume of the whole inventory.
func (p Parameters) TotalVolume() float64 {
	return p.UnitVolume() * float64(p.ItemCount)
}

// Validate rejects parameters no model can be built for. A zero slot
// count is allowed; it is infeasible whenever there are items to place.
func (p Parameters) Validate() error {
	var errs []error
	if p.SKUArea <= 0 || p.SKUHeight <= 0 {
		errs = append(errs, fmt.Errorf("sku area and height must be positive, got %v x %v", p.SKUArea, p.SKUHeight))
	}
	if p.ItemCount < 0 {
		errs = append(errs, fmt.Errorf("item count must be non-negative, got %d", p.ItemCount))
	}
	if p.SlotCount < 0 {
		errs = append(errs, fmt.Errorf("slot count must be non-negative, got %d", p.SlotCount))
	}
	if p.SizeLimit < 0 {
		errs = append(errs, fmt.Errorf("size limit must be non-negative, got %d", p.SizeLimit))
	}
	if p.Linking != "" && !p.Linking.Valid() {
		errs = append(errs, fmt.Errorf("linking must be gated or literal, got %q", p.Linking))
	}
	return errors.Join(errs...)
}

// Items returns the inventory, indexed 0..N-1.
func (p Parameters) Items() []Item {
	if p.ItemCount <= 0 {
		return nil
	}
	v := p.UnitVolume()
	items := make([]Item, p.ItemCount)
	for i := range items {
		items[i] = Item{Index: i, Volume: v}
	}
	return items
}

// Item is one SKU unit to be placed.
type Item struct {
	Index  int     `json:"index"`
	Volume float64 `json:"volume"`
}
