package palletize

import (
	"github.com/shopspring/decimal"

	"github.com/guimove/palletfit/internal/model"
)

// Hint builds a feasible assignment by filling pallets in order. Pallets
// hold as many items as fit under the size limit; the load is then spread
// evenly over the pallets used, and capacity is rounded up to the next
// integer above that load. It returns false when no pallet fits an item or
// more pallets than slots would be needed.
func Hint(params model.Parameters) (map[string]float64, bool) {
	n, k := params.ItemCount, params.SlotCount
	v := unitVolume(params)

	values := make(map[string]float64, 4+k+n*k)
	for s := 0; s < k; s++ {
		values[ActiveName(s)] = 0
		for i := 0; i < n; i++ {
			values[AssignName(i, s)] = 0
		}
	}
	values[VarCapacity] = 0
	values[VarActiveCount] = 0
	values[VarItemsPerSlot] = 0
	values[VarSlack] = 0
	if n == 0 {
		return values, true
	}
	if !v.IsPositive() {
		return nil, false
	}

	perPallet := decimal.NewFromInt(int64(params.SizeLimit)).Div(v).Floor().IntPart()
	if perPallet == 0 {
		return nil, false
	}
	used := ceilDiv(int64(n), perPallet)
	if used > int64(k) {
		return nil, false
	}
	if params.Linking == model.LinkLiteral {
		// every slot must be active
		used = int64(k)
	}
	load := ceilDiv(int64(n), used)
	capacity := decimal.NewFromInt(load).Mul(v).Ceil()

	for s := 0; s < int(used); s++ {
		values[ActiveName(s)] = 1
	}
	for i := 0; i < n; i++ {
		values[AssignName(i, i/int(load))] = 1
	}
	values[VarCapacity] = capacity.InexactFloat64()
	values[VarActiveCount] = float64(used)
	values[VarItemsPerSlot] = float64(load)
	values[VarSlack] = capacity.Mul(decimal.NewFromInt(used)).
		Sub(v.Mul(decimal.NewFromInt(int64(n)))).InexactFloat64()
	return values, true
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}
