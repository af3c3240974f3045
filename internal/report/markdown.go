package report

import (
	"context"
	"fmt"
	"io"

	"github.com/guimove/palletfit/internal/model"
)

// MarkdownReporter outputs plans as GitHub-flavored markdown.
type MarkdownReporter struct {
	w io.Writer
}

func (r *MarkdownReporter) params(p model.Parameters) {
	fmt.Fprintf(r.w, "| Parameter | Value |\n|---|---|\n")
	fmt.Fprintf(r.w, "| Items | %d |\n", p.ItemCount)
	fmt.Fprintf(r.w, "| Unit volume | %g |\n", p.UnitVolume())
	fmt.Fprintf(r.w, "| Slots | %d |\n", p.SlotCount)
	fmt.Fprintf(r.w, "| Size limit | %d |\n", p.SizeLimit)
	fmt.Fprintf(r.w, "| Linking | %s |\n\n", p.Linking)
}

func (r *MarkdownReporter) ReportSolution(ctx context.Context, sol *model.Solution, meta ReportMeta) error {
	fmt.Fprintf(r.w, "# Pallet plan\n\n")
	r.params(sol.Parameters)

	fmt.Fprintf(r.w, "**%d pallets** of capacity **%d**, slack %g, average fill %s.\n\n",
		sol.ActiveCount, sol.Capacity, sol.Slack, percent(sol.Utilization.AverageFill))

	if len(sol.ActiveSlots) == 0 {
		return nil
	}
	fmt.Fprintf(r.w, "| Slot | Items | Fill | Contents |\n|---:|---:|---:|---|\n")
	for _, slot := range sol.Slots() {
		if !slot.Active {
			continue
		}
		fmt.Fprintf(r.w, "| %d | %d | %s | %s |\n",
			slot.Index, len(slot.Items), percent(sol.Utilization.PerSlot[slot.Index]), itemRanges(slot.Items))
	}
	fmt.Fprintf(r.w, "\n")
	return nil
}

func (r *MarkdownReporter) ReportSweep(ctx context.Context, res *model.SweepResult, meta ReportMeta) error {
	fmt.Fprintf(r.w, "# Slot sweep\n\n")
	r.params(res.Parameters)

	fmt.Fprintf(r.w, "| Rank | Slots | Status | Pallets | Capacity | Slack |\n|---:|---:|---|---:|---:|---:|\n")
	for _, e := range res.Entries {
		if e.Solution == nil {
			fmt.Fprintf(r.w, "| %d | %d | %s | - | - | - |\n", e.Rank, e.SlotCount, e.Status)
			continue
		}
		fmt.Fprintf(r.w, "| %d | %d | %s | %d | %d | %g |\n",
			e.Rank, e.SlotCount, e.Status, e.Solution.ActiveCount, e.Solution.Capacity, e.Solution.Slack)
	}
	fmt.Fprintf(r.w, "\n")
	return nil
}
