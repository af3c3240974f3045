package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/guimove/palletfit/internal/model"
)

// TableReporter outputs plans as a formatted terminal table.
type TableReporter struct {
	w io.Writer
}

func (r *TableReporter) header(title string, p model.Parameters, meta ReportMeta) {
	fmt.Fprintf(r.w, "\n")
	fmt.Fprintf(r.w, "%s\n", title)
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("=", 60))
	fmt.Fprintf(r.w, "Items:       %d x %g (volume %g)\n", p.ItemCount, p.UnitVolume(), p.TotalVolume())
	fmt.Fprintf(r.w, "Slots:       %d (size limit %d)\n", p.SlotCount, p.SizeLimit)
	fmt.Fprintf(r.w, "Linking:     %s\n", p.Linking)
	if meta.Backend != "" {
		fmt.Fprintf(r.w, "Backend:     %s\n", meta.Backend)
	}
	if meta.ConfigFile != "" {
		fmt.Fprintf(r.w, "Config:      %s\n", meta.ConfigFile)
	}
	fmt.Fprintf(r.w, "%s\n\n", strings.Repeat("=", 60))
}

func (r *TableReporter) ReportSolution(ctx context.Context, sol *model.Solution, meta ReportMeta) error {
	r.header("palletfit plan", sol.Parameters, meta)

	fmt.Fprintf(r.w, "Pallets used:    %d\n", sol.ActiveCount)
	fmt.Fprintf(r.w, "Capacity:        %d\n", sol.Capacity)
	fmt.Fprintf(r.w, "Items/pallet:    %d\n", sol.ItemsPerSlot)
	fmt.Fprintf(r.w, "Slack:           %g\n", sol.Slack)
	fmt.Fprintf(r.w, "Objective:       %g\n", sol.Objective)
	fmt.Fprintf(r.w, "Avg fill:        %s\n", percent(sol.Utilization.AverageFill))
	fmt.Fprintf(r.w, "Min fill:        %s\n", percent(sol.Utilization.MinFill))
	fmt.Fprintf(r.w, "Solve time:      %s\n\n", sol.SolveDuration.Round(time.Millisecond))

	if len(sol.ActiveSlots) == 0 {
		fmt.Fprintf(r.w, "No pallets needed.\n\n")
		return nil
	}

	fmt.Fprintf(r.w, "%-5s %6s %8s %7s %s\n", "Slot", "Items", "Volume", "Fill", "Contents")
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 60))
	for _, slot := range sol.Slots() {
		if !slot.Active {
			continue
		}
		fmt.Fprintf(r.w, "#%-4d %6d %8g %7s %s\n",
			slot.Index,
			len(slot.Items),
			sol.UsedVolume(slot.Index),
			percent(sol.Utilization.PerSlot[slot.Index]),
			itemRanges(slot.Items),
		)
	}
	fmt.Fprintf(r.w, "%s\n\n", strings.Repeat("-", 60))
	return nil
}

func (r *TableReporter) ReportSweep(ctx context.Context, res *model.SweepResult, meta ReportMeta) error {
	r.header("palletfit slot sweep", res.Parameters, meta)

	if len(res.Entries) == 0 {
		fmt.Fprintf(r.w, "No candidates evaluated.\n")
		return nil
	}

	fmt.Fprintf(r.w, "%-4s %5s %-10s %7s %8s %8s %7s %s\n",
		"Rank", "Slots", "Status", "Pallets", "Capacity", "Slack", "Fill", "Notes")
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 70))
	for _, e := range res.Entries {
		if e.Solution == nil {
			fmt.Fprintf(r.w, "#%-3d %5d %-10s %7s %8s %8s %7s %s\n",
				e.Rank, e.SlotCount, e.Status, "-", "-", "-", "-", e.Error)
			continue
		}
		s := e.Solution
		fmt.Fprintf(r.w, "#%-3d %5d %-10s %7d %8d %8g %7s\n",
			e.Rank, e.SlotCount, e.Status, s.ActiveCount, s.Capacity, s.Slack, percent(s.Utilization.AverageFill))
	}
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 70))

	if best, ok := res.Best(); ok {
		fmt.Fprintf(r.w, "\nRecommended: %d slots, %d pallets of capacity %d\n",
			best.SlotCount, best.Solution.ActiveCount, best.Solution.Capacity)
	} else {
		fmt.Fprintf(r.w, "\nNo slot count admits a feasible plan.\n")
	}
	if meta.Monotone != nil && !*meta.Monotone {
		fmt.Fprintf(r.w, "  Warning: pallet count grows with slot count somewhere in the sweep\n")
	}
	fmt.Fprintf(r.w, "\n")
	return nil
}
