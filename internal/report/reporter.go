package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/guimove/palletfit/internal/model"
)

// Reporter formats and writes plan outcomes to an output destination.
type Reporter interface {
	ReportSolution(ctx context.Context, sol *model.Solution, meta ReportMeta) error
	ReportSweep(ctx context.Context, res *model.SweepResult, meta ReportMeta) error
}

// ReportMeta contains contextual metadata for the report.
type ReportMeta struct {
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Backend     string    `json:"backend" yaml:"backend"`
	ConfigFile  string    `json:"config_file,omitempty" yaml:"config_file,omitempty"`

	// Monotone reports whether the pallet count never grows with K. Only
	// sweeps set it.
	Monotone *bool `json:"monotone,omitempty" yaml:"monotone,omitempty"`
}

// NewReporter creates a reporter for the given format writing to w.
func NewReporter(format string, w io.Writer) Reporter {
	switch format {
	case "json":
		return &JSONReporter{w: w}
	case "yaml":
		return &YAMLReporter{w: w}
	case "markdown":
		return &MarkdownReporter{w: w}
	default:
		return &TableReporter{w: w}
	}
}

// itemRanges compresses ascending item indices into "0-3, 7, 9-10".
func itemRanges(items []int) string {
	if len(items) == 0 {
		return "-"
	}
	var b strings.Builder
	start, prev := items[0], items[0]
	flush := func() {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		if start == prev {
			fmt.Fprintf(&b, "%d", start)
		} else {
			fmt.Fprintf(&b, "%d-%d", start, prev)
		}
	}
	for _, i := range items[1:] {
		if i == prev+1 {
			prev = i
			continue
		}
		flush()
		start, prev = i, i
	}
	flush()
	return b.String()
}

func percent(x float64) string {
	return fmt.Sprintf("%.1f%%", x*100)
}
