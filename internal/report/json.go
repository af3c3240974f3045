package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/guimove/palletfit/internal/model"
)

// JSONReporter outputs plans as JSON.
type JSONReporter struct {
	w io.Writer
}

type solutionOutput struct {
	Meta     ReportMeta      `json:"meta" yaml:"meta"`
	Solution *model.Solution `json:"solution" yaml:"solution"`
}

type sweepOutput struct {
	Meta  ReportMeta         `json:"meta" yaml:"meta"`
	Sweep *model.SweepResult `json:"sweep" yaml:"sweep"`
}

func (r *JSONReporter) ReportSolution(ctx context.Context, sol *model.Solution, meta ReportMeta) error {
	return r.encode(solutionOutput{Meta: meta, Solution: sol})
}

func (r *JSONReporter) ReportSweep(ctx context.Context, res *model.SweepResult, meta ReportMeta) error {
	return r.encode(sweepOutput{Meta: meta, Sweep: res})
}

func (r *JSONReporter) encode(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
