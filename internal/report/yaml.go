package report

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/guimove/palletfit/internal/model"
)

// YAMLReporter outputs plans as YAML.
type YAMLReporter struct {
	w io.Writer
}

func (r *YAMLReporter) ReportSolution(ctx context.Context, sol *model.Solution, meta ReportMeta) error {
	return r.encode(solutionOutput{Meta: meta, Solution: sol})
}

func (r *YAMLReporter) ReportSweep(ctx context.Context, res *model.SweepResult, meta ReportMeta) error {
	return r.encode(sweepOutput{Meta: meta, Sweep: res})
}

func (r *YAMLReporter) encode(v any) error {
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML output: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding YAML output: %w", err)
	}
	return nil
}
