package solver

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/guimove/palletfit/internal/mip"
)

const (
	modelPlaceholder    = "{model}"
	solutionPlaceholder = "{solution}"

	// waitDelay bounds how long Solve waits for output pipes held open by
	// grandchildren once the engine has been killed.
	waitDelay = time.Second
)

// DefaultSCIPArgs drives the SCIP interactive shell in batch mode.
var DefaultSCIPArgs = []string{
	"-q", "-c",
	"read " + modelPlaceholder + " optimize write solution " + solutionPlaceholder + " quit",
}

// Exec runs an external engine executable on an LP file and parses the
// solution file it writes. The process is killed when ctx is done.
type Exec struct {
	Path    string
	Args    []string // {model} and {solution} are substituted
	WorkDir string   // parent of per-run temp dirs; empty = os.TempDir()
}

// NewExec creates an adapter for the SCIP command line at path.
func NewExec(path string) *Exec {
	return &Exec{Path: path, Args: DefaultSCIPArgs}
}

// Name returns "exec".
func (e *Exec) Name() string { return "exec" }

// Solve writes p to disk, runs the engine and reads back the solution.
func (e *Exec) Solve(ctx context.Context, p *mip.Problem, opts ...Option) (*Result, error) {
	start := time.Now()

	bin, err := exec.LookPath(e.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolverUnavailable, err)
	}

	runID := uuid.NewString()
	dir, err := os.MkdirTemp(e.WorkDir, "palletfit-"+runID+"-")
	if err != nil {
		return nil, fmt.Errorf("creating work directory: %w", err)
	}
	defer os.RemoveAll(dir)

	modelPath := filepath.Join(dir, "model.lp")
	solPath := filepath.Join(dir, "model.sol")

	f, err := os.Create(modelPath)
	if err != nil {
		return nil, fmt.Errorf("creating model file: %w", err)
	}
	if err := mip.WriteLP(f, p); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing model file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("writing model file: %w", err)
	}

	args := e.Args
	if len(args) == 0 {
		args = DefaultSCIPArgs
	}
	expanded := make([]string, len(args))
	r := strings.NewReplacer(modelPlaceholder, modelPath, solutionPlaceholder, solPath)
	for i, a := range args {
		expanded[i] = r.Replace(a)
	}

	cmd := exec.CommandContext(ctx, bin, expanded...)
	cmd.Dir = dir
	cmd.WaitDelay = waitDelay
	killProcessGroup(cmd)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.Stdout = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s %s: %v: %s", ErrSolverUnavailable,
			filepath.Base(bin), runID, err, tail(stderr.String(), 512))
	}

	data, err := os.ReadFile(solPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading solution file: %v", ErrSolverUnavailable, err)
	}

	res, err := ParseSCIPSolution(bytes.NewReader(data), p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolverUnavailable, err)
	}
	res.Duration = time.Since(start)
	return res, nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
