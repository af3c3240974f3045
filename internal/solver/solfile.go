package solver

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/guimove/palletfit/internal/mip"
)

// errNoStatus is returned for solution files without a status line.
var errNoStatus = errors.New("solution file has no status line")

// ParseSCIPSolution reads a file produced by SCIP's "write solution".
//
//	solution status: optimal solution found
//	objective value:                                   50
//	capacity                                            4 	(obj:0)
//
// Variables at zero are omitted by SCIP and are filled in as zero.
func ParseSCIPSolution(r io.Reader, p *mip.Problem) (*Result, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	res := &Result{}
	values := make(map[string]float64)
	sawStatus := false

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "solution status:"):
			sawStatus = true
			res.Message = strings.TrimSpace(line[len("solution status:"):])
			res.Status = statusFromSCIP(strings.ToLower(res.Message))
			continue
		case strings.HasPrefix(lower, "objective value:"):
			v, err := strconv.ParseFloat(strings.TrimSpace(line[len("objective value:"):]), 64)
			if err != nil {
				return nil, fmt.Errorf("parsing objective %q: %w", line, err)
			}
			res.Objective = v
			continue
		case strings.HasPrefix(lower, "no solution"):
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("unexpected solution line %q", line)
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing value of %s: %w", fields[0], err)
		}
		values[fields[0]] = v
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading solution: %w", err)
	}
	if !sawStatus {
		return nil, errNoStatus
	}

	if res.Status != StatusOptimal {
		return res, nil
	}
	for _, v := range p.Vars() {
		if _, ok := values[v.Name]; !ok {
			values[v.Name] = 0
		}
	}
	for name := range values {
		if _, ok := p.VarByName(name); !ok {
			return nil, fmt.Errorf("solution names unknown variable %q", name)
		}
	}
	res.Values = values
	return res, nil
}

func statusFromSCIP(s string) Status {
	switch {
	case strings.Contains(s, "infeasible or unbounded"):
		return StatusError
	case strings.Contains(s, "optimal solution found"):
		return StatusOptimal
	case strings.Contains(s, "infeasible"):
		return StatusInfeasible
	case strings.Contains(s, "unbounded"):
		return StatusUnbounded
	default:
		return StatusError
	}
}
