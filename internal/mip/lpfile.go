package mip

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// termsPerLine keeps LP lines well below the 510 character limit some
// readers enforce.
const termsPerLine = 8

// WriteLP writes p in CPLEX LP format. Bilinear terms are written as
// quadratic constraint parts inside [ ].
func WriteLP(w io.Writer, p *Problem) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "\\ Problem: %s\n", p.Name)
	fmt.Fprintf(bw, "Minimize\n obj:")
	writeObjective(bw, p, p.objective)
	fmt.Fprintf(bw, "\nSubject To\n")

	for _, c := range p.constraints {
		fmt.Fprintf(bw, " %s:", c.Name)
		writeExpr(bw, p, c.Expr, false)
		fmt.Fprintf(bw, " %s %s\n", c.Sense, formatNum(c.RHS-c.Expr.Constant))
	}

	fmt.Fprintf(bw, "Bounds\n")
	for _, v := range p.vars {
		if v.Kind == Binary {
			continue
		}
		if math.IsInf(v.Upper, 1) {
			fmt.Fprintf(bw, " %s >= %s\n", v.Name, formatNum(v.Lower))
			continue
		}
		fmt.Fprintf(bw, " %s <= %s <= %s\n", formatNum(v.Lower), v.Name, formatNum(v.Upper))
	}

	writeSection(bw, "General", p, Integer)
	writeSection(bw, "Binary", p, Binary)
	fmt.Fprintf(bw, "End\n")

	return bw.Flush()
}

func writeObjective(w *bufio.Writer, p *Problem, e Expr) {
	// LP format has no objective constant.
	writeExpr(w, p, e, true)
}

// writeExpr writes the linear part then the bracketed bilinear part. In
// the objective the bracket is halved by the format, so coefficients are
// doubled.
func writeExpr(w *bufio.Writer, p *Problem, e Expr, objective bool) {
	n := 0
	for _, t := range e.Terms {
		if t.Bilinear() {
			continue
		}
		writeSep(w, &n)
		fmt.Fprintf(w, " %s %s", signed(t.Coef), p.vars[t.A].Name)
	}

	var quad []Term
	for _, t := range e.Terms {
		if t.Bilinear() {
			quad = append(quad, t)
		}
	}
	if len(quad) > 0 {
		fmt.Fprintf(w, " + [")
		for _, t := range quad {
			coef := t.Coef
			if objective {
				coef *= 2
			}
			writeSep(w, &n)
			fmt.Fprintf(w, " %s %s * %s", signed(coef), p.vars[t.A].Name, p.vars[t.B].Name)
		}
		fmt.Fprintf(w, " ]")
		if objective {
			fmt.Fprintf(w, " / 2")
		}
	}

	if n == 0 && len(p.vars) > 0 {
		// An empty side still needs a variable to be parseable.
		fmt.Fprintf(w, " 0 %s", p.vars[0].Name)
	}
}

func writeSep(w *bufio.Writer, n *int) {
	if *n > 0 && *n%termsPerLine == 0 {
		fmt.Fprintf(w, "\n  ")
	}
	*n++
}

func writeSection(w *bufio.Writer, title string, p *Problem, kind VarKind) {
	var names []string
	for _, v := range p.vars {
		if v.Kind == kind {
			names = append(names, v.Name)
		}
	}
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(w, "%s\n", title)
	for i := 0; i < len(names); i += termsPerLine {
		end := min(i+termsPerLine, len(names))
		fmt.Fprintf(w, " %s\n", strings.Join(names[i:end], " "))
	}
}

func signed(c float64) string {
	if c < 0 {
		return "- " + formatNum(-c)
	}
	return "+ " + formatNum(c)
}

func formatNum(x float64) string {
	switch {
	case math.IsInf(x, 1):
		return "+inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}
