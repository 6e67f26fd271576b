// Package report renders solver results as the plain-text step trace printed
// by the command line tool.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/gitrdm/countdown/pkg/countdown"
)

// Lines returns the trace of sol, one entry per output line.
func Lines(sol *countdown.Solution) []string {
	lines := []string{fmt.Sprintf("Initial number : %d", sol.Initial())}
	for _, s := range sol.Steps() {
		lines = append(lines, fmt.Sprintf("Step %d: operation %s with number %d -> result %d",
			s.Index, s.Op.Symbol(), s.Operand, s.Result))
	}
	return append(lines,
		fmt.Sprintf("Final number : %d", sol.Final()),
		fmt.Sprintf("Distance from goal: %d", sol.Distance),
	)
}

// ResilientLines returns the trace of sol followed by the worst attacked
// distance.
func ResilientLines(sol *countdown.ResilientSolution) []string {
	return append(Lines(&sol.Solution),
		fmt.Sprintf("Distance from goal after attack: %d", sol.WorstDistance))
}

// AttackLines lists every attack on the last operation, illegal ones marked.
func AttackLines(sol *countdown.ResilientSolution) []string {
	lines := make([]string, 0, len(sol.Attacks))
	for _, at := range sol.Attacks {
		if !at.Legal {
			lines = append(lines, fmt.Sprintf("Attack %d: illegal", at.Value))
			continue
		}
		lines = append(lines, fmt.Sprintf("Attack %d: result %d distance %d", at.Value, at.Result, at.Distance))
	}
	return lines
}

// Write prints the trace of sol to w.
func Write(w io.Writer, sol *countdown.Solution) error {
	return writeLines(w, Lines(sol))
}

// WriteResilient prints the resilient trace of sol to w.
func WriteResilient(w io.Writer, sol *countdown.ResilientSolution) error {
	return writeLines(w, ResilientLines(sol))
}

func writeLines(w io.Writer, lines []string) error {
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}
