package report

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/countdown/pkg/countdown"
)

func TestLines_InitialOnly(t *testing.T) {
	sol, err := countdown.Solve(context.Background(), []int{1, 3, 5, 8, 10, 50}, 50)
	require.NoError(t, err)

	want := []string{
		"Initial number : 50",
		"Final number : 50",
		"Distance from goal: 0",
	}
	if diff := cmp.Diff(want, Lines(sol)); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
}

func TestLines_HandBuiltSolution(t *testing.T) {
	sol := &countdown.Solution{
		Problem:  countdown.Problem{Numbers: []int{1, 3, 5, 8, 10, 50}, Target: 462},
		Distance: 0,
	}
	a := &sol.Assignment
	a.Operands = [6]int{5, 1, 4, 3, 0, 0}
	a.Ops = [6]countdown.Op{countdown.OpAdd, countdown.OpSub, countdown.OpMul, countdown.OpSub, countdown.OpAdd, countdown.OpAdd}
	a.Executed = [6]bool{true, true, true, true, false, false}
	a.Values = [6]int{50, 47, 470, 462, 462, 462}
	sol.UsedCount = a.UsedCount()

	want := []string{
		"Initial number : 50",
		"Step 1: operation - with number 3 -> result 47",
		"Step 2: operation * with number 10 -> result 470",
		"Step 3: operation - with number 8 -> result 462",
		"Final number : 462",
		"Distance from goal: 0",
	}
	if diff := cmp.Diff(want, Lines(sol)); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_ReplaysSolver(t *testing.T) {
	sol, err := countdown.Solve(context.Background(), []int{1, 3, 5, 8, 10, 50}, 462)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sol))
	out := buf.String()
	require.True(t, strings.HasSuffix(out, "Final number : 462\nDistance from goal: 0\n"), out)
	require.Equal(t, sol.UsedCount+2, strings.Count(out, "\n"))
}

func TestWriteResilient_AppendsWorstDistance(t *testing.T) {
	sol, err := countdown.SolveResilient(context.Background(), []int{1, 3, 5, 8, 10, 50}, 462)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteResilient(&buf, sol))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Contains(t, lines[1], "Step 1: operation")
	require.Equal(t, "Distance from goal after attack: "+strconv.Itoa(sol.WorstDistance), lines[len(lines)-1])

	attacks := AttackLines(sol)
	require.Len(t, attacks, countdown.AttackMax-countdown.AttackMin+1)
	require.True(t, strings.HasPrefix(attacks[0], "Attack 1: "))
}
