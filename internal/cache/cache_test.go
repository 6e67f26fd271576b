package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gitrdm/countdown/pkg/countdown"
)

func openInMemory(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestKey(t *testing.T) {
	p, err := countdown.NewProblem([]int{1, 3, 5, 8, 10, 50}, 462)
	require.NoError(t, err)
	assert.Equal(t, "solve/standard/1,3,5,8,10,50/462", string(Key(ModeStandard, p)))
	assert.Equal(t, "solve/resilient/1,3,5,8,10,50/462", string(Key(ModeResilient, p)))

	q, err := countdown.NewProblem([]int{-1, 3, 5, 8, 10, 50}, -462)
	require.NoError(t, err)
	assert.NotEqual(t, Key(ModeStandard, p), Key(ModeStandard, q))
}

func TestCache_SolutionRoundTrip(t *testing.T) {
	c := openInMemory(t)

	sol, err := countdown.Solve(context.Background(), []int{1, 3, 5, 8, 10, 50}, 462)
	require.NoError(t, err)

	_, ok, err := c.GetSolution(&sol.Problem)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.PutSolution(sol))
	got, ok, err := c.GetSolution(&sol.Problem)
	require.NoError(t, err)
	require.True(t, ok)
	if diff := cmp.Diff(sol, got); diff != "" {
		t.Errorf("cached solution mismatch (-want +got):\n%s", diff)
	}
}

func TestCache_ModesAreSeparate(t *testing.T) {
	c := openInMemory(t)

	res, err := countdown.SolveResilient(context.Background(), []int{1, 3, 5, 8, 10, 50}, 462)
	require.NoError(t, err)
	require.NoError(t, c.PutResilient(res))

	_, ok, err := c.GetSolution(&res.Problem)
	require.NoError(t, err)
	assert.False(t, ok, "resilient entry must not satisfy a standard lookup")

	got, ok, err := c.GetResilient(&res.Problem)
	require.NoError(t, err)
	require.True(t, ok)
	if diff := cmp.Diff(res, got); diff != "" {
		t.Errorf("cached resilient solution mismatch (-want +got):\n%s", diff)
	}
}

func TestCache_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	sol, err := countdown.Solve(context.Background(), []int{25, 50, 75, 100, 3, 6}, 952)
	require.NoError(t, err)

	c, err := Open(Options{Dir: dir, Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	require.NoError(t, c.PutSolution(sol))
	require.NoError(t, c.Close())

	c, err = Open(Options{Dir: dir})
	require.NoError(t, err)
	defer c.Close()

	got, ok, err := c.GetSolution(&sol.Problem)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sol.Assignment, got.Assignment)
}

func TestCache_TTLExpires(t *testing.T) {
	c, err := Open(Options{TTL: time.Second})
	require.NoError(t, err)
	defer c.Close()

	sol, err := countdown.Solve(context.Background(), []int{1, 3, 5, 8, 10, 50}, 50)
	require.NoError(t, err)
	require.NoError(t, c.PutSolution(sol))

	_, ok, err := c.GetSolution(&sol.Problem)
	require.NoError(t, err)
	require.True(t, ok)

	require.Eventually(t, func() bool {
		_, ok, err := c.GetSolution(&sol.Problem)
		return err == nil && !ok
	}, 5*time.Second, 100*time.Millisecond)
}
