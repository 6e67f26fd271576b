package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gitrdm/countdown/internal/cache"
	"github.com/gitrdm/countdown/pkg/countdown"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestRouter(t *testing.T, withCache bool, solver ...countdown.OptimizeOption) *gin.Engine {
	t.Helper()
	opts := Options{Solver: solver, MetricsPath: "/metrics", Logger: zaptest.NewLogger(t)}
	if withCache {
		c, err := cache.Open(cache.Options{})
		require.NoError(t, err)
		t.Cleanup(func() { _ = c.Close() })
		opts.Cache = c
	}
	return New(opts).Router()
}

func post(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "/v1/solve", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	router := setupTestRouter(t, false)

	req, _ := http.NewRequest(http.MethodGet, "/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, countdown.GetVersion(), resp.Version)
}

func TestHandleSolve_Standard(t *testing.T) {
	router := setupTestRouter(t, false)

	w := post(t, router, `{"numbers":[1,3,5,8,10,50],"target":462}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var resp SolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Solution)
	assert.Nil(t, resp.Resilient)
	assert.False(t, resp.Cached)
	assert.False(t, resp.Partial)
	assert.Equal(t, 0, resp.Solution.Distance)
	assert.Equal(t, 4, resp.Solution.UsedCount)
	assert.Equal(t, "Distance from goal: 0", resp.Lines[len(resp.Lines)-1])
}

func TestHandleSolve_ZeroTarget(t *testing.T) {
	router := setupTestRouter(t, false)

	w := post(t, router, `{"numbers":[0,5,7,9,11,13],"target":0}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp SolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, countdown.NewObjective(0, 1), resp.Solution.Objective())
}

func TestHandleSolve_Resilient(t *testing.T) {
	router := setupTestRouter(t, false)

	w := post(t, router, `{"numbers":[1,3,5,8,10,50],"target":462,"resilient":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp SolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Resilient)
	assert.Nil(t, resp.Solution)
	assert.Len(t, resp.Resilient.Attacks, countdown.AttackMax-countdown.AttackMin+1)
	assert.True(t, strings.HasPrefix(resp.Lines[len(resp.Lines)-1], "Distance from goal after attack: "))
}

func TestHandleSolve_CachesResults(t *testing.T) {
	router := setupTestRouter(t, true)
	body := `{"numbers":[25,50,75,100,3,6],"target":952}`

	var first, second SolveResponse
	w := post(t, router, body)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.False(t, first.Cached)

	w = post(t, router, body)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.True(t, second.Cached)
	assert.Equal(t, first.Solution.Assignment, second.Solution.Assignment)
	assert.Equal(t, first.Lines, second.Lines)

	// The resilient mode has its own entry.
	w = post(t, router, `{"numbers":[25,50,75,100,3,6],"target":952,"resilient":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	var res SolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Cached)
}

func TestHandleSolve_PartialIsNotCached(t *testing.T) {
	router := setupTestRouter(t, true, countdown.WithNodeLimit(1))
	body := `{"numbers":[25,50,75,100,3,6],"target":952}`

	for i := 0; i < 2; i++ {
		w := post(t, router, body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp SolveResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Partial)
		assert.False(t, resp.Cached)
	}
}

func TestHandleSolve_Errors(t *testing.T) {
	router := setupTestRouter(t, false)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"malformed json", `{"numbers":`, "INVALID_REQUEST"},
		{"missing target", `{"numbers":[1,2,3,4,5,6]}`, "INVALID_REQUEST"},
		{"missing numbers", `{"target":10}`, "INVALID_REQUEST"},
		{"short pool", `{"numbers":[1,2,3],"target":6}`, "INVALID_PROBLEM"},
		{"long pool", `{"numbers":[1,2,3,4,5,6,7],"target":6}`, "INVALID_PROBLEM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, router, tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestHandleSolve_KeepsRequestID(t *testing.T) {
	router := setupTestRouter(t, false)

	req, _ := http.NewRequest(http.MethodPost, "/v1/solve",
		bytes.NewBufferString(`{"numbers":[1,3,5,8,10,50],"target":50}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	var resp SolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "req-42", resp.RequestID)
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouter(t, false)
	post(t, router, `{"numbers":[1,3,5,8,10,50],"target":462}`)

	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "countdown_solves_total")
}

func TestMetricsEndpoint_Disabled(t *testing.T) {
	router := New(Options{}).Router()

	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
