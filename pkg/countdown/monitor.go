package countdown

// monitor.go: statistics for the branch-and-bound search

import (
	"fmt"
	"sync"
	"time"
)

// SearchStats holds statistics about one solve call.
type SearchStats struct {
	NodesExplored int           // Prefixes visited, the initial selections included
	Candidates    int           // Nodes scored as complete assignments
	Incumbents    int           // Strict improvements of the best objective
	Pruned        int           // Subtrees cut by the step-count bound
	Rejected      int           // Extensions rejected by arithmetic or a constraint
	MaxDepth      int           // Deepest executed step reached
	Partitions    int           // Initial-selection partitions searched
	SearchTime    time.Duration // Wall time of the solve call
}

func (s SearchStats) String() string {
	return fmt.Sprintf("nodes=%d candidates=%d incumbents=%d pruned=%d rejected=%d depth=%d partitions=%d time=%s",
		s.NodesExplored, s.Candidates, s.Incumbents, s.Pruned, s.Rejected, s.MaxDepth, s.Partitions, s.SearchTime)
}

func (s *SearchStats) add(o SearchStats) {
	s.NodesExplored += o.NodesExplored
	s.Candidates += o.Candidates
	s.Incumbents += o.Incumbents
	s.Pruned += o.Pruned
	s.Rejected += o.Rejected
	s.Partitions += o.Partitions
	if o.MaxDepth > s.MaxDepth {
		s.MaxDepth = o.MaxDepth
	}
}

// SearchMonitor aggregates statistics from every worker of a solve call.
type SearchMonitor struct {
	mu        sync.Mutex
	stats     SearchStats
	startTime time.Time
}

// NewSearchMonitor creates a monitor whose clock starts now.
func NewSearchMonitor() *SearchMonitor {
	return &SearchMonitor{startTime: time.Now()}
}

// GetStats returns a copy of the current statistics.
func (m *SearchMonitor) GetStats() *SearchStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := m.stats
	return &stats
}

func (m *SearchMonitor) merge(local SearchStats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.add(local)
}

func (m *SearchMonitor) finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.SearchTime = time.Since(m.startTime)
}
