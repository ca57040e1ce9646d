package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Goroutines int
	MaxDepth   int // 0 when unbounded
	Candidates int
	Duration   time.Duration
	Nodes      int
	CacheHits  int
}

type MoveMetric struct {
	Step   int
	Player int // Player ID
	Move   string
	Score  int
	SearchMetric
}

type GameMetric struct {
	StartingPlayer int // Player ID
	Winner         int // Player ID, 0 for a draw
	Outcome        string
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(goroutines, maxDepth, candidates int)
	AddNode()
	AddCacheHit()
	Complete() SearchMetric
}

type collector struct {
	goroutines int
	maxDepth   int
	candidates int
	startTime  time.Time
	nodes      atomic.Int64
	cacheHits  atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines, maxDepth, candidates int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.maxDepth = maxDepth
	m.candidates = candidates
	m.nodes.Store(0)
	m.cacheHits.Store(0)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddCacheHit() {
	m.cacheHits.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Goroutines: m.goroutines,
		MaxDepth:   m.maxDepth,
		Candidates: m.candidates,
		Duration:   time.Since(m.startTime),
		Nodes:      int(m.nodes.Load()),
		CacheHits:  int(m.cacheHits.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines, maxDepth, candidates int) {}
func (m *dummyCollector) AddNode()                                   {}
func (m *dummyCollector) AddCacheHit()                               {}
func (m *dummyCollector) Complete() SearchMetric                     { return SearchMetric{} }
