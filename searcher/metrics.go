package searcher

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	StartTime    time.Time
	Duration     time.Duration
	Episodes     int64 // MCTS episodes
	FullPlayouts int64 // MCTS rollouts that reached the end of the game
	Nodes        int64 // minimax positions expanded
	CacheHits    int64 // minimax transposition hits
}

type Collector interface {
	Start()
	AddEpisode()
	AddFullPlayout()
	AddNode()
	AddCacheHit()
	Complete() SearchMetric
}

type collector struct {
	startTime    time.Time
	episodes     atomic.Int64
	fullPlayouts atomic.Int64
	nodes        atomic.Int64
	cacheHits    atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	m.startTime = time.Now()
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
	m.nodes.Store(0)
	m.cacheHits.Store(0)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddCacheHit() {
	m.cacheHits.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		StartTime:    m.startTime,
		Duration:     time.Since(m.startTime),
		Episodes:     m.episodes.Load(),
		FullPlayouts: m.fullPlayouts.Load(),
		Nodes:        m.nodes.Load(),
		CacheHits:    m.cacheHits.Load(),
	}
}

type noCollector struct{}

func NewNoCollector() Collector {
	return &noCollector{}
}

func (m *noCollector) Start()                 {}
func (m *noCollector) AddEpisode()            {}
func (m *noCollector) AddFullPlayout()        {}
func (m *noCollector) AddNode()               {}
func (m *noCollector) AddCacheHit()           {}
func (m *noCollector) Complete() SearchMetric { return SearchMetric{} }
