package searcher

import (
	"sync/atomic"
	"time"
)

// SearchMetrics summarizes one decision's worth of search effort.
type SearchMetrics struct {
	StartTime    time.Time
	Duration     time.Duration
	Episodes     int64
	FullPlayouts int64
}

// Collector accumulates metrics across concurrent episodes.
type Collector interface {
	Start()
	AddEpisode()
	AddFullPlayout()
	Complete() SearchMetrics
}

type collector struct {
	startTime    time.Time
	episodes     atomic.Int64
	fullPlayouts atomic.Int64
}

func NewCollector() Collector { return &collector{} }

func (c *collector) Start()          { c.startTime = time.Now() }
func (c *collector) AddEpisode()     { c.episodes.Add(1) }
func (c *collector) AddFullPlayout() { c.fullPlayouts.Add(1) }

func (c *collector) Complete() SearchMetrics {
	return SearchMetrics{
		StartTime:    c.startTime,
		Duration:     time.Since(c.startTime),
		Episodes:     c.episodes.Load(),
		FullPlayouts: c.fullPlayouts.Load(),
	}
}

type dummyCollector struct{}

// NewDummyCollector records nothing; it is the default when metrics are not
// requested.
func NewDummyCollector() Collector { return dummyCollector{} }

func (dummyCollector) Start()                   {}
func (dummyCollector) AddEpisode()              {}
func (dummyCollector) AddFullPlayout()          {}
func (dummyCollector) Complete() SearchMetrics { return SearchMetrics{} }
