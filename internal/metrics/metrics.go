package metrics

import (
	"sync"
	"time"
)

type pipelineStats struct {
	fetchCalls       int
	fetchErrors      int
	lastFetchLatency time.Duration
	cycles           int
	cycleErrors      int
	changedGames     int
	broadcasts       int
	broadcastClients int
	publishes        int
	publishErrors    int
	cacheHits        int
	cacheMisses      int
	consumed         int
	consumeErrors    int
}

// Recorder captures lightweight in-memory metrics about the sync pipeline
// and mirrors them to OpenTelemetry instruments when configured. It is
// passed explicitly to each component; there is no global registry.
type Recorder struct {
	mu    sync.Mutex
	stats pipelineStats
	otel  *otelInstruments
}

// NewRecorder constructs a Recorder without telemetry export.
func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{otel: otel}
}

// RecordFetchAttempt counts one upstream fetch and its latency.
func (r *Recorder) RecordFetchAttempt(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.fetchCalls++
	r.stats.lastFetchLatency = duration
	if err != nil {
		r.stats.fetchErrors++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordFetchAttempt(provider, duration, err)
	}
}

// RecordPollerCycle counts one full pipeline cycle.
func (r *Recorder) RecordPollerCycle(duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.cycles++
	if err != nil {
		r.stats.cycleErrors++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordPollerCycle(duration, err)
	}
}

// RecordChangedGames counts games that passed change detection this cycle.
func (r *Recorder) RecordChangedGames(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.mu.Lock()
	r.stats.changedGames += n
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordChangedGames(n)
	}
}

// RecordBroadcast counts one socket fan-out and the subscribers reached.
func (r *Recorder) RecordBroadcast(clients int) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.broadcasts++
	r.stats.broadcastClients += clients
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordBroadcast(clients)
	}
}

// RecordPublish counts one durable-channel publish attempt.
func (r *Recorder) RecordPublish(err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.publishes++
	if err != nil {
		r.stats.publishErrors++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordPublish(err)
	}
}

// RecordCacheLookup counts a cache hit or miss.
func (r *Recorder) RecordCacheLookup(hit bool) {
	if r == nil {
		return
	}
	r.mu.Lock()
	if hit {
		r.stats.cacheHits++
	} else {
		r.stats.cacheMisses++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordCacheLookup(hit)
	}
}

// RecordConsumed counts one consumed channel message.
func (r *Recorder) RecordConsumed(err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.consumed++
	if err != nil {
		r.stats.consumeErrors++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordConsumed(err)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// Snapshot is a copy of the current in-memory counters.
type Snapshot struct {
	FetchCalls       int
	FetchErrors      int
	LastFetchLatency time.Duration
	Cycles           int
	CycleErrors      int
	ChangedGames     int
	Broadcasts       int
	BroadcastClients int
	Publishes        int
	PublishErrors    int
	CacheHits        int
	CacheMisses      int
	Consumed         int
	ConsumeErrors    int
}

// Snapshot returns a copy of the current stats.
func (r *Recorder) Snapshot() Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		FetchCalls:       r.stats.fetchCalls,
		FetchErrors:      r.stats.fetchErrors,
		LastFetchLatency: r.stats.lastFetchLatency,
		Cycles:           r.stats.cycles,
		CycleErrors:      r.stats.cycleErrors,
		ChangedGames:     r.stats.changedGames,
		Broadcasts:       r.stats.broadcasts,
		BroadcastClients: r.stats.broadcastClients,
		Publishes:        r.stats.publishes,
		PublishErrors:    r.stats.publishErrors,
		CacheHits:        r.stats.cacheHits,
		CacheMisses:      r.stats.cacheMisses,
		Consumed:         r.stats.consumed,
		ConsumeErrors:    r.stats.consumeErrors,
	}
}
