// Licensed to LinDB under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. LinDB licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package monitoring implements the metrics collector (§4.7): a periodic
// sampler running on its own goroutine that refreshes system metrics from
// platform sources, composes a snapshot, and pushes it into a bounded
// ring buffer.
package monitoring

import (
	"errors"
	"time"

	"go.uber.org/atomic"

	"github.com/lindb/common/pkg/logger"

	"github.com/lindb/taskpool/config"
	"github.com/lindb/taskpool/metrics"
	"github.com/lindb/taskpool/ringbuffer"
)

// ErrAlreadyRunning is returned by Start when the collector is already
// active.
var ErrAlreadyRunning = errors.New("monitoring: collector already running")

// overheadBudgetDivisor is §4.7's documented "<= collection_interval/10"
// soft target.
const overheadBudgetDivisor = 10

// Collector is the periodic sampler described in §4.7. It owns a
// metrics.Registry (the handles it samples from) and a bounded
// ringbuffer.MPMC of historical snapshots.
type Collector struct {
	cfg      *config.Monitor
	registry *metrics.Registry
	history  *ringbuffer.MPMC[metrics.Snapshot]
	sys      *systemCollector
	stats    *CollectionStats

	running atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	logger logger.Logger
}

// NewCollector builds a collector from cfg. The returned collector is not
// running until Start is called.
func NewCollector(cfg *config.Monitor) *Collector {
	registry := metrics.NewRegistry()
	return &Collector{
		cfg:      cfg,
		registry: registry,
		history:  ringbuffer.NewMPMC[metrics.Snapshot](cfg.BufferSize),
		sys:      newSystemCollector(metrics.NewSystemMetrics()),
		stats:    newCollectionStats(),
		logger:   logger.GetLogger("Monitoring", "Collector"),
	}
}

// RegisterSystem installs the system metrics handle the collector
// refreshes from platform sources each cycle.
func (c *Collector) RegisterSystem(m *metrics.SystemMetrics) {
	c.sys.target = m
	c.registry.RegisterSystem(m)
}

// RegisterThreadPool installs the thread-pool metrics handle. The
// collector only touches its timestamp each cycle (§4.7): the pool and
// its workers are the ones updating the counters.
func (c *Collector) RegisterThreadPool(m *metrics.ThreadPoolMetrics) {
	c.registry.RegisterThreadPool(m)
}

// RegisterWorker installs the worker metrics handle. Same timestamp-only
// touch rule as RegisterThreadPool.
func (c *Collector) RegisterWorker(m *metrics.WorkerMetrics) {
	c.registry.RegisterWorker(m)
}

// Start spawns the collection goroutine. Returns ErrAlreadyRunning if
// already active.
func (c *Collector) Start() error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	c.stopCh = make(chan struct{})
	c.doneCh = make(chan struct{})
	go c.run()
	return nil
}

// Stop signals the collection goroutine and joins it. Idempotent.
func (c *Collector) Stop() {
	if !c.running.CompareAndSwap(true, false) {
		return
	}
	close(c.stopCh)
	<-c.doneCh
}

func (c *Collector) run() {
	defer close(c.doneCh)

	interval := time.Duration(c.cfg.CollectionInterval)
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	budget := interval / overheadBudgetDivisor

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.collectOnce(budget)
		}
	}
}

// collectOnce performs one collection cycle: §4.7 steps 2-5.
func (c *Collector) collectOnce(budget time.Duration) {
	start := time.Now()
	errs := 0

	if c.cfg.EnableSystemMetrics {
		errs += c.sys.collect(c.cfg.LowOverheadMode)
	}
	if c.cfg.EnableThreadPoolMetrics {
		if tp := c.registry.ThreadPool(); tp != nil {
			tp.Touch()
		}
	}
	if c.cfg.EnableWorkerMetrics {
		if w := c.registry.Worker(); w != nil {
			w.Touch()
		}
	}

	snap := c.registry.CurrentSnapshot()
	_, evicted := c.history.PushEvict(snap)

	c.stats.record(time.Since(start), errs, evicted, budget)
}

// CurrentSnapshot returns a value-copy of the three registered handles at
// call time — not a sampled point from the collection loop (§4.7).
func (c *Collector) CurrentSnapshot() metrics.Snapshot {
	return c.registry.CurrentSnapshot()
}

// RecentSnapshots returns up to k historical snapshots in chronological
// order.
func (c *Collector) RecentSnapshots(k int) []metrics.Snapshot {
	return c.history.Recent(k)
}

// CollectionStats returns the collector's own health counters.
func (c *Collector) CollectionStats() CollectionStatsSnapshot {
	return c.stats.Snapshot()
}

// Running reports whether the collector's goroutine is active.
func (c *Collector) Running() bool {
	return c.running.Load()
}
