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

// Package concurrent implements the priority-partitioned, worker-affinity
// thread pool (§4.1-§4.4): Job, PriorityQueue, Worker and Pool.
package concurrent

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/lindb/common/pkg/logger"

	"github.com/lindb/taskpool/metrics"
)

// poolState mirrors thread_pool_t's lifecycle in the original source:
// Constructed -> Started -> Stopping -> Stopped. AddWorker is only valid
// in Constructed; Enqueue is only valid in Started.
type poolState int32

const (
	poolConstructed poolState = iota
	poolStarted
	poolStopping
	poolStopped
)

// WorkerGroup describes one call to AddWorker: count identical workers,
// each watching priorities in the given order.
type WorkerGroup[P Priority] struct {
	Count      int
	Priorities []P
}

// Pool is the priority-partitioned, worker-affinity thread pool (§4.1).
// Workers are added in groups, each group pinned to a subset of
// priorities (§4.3's "worker affinity"); Enqueue routes a job into its
// priority's partition, where any worker watching that priority may pick
// it up. Safe for concurrent use once Started.
type Pool[P Priority] struct {
	mu      sync.Mutex
	state   poolState
	queue   *PriorityQueue[P]
	workers []*Worker[P]
	nextID  int32

	poolMetrics *metrics.ThreadPoolMetrics
	logger      logger.Logger

	maxprocsOnce sync.Once
}

// NewPool creates an unstarted pool with an empty worker set.
func NewPool[P Priority](pm *metrics.ThreadPoolMetrics) *Pool[P] {
	if pm == nil {
		pm = metrics.NewThreadPoolMetrics()
	}
	return &Pool[P]{
		state:       poolConstructed,
		queue:       NewPriorityQueue[P](),
		poolMetrics: pm,
		logger:      logger.GetLogger("Concurrent", "Pool"),
	}
}

// PoolMetrics returns the shared metrics record this pool's workers
// report into. Register it with a metrics.Registry to make it visible to
// a collector.
func (p *Pool[P]) PoolMetrics() *metrics.ThreadPoolMetrics {
	return p.poolMetrics
}

// AddWorker appends count workers, each watching priorities in the given
// order (§4.3). Must be called before Start; returns ErrAlreadyStarted
// otherwise.
func (p *Pool[P]) AddWorker(group WorkerGroup[P]) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != poolConstructed {
		return newError(ErrAlreadyStarted, nil)
	}
	for i := 0; i < group.Count; i++ {
		id := int(atomic.AddInt32(&p.nextID, 1))
		wm := metrics.NewWorkerMetrics()
		w := newWorker[P](id, group.Priorities, p.queue, wm, p.poolMetrics)
		p.workers = append(p.workers, w)
	}
	p.poolMetrics.WorkerThreads.Store(uint64(len(p.workers)))
	return nil
}

// restartLocked rebuilds a fresh queue and fresh Worker instances from the
// priority sets of the pool's existing (now-exited) workers, so a second
// Start after a full Stop resumes with the same worker-affinity layout
// AddWorker originally configured. Called with p.mu held.
func (p *Pool[P]) restartLocked() {
	p.queue = NewPriorityQueue[P]()
	rebuilt := make([]*Worker[P], len(p.workers))
	for i, w := range p.workers {
		wm := metrics.NewWorkerMetrics()
		rebuilt[i] = newWorker[P](w.id, w.priorities, p.queue, wm, p.poolMetrics)
	}
	p.workers = rebuilt
}

// DefaultWorkerCount reports the current GOMAXPROCS value, which reflects
// the cgroup CPU quota once go.uber.org/automaxprocs has been applied by a
// pool's Start. It falls back to the number of logical CPUs visible to the
// runtime only if GOMAXPROCS reports a non-positive value.
func DefaultWorkerCount() int {
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Start applies the container CPU quota (via automaxprocs, once per
// pool, on its first Start) and launches every added worker's goroutine. Returns
// ErrAlreadyStarted if the pool is already running or mid-shutdown.
//
// Re-start is permitted only after a full Stopped transition (§3): calling
// Start again once Stop has returned rebuilds a fresh queue and fresh
// worker goroutines from the same worker groups AddWorker configured
// originally, and resumes serving Enqueue. A pool that never reaches
// Stopped (poolConstructed or poolStarted or poolStopping) behaves as
// before.
func (p *Pool[P]) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case poolConstructed:
		// first start, nothing to rebuild
	case poolStopped:
		p.restartLocked()
	default:
		return newError(ErrAlreadyStarted, nil)
	}

	p.maxprocsOnce.Do(func() {
		if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			p.logger.Info(fmt.Sprintf("automaxprocs: "+format, args...))
		})); err != nil {
			p.logger.Warn("failed to set GOMAXPROCS from cgroup quota", logger.Error(err))
		}
	})

	for _, w := range p.workers {
		w.Start()
	}
	p.state = poolStarted
	return nil
}

// Enqueue submits job to the shared queue. Returns ErrNotStarted if the
// pool hasn't been started, ErrShuttingDown during a draining Stop, or
// ErrStopped once fully stopped.
func (p *Pool[P]) Enqueue(job Job[P]) error {
	p.mu.Lock()
	state := p.state
	q := p.queue
	p.mu.Unlock()

	if state == poolConstructed {
		return newError(ErrNotStarted, nil)
	}
	if err := q.Enqueue(job); err != nil {
		return err
	}
	p.poolMetrics.JobsPending.Inc()
	return nil
}

// Stop implements the two-phase shutdown protocol (§4.4). When drain is
// true, the queue stops accepting new jobs but every already-enqueued job
// still runs before workers exit (Quiesce, then wait for empty, then
// Stop). When drain is false, the queue is stopped immediately: workers
// finish only the job they're currently running, and anything still
// queued is discarded. Either way, Stop blocks until every worker
// goroutine has exited.
func (p *Pool[P]) Stop(drain bool) {
	p.mu.Lock()
	if p.state == poolStopped || p.state == poolStopping {
		p.mu.Unlock()
		return
	}
	p.state = poolStopping
	workers := p.workers
	p.mu.Unlock()

	if drain {
		p.queue.Quiesce()
		p.waitForDrain()
		p.queue.Stop()
	} else {
		p.queue.DiscardAndStop()
	}

	for _, w := range workers {
		w.Join()
	}

	p.mu.Lock()
	p.state = poolStopped
	p.mu.Unlock()
}

// waitForDrain blocks until every partition watched by some worker is
// empty, yielding with runtime.Gosched between checks. This mirrors the original
// source's stop(true) busy-wait on queue emptiness rather than adding a
// second condition variable purely for shutdown.
func (p *Pool[P]) waitForDrain() {
	priorities := p.allWatchedPriorities()
	for !p.queue.Empty(priorities) {
		runtime.Gosched()
	}
}

func (p *Pool[P]) allWatchedPriorities() []P {
	seen := make(map[P]struct{})
	var all []P
	for _, w := range p.workers {
		for _, pr := range w.priorities {
			if _, ok := seen[pr]; !ok {
				seen[pr] = struct{}{}
				all = append(all, pr)
			}
		}
	}
	return all
}

// EnqueuedCount returns the number of jobs currently queued across every
// partition.
func (p *Pool[P]) EnqueuedCount() int {
	p.mu.Lock()
	q := p.queue
	p.mu.Unlock()
	return q.Size()
}

// ActiveWorkers returns the number of workers currently executing a job.
func (p *Pool[P]) ActiveWorkers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, w := range p.workers {
		if w.State() == workerWorking {
			n++
		}
	}
	return n
}

// QueueDepth returns the number of jobs currently sitting in the shared
// queue, waiting to be picked up by a worker (§4.4's queue_depth()). This
// is EnqueuedCount under another name, kept distinct because the two
// getters answer different questions in spec.md's operation table even
// though this pool has a single shared queue backing both.
func (p *Pool[P]) QueueDepth() int {
	p.mu.Lock()
	q := p.queue
	p.mu.Unlock()
	return q.Size()
}
