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

package concurrent

import (
	"time"

	"go.uber.org/atomic"

	"github.com/lindb/common/pkg/logger"

	"github.com/lindb/taskpool/metrics"
)

// workerState mirrors priority_thread_worker's lifecycle in the original
// source: Created -> Waiting/Working (oscillating) -> Stopping -> Stopped.
type workerState int32

const (
	workerCreated workerState = iota
	workerWaiting
	workerWorking
	workerStopping
	workerStopped
)

// Worker pulls jobs from a shared PriorityQueue and runs them one at a
// time on its own goroutine. Each worker watches only the priorities it
// was configured with (affinity, §4.3): a worker built for
// []Priority{High} never sees a Normal job, even if the pool as a whole
// also runs workers listening on Normal.
type Worker[P Priority] struct {
	id         int
	priorities []P
	queue      *PriorityQueue[P]
	metrics    *metrics.WorkerMetrics
	poolMetric *metrics.ThreadPoolMetrics

	state  atomic.Int32 // workerState, written by run()'s goroutine, read by Pool.ActiveWorkers()
	doneCh chan struct{}
	logger logger.Logger
}

// newWorker builds a worker. It does not start running until Start is
// called.
func newWorker[P Priority](id int, priorities []P, queue *PriorityQueue[P], wm *metrics.WorkerMetrics, pm *metrics.ThreadPoolMetrics) *Worker[P] {
	w := &Worker[P]{
		id:         id,
		priorities: priorities,
		queue:      queue,
		metrics:    wm,
		poolMetric: pm,
		doneCh:     make(chan struct{}),
		logger:     logger.GetLogger("Concurrent", "Worker"),
	}
	w.state.Store(int32(workerCreated))
	return w
}

// Start spawns the worker's run loop goroutine.
func (w *Worker[P]) Start() {
	go w.run()
}

// Join blocks until the worker's run loop has returned.
func (w *Worker[P]) Join() {
	<-w.doneCh
}

// State reports the worker's current lifecycle state.
func (w *Worker[P]) State() workerState {
	return workerState(w.state.Load())
}

func (w *Worker[P]) run() {
	defer close(w.doneCh)
	w.enterWaiting()

	for {
		idleStart := time.Now()
		job, err := w.queue.Dequeue(w.priorities)
		idleElapsed := time.Since(idleStart)
		w.metrics.IdleTimeNs.Add(uint64(idleElapsed.Nanoseconds()))

		if err != nil {
			// ErrStopped: the queue has been fully stopped and drained of
			// every partition this worker watches.
			w.state.Store(int32(workerStopping))
			if w.poolMetric != nil {
				w.poolMetric.IdleThreads.Dec()
			}
			w.state.Store(int32(workerStopped))
			return
		}

		w.metrics.ContextSwitches.Inc()
		w.state.Store(int32(workerWorking))
		if w.poolMetric != nil {
			w.poolMetric.IdleThreads.Dec()
		}
		w.runJob(job)
		w.enterWaiting()
	}
}

// enterWaiting transitions into workerWaiting and keeps
// ThreadPoolMetrics.IdleThreads (§4.6) consistent with the count of
// workers currently blocked in Dequeue rather than running a job.
func (w *Worker[P]) enterWaiting() {
	w.state.Store(int32(workerWaiting))
	if w.poolMetric != nil {
		w.poolMetric.IdleThreads.Inc()
	}
}

// runJob executes job with panic containment (§5's supplemented
// requirement): a panicking job must not crash the worker goroutine or
// the process, and is recorded the same way a returned error would be.
func (w *Worker[P]) runJob(job Job[P]) {
	start := time.Now()
	var jobErr error

	func() {
		defer func() {
			if r := recover(); r != nil {
				jobErr = newError(ErrJobExecutionFailed, recoverToError(r))
			}
		}()
		if err := job.Run(); err != nil {
			jobErr = newError(ErrJobExecutionFailed, err)
		}
	}()

	elapsed := time.Since(start)
	w.metrics.JobsProcessed.Inc()
	w.metrics.TotalProcessingTimeNs.Add(uint64(elapsed.Nanoseconds()))
	w.metrics.Touch()

	if w.poolMetric != nil {
		w.poolMetric.RecordCompletion(elapsed)
		w.poolMetric.JobsPending.Dec()
	}

	if jobErr != nil {
		w.logger.Warn("job execution failed",
			logger.String("job", jobID(job)),
			logger.Error(jobErr))
	}
}
