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
	"sync"

	"go.uber.org/atomic"
)

// PriorityQueue is a priority-partitioned, bounded-wait FIFO. Jobs of the
// same priority are dequeued strictly in enqueue order; across priorities,
// Dequeue scans the caller-supplied priority list in order and returns the
// first match, so the caller's list order is the effective scheduling
// policy for that call (see job_priorities.all_priorities in the original
// source: [High, Normal, Low]).
//
// This mirrors priority_job_queue_t from the original C++ source
// (std::map<priority_type, std::deque<...>>) with a sync.Cond standing in
// for the condition-variable wait the original uses internally.
type PriorityQueue[P Priority] struct {
	mu   sync.Mutex
	cond *sync.Cond

	partitions map[P][]Job[P]

	stopped   atomic.Bool // Stop(): no more jobs will ever be handed out
	quiescing atomic.Bool // Quiesce(): no new enqueues, drain what's left
}

// NewPriorityQueue creates an empty queue. kinds need not be supplied up
// front: partitions are created lazily on first use of a priority value.
func NewPriorityQueue[P Priority]() *PriorityQueue[P] {
	q := &PriorityQueue[P]{
		partitions: make(map[P][]Job[P]),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue takes ownership of job and appends it to its priority partition.
func (q *PriorityQueue[P]) Enqueue(job Job[P]) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stopped.Load() {
		return newError(ErrStopped, nil)
	}
	if q.quiescing.Load() {
		return newError(ErrShuttingDown, nil)
	}
	p := job.JobPriority()
	q.partitions[p] = append(q.partitions[p], job)
	q.cond.Broadcast()
	return nil
}

// EnqueueBatch enqueues jobs in order. On the first failure (queue
// stopped or quiescing) it stops and returns the count of jobs that
// succeeded along with the error for the first failing index; jobs prior
// to the failing index remain enqueued (no rollback).
func (q *PriorityQueue[P]) EnqueueBatch(jobs []Job[P]) (int, error) {
	for i, job := range jobs {
		if err := q.Enqueue(job); err != nil {
			return i, err
		}
	}
	return len(jobs), nil
}

// Dequeue blocks until a job matching one of priorities is available or
// the queue is stopped. priorities is scanned in order; the first
// non-empty matching partition wins, so callers encode their effective
// scheduling policy in the slice order (high-to-low, conventionally).
func (q *PriorityQueue[P]) Dequeue(priorities []P) (Job[P], error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		if job, ok := q.popLocked(priorities); ok {
			return job, nil
		}
		if q.stopped.Load() {
			return nil, newError(ErrStopped, nil)
		}
		q.cond.Wait()
	}
}

// TryDequeue never blocks: it returns (nil, nil) if no matching job is
// currently available and the queue isn't stopped.
func (q *PriorityQueue[P]) TryDequeue(priorities []P) (Job[P], error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if job, ok := q.popLocked(priorities); ok {
		return job, nil
	}
	if q.stopped.Load() {
		return nil, newError(ErrStopped, nil)
	}
	return nil, nil
}

func (q *PriorityQueue[P]) popLocked(priorities []P) (Job[P], bool) {
	for _, p := range priorities {
		bucket := q.partitions[p]
		if len(bucket) == 0 {
			continue
		}
		job := bucket[0]
		// Avoid retaining a reference to a dequeued slot.
		bucket[0] = nil
		q.partitions[p] = bucket[1:]
		return job, true
	}
	return nil, false
}

// Stop marks the queue fully stopped: Enqueue fails from now on, and every
// blocked Dequeue wakes and returns ErrStopped once its matching
// partitions are drained. Idempotent.
func (q *PriorityQueue[P]) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stopped.Store(true)
	q.cond.Broadcast()
}

// DiscardAndStop marks the queue fully stopped and drops every job still
// sitting in a partition, unclaimed. Unlike Stop, a blocked Dequeue never
// gets to hand out backlog after this call returns: the partitions are
// cleared under the same lock that sets stopped, so popLocked can't win a
// race and serve a job from a partition that's about to be wiped. This is
// the §4.4 stop(drain=false) semantics: only the job a worker already
// holds finishes, nothing still queued runs.
func (q *PriorityQueue[P]) DiscardAndStop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stopped.Store(true)
	for p := range q.partitions {
		delete(q.partitions, p)
	}
	q.cond.Broadcast()
}

// Quiesce stops accepting new jobs (Enqueue returns ErrShuttingDown) while
// leaving already-enqueued jobs dequeuable. This is the first half of
// Pool.Stop(drain=true); the pool calls Stop once the queue observes
// Empty for every priority it cares about.
func (q *PriorityQueue[P]) Quiesce() {
	q.quiescing.Store(true)
}

// Stopped reports whether Stop has been called.
func (q *PriorityQueue[P]) Stopped() bool {
	return q.stopped.Load()
}

// Size returns the total number of jobs currently queued across every
// partition.
func (q *PriorityQueue[P]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	total := 0
	for _, bucket := range q.partitions {
		total += len(bucket)
	}
	return total
}

// Empty reports whether every partition named in priorities currently has
// no queued jobs.
func (q *PriorityQueue[P]) Empty(priorities []P) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, p := range priorities {
		if len(q.partitions[p]) > 0 {
			return false
		}
	}
	return true
}
