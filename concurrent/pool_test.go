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
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPool_EnqueueBeforeStartFails(t *testing.T) {
	p := NewPool[testPriority](nil)
	err := p.Enqueue(NewFunc(high, func() error { return nil }))
	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, ErrNotStarted, kind)
}

func TestPool_AddWorkerAfterStartFails(t *testing.T) {
	p := NewPool[testPriority](nil)
	assert.NoError(t, p.AddWorker(WorkerGroup[testPriority]{Count: 1, Priorities: allPriorities}))
	assert.NoError(t, p.Start())
	defer p.Stop(false)

	err := p.AddWorker(WorkerGroup[testPriority]{Count: 1, Priorities: allPriorities})
	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, ErrAlreadyStarted, kind)
}

func TestPool_RunsEnqueuedJobs(t *testing.T) {
	p := NewPool[testPriority](nil)
	assert.NoError(t, p.AddWorker(WorkerGroup[testPriority]{Count: 2, Priorities: allPriorities}))
	assert.NoError(t, p.Start())

	var completed int32
	var wg sync.WaitGroup
	wg.Add(10)
	for i := 0; i < 10; i++ {
		assert.NoError(t, p.Enqueue(NewFunc(normal, func() error {
			atomic.AddInt32(&completed, 1)
			wg.Done()
			return nil
		})))
	}

	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(2 * time.Second):
		t.Fatal("jobs never completed")
	}

	p.Stop(true)
	assert.Equal(t, int32(10), atomic.LoadInt32(&completed))
}

func TestPool_StopDrainRunsQueuedJobs(t *testing.T) {
	p := NewPool[testPriority](nil)
	assert.NoError(t, p.AddWorker(WorkerGroup[testPriority]{Count: 1, Priorities: allPriorities}))
	assert.NoError(t, p.Start())

	var completed int32
	for i := 0; i < 5; i++ {
		assert.NoError(t, p.Enqueue(NewFunc(normal, func() error {
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&completed, 1)
			return nil
		})))
	}

	p.Stop(true)
	assert.Equal(t, int32(5), atomic.LoadInt32(&completed))

	err := p.Enqueue(NewFunc(normal, func() error { return nil }))
	assert.Error(t, err)
}

func TestPool_StopImmediateMayDiscardQueuedJobs(t *testing.T) {
	p := NewPool[testPriority](nil)
	assert.NoError(t, p.AddWorker(WorkerGroup[testPriority]{Count: 1, Priorities: allPriorities}))
	assert.NoError(t, p.Start())

	var completed int32
	block := make(chan struct{})
	assert.NoError(t, p.Enqueue(NewFunc(normal, func() error {
		<-block
		atomic.AddInt32(&completed, 1)
		return nil
	})))
	const backlog = 5
	for i := 0; i < backlog; i++ {
		assert.NoError(t, p.Enqueue(NewFunc(normal, func() error {
			atomic.AddInt32(&completed, 1)
			return nil
		})))
	}

	done := make(chan struct{})
	go func() {
		p.Stop(false)
		close(done)
	}()

	// Give the sole worker time to block on the in-hand job and Stop time
	// to observe and discard the backlog before unblocking that job.
	time.Sleep(10 * time.Millisecond)
	close(block)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("immediate stop never completed")
	}

	// Only the job already in the worker's hand may have run; none of the
	// still-queued backlog should have been picked up (§4.4 drain=false).
	assert.Less(t, int(atomic.LoadInt32(&completed)), backlog+1)
	assert.Equal(t, int32(1), atomic.LoadInt32(&completed))
}

func TestPool_ActiveWorkersReflectsInFlightJobs(t *testing.T) {
	p := NewPool[testPriority](nil)
	assert.NoError(t, p.AddWorker(WorkerGroup[testPriority]{Count: 1, Priorities: allPriorities}))
	assert.NoError(t, p.Start())

	block := make(chan struct{})
	assert.NoError(t, p.Enqueue(NewFunc(normal, func() error {
		<-block
		return nil
	})))

	assert.Eventually(t, func() bool {
		return p.ActiveWorkers() == 1
	}, time.Second, time.Millisecond)

	close(block)
	p.Stop(false)
}

func TestDefaultWorkerCount_Positive(t *testing.T) {
	assert.True(t, DefaultWorkerCount() > 0)
}

func TestPool_QueueDepthReflectsBacklog(t *testing.T) {
	p := NewPool[testPriority](nil)
	assert.NoError(t, p.AddWorker(WorkerGroup[testPriority]{Count: 1, Priorities: allPriorities}))
	assert.NoError(t, p.Start())
	defer p.Stop(false)

	block := make(chan struct{})
	assert.NoError(t, p.Enqueue(NewFunc(normal, func() error {
		<-block
		return nil
	})))
	for i := 0; i < 3; i++ {
		assert.NoError(t, p.Enqueue(NewFunc(normal, func() error { return nil })))
	}

	assert.Eventually(t, func() bool {
		return p.QueueDepth() == 3
	}, time.Second, time.Millisecond)

	close(block)
}

// TestPool_RestartAfterFullStop exercises spec.md §3's "Re-start is
// permitted only after a full Stopped transition": Start after a
// completed Stop rebuilds the queue and worker goroutines and resumes
// serving Enqueue with the same worker-affinity layout.
func TestPool_RestartAfterFullStop(t *testing.T) {
	p := NewPool[testPriority](nil)
	assert.NoError(t, p.AddWorker(WorkerGroup[testPriority]{Count: 2, Priorities: allPriorities}))
	assert.NoError(t, p.Start())

	var firstRun int32
	var wg sync.WaitGroup
	wg.Add(3)
	for i := 0; i < 3; i++ {
		assert.NoError(t, p.Enqueue(NewFunc(normal, func() error {
			atomic.AddInt32(&firstRun, 1)
			wg.Done()
			return nil
		})))
	}
	wg.Wait()
	p.Stop(true)

	err := p.Enqueue(NewFunc(normal, func() error { return nil }))
	assert.Error(t, err)

	assert.NoError(t, p.Start())
	defer p.Stop(true)

	var secondRun int32
	var wg2 sync.WaitGroup
	wg2.Add(3)
	for i := 0; i < 3; i++ {
		assert.NoError(t, p.Enqueue(NewFunc(normal, func() error {
			atomic.AddInt32(&secondRun, 1)
			wg2.Done()
			return nil
		})))
	}

	done := make(chan struct{})
	go func() {
		wg2.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("jobs never completed after restart")
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&secondRun))
}
