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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testPriority int

const (
	high   testPriority = 0
	normal testPriority = 1
	low    testPriority = 2
)

var allPriorities = []testPriority{high, normal, low}

func TestPriorityQueue_FIFOWithinPartition(t *testing.T) {
	q := NewPriorityQueue[testPriority]()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		assert.NoError(t, q.Enqueue(NewFunc(normal, func() error {
			order = append(order, i)
			return nil
		})))
	}
	for i := 0; i < 5; i++ {
		job, err := q.Dequeue(allPriorities)
		assert.NoError(t, err)
		assert.NoError(t, job.Run())
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestPriorityQueue_HigherPriorityFirst(t *testing.T) {
	q := NewPriorityQueue[testPriority]()

	assert.NoError(t, q.Enqueue(NewFunc(low, func() error { return nil })))
	assert.NoError(t, q.Enqueue(NewFunc(normal, func() error { return nil })))
	assert.NoError(t, q.Enqueue(NewFunc(high, func() error { return nil })))

	job, err := q.Dequeue(allPriorities)
	assert.NoError(t, err)
	assert.Equal(t, high, job.JobPriority())

	job, err = q.Dequeue(allPriorities)
	assert.NoError(t, err)
	assert.Equal(t, normal, job.JobPriority())

	job, err = q.Dequeue(allPriorities)
	assert.NoError(t, err)
	assert.Equal(t, low, job.JobPriority())
}

func TestPriorityQueue_AffinityIgnoresOtherPartitions(t *testing.T) {
	q := NewPriorityQueue[testPriority]()
	assert.NoError(t, q.Enqueue(NewFunc(low, func() error { return nil })))

	job, err := q.TryDequeue([]testPriority{high})
	assert.NoError(t, err)
	assert.Nil(t, job)
}

func TestPriorityQueue_DequeueBlocksUntilEnqueue(t *testing.T) {
	q := NewPriorityQueue[testPriority]()
	done := make(chan Job[testPriority], 1)

	go func() {
		job, err := q.Dequeue(allPriorities)
		assert.NoError(t, err)
		done <- job
	}()

	time.Sleep(10 * time.Millisecond)
	assert.NoError(t, q.Enqueue(NewFunc(high, func() error { return nil })))

	select {
	case job := <-done:
		assert.Equal(t, high, job.JobPriority())
	case <-time.After(time.Second):
		t.Fatal("dequeue never unblocked")
	}
}

func TestPriorityQueue_StopWakesBlockedDequeue(t *testing.T) {
	q := NewPriorityQueue[testPriority]()
	errCh := make(chan error, 1)

	go func() {
		_, err := q.Dequeue(allPriorities)
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	q.Stop()

	select {
	case err := <-errCh:
		kind, ok := KindOf(err)
		assert.True(t, ok)
		assert.Equal(t, ErrStopped, kind)
	case <-time.After(time.Second):
		t.Fatal("stop never woke the blocked dequeue")
	}
}

func TestPriorityQueue_EnqueueAfterStopFails(t *testing.T) {
	q := NewPriorityQueue[testPriority]()
	q.Stop()

	err := q.Enqueue(NewFunc(high, func() error { return nil }))
	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, ErrStopped, kind)
}

func TestPriorityQueue_QuiesceAllowsDrainButRejectsNew(t *testing.T) {
	q := NewPriorityQueue[testPriority]()
	assert.NoError(t, q.Enqueue(NewFunc(high, func() error { return nil })))
	q.Quiesce()

	err := q.Enqueue(NewFunc(high, func() error { return nil }))
	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, ErrShuttingDown, kind)

	job, err := q.TryDequeue(allPriorities)
	assert.NoError(t, err)
	assert.NotNil(t, job)
	assert.True(t, q.Empty(allPriorities))
}

func TestPriorityQueue_Size(t *testing.T) {
	q := NewPriorityQueue[testPriority]()
	assert.Equal(t, 0, q.Size())
	assert.NoError(t, q.Enqueue(NewFunc(high, func() error { return nil })))
	assert.NoError(t, q.Enqueue(NewFunc(low, func() error { return nil })))
	assert.Equal(t, 2, q.Size())
}

func TestPriorityQueue_DiscardAndStopDropsBacklog(t *testing.T) {
	q := NewPriorityQueue[testPriority]()
	assert.NoError(t, q.Enqueue(NewFunc(high, func() error { return nil })))
	assert.NoError(t, q.Enqueue(NewFunc(normal, func() error { return nil })))
	assert.NoError(t, q.Enqueue(NewFunc(low, func() error { return nil })))
	assert.Equal(t, 3, q.Size())

	q.DiscardAndStop()

	assert.Equal(t, 0, q.Size())
	assert.True(t, q.Stopped())

	job, err := q.TryDequeue(allPriorities)
	assert.Nil(t, job)
	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, ErrStopped, kind)
}

func TestPriorityQueue_DiscardAndStopWakesBlockedDequeue(t *testing.T) {
	q := NewPriorityQueue[testPriority]()
	errCh := make(chan error, 1)

	go func() {
		_, err := q.Dequeue(allPriorities)
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	q.DiscardAndStop()

	select {
	case err := <-errCh:
		kind, ok := KindOf(err)
		assert.True(t, ok)
		assert.Equal(t, ErrStopped, kind)
	case <-time.After(time.Second):
		t.Fatal("discard-and-stop never woke the blocked dequeue")
	}
}

func TestPriorityQueue_EnqueueBatchStopsAtFirstFailure(t *testing.T) {
	q := NewPriorityQueue[testPriority]()
	jobs := []Job[testPriority]{
		NewFunc(high, func() error { return nil }),
		NewFunc(normal, func() error { return nil }),
	}
	n, err := q.EnqueueBatch(jobs)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)

	q.Stop()
	n, err = q.EnqueueBatch(jobs)
	assert.Error(t, err)
	assert.Equal(t, 0, n)
}
