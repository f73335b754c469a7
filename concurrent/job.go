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

	"github.com/google/uuid"
)

// Priority is any comparable type; each distinct value names one queue
// partition. The values themselves carry no scheduling order: a worker
// scans partitions in the order of its own priority list, so that list
// (conventionally High, Normal, Low) decides which partition is served
// first. The zero value must be a valid, schedulable priority.
type Priority interface {
	comparable
}

// Job is a unit of work with a run contract producing a result. The queue
// owns a Job between Enqueue and Dequeue; a worker owns it for the
// duration of Run. A Job holds no reference back to the queue or pool.
type Job[P Priority] interface {
	// Run executes the work synchronously. It is called exactly once, by
	// exactly one worker goroutine. A returned error is logged by the
	// worker and the job still counts as processed; no separate failure
	// counter is kept. The error is never propagated to whoever enqueued
	// the job.
	Run() error
	// JobPriority reports which partition this job was enqueued under.
	JobPriority() P
}

// funcJob adapts a plain function into a Job.
type funcJob[P Priority] struct {
	id         uuid.UUID
	priority   P
	fn         func() error
	createTime time.Time
}

// NewFunc wraps fn as a Job with the given priority. This is the common
// case: most callers have a closure, not a hand-rolled Job implementation.
func NewFunc[P Priority](priority P, fn func() error) Job[P] {
	return &funcJob[P]{
		id:         uuid.New(),
		priority:   priority,
		fn:         fn,
		createTime: time.Now(),
	}
}

func (j *funcJob[P]) Run() error {
	return j.fn()
}

func (j *funcJob[P]) JobPriority() P {
	return j.priority
}

// String identifies the job in log lines only; it carries no
// cross-process or cross-run identity guarantee.
func (j *funcJob[P]) String() string {
	return j.id.String()
}

// jobID extracts the diagnostic identity of a job for logging, falling
// back to the placeholder "<job>" for Job implementations that don't
// expose a String method.
func jobID[P Priority](job Job[P]) string {
	if s, ok := job.(interface{ String() string }); ok {
		return s.String()
	}
	return "<job>"
}
