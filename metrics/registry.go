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

package metrics

import (
	"sync"
	"time"
)

// Registry holds one shared handle per metric kind. Registration is
// write-once-per-kind in the common case; a second Register* call
// replaces the previous handle, synchronized by a coarse mutex per §9's
// resolution of the re-registration ambiguity (the spec left it open
// whether this should be atomic or synchronized; we synchronize).
type Registry struct {
	mu sync.Mutex

	system     *SystemMetrics
	threadPool *ThreadPoolMetrics
	worker     *WorkerMetrics
}

// NewRegistry returns an empty registry. No handle is registered until
// RegisterSystem/RegisterThreadPool/RegisterWorker is called.
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterSystem installs (or replaces) the system metrics handle.
func (r *Registry) RegisterSystem(m *SystemMetrics) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.system = m
}

// RegisterThreadPool installs (or replaces) the thread-pool metrics handle.
func (r *Registry) RegisterThreadPool(m *ThreadPoolMetrics) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.threadPool = m
}

// RegisterWorker installs (or replaces) the worker metrics handle.
func (r *Registry) RegisterWorker(m *WorkerMetrics) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.worker = m
}

// System returns the currently registered system handle, or nil.
func (r *Registry) System() *SystemMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.system
}

// ThreadPool returns the currently registered thread-pool handle, or nil.
func (r *Registry) ThreadPool() *ThreadPoolMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.threadPool
}

// Worker returns the currently registered worker handle, or nil.
func (r *Registry) Worker() *WorkerMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.worker
}

// CurrentSnapshot returns a value-copy of whatever is currently
// registered, substituting zero-value snapshots for unregistered kinds.
// This is the "current_snapshot" contract of §4.7: a value-copy at call
// time, not a sampled point produced by the collection loop.
func (r *Registry) CurrentSnapshot() Snapshot {
	r.mu.Lock()
	sys, tp, w := r.system, r.threadPool, r.worker
	r.mu.Unlock()

	snap := Snapshot{CaptureTime: nowFunc()}
	if sys != nil {
		snap.System = sys.Snapshot()
	}
	if tp != nil {
		snap.ThreadPool = tp.Snapshot()
	}
	if w != nil {
		snap.Worker = w.Snapshot()
	}
	return snap
}

// nowFunc is indirected so tests can substitute a deterministic clock;
// production always uses time.Now.
var nowFunc = time.Now
