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

// Package metrics defines the three typed, lock-free metric records the
// pool and its workers update (system, thread_pool, worker), the registry
// that hands shared handles to the collector, and the process-wide global
// facade (StartGlobal/StopGlobal/Current/Recent/IsActive).
//
// Field names and defaults mirror
// original_source/sources/monitoring/core/monitoring_types.h's
// system_metrics/thread_pool_metrics/worker_metrics structs.
package metrics

import (
	"time"

	"go.uber.org/atomic"
)

// SystemMetrics holds OS-level gauges refreshed by the collector's
// platform reads. All fields are safe for concurrent lock-free access.
type SystemMetrics struct {
	CPUUsagePercent  atomic.Uint64 // 0-100
	MemoryUsageBytes atomic.Uint64
	ActiveThreads    atomic.Uint64
	TotalAllocations atomic.Uint64
	timestamp        atomic.Int64 // unix nanoseconds, producer-only
}

// NewSystemMetrics returns a zeroed SystemMetrics record.
func NewSystemMetrics() *SystemMetrics {
	return &SystemMetrics{}
}

// Touch stamps the record with the current time, marking a completed
// refresh cycle.
func (m *SystemMetrics) Touch() {
	m.timestamp.Store(time.Now().UnixNano())
}

// Timestamp returns the last time this record was touched. Readers may
// observe a slightly stale value; no synchronization is required.
func (m *SystemMetrics) Timestamp() time.Time {
	return time.Unix(0, m.timestamp.Load())
}

// SystemSnapshot is a by-value copy of SystemMetrics at an instant.
type SystemSnapshot struct {
	CPUUsagePercent  uint64
	MemoryUsageBytes uint64
	ActiveThreads    uint64
	TotalAllocations uint64
	Timestamp        time.Time
}

// Snapshot copies the current values. Fields may reflect slightly
// different moments relative to one another; no cross-field atomicity is
// guaranteed (spec §5).
func (m *SystemMetrics) Snapshot() SystemSnapshot {
	return SystemSnapshot{
		CPUUsagePercent:  m.CPUUsagePercent.Load(),
		MemoryUsageBytes: m.MemoryUsageBytes.Load(),
		ActiveThreads:    m.ActiveThreads.Load(),
		TotalAllocations: m.TotalAllocations.Load(),
		Timestamp:        m.Timestamp(),
	}
}

// ThreadPoolMetrics holds pool-level counters and gauges, shared and
// updated by every worker in a pool plus the pool coordinator itself.
type ThreadPoolMetrics struct {
	JobsCompleted        atomic.Uint64
	JobsPending          atomic.Uint64 // gauge
	TotalExecutionTimeNs atomic.Uint64
	AverageLatencyNs     atomic.Uint64 // gauge, recomputed by the pool
	WorkerThreads        atomic.Uint64 // gauge
	IdleThreads          atomic.Uint64 // gauge
	timestamp            atomic.Int64
}

// NewThreadPoolMetrics returns a zeroed ThreadPoolMetrics record.
func NewThreadPoolMetrics() *ThreadPoolMetrics {
	return &ThreadPoolMetrics{}
}

// Touch stamps the record with the current time.
func (m *ThreadPoolMetrics) Touch() {
	m.timestamp.Store(time.Now().UnixNano())
}

// Timestamp returns the last touched time.
func (m *ThreadPoolMetrics) Timestamp() time.Time {
	return time.Unix(0, m.timestamp.Load())
}

// ThreadPoolSnapshot is a by-value copy of ThreadPoolMetrics.
type ThreadPoolSnapshot struct {
	JobsCompleted        uint64
	JobsPending          uint64
	TotalExecutionTimeNs uint64
	AverageLatencyNs     uint64
	WorkerThreads        uint64
	IdleThreads          uint64
	Timestamp            time.Time
}

// Snapshot copies the current values.
func (m *ThreadPoolMetrics) Snapshot() ThreadPoolSnapshot {
	return ThreadPoolSnapshot{
		JobsCompleted:        m.JobsCompleted.Load(),
		JobsPending:          m.JobsPending.Load(),
		TotalExecutionTimeNs: m.TotalExecutionTimeNs.Load(),
		AverageLatencyNs:     m.AverageLatencyNs.Load(),
		WorkerThreads:        m.WorkerThreads.Load(),
		IdleThreads:          m.IdleThreads.Load(),
		Timestamp:            m.Timestamp(),
	}
}

// RecordCompletion updates the rolling counters after a job finishes,
// keeping AverageLatencyNs consistent with TotalExecutionTimeNs /
// JobsCompleted. It is called from the hot path (one worker at a time per
// job, but many workers concurrently across jobs), so it only uses atomic
// read-modify-write, never a lock.
func (m *ThreadPoolMetrics) RecordCompletion(elapsed time.Duration) {
	completed := m.JobsCompleted.Inc()
	total := m.TotalExecutionTimeNs.Add(uint64(elapsed.Nanoseconds()))
	m.AverageLatencyNs.Store(total / completed)
}

// WorkerMetrics holds the per-worker counters described in §4.6. A pool
// with many workers typically keeps one WorkerMetrics per worker; only
// the most recently Registry-registered one is visible to the collector
// at a time (§4.6 "write-once-per-kind").
type WorkerMetrics struct {
	JobsProcessed         atomic.Uint64
	TotalProcessingTimeNs atomic.Uint64
	IdleTimeNs            atomic.Uint64
	ContextSwitches       atomic.Uint64
	timestamp             atomic.Int64
}

// NewWorkerMetrics returns a zeroed WorkerMetrics record.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{}
}

// Touch stamps the record with the current time.
func (m *WorkerMetrics) Touch() {
	m.timestamp.Store(time.Now().UnixNano())
}

// Timestamp returns the last touched time.
func (m *WorkerMetrics) Timestamp() time.Time {
	return time.Unix(0, m.timestamp.Load())
}

// WorkerSnapshot is a by-value copy of WorkerMetrics.
type WorkerSnapshot struct {
	JobsProcessed         uint64
	TotalProcessingTimeNs uint64
	IdleTimeNs            uint64
	ContextSwitches       uint64
	Timestamp             time.Time
}

// Snapshot copies the current values.
func (m *WorkerMetrics) Snapshot() WorkerSnapshot {
	return WorkerSnapshot{
		JobsProcessed:         m.JobsProcessed.Load(),
		TotalProcessingTimeNs: m.TotalProcessingTimeNs.Load(),
		IdleTimeNs:            m.IdleTimeNs.Load(),
		ContextSwitches:       m.ContextSwitches.Load(),
		Timestamp:             m.Timestamp(),
	}
}

// Snapshot is a value-copy of all three records, tagged with the instant
// it was captured (spec §3's "Metrics snapshot").
type Snapshot struct {
	System      SystemSnapshot
	ThreadPool  ThreadPoolSnapshot
	Worker      WorkerSnapshot
	CaptureTime time.Time
}
