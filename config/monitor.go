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

// Package config holds the Monitoring Config (§4.8/§6) this runtime's
// metrics collector is built from.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v7"
	"github.com/lindb/common/pkg/ltoml"
)

// Monitor is the Monitoring Config: collection interval, ring buffer
// capacity, per-category enable flags, and the low_overhead_mode hint.
// Defaults mirror original_source's monitoring_config
// (collection_interval=100ms, buffer_size=3600, every enable flag true,
// low_overhead_mode=false).
type Monitor struct {
	CollectionInterval      ltoml.Duration `env:"COLLECTION_INTERVAL" toml:"collection-interval"`
	BufferSize              int            `env:"BUFFER_SIZE" toml:"buffer-size"`
	EnableSystemMetrics     bool           `env:"ENABLE_SYSTEM_METRICS" toml:"enable-system-metrics"`
	EnableThreadPoolMetrics bool           `env:"ENABLE_THREAD_POOL_METRICS" toml:"enable-thread-pool-metrics"`
	EnableWorkerMetrics     bool           `env:"ENABLE_WORKER_METRICS" toml:"enable-worker-metrics"`
	LowOverheadMode         bool           `env:"LOW_OVERHEAD_MODE" toml:"low-overhead-mode"`
}

// NewDefaultMonitor returns the spec-mandated defaults (§6's configuration
// table).
func NewDefaultMonitor() *Monitor {
	return &Monitor{
		CollectionInterval:      ltoml.Duration(100_000_000), // 100ms, in ltoml.Duration's nanosecond representation
		BufferSize:              3600,
		EnableSystemMetrics:     true,
		EnableThreadPoolMetrics: true,
		EnableWorkerMetrics:     true,
		LowOverheadMode:         false,
	}
}

// LoadMonitorFromEnv returns a default Monitor with any TASKPOOL_MONITOR_*
// environment variables applied on top, using the same env-tag based
// override mechanism the teacher config package uses throughout.
func LoadMonitorFromEnv() (*Monitor, error) {
	m := NewDefaultMonitor()
	if err := env.Parse(m, env.Options{Prefix: "TASKPOOL_MONITOR_"}); err != nil {
		return nil, fmt.Errorf("parse monitor config from env: %w", err)
	}
	return m, nil
}

// TOML returns Monitor's toml rendering, in the teacher's documented,
// commented style.
func (m *Monitor) TOML() string {
	return fmt.Sprintf(`
## Config for the metrics collector
[monitor]
## sleep between collection cycles
## Default: %s
## Env: TASKPOOL_MONITOR_COLLECTION_INTERVAL
collection-interval = "%s"
## ring buffer capacity for historical snapshots
## Default: %d
## Env: TASKPOOL_MONITOR_BUFFER_SIZE
buffer-size = %d
## collect OS-level gauges (cpu/memory/thread count)
## Default: %t
## Env: TASKPOOL_MONITOR_ENABLE_SYSTEM_METRICS
enable-system-metrics = %t
## touch the thread-pool metrics timestamp each cycle
## Default: %t
## Env: TASKPOOL_MONITOR_ENABLE_THREAD_POOL_METRICS
enable-thread-pool-metrics = %t
## touch the worker metrics timestamp each cycle
## Default: %t
## Env: TASKPOOL_MONITOR_ENABLE_WORKER_METRICS
enable-worker-metrics = %t
## hint to skip expensive platform reads
## Default: %t
## Env: TASKPOOL_MONITOR_LOW_OVERHEAD_MODE
low-overhead-mode = %t`,
		m.CollectionInterval.String(), m.CollectionInterval.String(),
		m.BufferSize, m.BufferSize,
		m.EnableSystemMetrics, m.EnableSystemMetrics,
		m.EnableThreadPoolMetrics, m.EnableThreadPoolMetrics,
		m.EnableWorkerMetrics, m.EnableWorkerMetrics,
		m.LowOverheadMode, m.LowOverheadMode,
	)
}
