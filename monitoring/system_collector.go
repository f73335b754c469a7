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

package monitoring

import (
	"runtime"

	"github.com/klauspost/cpuid"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/lindb/common/pkg/logger"

	"github.com/lindb/taskpool/metrics"
)

// CPUStat is the minimal platform read this collector needs: overall CPU
// utilization. gopsutil's cpu.Percent is the source; it is indirected
// through CPUStatGetter so tests can force a failure without touching
// real platform state, the same pattern system_collector_test.go already
// uses for MemoryStatGetter.
type CPUStat struct {
	UsagePercent float64
}

// GetCPUStat samples overall CPU usage since the previous call. A zero
// interval makes gopsutil non-blocking: it compares against the counters
// of the previous call instead of sleeping to sample. low_overhead_mode
// skips this read entirely (see systemCollector.collect).
func GetCPUStat() (*CPUStat, error) {
	percents, err := cpu.Percent(0, false)
	if err != nil {
		return nil, err
	}
	if len(percents) == 0 {
		return &CPUStat{}, nil
	}
	return &CPUStat{UsagePercent: percents[0]}, nil
}

// hardwareConcurrency is the §4.7 "reported hardware concurrency"
// fallback for active_threads when a true per-process thread count isn't
// available. cpuid.CPU.LogicalCores mirrors what the teacher's direct
// klauspost/cpuid dependency reports; runtime.NumCPU is the fallback of
// last resort if cpuid couldn't detect anything (e.g. an unrecognized
// CPU).
func hardwareConcurrency() uint64 {
	if cpuid.CPU.LogicalCores > 0 {
		return uint64(cpuid.CPU.LogicalCores)
	}
	return uint64(runtime.NumCPU())
}

// systemCollector refreshes metrics.SystemMetrics from platform sources.
// Each read is behind a function-variable field so tests can force
// individual failure paths, exactly as
// monitoring/system_collector_test.go already exercises.
type systemCollector struct {
	target *metrics.SystemMetrics

	MemoryStatGetter func() (*mem.VirtualMemoryStat, error)
	CPUStatGetter    func() (*CPUStat, error)

	logger logger.Logger
}

func newSystemCollector(target *metrics.SystemMetrics) *systemCollector {
	return &systemCollector{
		target:           target,
		MemoryStatGetter: mem.VirtualMemory,
		CPUStatGetter:    GetCPUStat,
		logger:           logger.GetLogger("Monitoring", "SystemCollector"),
	}
}

// collect refreshes target. lowOverhead, when true, skips the CPU read
// (the most expensive of the two) per §9's resolution of the
// low_overhead_mode ambiguity: it is honored as a hint, not a hard gate,
// so memory and the timestamp are still refreshed.
func (c *systemCollector) collect(lowOverhead bool) (errs int) {
	if vm, err := c.MemoryStatGetter(); err != nil {
		c.logger.Warn("read memory stat failed", logger.Error(err))
		errs++
	} else {
		c.target.MemoryUsageBytes.Store(vm.Used)
	}

	if !lowOverhead {
		if stat, err := c.CPUStatGetter(); err != nil {
			c.logger.Warn("read cpu stat failed", logger.Error(err))
			errs++
		} else {
			c.target.CPUUsagePercent.Store(uint64(stat.UsagePercent))
		}
	}

	c.target.ActiveThreads.Store(hardwareConcurrency())
	c.target.TotalAllocations.Store(readMallocs())
	c.target.Touch()
	return errs
}

// readMallocs reports cumulative heap allocation count via runtime
// instrumentation. total_allocations in the original source is a process
// allocation counter; runtime.MemStats.Mallocs is the nearest portable Go
// analogue, since Go programs don't expose a platform malloc() count.
func readMallocs() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.Mallocs
}
