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
	"fmt"
	"testing"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/stretchr/testify/assert"

	"github.com/lindb/taskpool/metrics"
)

func Test_SystemCollector_Collect(t *testing.T) {
	target := metrics.NewSystemMetrics()
	c := newSystemCollector(target)

	// happy path: both reads succeed.
	errs := c.collect(false)
	assert.Equal(t, 0, errs)
	assert.True(t, target.Timestamp().Unix() > 0)

	// memory read fails: counted, cpu/threads/allocations still refreshed.
	c.MemoryStatGetter = func() (*mem.VirtualMemoryStat, error) {
		return nil, fmt.Errorf("error")
	}
	errs = c.collect(false)
	assert.Equal(t, 1, errs)
	c.MemoryStatGetter = mem.VirtualMemory

	// cpu read fails similarly.
	c.CPUStatGetter = func() (*CPUStat, error) {
		return nil, fmt.Errorf("error")
	}
	errs = c.collect(false)
	assert.Equal(t, 1, errs)
	c.CPUStatGetter = GetCPUStat

	// low overhead mode: cpu read skipped entirely, never invoked.
	called := false
	c.CPUStatGetter = func() (*CPUStat, error) {
		called = true
		return &CPUStat{}, nil
	}
	errs = c.collect(true)
	assert.Equal(t, 0, errs)
	assert.False(t, called)
}

func Test_HardwareConcurrency(t *testing.T) {
	assert.True(t, hardwareConcurrency() > 0)
}
