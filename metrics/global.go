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
	"errors"
	"sync"
)

// ErrGlobalAlreadyStarted is returned by StartGlobal when a global
// collector is already active.
var ErrGlobalAlreadyStarted = errors.New("metrics: global collector already started")

// ErrGlobalNotStarted is returned by Current and Recent when no global
// collector is currently installed (never started, or stopped again by
// StopGlobal).
var ErrGlobalNotStarted = errors.New("metrics: global collector not started")

//go:generate mockgen -source=./global.go -destination=./global_mock.go -package=metrics

// globalCollector is the minimal surface global.go needs from
// monitoring.Collector, expressed as an interface so this package (which
// monitoring imports) never imports it back.
type globalCollector interface {
	Start() error
	Stop()
	CurrentSnapshot() Snapshot
	RecentSnapshots(k int) []Snapshot
	Running() bool
}

var (
	globalMu   sync.Mutex
	globalInst globalCollector
)

// StartGlobal installs c as the process-wide collector and starts it. c
// is ordinarily a *monitoring.Collector (monitoring.NewCollector
// satisfies globalCollector structurally). The process-wide facade
// (§4.8) is a convenience for single-pool processes; callers embedding
// multiple independently configured pools should use their own
// monitoring.Collector instances directly instead of this facade.
func StartGlobal(c globalCollector) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalInst != nil {
		return ErrGlobalAlreadyStarted
	}
	if err := c.Start(); err != nil {
		return err
	}
	globalInst = c
	return nil
}

// StopGlobal stops and clears the process-wide collector. Safe to call
// even if no collector was ever started.
func StopGlobal() {
	globalMu.Lock()
	c := globalInst
	globalInst = nil
	globalMu.Unlock()

	if c != nil {
		c.Stop()
	}
}

// Current returns the process-wide collector's current snapshot.
func Current() (Snapshot, error) {
	c, err := currentGlobal()
	if err != nil {
		return Snapshot{}, err
	}
	return c.CurrentSnapshot(), nil
}

// Recent returns up to k historical snapshots from the process-wide
// collector's ring buffer.
func Recent(k int) ([]Snapshot, error) {
	c, err := currentGlobal()
	if err != nil {
		return nil, err
	}
	return c.RecentSnapshots(k), nil
}

// IsActive reports whether a process-wide collector is currently
// started and running.
func IsActive() bool {
	globalMu.Lock()
	c := globalInst
	globalMu.Unlock()
	return c != nil && c.Running()
}

func currentGlobal() (globalCollector, error) {
	globalMu.Lock()
	c := globalInst
	globalMu.Unlock()
	if c == nil {
		return nil, ErrGlobalNotStarted
	}
	return c, nil
}
