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

// Package ringbuffer provides two fixed-capacity circular buffers used as
// bounded history stores: SPSC (lock-free, one producer/one consumer) and
// MPMC (mutex-guarded, any number of producers/consumers). Both implement
// RingBuffer[T]. They are ported in spirit from
// original_source/sources/monitoring/storage/ring_buffer.h's
// ring_buffer<T>/thread_safe_ring_buffer<T>, with one deliberate behavior
// change in MPMC: Push always succeeds and evicts the oldest entry on
// overflow, per this module's monitoring-history use case, rather than
// rejecting the push as the original thread_safe_ring_buffer does.
package ringbuffer

// RingBuffer is the common contract shared by SPSC and MPMC.
type RingBuffer[T any] interface {
	// Push adds item. Returns true if it was stored.
	Push(item T) bool
	// Pop removes and returns the oldest item, if any.
	Pop() (T, bool)
	// Recent returns up to k items in chronological order (oldest first).
	Recent(k int) []T
	// Len returns the current number of stored items.
	Len() int
	// Cap returns the usable capacity (not counting any sentinel slot).
	Cap() int
}
