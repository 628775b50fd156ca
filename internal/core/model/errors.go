// Copyright 2025 Veridia, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package model defines the core data structures for the temporal-integrity
// engine. This file declares the typed errors the engine surfaces to its
// caller. The engine never degrades to a default score on failure: every
// fatal condition propagates as one of these types and the caller alone
// decides how to react. All processing is deterministic, so none of these
// conditions is treated as transient and nothing is retried internally.
package model

import "fmt"

// VideoUnreadableError reports that a video source could not be opened or
// that decoding exceeded the per-invocation timeout.
type VideoUnreadableError struct {
	Source string // The path or description of the source that failed.
	Err    error  // The underlying decode or probe failure, if any.
}

func (e *VideoUnreadableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("video unreadable: %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("video unreadable: %s", e.Source)
}

func (e *VideoUnreadableError) Unwrap() error {
	return e.Err
}

// InsufficientDataError reports that sampling produced fewer frames than the
// minimum the pipeline requires. Note that a series too short for loop
// detection is not an error; the loop detector simply reports no loop.
type InsufficientDataError struct {
	Frames  int // Frames actually produced.
	Minimum int // Minimum required to proceed.
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d frames sampled, need at least %d", e.Frames, e.Minimum)
}

// HashComputationError reports that a fingerprint could not be computed for
// a frame, which for this engine means degenerate frame geometry.
type HashComputationError struct {
	FrameIndex int // Sample index of the offending frame.
	Width      int
	Height     int
}

func (e *HashComputationError) Error() string {
	return fmt.Sprintf("hash computation failed for frame %d: degenerate geometry %dx%d",
		e.FrameIndex, e.Width, e.Height)
}

// InvalidConfigurationError reports a configuration value the engine cannot
// analyze with, such as an inverted loop window or a negative threshold.
type InvalidConfigurationError struct {
	Option string // The configuration option at fault.
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Option, e.Reason)
}
