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

// Package media provides sequential access to decoded video frames. The
// engine treats a frame source as an external collaborator: it only needs
// frames in stream order plus the source's nominal frame rate. This file
// defines the source abstraction and an in-memory implementation used by
// tests and by callers that already hold decoded frames.
package media

import (
	"image"
	"io"
	"time"
)

// FrameSource provides sequential decoded frames from a video. Decoding is
// inherently ordered, so Next must be called from a single goroutine. Next
// returns io.EOF when the stream is exhausted.
type FrameSource interface {
	// FrameRate returns the source's nominal frame rate in frames per
	// second, or zero when the container does not report one.
	FrameRate() float64

	// Next returns the next frame in stream order.
	Next() (image.Image, error)

	// Close releases any resources held by the source.
	Close() error
}

// MemorySource serves frames from a slice. It backs unit tests and synthetic
// clips; the sampling and hashing stages cannot tell it apart from a decoded
// file.
type MemorySource struct {
	frames []image.Image
	rate   float64
	pos    int
}

// NewMemorySource builds a source over pre-decoded frames with the given
// nominal rate. A rate of zero mimics a container that does not report one.
func NewMemorySource(frames []image.Image, rate float64) *MemorySource {
	return &MemorySource{frames: frames, rate: rate}
}

func (s *MemorySource) FrameRate() float64 {
	return s.rate
}

func (s *MemorySource) Next() (image.Image, error) {
	if s.pos >= len(s.frames) {
		return nil, io.EOF
	}
	frame := s.frames[s.pos]
	s.pos++
	return frame, nil
}

func (s *MemorySource) Close() error {
	return nil
}

// FrameTimestamp converts a sequential frame index into its capture time at
// the given source rate.
func FrameTimestamp(index int, rate float64) time.Duration {
	if rate <= 0 {
		return 0
	}
	return time.Duration(float64(index) / rate * float64(time.Second))
}
