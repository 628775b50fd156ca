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
// engine. This file contains the transient, in-memory types that flow through
// a single analysis invocation: sampled video frames, perceptual fingerprints,
// the ordered fingerprint sequence, and the consecutive-pair distance series.
//
// All of these values live and die inside one invocation. Nothing here is
// shared across invocations and nothing is mutated once handed to the next
// pipeline stage.
package model

import (
	"image"
	"math/bits"
	"time"
)

// FingerprintWidth is the bit width of every perceptual fingerprint produced
// by the engine. Distances are therefore bounded by this value.
const FingerprintWidth = 64

// VideoFrame is a single decoded raster image sampled from a video source.
// The frame is owned exclusively by the stage that produced it and its pixel
// data is released as soon as a fingerprint has been computed, so only
// fingerprints are retained for the remainder of the invocation.
type VideoFrame struct {
	Index       int           // Sequential index of the frame in the source stream.
	SampleIndex int           // Position of the frame within the sampled sequence.
	Timestamp   time.Duration // Capture time relative to the start of the clip.
	Image       image.Image   // Decoded pixel data. Nil after Release.
}

// Release drops the frame's pixel data. Fingerprint computation calls this
// once the frame has been hashed, keeping peak memory independent of clip
// length.
func (f *VideoFrame) Release() {
	f.Image = nil
}

// Fingerprint is a fixed-width bit vector summarizing a frame's visual
// content. The same frame content always yields the same fingerprint; visually
// similar frames yield fingerprints with a low Hamming distance.
type Fingerprint struct {
	Bits  uint64 // The fingerprint bit vector.
	Width int    // Bit width of the vector. Always FingerprintWidth in this engine.
}

// NewFingerprint wraps a raw 64-bit hash value in a Fingerprint.
func NewFingerprint(bits uint64) Fingerprint {
	return Fingerprint{Bits: bits, Width: FingerprintWidth}
}

// Distance returns the Hamming distance between two fingerprints: the number
// of differing bit positions. The operation is symmetric and returns zero
// exactly when the fingerprints are identical. Comparing fingerprints of
// different widths is a configuration fault, not a measurable distance, and
// surfaces as an InvalidConfigurationError.
func (f Fingerprint) Distance(other Fingerprint) (int, error) {
	if f.Width != other.Width {
		return 0, &InvalidConfigurationError{
			Option: "fingerprint_width",
			Reason: "fingerprints of differing widths cannot be compared",
		}
	}
	return bits.OnesCount64(f.Bits ^ other.Bits), nil
}

// HashSequence is the ordered sequence of fingerprints for a sampled clip.
// Index order is temporal order and the length equals the number of sampled
// frames.
type HashSequence []Fingerprint

// Distances computes the distance between each consecutive fingerprint pair,
// in original temporal order. The resulting series is one element shorter
// than the sequence.
func (s HashSequence) Distances() (DistanceSeries, error) {
	if len(s) == 0 {
		return DistanceSeries{}, nil
	}
	out := make(DistanceSeries, 0, len(s)-1)
	for i := 0; i < len(s)-1; i++ {
		d, err := s[i].Distance(s[i+1])
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// DistanceSeries is the ordered series of consecutive-pair Hamming distances.
// Element i is the distance between fingerprint i and fingerprint i+1; every
// value is non-negative and bounded by the fingerprint width.
type DistanceSeries []int
