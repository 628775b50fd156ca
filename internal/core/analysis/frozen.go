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

// Package analysis implements the temporal-integrity detectors and scoring
// policy. This file detects frozen transitions: consecutive frames whose
// fingerprints barely differ, the signature of a paused or frozen feed.
package analysis

import "github.com/veridia/go-video-liveness/internal/core/model"

// FrozenDetector counts transitions whose Hamming distance falls strictly
// below the configured threshold. A legitimately still subject produces some
// frozen transitions too, which is why the detector only measures; the
// scoring policy decides whether the measurement becomes a penalty.
type FrozenDetector struct {
	Threshold  int     // Distances strictly below this count as frozen.
	SampleRate float64 // Used to convert the count into seconds.
}

// NewFrozenDetector builds a detector from the invocation configuration.
func NewFrozenDetector(cfg CheckConfig) *FrozenDetector {
	return &FrozenDetector{Threshold: cfg.FrozenThreshold, SampleRate: cfg.SampleRate}
}

// Detect returns the number of frozen transitions in the series and that
// count expressed as seconds of frozen content at the sample rate.
func (d *FrozenDetector) Detect(series model.DistanceSeries) (count int, duration float64) {
	for _, distance := range series {
		if distance < d.Threshold {
			count++
		}
	}
	return count, float64(count) / d.SampleRate
}
