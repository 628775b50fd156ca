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
// policy. This file detects exact duplicate transitions: consecutive frames
// with identical fingerprints. Video compression legitimately repeats frames,
// so duplicates only become a penalty past a generous tolerance band.
package analysis

import "github.com/veridia/go-video-liveness/internal/core/model"

// DuplicateDetector counts transitions with distance exactly zero.
type DuplicateDetector struct{}

// NewDuplicateDetector builds a detector. It takes the invocation
// configuration for symmetry with the other detectors even though duplicate
// detection itself has no tunables.
func NewDuplicateDetector(_ CheckConfig) *DuplicateDetector {
	return &DuplicateDetector{}
}

// Detect returns the number of exact duplicate transitions and that count as
// a percentage of all transitions in the series. An empty series yields zero
// for both.
func (d *DuplicateDetector) Detect(series model.DistanceSeries) (count int, percentage float64) {
	if len(series) == 0 {
		return 0, 0
	}
	for _, distance := range series {
		if distance == 0 {
			count++
		}
	}
	return count, float64(count) / float64(len(series)) * 100
}
