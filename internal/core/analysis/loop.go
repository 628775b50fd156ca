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
// policy. This file detects replayed loops. An attacker substituting a short
// recorded clip for a live feed produces a distance series that repeats with
// the clip's period; that periodicity shows up as a strong autocorrelation
// peak at the lag matching the loop length.
//
// The series is mean-centered before correlating and every lag is normalized
// by the zero-lag value (the centered series' energy). Centering is what
// makes the degenerate all-equal series come out as non-periodic: its
// centered energy is zero, which the zero-division guard maps to "no loop".
package analysis

import "github.com/veridia/go-video-liveness/internal/core/model"

// LoopDetector scans a lag window of the series' normalized autocorrelation
// for values above a peak threshold.
type LoopDetector struct {
	Window        LagWindow // Lag window in seconds.
	PeakThreshold float64   // Normalized autocorrelation above which a loop is flagged.
	SampleRate    float64   // Converts the window from seconds to sample counts.
	MinSamples    int       // Series shorter than this report no loop rather than failing.
}

// NewLoopDetector builds a detector from the invocation configuration.
func NewLoopDetector(cfg CheckConfig) *LoopDetector {
	return &LoopDetector{
		Window:        cfg.LoopWindow,
		PeakThreshold: cfg.LoopPeakThreshold,
		SampleRate:    cfg.SampleRate,
		MinSamples:    cfg.MinLoopSamples,
	}
}

// Detect reports whether the series exhibits strong periodicity inside the
// configured lag window. Short series are absence of evidence, not an error:
// they report false. The window is clipped to the series length; an empty or
// inverted window after clipping also reports false.
func (d *LoopDetector) Detect(series model.DistanceSeries) bool {
	n := len(series)
	if n < d.MinSamples {
		return false
	}

	// Mean-center the series so the correlation measures variation around
	// the clip's baseline motion, not the baseline itself.
	var sum float64
	for _, v := range series {
		sum += float64(v)
	}
	mean := sum / float64(n)

	centered := make([]float64, n)
	var energy float64
	for i, v := range series {
		centered[i] = float64(v) - mean
		energy += centered[i] * centered[i]
	}
	// An all-equal series has zero centered energy and is non-periodic.
	if energy == 0 {
		return false
	}

	minLag := int(d.Window.Lower * d.SampleRate)
	maxLag := int(d.Window.Upper * d.SampleRate)
	if maxLag >= n {
		maxLag = n - 1
	}
	if minLag >= maxLag {
		return false
	}

	for lag := minLag; lag < maxLag; lag++ {
		var acc float64
		for i := 0; i+lag < n; i++ {
			acc += centered[i] * centered[i+lag]
		}
		if acc/energy > d.PeakThreshold {
			return true
		}
	}
	return false
}
