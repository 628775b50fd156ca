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
// policy. This file combines the three anomaly metrics into the bounded
// integrity score.
//
// Loop detection is a near-binary strong attack signal and takes a flat
// penalty. Frozen and duplicate fractions are continuous nuisance signals:
// still subjects and compression artifacts produce them in genuine footage,
// so each only penalizes past its tolerance band.
package analysis

import (
	"math"

	"github.com/veridia/go-video-liveness/internal/core/model"
)

// BaselineScore is the score of a clip with no temporal anomalies.
const BaselineScore = 100

// ScoreAggregator converts an anomaly report into an integrity score.
type ScoreAggregator struct {
	FrozenToleranceFraction    float64
	DuplicateToleranceFraction float64
	FrozenWeight               float64
	DuplicateWeight            float64
	LoopWeight                 int
}

// NewScoreAggregator builds an aggregator from the invocation configuration.
func NewScoreAggregator(cfg CheckConfig) *ScoreAggregator {
	return &ScoreAggregator{
		FrozenToleranceFraction:    cfg.FrozenToleranceFraction,
		DuplicateToleranceFraction: cfg.DuplicateToleranceFraction,
		FrozenWeight:               cfg.FrozenWeight,
		DuplicateWeight:            cfg.DuplicateWeight,
		LoopWeight:                 cfg.LoopWeight,
	}
}

// Score derives the integrity score from a report. Penalties are independent
// and additive against a baseline of 100, then the result is clamped to
// [0,100]:
//
//   - frozen: floor(frozen_duration x frozen_weight), only when the frozen
//     fraction of the clip strictly exceeds the tolerance,
//   - duplicate: floor(duplicate_percentage / 10 x duplicate_weight), only
//     when the percentage strictly exceeds the tolerance,
//   - loop: the flat loop weight whenever a loop was detected.
func (a *ScoreAggregator) Score(report model.AnomalyReport) int {
	score := BaselineScore

	if report.TotalDurationSeconds > 0 {
		frozenFraction := report.FrozenDurationSeconds / report.TotalDurationSeconds
		if frozenFraction > a.FrozenToleranceFraction {
			score -= int(math.Floor(report.FrozenDurationSeconds * a.FrozenWeight))
		}
	}

	if report.DuplicatePercentage > a.DuplicateToleranceFraction*100 {
		score -= int(math.Floor(report.DuplicatePercentage / 10 * a.DuplicateWeight))
	}

	if report.LoopDetected {
		score -= a.LoopWeight
	}

	if score < 0 {
		score = 0
	}
	if score > BaselineScore {
		score = BaselineScore
	}
	return score
}
