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
// engine. This file holds the output side of an analysis invocation: the
// anomaly report derived from the distance series and the bounded integrity
// score built from it.
package model

import "github.com/google/uuid"

// AnomalyReport is the diagnostic summary produced by the three anomaly
// detectors over a single distance series. Every field is derived read-only
// from the series; the report is returned to the caller alongside the score
// for logging and observability.
type AnomalyReport struct {
	FrozenCount           int     `json:"frozen_count"`            // Transitions below the frozen threshold.
	FrozenDurationSeconds float64 `json:"frozen_duration_seconds"` // FrozenCount converted to seconds at the sample rate.
	DuplicateCount        int     `json:"duplicate_count"`         // Transitions with distance exactly zero.
	DuplicatePercentage   float64 `json:"duplicate_percentage"`    // DuplicateCount over total transitions, in percent.
	LoopDetected          bool    `json:"loop_detected"`           // Whether the series shows strong periodicity in the lag window.
	TotalFrames           int     `json:"total_frames"`            // Number of sampled frames the series was derived from.
	TotalDurationSeconds  float64 `json:"total_duration_seconds"`  // Sampled clip duration at the sample rate.
}

// IntegrityResult is the final verdict of one analysis invocation: an integer
// score in [0,100] where 100 means no temporal anomalies were found, plus the
// full report the score was derived from. A score is never produced without
// its report, and the engine never substitutes a fallback score on failure.
type IntegrityResult struct {
	CheckID string        `json:"check_id"`
	Score   int           `json:"score"`
	Report  AnomalyReport `json:"report"`
}

// NewCheckID returns a fresh identifier for one analysis invocation. The ID
// only labels log lines and API responses; it never influences the analysis.
func NewCheckID() string {
	return uuid.NewString()
}
