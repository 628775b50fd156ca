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
// policy. This file defines CheckConfig, the immutable value that carries
// every tunable of one analysis invocation.
//
// CheckConfig is passed by value into each invocation. There is no shared
// mutable checker state, so arbitrarily many invocations can run concurrently
// without synchronization. The default thresholds and weights are calibration
// constants chosen empirically; they are overridable, not behavioral
// guarantees, and are expected to be recalibrated against labeled data.
package analysis

import (
	"time"

	"github.com/veridia/go-video-liveness/internal/core/model"
)

// Defaults for CheckConfig. The frozen threshold of 7 bits is roughly 11% of
// a 64-bit fingerprint.
const (
	DefaultSampleRate                 = 5.0
	DefaultFrozenThreshold            = 7
	DefaultFrozenToleranceFraction    = 0.5
	DefaultDuplicateToleranceFraction = 0.6
	DefaultLoopWindowLowerSeconds     = 8.0
	DefaultLoopWindowUpperSeconds     = 12.0
	DefaultLoopPeakThreshold          = 0.5
	DefaultFrozenWeight               = 3.0
	DefaultDuplicateWeight            = 1.0
	DefaultLoopWeight                 = 30
	DefaultMinSampledFrames           = 10
	DefaultMinLoopSamples             = 40
	DefaultHashWorkers                = 4
	DefaultDecodeTimeout              = 60 * time.Second
)

// LagWindow is the time window, in seconds, in which the loop detector looks
// for autocorrelation peaks. The window matches the length of clip an
// attacker would typically loop.
type LagWindow struct {
	Lower float64
	Upper float64
}

// CheckConfig carries every tunable of one temporal-integrity invocation.
// The zero value is not usable; start from DefaultCheckConfig and override.
type CheckConfig struct {
	SampleRate                 float64       // Frames per second to sample from the source.
	FrozenThreshold            int           // Hamming distance below which a transition counts as frozen.
	FrozenToleranceFraction    float64       // Frozen fraction of the clip that must be exceeded before penalizing.
	DuplicateToleranceFraction float64       // Duplicate fraction that must be exceeded before penalizing.
	LoopWindow                 LagWindow     // Lag window scanned for loop periodicity.
	LoopPeakThreshold          float64       // Normalized autocorrelation above which a loop is flagged.
	FrozenWeight               float64       // Points deducted per second of frozen content.
	DuplicateWeight            float64       // Points deducted per 10% of duplicate transitions.
	LoopWeight                 int           // Flat deduction once a loop is detected.
	MinSampledFrames           int           // Below this frame count the pipeline fails with InsufficientDataError.
	MinLoopSamples             int           // Below this series length loop detection reports no loop.
	HashWorkers                int           // Size of the fingerprint worker pool.
	DecodeTimeout              time.Duration // Upper bound on the decode stage of one invocation.
}

// DefaultCheckConfig returns the engine defaults described above.
func DefaultCheckConfig() CheckConfig {
	return CheckConfig{
		SampleRate:                 DefaultSampleRate,
		FrozenThreshold:            DefaultFrozenThreshold,
		FrozenToleranceFraction:    DefaultFrozenToleranceFraction,
		DuplicateToleranceFraction: DefaultDuplicateToleranceFraction,
		LoopWindow:                 LagWindow{Lower: DefaultLoopWindowLowerSeconds, Upper: DefaultLoopWindowUpperSeconds},
		LoopPeakThreshold:          DefaultLoopPeakThreshold,
		FrozenWeight:               DefaultFrozenWeight,
		DuplicateWeight:            DefaultDuplicateWeight,
		LoopWeight:                 DefaultLoopWeight,
		MinSampledFrames:           DefaultMinSampledFrames,
		MinLoopSamples:             DefaultMinLoopSamples,
		HashWorkers:                DefaultHashWorkers,
		DecodeTimeout:              DefaultDecodeTimeout,
	}
}

// Validate checks the configuration before an invocation starts. Every
// violation is reported as a model.InvalidConfigurationError; the engine
// never silently corrects a bad value.
func (c CheckConfig) Validate() error {
	if c.SampleRate <= 0 {
		return &model.InvalidConfigurationError{Option: "sample_rate", Reason: "must be positive"}
	}
	if c.FrozenThreshold < 0 || c.FrozenThreshold > model.FingerprintWidth {
		return &model.InvalidConfigurationError{Option: "frozen_threshold", Reason: "must be within the fingerprint bit width"}
	}
	if c.FrozenToleranceFraction < 0 || c.FrozenToleranceFraction > 1 {
		return &model.InvalidConfigurationError{Option: "frozen_tolerance_fraction", Reason: "must be in [0,1]"}
	}
	if c.DuplicateToleranceFraction < 0 || c.DuplicateToleranceFraction > 1 {
		return &model.InvalidConfigurationError{Option: "duplicate_tolerance_fraction", Reason: "must be in [0,1]"}
	}
	if c.LoopWindow.Lower < 0 {
		return &model.InvalidConfigurationError{Option: "loop_window_seconds", Reason: "lower bound must be non-negative"}
	}
	if c.LoopWindow.Lower >= c.LoopWindow.Upper {
		return &model.InvalidConfigurationError{Option: "loop_window_seconds", Reason: "lower bound must be below upper bound"}
	}
	if c.LoopPeakThreshold <= 0 {
		return &model.InvalidConfigurationError{Option: "loop_peak_threshold", Reason: "must be positive"}
	}
	if c.FrozenWeight < 0 || c.DuplicateWeight < 0 || c.LoopWeight < 0 {
		return &model.InvalidConfigurationError{Option: "penalty_weights", Reason: "weights must be non-negative"}
	}
	if c.MinSampledFrames < 2 {
		return &model.InvalidConfigurationError{Option: "min_sampled_frames", Reason: "need at least two frames to form a transition"}
	}
	if c.HashWorkers < 1 {
		return &model.InvalidConfigurationError{Option: "hash_workers", Reason: "worker pool must have at least one worker"}
	}
	if c.DecodeTimeout <= 0 {
		return &model.InvalidConfigurationError{Option: "decode_timeout_seconds", Reason: "must be positive"}
	}
	return nil
}
