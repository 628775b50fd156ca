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

// Package commands provides the concrete pipeline stages of the
// temporal-integrity analysis. This file defines the final stage: turning
// the anomaly report into the bounded integrity result handed back to the
// caller.
package commands

import (
	"log/slog"

	"github.com/veridia/go-video-liveness/internal/core/analysis"
	"github.com/veridia/go-video-liveness/internal/core/cor"
	"github.com/veridia/go-video-liveness/internal/core/model"
)

// ScoreCommand applies the scoring policy to the anomaly report. Input:
// *model.AnomalyReport. Output: *model.IntegrityResult.
type ScoreCommand struct {
	cor.BaseCommand
	aggregator *analysis.ScoreAggregator
}

// NewScoreCommand builds the command from one invocation's configuration.
func NewScoreCommand(name string, cfg analysis.CheckConfig) *ScoreCommand {
	out := &ScoreCommand{
		BaseCommand: *cor.NewBaseCommand(name),
		aggregator:  analysis.NewScoreAggregator(cfg),
	}
	out.OutputParamName = GetIntegrityResultParamName()
	return out
}

// Execute scores the report and emits the result. A missing check ID is
// tolerated and generated here so the result always carries one.
func (c *ScoreCommand) Execute(context cor.Context) {
	report := context.Get(c.GetInputParam()).(*model.AnomalyReport)

	checkID, _ := context.Get(GetCheckIDParamName()).(string)
	if checkID == "" {
		checkID = model.NewCheckID()
	}

	result := &model.IntegrityResult{
		CheckID: checkID,
		Score:   c.aggregator.Score(*report),
		Report:  *report,
	}

	slog.InfoContext(context.GetContext(), "temporal integrity analysis complete",
		"check_id", result.CheckID,
		"score", result.Score,
		"total_frames", report.TotalFrames,
		"duration_seconds", report.TotalDurationSeconds,
		"frozen_count", report.FrozenCount,
		"frozen_duration_seconds", report.FrozenDurationSeconds,
		"duplicate_count", report.DuplicateCount,
		"duplicate_percentage", report.DuplicatePercentage,
		"loop_detected", report.LoopDetected,
	)

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), result)
	context.Add(cor.CtxOut, result)
}
