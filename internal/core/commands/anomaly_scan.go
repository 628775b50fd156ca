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
// temporal-integrity analysis. This file defines the anomaly scan, which
// runs the frozen, duplicate, and loop detectors over the completed distance
// series.
//
// The three detectors are independent reads of the same immutable series, so
// they run concurrently in an errgroup and meet at its Wait barrier before
// the report is assembled.
package commands

import (
	"golang.org/x/sync/errgroup"

	"github.com/veridia/go-video-liveness/internal/core/analysis"
	"github.com/veridia/go-video-liveness/internal/core/cor"
	"github.com/veridia/go-video-liveness/internal/core/model"
)

// AnomalyScan derives the anomaly report from the distance series. Input:
// model.DistanceSeries. Output: *model.AnomalyReport.
type AnomalyScan struct {
	cor.BaseCommand
	frozen    *analysis.FrozenDetector
	duplicate *analysis.DuplicateDetector
	loop      *analysis.LoopDetector
	cfg       analysis.CheckConfig
}

// NewAnomalyScan builds the scan and its three detectors from one
// invocation's configuration.
func NewAnomalyScan(name string, cfg analysis.CheckConfig) *AnomalyScan {
	return &AnomalyScan{
		BaseCommand: *cor.NewBaseCommand(name),
		frozen:      analysis.NewFrozenDetector(cfg),
		duplicate:   analysis.NewDuplicateDetector(cfg),
		loop:        analysis.NewLoopDetector(cfg),
		cfg:         cfg,
	}
}

// IsExecutable additionally requires the sampled frame count, which the
// frame sampler records for duration bookkeeping.
func (c *AnomalyScan) IsExecutable(context cor.Context) bool {
	return c.BaseCommand.IsExecutable(context) &&
		context.Get(GetSampledFrameCountParamName()) != nil
}

// Execute fans the three detectors out over the series and assembles the
// report. None of the detectors fails on short input; a series too short for
// loop detection simply reports no loop.
func (c *AnomalyScan) Execute(context cor.Context) {
	series := context.Get(c.GetInputParam()).(model.DistanceSeries)
	frameCount := context.Get(GetSampledFrameCountParamName()).(int)

	report := &model.AnomalyReport{
		TotalFrames:          frameCount,
		TotalDurationSeconds: float64(frameCount) / c.cfg.SampleRate,
	}

	var g errgroup.Group
	g.Go(func() error {
		report.FrozenCount, report.FrozenDurationSeconds = c.frozen.Detect(series)
		return nil
	})
	g.Go(func() error {
		report.DuplicateCount, report.DuplicatePercentage = c.duplicate.Detect(series)
		return nil
	})
	g.Go(func() error {
		report.LoopDetected = c.loop.Detect(series)
		return nil
	})
	_ = g.Wait()

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(cor.CtxOut, report)
}
