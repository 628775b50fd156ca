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

// This file exercises the full temporal-integrity chain end to end over
// synthetic in-memory clips: frames in, scored verdict out.
package workflow_test

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veridia/go-video-liveness/internal/core/commands"
	"github.com/veridia/go-video-liveness/internal/core/cor"
	"github.com/veridia/go-video-liveness/internal/core/media"
	"github.com/veridia/go-video-liveness/internal/core/model"
	"github.com/veridia/go-video-liveness/internal/core/workflow"
	test "github.com/veridia/go-video-liveness/internal/testutil"
)

// runWorkflow drives the chain over the given frames at the given nominal
// source rate and returns the chain context for inspection.
func runWorkflow(t *testing.T, name string, frames []image.Image, rate float64) cor.Context {
	t.Helper()

	spanCtx, span := tracer.Start(ctx, name)
	defer span.End()

	chainCtx := cor.NewBaseContext()
	defer chainCtx.Close()
	chainCtx.SetContext(spanCtx)
	chainCtx.Add(cor.CtxIn, media.NewMemorySource(frames, rate))

	w := workflow.NewTemporalIntegrityWorkflow(cfg.Analysis.ToCheckConfig(cfg.Application.ThreadPoolSize))
	w.Execute(chainCtx)
	return chainCtx
}

// TestWorkflowStaticClip verifies the scored verdict for a fully static
// twelve second clip: every transition duplicated and frozen, penalties 35
// and 10, no loop, final score 55.
func TestWorkflowStaticClip(t *testing.T) {
	frames := test.SolidFrames(64, 64, 60, color.RGBA{R: 30, G: 60, B: 120, A: 255})

	chainCtx := runWorkflow(t, "static-clip", frames, 5)

	assert.False(t, chainCtx.HasErrors())
	result := chainCtx.Get(commands.GetIntegrityResultParamName()).(*model.IntegrityResult)

	assert.Equal(t, 55, result.Score)
	assert.Equal(t, 59, result.Report.FrozenCount)
	assert.InDelta(t, 11.8, result.Report.FrozenDurationSeconds, 1e-9)
	assert.InDelta(t, 100.0, result.Report.DuplicatePercentage, 1e-9)
	assert.False(t, result.Report.LoopDetected)
	assert.Equal(t, 60, result.Report.TotalFrames)
	assert.NotEmpty(t, result.CheckID)
}

// TestWorkflowLiveClip verifies that visually unrelated frames score a
// clean hundred: no frozen band, no duplicates, no loop.
func TestWorkflowLiveClip(t *testing.T) {
	frames := test.NoiseFrames(64, 64, 60, 42)

	chainCtx := runWorkflow(t, "live-clip", frames, 5)

	assert.False(t, chainCtx.HasErrors())
	result := chainCtx.Get(commands.GetIntegrityResultParamName()).(*model.IntegrityResult)

	assert.Equal(t, 100, result.Score)
	assert.Equal(t, 0, result.Report.DuplicateCount)
	assert.False(t, result.Report.LoopDetected)
}

// TestWorkflowDeterminism verifies that the same clip always produces the
// same score and report.
func TestWorkflowDeterminism(t *testing.T) {
	run := func() *model.IntegrityResult {
		frames := test.NoiseFrames(64, 64, 60, 7)
		chainCtx := runWorkflow(t, "determinism", frames, 5)
		assert.False(t, chainCtx.HasErrors())
		return chainCtx.Get(commands.GetIntegrityResultParamName()).(*model.IntegrityResult)
	}

	first := run()
	second := run()

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Report, second.Report)
}

// TestWorkflowInsufficientFrames verifies that a clip below the minimum
// sampled frame count yields the typed error and no verdict at all.
func TestWorkflowInsufficientFrames(t *testing.T) {
	frames := test.NoiseFrames(64, 64, 5, 11)

	chainCtx := runWorkflow(t, "too-short", frames, 5)

	assert.True(t, chainCtx.HasErrors())
	assert.Nil(t, chainCtx.Get(commands.GetIntegrityResultParamName()))

	var insufficient *model.InsufficientDataError
	assert.True(t, errors.As(chainCtx.GetErrors()["frame-sampler"], &insufficient))
}

// TestWorkflowScoreBounds verifies the hard range invariant over a spread
// of synthetic clips.
func TestWorkflowScoreBounds(t *testing.T) {
	clips := [][]image.Image{
		test.SolidFrames(64, 64, 60, color.RGBA{A: 255}),
		test.NoiseFrames(64, 64, 60, 3),
		append(test.SolidFrames(64, 64, 30, color.RGBA{R: 255, A: 255}), test.NoiseFrames(64, 64, 30, 5)...),
	}

	for i, frames := range clips {
		chainCtx := runWorkflow(t, "bounds", frames, 5)
		assert.False(t, chainCtx.HasErrors(), "clip %d", i)
		result := chainCtx.Get(commands.GetIntegrityResultParamName()).(*model.IntegrityResult)
		assert.GreaterOrEqual(t, result.Score, 0, "clip %d", i)
		assert.LessOrEqual(t, result.Score, 100, "clip %d", i)
	}
}
