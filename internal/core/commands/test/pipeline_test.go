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

// Package commands_test contains unit tests for the individual pipeline
// commands, each driven through its own chain context with hand-built
// inputs.
package commands_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/veridia/go-video-liveness/internal/core/analysis"
	"github.com/veridia/go-video-liveness/internal/core/commands"
	"github.com/veridia/go-video-liveness/internal/core/cor"
	"github.com/veridia/go-video-liveness/internal/core/media"
	"github.com/veridia/go-video-liveness/internal/core/model"
	test "github.com/veridia/go-video-liveness/internal/testutil"
)

// newChainContext builds a fresh execution context seeded with the given
// primary input.
func newChainContext(in interface{}) cor.Context {
	out := cor.NewBaseContext()
	out.SetContext(context.Background())
	out.Add(cor.CtxIn, in)
	return out
}

// frames wraps pre-built images in sampled video frames the way the frame
// sampler would emit them.
func frames(images []image.Image) []*model.VideoFrame {
	out := make([]*model.VideoFrame, 0, len(images))
	for i, img := range images {
		out = append(out, &model.VideoFrame{Index: i, SampleIndex: i, Image: img})
	}
	return out
}

// TestFrameSamplerKeepsFixedInterval verifies that a thirty fps source
// sampled at five fps keeps every sixth frame with its original index and
// capture timestamp.
func TestFrameSamplerKeepsFixedInterval(t *testing.T) {
	source := media.NewMemorySource(test.NoiseFrames(32, 32, 60, 1), 30)
	chainCtx := newChainContext(source)

	sampler := commands.NewFrameSampler("frame-sampler", analysis.DefaultCheckConfig())
	sampler.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	sampled := chainCtx.Get(cor.CtxOut).([]*model.VideoFrame)
	assert.Len(t, sampled, 10)
	assert.Equal(t, 0, sampled[0].Index)
	assert.Equal(t, 6, sampled[1].Index)
	assert.Equal(t, 54, sampled[9].Index)
	assert.Equal(t, 1, sampled[1].SampleIndex)
	assert.Equal(t, 200*time.Millisecond, sampled[1].Timestamp)
	assert.Equal(t, 10, chainCtx.Get(commands.GetSampledFrameCountParamName()))
}

// TestFrameSamplerAssumesThirtyFps verifies the fallback for sources that
// do not report a rate.
func TestFrameSamplerAssumesThirtyFps(t *testing.T) {
	source := media.NewMemorySource(test.NoiseFrames(32, 32, 60, 2), 0)
	chainCtx := newChainContext(source)

	sampler := commands.NewFrameSampler("frame-sampler", analysis.DefaultCheckConfig())
	sampler.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	sampled := chainCtx.Get(cor.CtxOut).([]*model.VideoFrame)
	assert.Len(t, sampled, 10)
}

// TestFrameSamplerInsufficientData verifies that a clip yielding fewer than
// the minimum sampled frames fails with the typed error and produces no
// output.
func TestFrameSamplerInsufficientData(t *testing.T) {
	source := media.NewMemorySource(test.NoiseFrames(32, 32, 30, 3), 30)
	chainCtx := newChainContext(source)

	sampler := commands.NewFrameSampler("frame-sampler", analysis.DefaultCheckConfig())
	sampler.Execute(chainCtx)

	assert.True(t, chainCtx.HasErrors())
	assert.Nil(t, chainCtx.Get(cor.CtxOut))

	var insufficient *model.InsufficientDataError
	assert.True(t, errors.As(chainCtx.GetErrors()["frame-sampler"], &insufficient))
	assert.Equal(t, 5, insufficient.Frames)
	assert.Equal(t, 10, insufficient.Minimum)
}

// TestFingerprintBuilderIdenticalFrames verifies that identical frames
// fingerprint identically and in order, and that pixel data is released
// once hashed.
func TestFingerprintBuilderIdenticalFrames(t *testing.T) {
	input := frames(test.SolidFrames(64, 64, 12, color.RGBA{R: 200, G: 40, B: 40, A: 255}))
	chainCtx := newChainContext(input)

	builder := commands.NewFingerprintBuilder("fingerprint-builder", analysis.DefaultCheckConfig())
	builder.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	sequence := chainCtx.Get(cor.CtxOut).(model.HashSequence)
	assert.Len(t, sequence, 12)
	for _, fp := range sequence[1:] {
		d, err := sequence[0].Distance(fp)
		assert.NoError(t, err)
		assert.Equal(t, 0, d)
	}
	for _, frame := range input {
		assert.Nil(t, frame.Image)
	}
}

// TestFingerprintBuilderDeterminism verifies that hashing the same pixel
// data twice yields bit-identical fingerprints regardless of worker
// scheduling.
func TestFingerprintBuilderDeterminism(t *testing.T) {
	builder := commands.NewFingerprintBuilder("fingerprint-builder", analysis.DefaultCheckConfig())

	run := func() model.HashSequence {
		chainCtx := newChainContext(frames(test.NoiseFrames(64, 64, 16, 9)))
		builder.Execute(chainCtx)
		assert.False(t, chainCtx.HasErrors())
		return chainCtx.Get(cor.CtxOut).(model.HashSequence)
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
}

// TestFingerprintBuilderZeroDimensionFrame verifies the typed failure for
// degenerate frame geometry.
func TestFingerprintBuilderZeroDimensionFrame(t *testing.T) {
	input := frames([]image.Image{image.NewRGBA(image.Rect(0, 0, 0, 0))})
	chainCtx := newChainContext(input)

	builder := commands.NewFingerprintBuilder("fingerprint-builder", analysis.DefaultCheckConfig())
	builder.Execute(chainCtx)

	assert.True(t, chainCtx.HasErrors())
	var hashErr *model.HashComputationError
	assert.True(t, errors.As(chainCtx.GetErrors()["fingerprint-builder"], &hashErr))
}

// TestDistanceSeriesBuilder verifies the consecutive-pair distances and the
// N-1 length contract.
func TestDistanceSeriesBuilder(t *testing.T) {
	sequence := model.HashSequence{
		model.NewFingerprint(0x00),
		model.NewFingerprint(0x00),
		model.NewFingerprint(0xFF),
	}
	chainCtx := newChainContext(sequence)

	builder := commands.NewDistanceSeriesBuilder("distance-series")
	builder.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	series := chainCtx.Get(cor.CtxOut).(model.DistanceSeries)
	assert.Equal(t, model.DistanceSeries{0, 8}, series)
}

// TestAnomalyScanStaticClip verifies the report for an all-duplicate
// series: every transition frozen, one hundred percent duplicates, no loop.
func TestAnomalyScanStaticClip(t *testing.T) {
	series := model.DistanceSeries(make([]int, 59))
	chainCtx := newChainContext(series)
	chainCtx.Add(commands.GetSampledFrameCountParamName(), 60)

	scan := commands.NewAnomalyScan("anomaly-scan", analysis.DefaultCheckConfig())
	assert.True(t, scan.IsExecutable(chainCtx))
	scan.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	report := chainCtx.Get(cor.CtxOut).(*model.AnomalyReport)
	assert.Equal(t, 59, report.FrozenCount)
	assert.InDelta(t, 11.8, report.FrozenDurationSeconds, 1e-9)
	assert.Equal(t, 59, report.DuplicateCount)
	assert.InDelta(t, 100.0, report.DuplicatePercentage, 1e-9)
	assert.False(t, report.LoopDetected)
	assert.Equal(t, 60, report.TotalFrames)
	assert.InDelta(t, 12.0, report.TotalDurationSeconds, 1e-9)
}

// TestAnomalyScanRequiresFrameCount verifies the precondition: without the
// sampled frame count the scan is not executable.
func TestAnomalyScanRequiresFrameCount(t *testing.T) {
	chainCtx := newChainContext(model.DistanceSeries{1, 2, 3})

	scan := commands.NewAnomalyScan("anomaly-scan", analysis.DefaultCheckConfig())
	assert.False(t, scan.IsExecutable(chainCtx))
}

// TestScoreCommand verifies that the command scores the report, carries the
// check ID through, and never emits a score without its report.
func TestScoreCommand(t *testing.T) {
	report := &model.AnomalyReport{
		FrozenCount:           59,
		FrozenDurationSeconds: 11.8,
		DuplicateCount:        59,
		DuplicatePercentage:   100,
		TotalFrames:           60,
		TotalDurationSeconds:  12,
	}
	chainCtx := newChainContext(report)
	chainCtx.Add(commands.GetCheckIDParamName(), "check-123")

	score := commands.NewScoreCommand("score-aggregator", analysis.DefaultCheckConfig())
	score.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	result := chainCtx.Get(cor.CtxOut).(*model.IntegrityResult)
	assert.Equal(t, "check-123", result.CheckID)
	assert.Equal(t, 55, result.Score)
	assert.Equal(t, *report, result.Report)
}

// TestScoreCommandGeneratesMissingCheckID verifies the fallback ID.
func TestScoreCommandGeneratesMissingCheckID(t *testing.T) {
	chainCtx := newChainContext(&model.AnomalyReport{TotalFrames: 60, TotalDurationSeconds: 12})

	score := commands.NewScoreCommand("score-aggregator", analysis.DefaultCheckConfig())
	score.Execute(chainCtx)

	result := chainCtx.Get(cor.CtxOut).(*model.IntegrityResult)
	assert.NotEmpty(t, result.CheckID)
	assert.Equal(t, 100, result.Score)
}
