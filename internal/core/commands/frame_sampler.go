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
// temporal-integrity analysis. This file defines the frame sampler, the
// first stage of the chain.
//
// The sampler reads every frame off the source stream in order, because
// decode is inherently sequential, and keeps a fixed-rate subset: with a
// source rate of R and a target sample rate of r it keeps every
// floor(R/r)-th frame (minimum interval 1). A source that does not report
// its rate is assumed to run at 30 fps. Frames are never re-sampled or
// reordered.
package commands

import (
	"errors"
	"io"

	"github.com/veridia/go-video-liveness/internal/core/analysis"
	"github.com/veridia/go-video-liveness/internal/core/cor"
	"github.com/veridia/go-video-liveness/internal/core/media"
	"github.com/veridia/go-video-liveness/internal/core/model"
)

// DefaultSourceFrameRate is assumed when a container reports no frame rate.
const DefaultSourceFrameRate = 30.0

// FrameSampler extracts a fixed-rate ordered sequence of frames from a
// frame source. Input: a media.FrameSource. Output: []*model.VideoFrame.
type FrameSampler struct {
	cor.BaseCommand
	cfg analysis.CheckConfig
}

// NewFrameSampler builds the sampler for one invocation's configuration.
func NewFrameSampler(name string, cfg analysis.CheckConfig) *FrameSampler {
	return &FrameSampler{BaseCommand: *cor.NewBaseCommand(name), cfg: cfg}
}

// Execute drains the source and keeps every interval-th frame. Fewer than
// the configured minimum of sampled frames is an InsufficientDataError; a
// source read failure (including the decode timeout firing) propagates as
// the source's VideoUnreadableError.
func (c *FrameSampler) Execute(context cor.Context) {
	source := context.Get(c.GetInputParam()).(media.FrameSource)

	rate := source.FrameRate()
	if rate <= 0 {
		rate = DefaultSourceFrameRate
	}
	interval := int(rate / c.cfg.SampleRate)
	if interval < 1 {
		interval = 1
	}

	frames := make([]*model.VideoFrame, 0)
	for index := 0; ; index++ {
		img, err := source.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			c.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(c.GetName(), err)
			return
		}
		if index%interval != 0 {
			continue
		}
		frames = append(frames, &model.VideoFrame{
			Index:       index,
			SampleIndex: len(frames),
			Timestamp:   media.FrameTimestamp(index, rate),
			Image:       img,
		})
	}

	if len(frames) < c.cfg.MinSampledFrames {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), &model.InsufficientDataError{
			Frames:  len(frames),
			Minimum: c.cfg.MinSampledFrames,
		})
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetSampledFrameCountParamName(), len(frames))
	context.Add(cor.CtxOut, frames)
}
