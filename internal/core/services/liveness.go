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

// Package services contains the business logic that sits between the
// transport layers (HTTP server, CLI) and the analysis pipeline. This file
// defines the LivenessService, the single entry point for running a
// temporal-integrity check against a video file or an already-open frame
// source.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/veridia/go-video-liveness/internal/core/analysis"
	"github.com/veridia/go-video-liveness/internal/core/commands"
	"github.com/veridia/go-video-liveness/internal/core/cor"
	"github.com/veridia/go-video-liveness/internal/core/media"
	"github.com/veridia/go-video-liveness/internal/core/model"
	"github.com/veridia/go-video-liveness/internal/core/workflow"
)

// LivenessService runs temporal-integrity checks. It is stateless and safe
// for concurrent use: every invocation builds its own workflow and pipeline
// context from the immutable configuration passed in.
type LivenessService struct {
	FFmpeg media.FFmpegConfig
}

// NewLivenessService creates a service bound to the given decode binaries.
func NewLivenessService(ffmpeg media.FFmpegConfig) *LivenessService {
	return &LivenessService{FFmpeg: ffmpeg}
}

// AnalyzeFile opens the video at path and runs the full analysis under the
// configured decode timeout. The timeout covers the entire decode and
// analysis of the invocation; when it fires mid-decode the failure surfaces
// as a model.VideoUnreadableError.
func (s *LivenessService) AnalyzeFile(ctx context.Context, path string, cfg analysis.CheckConfig) (*model.IntegrityResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.DecodeTimeout)
	defer cancel()

	source, err := media.NewFFmpegSource(ctx, s.FFmpeg, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := source.Close(); cerr != nil {
			slog.WarnContext(ctx, "failed to close frame source", "source", path, "error", cerr)
		}
	}()

	return s.AnalyzeSource(ctx, source, cfg)
}

// AnalyzeSource runs the analysis chain against an already-open frame
// source. The caller retains ownership of the source and is responsible for
// closing it. The configuration must already be validated.
func (s *LivenessService) AnalyzeSource(ctx context.Context, source media.FrameSource, cfg analysis.CheckConfig) (*model.IntegrityResult, error) {
	checkID := model.NewCheckID()

	chainCtx := cor.NewBaseContext()
	defer chainCtx.Close()
	chainCtx.SetContext(ctx)
	chainCtx.Add(commands.GetCheckIDParamName(), checkID)
	chainCtx.Add(cor.CtxIn, source)

	w := workflow.NewTemporalIntegrityWorkflow(cfg)
	w.Execute(chainCtx)

	if chainCtx.HasErrors() {
		return nil, pipelineError(chainCtx.GetErrors())
	}

	result, ok := chainCtx.Get(commands.GetIntegrityResultParamName()).(*model.IntegrityResult)
	if !ok {
		return nil, fmt.Errorf("pipeline produced no result for check %s", checkID)
	}
	return result, nil
}

// pipelineError collapses the chain's error map into the single error the
// caller sees. The chain stops at the first failing stage, so the map holds
// one entry in practice; the typed-error precedence below keeps the choice
// deterministic regardless of map order if that ever changes.
func pipelineError(errs map[string]error) error {
	var unreadable *model.VideoUnreadableError
	var insufficient *model.InsufficientDataError
	var hash *model.HashComputationError
	var invalid *model.InvalidConfigurationError

	var fallback error
	for _, err := range errs {
		switch {
		case errors.As(err, &unreadable):
		case errors.As(err, &insufficient):
		case errors.As(err, &hash):
		case errors.As(err, &invalid):
		default:
			if fallback == nil {
				fallback = err
			}
		}
	}
	switch {
	case unreadable != nil:
		return unreadable
	case insufficient != nil:
		return insufficient
	case hash != nil:
		return hash
	case invalid != nil:
		return invalid
	}
	return fallback
}
