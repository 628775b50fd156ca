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

// Package main contains the route handlers for the liveness API. The
// endpoints are thin: every analysis decision lives in the liveness service
// and the handlers only translate between HTTP and the typed results and
// errors the service returns.
package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/veridia/go-video-liveness/internal/core/model"
)

// checkResponse is the payload returned for a completed check. Passed is
// the caller-side verdict: score measured against the configured threshold.
type checkResponse struct {
	CheckID string              `json:"check_id"`
	Score   int                 `json:"score"`
	Passed  bool                `json:"passed"`
	Report  model.AnomalyReport `json:"report"`
}

// rateLimit enforces the per-client request rate on the analysis endpoint.
func rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !state.limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// statusForError maps the engine's typed errors onto HTTP statuses. Bad
// input is the client's problem; a bad configuration is ours.
func statusForError(err error) int {
	var unreadable *model.VideoUnreadableError
	var insufficient *model.InsufficientDataError
	var hash *model.HashComputationError
	var invalid *model.InvalidConfigurationError
	switch {
	case errors.As(err, &unreadable), errors.As(err, &insufficient), errors.As(err, &hash):
		return http.StatusUnprocessableEntity
	case errors.As(err, &invalid):
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// ChecksRouter sets up the temporal-integrity check endpoints.
//
// POST /checks accepts a multipart upload under the "video" field, runs one
// analysis invocation against it, and returns the verdict. GET
// /checks/defaults reports the effective analysis defaults so callers can
// see what a verdict was measured against.
func ChecksRouter(r *gin.RouterGroup) {
	checks := r.Group("/checks")
	{
		checks.POST("", rateLimit(), func(c *gin.Context) {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, state.config.Server.MaxUploadBytes)

			file, err := c.FormFile("video")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "missing video upload: " + err.Error()})
				return
			}

			localPath := filepath.Join(os.TempDir(), uuid.NewString()+filepath.Ext(file.Filename))
			if err := c.SaveUploadedFile(file, localPath); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "failed to store upload: " + err.Error()})
				return
			}
			defer func() {
				if err := os.Remove(localPath); err != nil {
					slog.Warn("failed to remove uploaded file", "path", localPath, "error", err)
				}
			}()

			result, err := state.livenessService.AnalyzeFile(c.Request.Context(), localPath, state.checkConfig)
			if err != nil {
				slog.ErrorContext(c.Request.Context(), "check failed",
					"upload", file.Filename,
					"error", err,
				)
				c.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}

			c.JSON(http.StatusCreated, checkResponse{
				CheckID: result.CheckID,
				Score:   result.Score,
				Passed:  result.Score >= state.config.Application.PassThreshold,
				Report:  result.Report,
			})
		})

		checks.GET("/defaults", func(c *gin.Context) {
			cfg := state.checkConfig
			c.JSON(http.StatusOK, gin.H{
				"sample_rate":               cfg.SampleRate,
				"frozen_threshold":          cfg.FrozenThreshold,
				"frozen_tolerance_fraction": cfg.FrozenToleranceFraction,
				"duplicate_tolerance":       cfg.DuplicateToleranceFraction,
				"loop_window_seconds":       []float64{cfg.LoopWindow.Lower, cfg.LoopWindow.Upper},
				"loop_peak_threshold":       cfg.LoopPeakThreshold,
				"frozen_weight":             cfg.FrozenWeight,
				"duplicate_weight":          cfg.DuplicateWeight,
				"loop_weight":               cfg.LoopWeight,
				"min_sampled_frames":        cfg.MinSampledFrames,
				"min_loop_samples":          cfg.MinLoopSamples,
				"decode_timeout_seconds":    int(cfg.DecodeTimeout / time.Second),
				"pass_threshold":            state.config.Application.PassThreshold,
			})
		})
	}
}

// HealthRouter registers the liveness probe at the server root.
func HealthRouter(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
