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

// Package services_test contains tests for the liveness service, the entry
// point callers use. Decoding is covered through the typed failure paths
// that do not require ffmpeg; the analysis itself runs over in-memory
// sources.
package services_test

import (
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veridia/go-video-liveness/internal/core/media"
	"github.com/veridia/go-video-liveness/internal/core/model"
	"github.com/veridia/go-video-liveness/internal/core/services"
	test "github.com/veridia/go-video-liveness/internal/testutil"
)

// TestAnalyzeSourceStaticClip verifies the service returns the scored
// verdict for a static clip.
func TestAnalyzeSourceStaticClip(t *testing.T) {
	appConfig := test.GetConfig()
	checkConfig := appConfig.Analysis.ToCheckConfig(appConfig.Application.ThreadPoolSize)
	service := services.NewLivenessService(appConfig.FFmpeg.ToFFmpegConfig())

	source := media.NewMemorySource(test.SolidFrames(64, 64, 60, color.RGBA{G: 128, A: 255}), 5)
	result, err := service.AnalyzeSource(context.Background(), source, checkConfig)

	assert.NoError(t, err)
	assert.Equal(t, 55, result.Score)
	assert.NotEmpty(t, result.CheckID)
}

// TestAnalyzeSourceInsufficientFrames verifies the typed error: no score is
// ever substituted on failure.
func TestAnalyzeSourceInsufficientFrames(t *testing.T) {
	appConfig := test.GetConfig()
	checkConfig := appConfig.Analysis.ToCheckConfig(appConfig.Application.ThreadPoolSize)
	service := services.NewLivenessService(appConfig.FFmpeg.ToFFmpegConfig())

	source := media.NewMemorySource(test.NoiseFrames(64, 64, 4, 17), 5)
	result, err := service.AnalyzeSource(context.Background(), source, checkConfig)

	assert.Nil(t, result)
	var insufficient *model.InsufficientDataError
	assert.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 4, insufficient.Frames)
}

// TestAnalyzeFileRejectsInvalidConfiguration verifies that a bad
// configuration fails before the file is even opened.
func TestAnalyzeFileRejectsInvalidConfiguration(t *testing.T) {
	appConfig := test.GetConfig()
	checkConfig := appConfig.Analysis.ToCheckConfig(appConfig.Application.ThreadPoolSize)
	checkConfig.SampleRate = 0
	service := services.NewLivenessService(appConfig.FFmpeg.ToFFmpegConfig())

	result, err := service.AnalyzeFile(context.Background(), "does-not-exist.mp4", checkConfig)

	assert.Nil(t, result)
	var invalid *model.InvalidConfigurationError
	assert.True(t, errors.As(err, &invalid))
}

// TestAnalyzeFileRejectsNonVideoPayload verifies the container sniff: a
// payload without a video signature is unreadable regardless of its name.
func TestAnalyzeFileRejectsNonVideoPayload(t *testing.T) {
	appConfig := test.GetConfig()
	checkConfig := appConfig.Analysis.ToCheckConfig(appConfig.Application.ThreadPoolSize)
	service := services.NewLivenessService(appConfig.FFmpeg.ToFFmpegConfig())

	path := filepath.Join(t.TempDir(), "payload.mp4")
	test.HandleErr(os.WriteFile(path, []byte("this is not a video"), 0o600), t)

	result, err := service.AnalyzeFile(context.Background(), path, checkConfig)

	assert.Nil(t, result)
	var unreadable *model.VideoUnreadableError
	assert.True(t, errors.As(err, &unreadable))
}
