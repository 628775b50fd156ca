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

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/veridia/go-video-liveness/internal/config"
	"github.com/veridia/go-video-liveness/internal/core/analysis"
)

// TestNewConfigMatchesEngineDefaults verifies that a configuration built
// without any TOML input converts back into the engine defaults.
func TestNewConfigMatchesEngineDefaults(t *testing.T) {
	cfg := config.NewConfig()

	derived := cfg.Analysis.ToCheckConfig(cfg.Application.ThreadPoolSize)

	assert.Equal(t, analysis.DefaultCheckConfig(), derived)
	assert.NoError(t, derived.Validate())
}

// TestLoadConfigHierarchy verifies that the runtime file overlays the base
// file and everything else keeps its base value.
func TestLoadConfigHierarchy(t *testing.T) {
	dir := t.TempDir()

	base := `
[application]
name = "liveness-test"
pass_threshold = 60

[analysis]
sample_rate = 10.0
frozen_threshold = 5
`
	override := `
[analysis]
frozen_threshold = 3
`
	assert.NoError(t, os.WriteFile(filepath.Join(dir, ".env.toml"), []byte(base), 0o600))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, ".env.staging.toml"), []byte(override), 0o600))

	t.Setenv(config.EnvConfigFilePrefix, dir)
	t.Setenv(config.EnvConfigRuntime, "staging")

	cfg := config.NewConfig()
	config.LoadConfig(cfg)

	assert.Equal(t, "liveness-test", cfg.Application.Name)
	assert.Equal(t, 60, cfg.Application.PassThreshold)
	assert.Equal(t, 10.0, cfg.Analysis.SampleRate)
	assert.Equal(t, 3, cfg.Analysis.FrozenThreshold)
	// Untouched sections keep their defaults.
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Analysis.LoopWeight)
}

// TestLoadConfigMissingFilesKeepsDefaults verifies that absent TOML files
// are not an error.
func TestLoadConfigMissingFilesKeepsDefaults(t *testing.T) {
	t.Setenv(config.EnvConfigFilePrefix, t.TempDir())
	t.Setenv(config.EnvConfigRuntime, "nonexistent")

	cfg := config.NewConfig()
	config.LoadConfig(cfg)

	assert.Equal(t, "go-video-liveness", cfg.Application.Name)
	assert.Equal(t, 50, cfg.Application.PassThreshold)
}

// TestToCheckConfigConversion verifies the section to engine-value mapping,
// including the loop window pair and the seconds to duration conversion.
func TestToCheckConfigConversion(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Analysis.LoopWindowSeconds = [2]float64{4, 6}
	cfg.Analysis.DecodeTimeoutSeconds = 25

	derived := cfg.Analysis.ToCheckConfig(8)

	assert.Equal(t, analysis.LagWindow{Lower: 4, Upper: 6}, derived.LoopWindow)
	assert.Equal(t, 25*time.Second, derived.DecodeTimeout)
	assert.Equal(t, 8, derived.HashWorkers)
}
