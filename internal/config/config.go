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

// Package config defines the application configuration, loaded from TOML
// files. Loading is hierarchical: a base file (.env.toml) is read first and
// an environment-specific file (.env.<runtime>.toml) overlays it. The
// directory and runtime are selected with environment variables so the same
// binary runs unchanged across local, test, and production environments.
//
// The [analysis] section mirrors analysis.CheckConfig field for field; the
// Analysis.ToCheckConfig method converts between the two. Anything the TOML
// omits keeps the engine default.
package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/veridia/go-video-liveness/internal/core/analysis"
	"github.com/veridia/go-video-liveness/internal/core/media"
)

const (
	ConfigFileBaseName  = ".env"                   // Base name for configuration files.
	ConfigFileExtension = ".toml"                  // Extension for configuration files.
	ConfigSeparator     = "."                      // Separator in override file names (.env.test.toml).
	EnvConfigFilePrefix = "LIVENESS_CONFIG_PREFIX" // Environment variable naming the config directory.
	EnvConfigRuntime    = "LIVENESS_RUNTIME"       // Environment variable naming the runtime (local, test, prod).
)

// Application holds general service settings.
type Application struct {
	Name           string  `toml:"name"`             // The service name, used in telemetry resources.
	PassThreshold  int     `toml:"pass_threshold"`   // Minimum score considered a passing check.
	ThreadPoolSize int     `toml:"thread_pool_size"` // Worker count for fingerprint hashing.
}

// Server holds the HTTP listener settings.
type Server struct {
	Port            int      `toml:"port"`              // TCP port the API listens on.
	AllowedOrigins  []string `toml:"allowed_origins"`   // CORS origins permitted to call the API.
	MaxUploadBytes  int64    `toml:"max_upload_bytes"`  // Upper bound for multipart video uploads.
	RatePerSecond   float64  `toml:"rate_per_second"`   // Per-client request rate for the checks endpoint.
	RateBurst       int      `toml:"rate_burst"`        // Burst allowance on top of the steady rate.
	ShutdownSeconds int      `toml:"shutdown_seconds"`  // Grace period for draining connections on shutdown.
}

// FFmpeg names the decode binaries.
type FFmpeg struct {
	FFmpegPath  string `toml:"ffmpeg_path"`  // Path to the ffmpeg binary; empty means PATH lookup.
	FFprobePath string `toml:"ffprobe_path"` // Path to the ffprobe binary; empty means PATH lookup.
}

// Analysis mirrors the tunable parameters of a temporal-integrity check.
type Analysis struct {
	SampleRate              float64    `toml:"sample_rate"`               // Frames per second kept for analysis.
	FrozenThreshold         int        `toml:"frozen_threshold"`          // Hamming distance below which frames count as frozen.
	FrozenToleranceFraction float64    `toml:"frozen_tolerance_fraction"` // Frozen share of the clip tolerated before penalizing.
	DuplicateTolerance      float64    `toml:"duplicate_tolerance"`       // Duplicate share tolerated before penalizing.
	LoopWindowSeconds       [2]float64 `toml:"loop_window_seconds"`       // Candidate loop period bounds in seconds.
	LoopPeakThreshold       float64    `toml:"loop_peak_threshold"`       // Normalized autocorrelation peak that flags a loop.
	FrozenWeight            float64    `toml:"frozen_weight"`             // Penalty per frozen second.
	DuplicateWeight         float64    `toml:"duplicate_weight"`          // Penalty per ten percentage points of duplicates.
	LoopWeight              int        `toml:"loop_weight"`               // Flat penalty when a loop is detected.
	MinSampledFrames        int        `toml:"min_sampled_frames"`        // Minimum frames the pipeline requires.
	MinLoopSamples          int        `toml:"min_loop_samples"`          // Minimum samples before loop detection engages.
	DecodeTimeoutSeconds    int        `toml:"decode_timeout_seconds"`    // Per-invocation decode budget.
}

// Config is the top-level aggregate loaded from the TOML files.
type Config struct {
	Application Application `toml:"application"`
	Server      Server      `toml:"server"`
	FFmpeg      FFmpeg      `toml:"ffmpeg"`
	Analysis    Analysis    `toml:"analysis"`
}

// NewConfig creates a Config pre-populated with the engine defaults, so a
// missing or partial TOML file still yields a runnable configuration.
func NewConfig() *Config {
	def := analysis.DefaultCheckConfig()
	out := &Config{}
	out.Application.Name = "go-video-liveness"
	out.Application.PassThreshold = 50
	out.Application.ThreadPoolSize = def.HashWorkers
	out.Server.Port = 8080
	out.Server.MaxUploadBytes = 256 << 20
	out.Server.RatePerSecond = 1
	out.Server.RateBurst = 5
	out.Server.ShutdownSeconds = 10
	out.Analysis = Analysis{
		SampleRate:              def.SampleRate,
		FrozenThreshold:         def.FrozenThreshold,
		FrozenToleranceFraction: def.FrozenToleranceFraction,
		DuplicateTolerance:      def.DuplicateToleranceFraction,
		LoopWindowSeconds:       [2]float64{def.LoopWindow.Lower, def.LoopWindow.Upper},
		LoopPeakThreshold:       def.LoopPeakThreshold,
		FrozenWeight:            def.FrozenWeight,
		DuplicateWeight:         def.DuplicateWeight,
		LoopWeight:              def.LoopWeight,
		MinSampledFrames:        def.MinSampledFrames,
		MinLoopSamples:          def.MinLoopSamples,
		DecodeTimeoutSeconds:    int(def.DecodeTimeout / time.Second),
	}
	return out
}

// ToCheckConfig converts the TOML analysis section into the engine's
// immutable configuration value, folding in the worker-pool size from the
// application section.
func (a Analysis) ToCheckConfig(workers int) analysis.CheckConfig {
	return analysis.CheckConfig{
		SampleRate:                 a.SampleRate,
		FrozenThreshold:            a.FrozenThreshold,
		FrozenToleranceFraction:    a.FrozenToleranceFraction,
		DuplicateToleranceFraction: a.DuplicateTolerance,
		LoopWindow:                 analysis.LagWindow{Lower: a.LoopWindowSeconds[0], Upper: a.LoopWindowSeconds[1]},
		LoopPeakThreshold:          a.LoopPeakThreshold,
		FrozenWeight:               a.FrozenWeight,
		DuplicateWeight:            a.DuplicateWeight,
		LoopWeight:                 a.LoopWeight,
		MinSampledFrames:           a.MinSampledFrames,
		MinLoopSamples:             a.MinLoopSamples,
		HashWorkers:                workers,
		DecodeTimeout:              time.Duration(a.DecodeTimeoutSeconds) * time.Second,
	}
}

// ToFFmpegConfig converts the ffmpeg section into the media package's
// binary configuration.
func (f FFmpeg) ToFFmpegConfig() media.FFmpegConfig {
	return media.FFmpegConfig{FFmpegPath: f.FFmpegPath, FFprobePath: f.FFprobePath}
}

// fileExists reports whether the path names an existing file.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig populates baseConfig from the base TOML file, then overlays
// the runtime-specific file if present. The config directory comes from
// LIVENESS_CONFIG_PREFIX and the runtime from LIVENESS_RUNTIME, defaulting
// to "test". Missing files are not an error; a file that exists but fails
// to parse is fatal.
func LoadConfig(baseConfig interface{}) {
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "test"
	}

	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension

	if fileExists(baseConfigFileName) {
		if _, err := toml.DecodeFile(baseConfigFileName, baseConfig); err != nil {
			log.Fatalf("failed to decode base configuration file %s with error: %s", baseConfigFileName, err)
		}
	}

	if fileExists(envConfigFileName) {
		if _, err := toml.DecodeFile(envConfigFileName, baseConfig); err != nil {
			log.Fatalf("failed to decode environment configuration file %s with error: %s", envConfigFileName, err)
		}
	}
}
