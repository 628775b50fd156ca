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

// Package main contains the setup and initialization logic for the liveness
// API server. This file defines the state manager that holds the shared
// dependencies: the loaded configuration, the analysis defaults derived from
// it, and the liveness service every request handler calls into.
package main

import (
	"log"
	"os"
	"sync"

	"golang.org/x/time/rate"

	"github.com/veridia/go-video-liveness/internal/config"
	"github.com/veridia/go-video-liveness/internal/core/analysis"
	"github.com/veridia/go-video-liveness/internal/core/services"
)

// StateManager holds the shared dependencies for the server. The liveness
// service is stateless, so the manager is populated once at startup and read
// only afterwards; the limiter map is the one guarded exception.
type StateManager struct {
	config          *config.Config
	checkConfig     analysis.CheckConfig
	livenessService *services.LivenessService

	limiterMu sync.Mutex
	limiters  map[string]*rate.Limiter
}

var state = &StateManager{limiters: make(map[string]*rate.Limiter)}

// SetupOS points the configuration loader at the server's config directory
// and selects the local runtime unless one is already set.
func SetupOS() (err error) {
	err = os.Setenv(config.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	if os.Getenv(config.EnvConfigRuntime) == "" {
		err = os.Setenv(config.EnvConfigRuntime, "local")
	}
	return err
}

// GetConfig loads the application configuration exactly once and caches it
// on the state manager.
func GetConfig() *config.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to set up environment: %v\n", err)
		}
		cfg := config.NewConfig()
		config.LoadConfig(cfg)
		state.config = cfg
	}
	return state.config
}

// InitState derives the analysis defaults from the loaded configuration and
// builds the liveness service. The derived configuration is validated here
// so a bad TOML file fails the process at startup rather than per request.
func InitState() {
	cfg := GetConfig()

	checkConfig := cfg.Analysis.ToCheckConfig(cfg.Application.ThreadPoolSize)
	if err := checkConfig.Validate(); err != nil {
		log.Fatalf("invalid analysis configuration: %v\n", err)
	}
	state.checkConfig = checkConfig
	state.livenessService = services.NewLivenessService(cfg.FFmpeg.ToFFmpegConfig())
}

// limiterFor returns the rate limiter for one client IP, creating it on
// first sight with the configured steady rate and burst.
func (s *StateManager) limiterFor(clientIP string) *rate.Limiter {
	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()
	limiter, ok := s.limiters[clientIP]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(s.config.Server.RatePerSecond), s.config.Server.RateBurst)
		s.limiters[clientIP] = limiter
	}
	return limiter
}
