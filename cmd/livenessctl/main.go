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

// Package main is livenessctl, the one-shot command line front end to the
// temporal-integrity engine. It runs the same pipeline as the API server
// against a local file and prints the verdict as JSON, which makes it
// useful for scripting and for inspecting a clip the server rejected.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/veridia/go-video-liveness/internal/config"
	"github.com/veridia/go-video-liveness/internal/core/model"
	"github.com/veridia/go-video-liveness/internal/core/services"
	"github.com/veridia/go-video-liveness/internal/telemetry"
)

var (
	cfg = config.NewConfig()

	sampleRate    float64
	passThreshold int

	rootCmd = &cobra.Command{
		Use:   "livenessctl",
		Short: "Run temporal-integrity liveness checks against local video files",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadConfig(cfg)
			if cmd.Flags().Changed("sample-rate") {
				cfg.Analysis.SampleRate = sampleRate
			}
			if cmd.Flags().Changed("pass-threshold") {
				cfg.Application.PassThreshold = passThreshold
			}
		},
	}

	analyzeCmd = &cobra.Command{
		Use:   "analyze [video file]",
		Short: "Analyze a video for replay, freeze, and loop anomalies",
		Args:  cobra.ExactArgs(1),
		Run:   runAnalyze,
	}
)

// verdict is the CLI output payload: the service result plus the pass/fail
// mapping against the configured threshold.
type verdict struct {
	CheckID string              `json:"check_id"`
	Score   int                 `json:"score"`
	Passed  bool                `json:"passed"`
	Report  model.AnomalyReport `json:"report"`
}

func runAnalyze(cmd *cobra.Command, args []string) {
	checkConfig := cfg.Analysis.ToCheckConfig(cfg.Application.ThreadPoolSize)
	service := services.NewLivenessService(cfg.FFmpeg.ToFFmpegConfig())

	result, err := service.AnalyzeFile(context.Background(), args[0], checkConfig)
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}

	out, err := json.MarshalIndent(verdict{
		CheckID: result.CheckID,
		Score:   result.Score,
		Passed:  result.Score >= cfg.Application.PassThreshold,
		Report:  result.Report,
	}, "", "  ")
	if err != nil {
		log.Fatalf("failed to encode verdict: %v", err)
	}
	fmt.Println(string(out))

	if result.Score < cfg.Application.PassThreshold {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Float64Var(&sampleRate, "sample-rate", 0, "frames per second to sample for analysis")
	rootCmd.PersistentFlags().IntVar(&passThreshold, "pass-threshold", 0, "minimum score considered passing")
	rootCmd.AddCommand(analyzeCmd)
}

func main() {
	telemetry.SetupLogging()
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
