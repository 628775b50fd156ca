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

// Package workflow defines the high-level orchestrations that combine
// pipeline commands into coherent analyses. This file implements the
// temporal-integrity workflow: the strictly linear chain
//
//	frame source -> sampler -> fingerprints -> distances -> anomaly scan -> score
//
// Each stage is a deterministic, side-effect-free transform of its
// predecessor's output, and the chain stops at the first stage that records
// an error, so no score is ever produced from a failed predecessor.
package workflow

import (
	"github.com/veridia/go-video-liveness/internal/core/analysis"
	"github.com/veridia/go-video-liveness/internal/core/commands"
	"github.com/veridia/go-video-liveness/internal/core/cor"
)

// TemporalIntegrityWorkflow orchestrates one replay/freeze/loop analysis.
// A workflow instance is built per invocation from an immutable
// configuration value, so concurrent invocations share nothing.
type TemporalIntegrityWorkflow struct {
	cor.BaseCommand
	cfg   analysis.CheckConfig
	chain cor.Chain
}

// Execute runs the analysis chain. The cor context must carry the frame
// source under cor.CtxIn.
func (w *TemporalIntegrityWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// initializeChain assembles the five pipeline stages in spec order.
func (w *TemporalIntegrityWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())

	out.AddCommand(commands.NewFrameSampler("frame-sampler", w.cfg))
	out.AddCommand(commands.NewFingerprintBuilder("fingerprint-builder", w.cfg))
	out.AddCommand(commands.NewDistanceSeriesBuilder("distance-series"))
	out.AddCommand(commands.NewAnomalyScan("anomaly-scan", w.cfg))
	out.AddCommand(commands.NewScoreCommand("score-aggregator", w.cfg))

	w.chain = out
}

// NewTemporalIntegrityWorkflow builds the workflow for one invocation's
// configuration. The configuration should already be validated; the workflow
// does not mutate it.
func NewTemporalIntegrityWorkflow(cfg analysis.CheckConfig) *TemporalIntegrityWorkflow {
	out := &TemporalIntegrityWorkflow{
		BaseCommand: *cor.NewBaseCommand("temporal-integrity-workflow"),
		cfg:         cfg,
	}
	out.initializeChain()
	return out
}
