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
// temporal-integrity analysis. This file defines the distance series stage:
// the Hamming distance between each consecutive fingerprint pair, in
// original temporal order, one element shorter than the sequence.
package commands

import (
	"github.com/veridia/go-video-liveness/internal/core/cor"
	"github.com/veridia/go-video-liveness/internal/core/model"
)

// DistanceSeriesBuilder computes the consecutive-pair distance series.
// Input: model.HashSequence. Output: model.DistanceSeries.
type DistanceSeriesBuilder struct {
	cor.BaseCommand
}

// NewDistanceSeriesBuilder builds the command.
func NewDistanceSeriesBuilder(name string) *DistanceSeriesBuilder {
	return &DistanceSeriesBuilder{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute derives the series. A width mismatch inside the sequence is a
// configuration fault and propagates as the model's typed error.
func (c *DistanceSeriesBuilder) Execute(context cor.Context) {
	sequence := context.Get(c.GetInputParam()).(model.HashSequence)

	series, err := sequence.Distances()
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(cor.CtxOut, series)
}
