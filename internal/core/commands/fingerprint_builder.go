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
// temporal-integrity analysis. This file defines the fingerprint builder,
// which turns each sampled frame into a fixed-width perceptual fingerprint.
//
// Fingerprints are independent of each other, so the command fans the frames
// out over a bounded worker pool: a jobs channel feeds the workers, a results
// channel collects fingerprints tagged with their sample index, and the
// command reassembles them in temporal order behind a WaitGroup barrier. The
// primitive is the DCT-based perceptual hash from goimagehash, which is
// deterministic for identical pixel content; goimagehash converts frames to
// a single canonical grayscale representation internally, so the fingerprint
// does not depend on the source color encoding.
package commands

import (
	"sync"

	"github.com/corona10/goimagehash"

	"github.com/veridia/go-video-liveness/internal/core/analysis"
	"github.com/veridia/go-video-liveness/internal/core/cor"
	"github.com/veridia/go-video-liveness/internal/core/model"
)

// FingerprintBuilder computes one perceptual fingerprint per sampled frame,
// preserving sample order. Input: []*model.VideoFrame. Output:
// model.HashSequence.
type FingerprintBuilder struct {
	cor.BaseCommand
	numberOfWorkers int
}

// NewFingerprintBuilder builds the command with the invocation's worker
// pool size.
func NewFingerprintBuilder(name string, cfg analysis.CheckConfig) *FingerprintBuilder {
	workers := cfg.HashWorkers
	if workers < 1 {
		workers = 1
	}
	return &FingerprintBuilder{BaseCommand: *cor.NewBaseCommand(name), numberOfWorkers: workers}
}

// hashJob carries one frame to a worker.
type hashJob struct {
	frame *model.VideoFrame
}

// hashResult carries a fingerprint (or failure) back, tagged with the
// frame's position in the sampled sequence.
type hashResult struct {
	sampleIndex int
	fingerprint model.Fingerprint
	err         error
}

// Execute fans the frames out across the worker pool and reassembles the
// fingerprints by sample index. Each frame's pixel data is released as soon
// as its fingerprint exists, so only fingerprints survive this stage.
func (c *FingerprintBuilder) Execute(context cor.Context) {
	frames := context.Get(c.GetInputParam()).([]*model.VideoFrame)

	var wg sync.WaitGroup
	jobs := make(chan *hashJob, len(frames))
	results := make(chan *hashResult, len(frames))

	for w := 0; w < c.numberOfWorkers; w++ {
		wg.Add(1)
		go hashWorker(jobs, results, &wg)
	}

	for _, frame := range frames {
		jobs <- &hashJob{frame: frame}
	}
	close(jobs)

	// Barrier: the distance series needs the complete sequence.
	wg.Wait()
	close(results)

	sequence := make(model.HashSequence, len(frames))
	for r := range results {
		if r.err != nil {
			c.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(c.GetName(), r.err)
			return
		}
		sequence[r.sampleIndex] = r.fingerprint
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(cor.CtxOut, sequence)
}

// hashWorker consumes frames off the jobs channel until it is closed,
// producing one result per frame.
func hashWorker(jobs <-chan *hashJob, results chan<- *hashResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for j := range jobs {
		frame := j.frame
		bounds := frame.Image.Bounds()
		if bounds.Dx() == 0 || bounds.Dy() == 0 {
			results <- &hashResult{err: &model.HashComputationError{
				FrameIndex: frame.SampleIndex,
				Width:      bounds.Dx(),
				Height:     bounds.Dy(),
			}}
			frame.Release()
			continue
		}

		hash, err := goimagehash.PerceptionHash(frame.Image)
		frame.Release()
		if err != nil {
			results <- &hashResult{err: err}
			continue
		}

		results <- &hashResult{
			sampleIndex: frame.SampleIndex,
			fingerprint: model.NewFingerprint(hash.GetHash()),
		}
	}
}
