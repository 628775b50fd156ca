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
// temporal-integrity analysis. This file defines the named context
// parameters that commands share outside of the primary CtxIn/CtxOut flow.
package commands

const (
	sampledFrameCountParam = "__SAMPLED_FRAME_COUNT__"
	checkIDParam           = "__CHECK_ID__"
	integrityResultParam   = "__INTEGRITY_RESULT__"
)

// GetSampledFrameCountParamName returns the context key under which the
// frame sampler records how many frames it kept. The anomaly scan needs the
// count to convert transition counts into durations after the frames
// themselves have been released.
func GetSampledFrameCountParamName() string {
	return sampledFrameCountParam
}

// GetCheckIDParamName returns the context key carrying the invocation's
// check ID, set by the caller before the chain runs.
func GetCheckIDParamName() string {
	return checkIDParam
}

// GetIntegrityResultParamName returns the context key under which the score
// command stores the final result. The chain consumes CtxOut between
// stages, so callers read the verdict from this stable key after the chain
// completes.
func GetIntegrityResultParamName() string {
	return integrityResultParam
}
