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

// Package media provides sequential access to decoded video frames. This
// file wraps ffprobe to read the nominal frame rate of a container. Streams
// report the rate as a rational like "30000/1001"; an unparseable or missing
// rate is returned as zero and the sampler applies its default.
package media

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultFFprobePath is used when the configuration does not name an
// ffprobe binary, assuming it is on the PATH.
const DefaultFFprobePath = "ffprobe"

// probeArgs asks ffprobe for the real frame rate of the first video stream,
// printed bare without section wrappers.
var probeArgs = []string{
	"-v", "error",
	"-select_streams", "v:0",
	"-show_entries", "stream=r_frame_rate",
	"-of", "default=noprint_wrappers=1:nokey=1",
}

// ProbeFrameRate returns the nominal frame rate of the video at path, or an
// error when the file cannot be probed at all. A stream that reports no rate
// yields zero with a nil error; deciding what to assume in that case belongs
// to the sampler, not the probe.
func ProbeFrameRate(ctx context.Context, ffprobePath string, path string) (float64, error) {
	if ffprobePath == "" {
		ffprobePath = DefaultFFprobePath
	}
	args := append(append([]string{}, probeArgs...), path)
	out, err := exec.CommandContext(ctx, ffprobePath, args...).Output()
	if err != nil {
		return 0, err
	}
	return parseRational(strings.TrimSpace(string(out))), nil
}

// parseRational converts ffprobe's "num/den" rate notation (or a plain
// number) into a float. Malformed input maps to zero.
func parseRational(s string) float64 {
	if s == "" || s == "0/0" {
		return 0
	}
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
