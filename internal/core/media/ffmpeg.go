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
// file implements the ffmpeg-backed frame source.
//
// The source shells out to ffmpeg and reads frames off its stdout as a PNG
// image2pipe stream, one decode at a time. That keeps the decode stage
// strictly sequential and bounds memory to a single in-flight frame
// regardless of clip length. The exec context carries the per-invocation
// decode timeout, so a malformed or unbounded stream kills the ffmpeg
// process instead of hanging the invocation.
package media

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os/exec"

	"github.com/h2non/filetype"

	"github.com/veridia/go-video-liveness/internal/core/model"
)

// DefaultFFmpegPath is used when the configuration does not name an ffmpeg
// binary, assuming it is on the PATH.
const DefaultFFmpegPath = "ffmpeg"

// FFmpegConfig names the decode binaries. Zero values fall back to the
// defaults above.
type FFmpegConfig struct {
	FFmpegPath  string
	FFprobePath string
}

// FFmpegSource decodes a video file into a sequential stream of frames.
type FFmpegSource struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	reader *bufio.Reader
	rate   float64
	path   string
}

// NewFFmpegSource opens the video at path for sequential decoding. It sniffs
// the file's magic bytes before spawning ffmpeg so that obviously non-video
// payloads fail fast, probes the nominal frame rate, and starts the decode
// process under ctx. All failure modes map to model.VideoUnreadableError.
func NewFFmpegSource(ctx context.Context, cfg FFmpegConfig, path string) (*FFmpegSource, error) {
	kind, err := filetype.MatchFile(path)
	if err != nil {
		return nil, &model.VideoUnreadableError{Source: path, Err: err}
	}
	if kind.MIME.Type != "video" {
		return nil, &model.VideoUnreadableError{
			Source: path,
			Err:    fmt.Errorf("not a video container: detected %q", kind.MIME.Value),
		}
	}

	rate, err := ProbeFrameRate(ctx, cfg.FFprobePath, path)
	if err != nil {
		return nil, &model.VideoUnreadableError{Source: path, Err: fmt.Errorf("ffprobe: %w", err)}
	}

	ffmpegPath := cfg.FFmpegPath
	if ffmpegPath == "" {
		ffmpegPath = DefaultFFmpegPath
	}
	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-hide_banner",
		"-loglevel", "error",
		"-i", path,
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &model.VideoUnreadableError{Source: path, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &model.VideoUnreadableError{Source: path, Err: err}
	}

	return &FFmpegSource{
		cmd:    cmd,
		stdout: stdout,
		reader: bufio.NewReaderSize(stdout, 1<<20),
		rate:   rate,
		path:   path,
	}, nil
}

// FrameRate returns the probed nominal rate, or zero when the container did
// not report one.
func (s *FFmpegSource) FrameRate() float64 {
	return s.rate
}

// Next decodes the next PNG off the pipe. The PNG decoder stops at the IEND
// chunk, so successive calls walk the stream frame by frame. io.EOF marks a
// cleanly exhausted stream; any other failure, including the decode context
// expiring, surfaces as a VideoUnreadableError from the sampler.
func (s *FFmpegSource) Next() (image.Image, error) {
	if s.cmd == nil {
		return nil, io.EOF
	}
	// Peek distinguishes end-of-stream from a truncated frame.
	if _, err := s.reader.Peek(1); err == io.EOF {
		if werr := s.cmd.Wait(); werr != nil {
			return nil, &model.VideoUnreadableError{Source: s.path, Err: werr}
		}
		s.cmd = nil
		return nil, io.EOF
	}
	img, err := png.Decode(s.reader)
	if err != nil {
		return nil, &model.VideoUnreadableError{Source: s.path, Err: err}
	}
	return img, nil
}

// Close tears down the decode process. Safe to call after the stream is
// exhausted.
func (s *FFmpegSource) Close() error {
	if s.cmd == nil || s.cmd.Process == nil {
		return nil
	}
	_ = s.cmd.Process.Kill()
	_ = s.cmd.Wait()
	s.cmd = nil
	return nil
}
