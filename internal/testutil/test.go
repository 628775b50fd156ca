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

// Package test provides utility functions and synthetic fixtures to support
// the application's test suite. Video decoding is deliberately absent here:
// the pipeline is exercised through in-memory frame sources and hand-built
// distance series, so the suite needs neither ffmpeg nor sample media.
package test

import (
	"image"
	"image/color"
	"log"
	"math/rand"
	"os"
	"testing"

	"github.com/veridia/go-video-liveness/internal/config"
)

// StateManager caches the test configuration so it is loaded once per run.
type StateManager struct {
	config *config.Config
}

var state = &StateManager{}

// HandleErr aborts the test when err is not nil. Convenience to cut
// boilerplate when preparing fixtures.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// SetupOS points the configuration loader at the test configuration files.
func SetupOS() (err error) {
	err = os.Setenv(config.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(config.EnvConfigRuntime, "test")
	return err
}

// GetConfig is a singleton accessor for the test configuration. When the
// TOML files are not reachable from the test's working directory the
// defaults from config.NewConfig apply, which keeps the suite deterministic
// wherever it runs from.
func GetConfig() *config.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		cfg := config.NewConfig()
		config.LoadConfig(cfg)
		state.config = cfg
	}
	return state.config
}

// SolidFrame returns a single-color frame. Sequences of identical solid
// frames fingerprint identically, which makes them the canonical frozen and
// duplicate fixture.
func SolidFrame(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// NoiseFrame returns a frame of seeded white noise. Different seeds yield
// visually unrelated frames whose fingerprints sit far apart, which makes a
// sequence of them behave like live, changing footage.
func NoiseFrame(width, height int, seed int64) image.Image {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

// NoiseFrames returns count distinct noise frames with consecutive seeds.
func NoiseFrames(width, height, count int, seed int64) []image.Image {
	out := make([]image.Image, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, NoiseFrame(width, height, seed+int64(i)))
	}
	return out
}

// SolidFrames returns count copies of the same solid frame.
func SolidFrames(width, height, count int, c color.Color) []image.Image {
	out := make([]image.Image, 0, count)
	frame := SolidFrame(width, height, c)
	for i := 0; i < count; i++ {
		out = append(out, frame)
	}
	return out
}

// PeriodicSeries builds a distance series that repeats the given cycle
// until it reaches length n. The result has exact period len(cycle).
func PeriodicSeries(cycle []int, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = cycle[i%len(cycle)]
	}
	return out
}

// RandomSeries builds a seeded random distance series with values in
// [0, max).
func RandomSeries(n int, max int, seed int64) []int {
	rng := rand.New(rand.NewSource(seed))
	out := make([]int, n)
	for i := range out {
		out[i] = rng.Intn(max)
	}
	return out
}
