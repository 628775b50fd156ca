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

package media

import (
	"image"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestMemorySourceDrains verifies stream order and the io.EOF terminator.
func TestMemorySourceDrains(t *testing.T) {
	frames := []image.Image{
		image.NewRGBA(image.Rect(0, 0, 2, 2)),
		image.NewRGBA(image.Rect(0, 0, 4, 4)),
	}
	source := NewMemorySource(frames, 30)

	assert.Equal(t, 30.0, source.FrameRate())

	first, err := source.Next()
	assert.NoError(t, err)
	assert.Equal(t, frames[0], first)

	second, err := source.Next()
	assert.NoError(t, err)
	assert.Equal(t, frames[1], second)

	_, err = source.Next()
	assert.ErrorIs(t, err, io.EOF)

	assert.NoError(t, source.Close())
}

// TestFrameTimestamp verifies the index to capture-time conversion and the
// guard for an unreported rate.
func TestFrameTimestamp(t *testing.T) {
	assert.Equal(t, time.Duration(0), FrameTimestamp(0, 30))
	assert.Equal(t, time.Second, FrameTimestamp(30, 30))
	assert.Equal(t, 500*time.Millisecond, FrameTimestamp(15, 30))
	assert.Equal(t, time.Duration(0), FrameTimestamp(100, 0))
}
