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
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Once the decode process has been reaped, every further Next keeps
// reporting end of stream instead of touching the dead process.
func TestFFmpegSourceNextAfterExhaustion(t *testing.T) {
	s := &FFmpegSource{path: "clip.mp4", rate: 30}

	for i := 0; i < 3; i++ {
		img, err := s.Next()
		assert.Nil(t, img)
		assert.Equal(t, io.EOF, err)
	}
	assert.NoError(t, s.Close())
}
