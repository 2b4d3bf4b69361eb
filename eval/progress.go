// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package eval

import (
	"fmt"
	"io"
	"time"
)

// ProgressTracker reports evaluation progress to a writer as an in-place
// updating line. Pass io.Discard to silence it.
type ProgressTracker struct {
	w       io.Writer
	total   int
	current int
	started time.Time
}

// NewProgressTracker creates a tracker that writes to w.
func NewProgressTracker(w io.Writer) *ProgressTracker {
	return &ProgressTracker{w: w}
}

// Start begins a tracking pass over total items.
func (p *ProgressTracker) Start(total int) {
	p.total = total
	p.current = 0
	p.started = time.Now()
}

// Update advances progress to the given item count and rewrites the line.
func (p *ProgressTracker) Update(current int) {
	p.current = current
	if p.total == 0 {
		return
	}

	elapsed := time.Since(p.started).Seconds()
	rate := 0.0
	if elapsed > 0 {
		rate = float64(current) / elapsed
	}
	fmt.Fprintf(p.w, "\rProgress: %d/%d (%.1f%%) - %.1f questions/s",
		current, p.total, 100*float64(current)/float64(p.total), rate)
}

// Finish terminates the in-place line.
func (p *ProgressTracker) Finish() {
	fmt.Fprintln(p.w)
}
