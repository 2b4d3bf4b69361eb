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

package rag

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/wikirag/core"
)

func TestPlainPrompt(t *testing.T) {
	prompt := PlainPrompt("Who was Abraham Lincoln?")

	assert.True(t, strings.HasPrefix(prompt, "Who was Abraham Lincoln?\n\n"))
	assert.Contains(t, prompt, "single word or a short sentence")
	assert.NotContains(t, prompt, "CONTEXT")
}

func TestGroundedPrompt(t *testing.T) {
	passages := []core.Passage{
		{ID: "1", Text: "Lincoln was the 16th president.", Score: 0.9},
		{ID: "2", Text: "He led the country through the Civil War.", Score: 0.5},
	}
	prompt := GroundedPrompt("Who was Abraham Lincoln?", passages)

	assert.Contains(t, prompt, "QUESTION:\nWho was Abraham Lincoln?")
	assert.Contains(t, prompt, "Context 1: Lincoln was the 16th president.")
	assert.Contains(t, prompt, "Context 2: He led the country through the Civil War.")
	assert.Contains(t, prompt, "grounded in the facts of the CONTEXT")
	assert.Contains(t, prompt, "single word or a short sentence")
	assert.Less(t, strings.Index(prompt, "QUESTION:"), strings.Index(prompt, "CONTEXT:"))
}

func TestGroundedPromptWithoutPassages(t *testing.T) {
	assert.Equal(t,
		PlainPrompt("Who was Abraham Lincoln?"),
		GroundedPrompt("Who was Abraham Lincoln?", nil))
}

func TestGroundedPromptTruncatesPassages(t *testing.T) {
	long := strings.Repeat("x", 2*maxPassageChars)
	prompt := GroundedPrompt("q", []core.Passage{{ID: "1", Text: long}})

	assert.Contains(t, prompt, strings.Repeat("x", maxPassageChars)+truncationMarker)
	assert.NotContains(t, prompt, strings.Repeat("x", maxPassageChars+1))
}

func TestTruncatePassage(t *testing.T) {
	short := "short passage"
	assert.Equal(t, short, TruncatePassage(short))

	exact := strings.Repeat("a", maxPassageChars)
	assert.Equal(t, exact, TruncatePassage(exact))

	long := strings.Repeat("a", maxPassageChars+1)
	truncated := TruncatePassage(long)
	assert.Len(t, truncated, maxPassageChars+len(truncationMarker))
	assert.True(t, strings.HasSuffix(truncated, truncationMarker))
}

func TestTruncatePassageMultiByte(t *testing.T) {
	// "é" straddles the byte position of the bound, so a byte-indexed cut
	// would split the rune and leave invalid UTF-8.
	long := strings.Repeat("a", maxPassageChars-1) + "éöü"
	truncated := TruncatePassage(long)

	assert.True(t, utf8.ValidString(truncated))
	assert.Equal(t, maxPassageChars+len([]rune(truncationMarker)),
		utf8.RuneCountInString(truncated))
	assert.True(t, strings.HasSuffix(truncated,
		"é"+truncationMarker), "the rune at the bound survives intact")

	// a multi-byte passage exactly at the bound is left alone
	exact := strings.Repeat("é", maxPassageChars)
	assert.Equal(t, exact, TruncatePassage(exact))
}
