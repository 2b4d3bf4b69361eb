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
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/wikirag/core"
)

// maxPassageChars bounds the context each retrieved passage may contribute
// to a grounded prompt.
const maxPassageChars = 300

const truncationMarker = "..."

const answerInstructions = "Answer in a single word or a short sentence. " +
	"Do not ask follow-up questions or make suggestions."

const groundingInstructions = "Using the CONTEXT provided, answer the QUESTION. " +
	"Keep your answer grounded in the facts of the CONTEXT. " +
	"If the CONTEXT doesn't contain the answer to the QUESTION, say you don't know."

// PlainPrompt builds a prompt that asks the question directly, with no
// retrieved context.
func PlainPrompt(question string) string {
	return question + "\n\n" + answerInstructions
}

// GroundedPrompt builds a prompt that pairs the question with numbered,
// truncated context passages. With no passages it is identical to
// PlainPrompt.
func GroundedPrompt(question string, passages []core.Passage) string {
	if len(passages) == 0 {
		return PlainPrompt(question)
	}

	sections := make([]string, 0, len(passages))
	for i, passage := range passages {
		sections = append(sections,
			fmt.Sprintf("Context %d: %s", i+1, TruncatePassage(passage.Text)))
	}

	return fmt.Sprintf("QUESTION:\n%s\n\nCONTEXT:\n%s\n\n%s %s",
		question, strings.Join(sections, "\n\n"), groundingInstructions, answerInstructions)
}

// TruncatePassage caps a passage at maxPassageChars characters, marking the
// cut. The bound counts code points, not bytes, so a multi-byte rune at the
// boundary is never split.
func TruncatePassage(text string) string {
	if utf8.RuneCountInString(text) <= maxPassageChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxPassageChars]) + truncationMarker
}
