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
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/wikirag/ai"
	"github.com/poiesic/wikirag/core"
)

// Judge scores a candidate answer against a reference answer by asking a
// language model whether the two agree.
type Judge struct {
	generator ai.Generator
	logger    *slog.Logger
}

// NewJudge returns a judge backed by the given generator.
func NewJudge(generator ai.Generator) *Judge {
	return &Judge{
		generator: generator,
		logger:    slog.Default().With("component", "rag.judge"),
	}
}

// ComparisonPrompt builds the agreement question put to the judging model.
func ComparisonPrompt(candidate, reference string) string {
	return "Compare these two answers for semantic equivalence:\n\n" +
		"Answer 1: " + candidate + "\n" +
		"Answer 2: " + reference + "\n\n" +
		"Are these answers semantically equivalent? " +
		"Answer only \"CORRECT\" if they are equivalent or \"INCORRECT\" if they are not. " +
		"Do not elaborate."
}

// Compare asks the model whether candidate and reference agree. A generation
// failure or an off-script reply yields VerdictUnclear rather than an error:
// one unjudgeable answer should not abort an evaluation run.
func (j *Judge) Compare(ctx context.Context, candidate, reference string) core.Verdict {
	reply, err := j.generator.Generate(ctx, ComparisonPrompt(candidate, reference))
	if err != nil {
		j.logger.Warn("judge generation failed", "err", err)
		return core.VerdictUnclear
	}
	return ClassifyReply(reply)
}

// ClassifyReply maps a judge reply onto a verdict. The reply is scanned for
// the two tokens case-insensitively; "INCORRECT" is stripped before testing
// for "CORRECT" since the former contains the latter. A reply with both or
// neither token is unclear.
func ClassifyReply(reply string) core.Verdict {
	upper := strings.ToUpper(reply)
	hasIncorrect := strings.Contains(upper, "INCORRECT")
	hasCorrect := strings.Contains(strings.ReplaceAll(upper, "INCORRECT", ""), "CORRECT")

	switch {
	case hasCorrect && !hasIncorrect:
		return core.VerdictCorrect
	case hasIncorrect && !hasCorrect:
		return core.VerdictIncorrect
	default:
		return core.VerdictUnclear
	}
}
