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

	"github.com/poiesic/wikirag/ai"
	"github.com/poiesic/wikirag/core"
)

// Retriever supplies context passages for a query. The opensearch package
// provides the production implementation.
type Retriever interface {
	Ping(ctx context.Context) error
	Retrieve(ctx context.Context, query string, k, size int) ([]core.Passage, error)
}

// Answerer answers questions through a language model, optionally grounding
// each answer in retrieved passages.
//
// Retrieval is best-effort: when the retriever is absent, unreachable, or
// returns nothing, a grounded request degrades to a plain answer rather than
// failing, and the result is marked accordingly.
type Answerer struct {
	generator ai.Generator
	retriever Retriever
	topK      int
	size      int
	logger    *slog.Logger
}

// Option is a functional option for configuring an Answerer.
type Option func(*Answerer)

// WithTopK sets the k parameter of the nearest-neighbour retrieval.
func WithTopK(k int) Option {
	return func(a *Answerer) {
		a.topK = k
	}
}

// WithResultSize sets the number of passages requested per retrieval.
func WithResultSize(size int) Option {
	return func(a *Answerer) {
		a.size = size
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Answerer) {
		a.logger = logger
	}
}

// NewAnswerer creates an Answerer. The generator is mandatory; a nil
// retriever is allowed and makes every grounded request degrade to plain.
func NewAnswerer(generator ai.Generator, retriever Retriever, opts ...Option) (*Answerer, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	a := &Answerer{
		generator: generator,
		retriever: retriever,
		topK:      10,
		size:      10,
		logger:    slog.Default().With("component", "rag.answerer"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Answer produces an answer for the question. With grounded unset the model
// is asked directly. With grounded set, passages are retrieved and woven into
// the prompt; any retrieval problem falls back to a plain answer in degraded
// mode. The returned answer always carries the mode that actually happened.
func (a *Answerer) Answer(ctx context.Context, question string, grounded bool) *core.Answer {
	if !grounded {
		return a.generate(ctx, PlainPrompt(question), core.AnswerModePlain)
	}

	passages, ok := a.retrieve(ctx, question)
	if !ok || len(passages) == 0 {
		if ok {
			a.logger.Warn("no passages retrieved, answering without context", "question", question)
		}
		return a.generate(ctx, PlainPrompt(question), core.AnswerModeDegraded)
	}

	answer := a.generate(ctx, GroundedPrompt(question, passages), core.AnswerModeGrounded)
	if answer.Mode != core.AnswerModeFailed {
		return answer
	}

	// The grounded generation failed; the model may still manage without
	// the long context.
	a.logger.Warn("grounded generation failed, retrying without context",
		"question", question, "err", answer.Err)
	return a.generate(ctx, PlainPrompt(question), core.AnswerModeDegraded)
}

func (a *Answerer) generate(ctx context.Context, prompt string, mode core.AnswerMode) *core.Answer {
	text, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return &core.Answer{Mode: core.AnswerModeFailed, Err: err}
	}
	return &core.Answer{Text: text, Mode: mode}
}

// retrieve fetches passages for the question. The second return value is
// false when retrieval could not be attempted or did not succeed.
func (a *Answerer) retrieve(ctx context.Context, question string) ([]core.Passage, bool) {
	if a.retriever == nil {
		a.logger.Warn("no retriever configured, answering without context")
		return nil, false
	}
	if err := a.retriever.Ping(ctx); err != nil {
		a.logger.Warn("retrieval backend unreachable, answering without context", "err", err)
		return nil, false
	}

	passages, err := a.retriever.Retrieve(ctx, question, a.topK, a.size)
	if err != nil {
		a.logger.Warn("retrieval failed, answering without context", "err", err)
		return nil, false
	}
	return passages, true
}
