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
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/wikirag/core"
	"github.com/poiesic/wikirag/rag"
)

// Recorder persists individual evaluation outcomes. The results package
// provides the production implementation.
type Recorder interface {
	PutRecord(record *core.EvalRecord) error
}

// Config holds evaluation run settings.
type Config struct {
	// Questions caps how many question-answer pairs are evaluated. Zero
	// means all provided pairs.
	Questions int

	// Run names this evaluation run in persisted records.
	Run string
}

// ModeReport aggregates the judge's verdicts over one answering mode.
type ModeReport struct {
	Label      string
	Total      int
	Correct    int
	Incorrect  int
	Unclear    int
	Unanswered int
	Degraded   int
}

// Accuracy is the share of correct verdicts over all evaluated questions, as
// a percentage. Unanswered questions count against accuracy.
func (r *ModeReport) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return 100 * float64(r.Correct) / float64(r.Total)
}

// Report is the outcome of a full evaluation: the same questions answered
// plainly and with retrieval grounding.
type Report struct {
	Plain    ModeReport
	Grounded ModeReport
	Elapsed  time.Duration
}

// Runner evaluates a question set in both answering modes, one question at a
// time, judging each candidate against the dataset's reference answer.
type Runner struct {
	answerer *rag.Answerer
	judge    *rag.Judge
	recorder Recorder
	config   Config
	progress *ProgressTracker
	logger   *slog.Logger
}

// NewRunner creates a Runner. The recorder may be nil, in which case no
// outcomes are persisted. Progress is written to progressW.
func NewRunner(answerer *rag.Answerer, judge *rag.Judge, recorder Recorder, config Config, progressW io.Writer) *Runner {
	if config.Run == "" {
		config.Run = time.Now().UTC().Format("run-2006-01-02T15-04-05")
	}
	return &Runner{
		answerer: answerer,
		judge:    judge,
		recorder: recorder,
		config:   config,
		progress: NewProgressTracker(progressW),
		logger:   slog.Default().With("component", "eval.runner"),
	}
}

// Run evaluates the pairs plainly first, then grounded, and returns both
// aggregates. It stops early only on context cancellation.
func (r *Runner) Run(ctx context.Context, pairs []core.QAPair) (*Report, error) {
	if r.config.Questions > 0 && len(pairs) > r.config.Questions {
		pairs = pairs[:r.config.Questions]
	}

	started := time.Now()
	report := &Report{}

	plain, err := r.evaluate(ctx, pairs, false)
	if err != nil {
		return nil, err
	}
	report.Plain = *plain

	grounded, err := r.evaluate(ctx, pairs, true)
	if err != nil {
		return nil, err
	}
	report.Grounded = *grounded

	report.Elapsed = time.Since(started)
	return report, nil
}

func (r *Runner) evaluate(ctx context.Context, pairs []core.QAPair, grounded bool) (*ModeReport, error) {
	label := "plain"
	if grounded {
		label = "grounded"
	}
	mode := &ModeReport{Label: label, Total: len(pairs)}

	r.logger.Info("evaluating", "mode", label, "questions", len(pairs), "run", r.config.Run)
	r.progress.Start(len(pairs))
	defer r.progress.Finish()

	for i, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		answer := r.answerer.Answer(ctx, pair.Question, grounded)

		verdict := core.VerdictUnclear
		switch answer.Mode {
		case core.AnswerModeFailed:
			// Nothing to judge.
			mode.Unanswered++
			r.logger.Warn("question unanswered",
				"mode", label, "question", pair.Question, "err", answer.Err)
		default:
			if answer.Mode == core.AnswerModeDegraded {
				mode.Degraded++
			}
			verdict = r.judge.Compare(ctx, answer.Text, pair.Answer)
			switch verdict {
			case core.VerdictCorrect:
				mode.Correct++
			case core.VerdictIncorrect:
				mode.Incorrect++
			default:
				mode.Unclear++
			}
		}

		r.record(pair, answer, verdict, label)
		r.progress.Update(i + 1)
	}

	return mode, nil
}

// record persists one outcome. Persistence is best-effort: a storage failure
// is logged and the run continues.
func (r *Runner) record(pair core.QAPair, answer *core.Answer, verdict core.Verdict, label string) {
	if r.recorder == nil {
		return
	}

	record := &core.EvalRecord{
		Id:        core.IDFromContent(fmt.Sprintf("%s|%s|%s", r.config.Run, label, pair.Question)),
		Run:       r.config.Run,
		Question:  pair.Question,
		Candidate: answer.Text,
		Reference: pair.Answer,
		Mode:      answer.Mode,
		Verdict:   verdict,
		CreatedAt: time.Now().UnixMicro(),
	}
	if err := r.recorder.PutRecord(record); err != nil {
		r.logger.Warn("failed to persist outcome", "question", pair.Question, "err", err)
	}
}
