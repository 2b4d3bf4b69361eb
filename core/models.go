package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// QAPair is one evaluation question with its reference answer, as published
// in the question-answer configuration of the dataset.
type QAPair struct {
	Question string
	Answer   string
}

// Passage is a corpus passage. Score is only meaningful on retrieved
// passages; passages loaded for ingestion carry a zero score.
type Passage struct {
	ID    string
	Text  string
	Score float32
}

// AnswerMode classifies how an answer was produced.
type AnswerMode int

const (
	// AnswerModeGrounded means the answer was generated from retrieved context.
	AnswerModeGrounded AnswerMode = iota + 1
	// AnswerModePlain means retrieval was not requested.
	AnswerModePlain
	// AnswerModeDegraded means retrieval was requested but the answer fell
	// back to the ungrounded prompt.
	AnswerModeDegraded
	// AnswerModeFailed means no backend produced an answer at all.
	AnswerModeFailed
)

// String returns the mode label used in reports and persisted records.
func (m AnswerMode) String() string {
	switch m {
	case AnswerModeGrounded:
		return "grounded"
	case AnswerModePlain:
		return "plain"
	case AnswerModeDegraded:
		return "degraded"
	case AnswerModeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Answer is the outcome of answering a single question.
type Answer struct {
	Text string
	Mode AnswerMode

	// Err records why no answer could be produced when Mode is
	// AnswerModeFailed. It is nil for every other mode.
	Err error
}

// Verdict is the agreement judge's classification of a candidate answer
// against the reference answer.
type Verdict int

const (
	// VerdictCorrect means the judge found the answers semantically equivalent.
	VerdictCorrect Verdict = iota + 1
	// VerdictIncorrect means the judge found the answers not equivalent.
	VerdictIncorrect
	// VerdictUnclear means the judge's reply was ambiguous or the comparison
	// could not be performed.
	VerdictUnclear
)

func (v Verdict) String() string {
	switch v {
	case VerdictCorrect:
		return "correct"
	case VerdictIncorrect:
		return "incorrect"
	case VerdictUnclear:
		return "unclear"
	default:
		return "unknown"
	}
}

// EvalRecord is one persisted evaluation outcome: a single question answered
// in a single mode during a named run.
type EvalRecord struct {
	Id        ID
	Run       string
	Question  string
	Candidate string
	Reference string
	Mode      AnswerMode
	Verdict   Verdict
	CreatedAt int64 // Unix microseconds
}

// Validate checks that the record is complete enough to persist.
func (r *EvalRecord) Validate() error {
	if r.Run == "" {
		return ErrEmptyRun
	}
	if r.Question == "" {
		return ErrEmptyQuestion
	}
	if r.Mode < AnswerModeGrounded || r.Mode > AnswerModeFailed {
		return ErrInvalidAnswerMode
	}
	if r.Verdict < VerdictCorrect || r.Verdict > VerdictUnclear {
		return ErrInvalidVerdict
	}
	return nil
}
