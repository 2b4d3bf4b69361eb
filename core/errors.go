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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidEvalRecord indicates an EvalRecord failed validation.
	ErrInvalidEvalRecord = errors.New("invalid eval record")

	// ErrEmptyRun indicates the Run label is empty.
	ErrEmptyRun = errors.New("run label cannot be empty")

	// ErrEmptyQuestion indicates the Question field is empty.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrInvalidAnswerMode indicates an invalid AnswerMode value.
	ErrInvalidAnswerMode = errors.New("invalid answer mode")

	// ErrInvalidVerdict indicates an invalid Verdict value.
	ErrInvalidVerdict = errors.New("invalid verdict")
)
