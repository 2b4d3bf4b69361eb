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


package opensearch

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreachable is returned when the cluster cannot be reached.
	ErrUnreachable = errors.New("opensearch cluster unreachable")

	// ErrWaitTimeout is returned when a bounded wait elapses without the
	// watched task or model reaching a terminal state.
	ErrWaitTimeout = errors.New("wait deadline exceeded")

	// ErrMalformedResponse is returned when the cluster replies with an
	// unexpected payload shape.
	ErrMalformedResponse = errors.New("malformed opensearch response")

	// ErrModelIDRequired is returned when a neural search is attempted
	// without a deployed model identifier.
	ErrModelIDRequired = errors.New("model id required for neural search")

	// ErrNotAcknowledged is returned when the cluster does not acknowledge a
	// settings, pipeline, or index request.
	ErrNotAcknowledged = errors.New("request not acknowledged")
)

// TaskError reports an asynchronous ML task that reached the FAILED state.
type TaskError struct {
	TaskID string
	Kind   TaskKind
	Reason string
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("model %s task %s failed: %s", e.Kind, e.TaskID, e.Reason)
}
