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
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(NewConfig(WithAddress(server.URL)))
	require.NoError(t, err)
	return client
}

// taskSequence serves one canned JSON body per request, repeating the last
// one once the script runs out.
func taskSequence(requests *int, bodies ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		i := *requests
		*requests++
		if i >= len(bodies) {
			i = len(bodies) - 1
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(bodies[i]))
	})
}

func TestWaitForTaskRegistration(t *testing.T) {
	requests := 0
	client := newTestClient(t, taskSequence(&requests,
		`{"state":"CREATED"}`,
		`{"state":"RUNNING"}`,
		`{"state":"COMPLETED","model_id":"m1"}`,
	))

	poll := PollConfig{Timeout: time.Second, Interval: 20 * time.Millisecond}
	start := time.Now()
	modelID, err := client.WaitForTask(context.Background(), "t1", TaskRegistration, poll)

	require.NoError(t, err)
	assert.Equal(t, "m1", modelID)
	assert.Equal(t, 3, requests)
	assert.GreaterOrEqual(t, time.Since(start), 2*poll.Interval)
}

func TestWaitForTaskDeploymentCarriesNoModelID(t *testing.T) {
	requests := 0
	client := newTestClient(t, taskSequence(&requests, `{"state":"COMPLETED"}`))

	poll := PollConfig{Timeout: time.Second, Interval: 10 * time.Millisecond}
	modelID, err := client.WaitForTask(context.Background(), "t1", TaskDeployment, poll)

	require.NoError(t, err)
	assert.Empty(t, modelID)
}

func TestWaitForTaskRegistrationMissingModelID(t *testing.T) {
	requests := 0
	client := newTestClient(t, taskSequence(&requests, `{"state":"COMPLETED"}`))

	poll := PollConfig{Timeout: time.Second, Interval: 10 * time.Millisecond}
	_, err := client.WaitForTask(context.Background(), "t1", TaskRegistration, poll)

	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestWaitForTaskFailure(t *testing.T) {
	requests := 0
	client := newTestClient(t, taskSequence(&requests,
		`{"state":"FAILED","error":"model file checksum mismatch"}`,
	))

	poll := PollConfig{Timeout: time.Second, Interval: 10 * time.Millisecond}
	_, err := client.WaitForTask(context.Background(), "t1", TaskRegistration, poll)

	var taskErr *TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Equal(t, "t1", taskErr.TaskID)
	assert.Equal(t, TaskRegistration, taskErr.Kind)
	assert.Contains(t, taskErr.Reason, "checksum")
	assert.Equal(t, 1, requests, "a failed task must not be polled again")
}

func TestWaitForTaskTimeout(t *testing.T) {
	requests := 0
	client := newTestClient(t, taskSequence(&requests, `{"state":"RUNNING"}`))

	poll := PollConfig{Timeout: 50 * time.Millisecond, Interval: 20 * time.Millisecond}
	_, err := client.WaitForTask(context.Background(), "t1", TaskRegistration, poll)

	assert.ErrorIs(t, err, ErrWaitTimeout)
	assert.Greater(t, requests, 1)
}

func TestWaitForTaskContextCancel(t *testing.T) {
	requests := 0
	client := newTestClient(t, taskSequence(&requests, `{"state":"RUNNING"}`))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	poll := PollConfig{Timeout: time.Minute, Interval: time.Second}
	_, err := client.WaitForTask(ctx, "t1", TaskRegistration, poll)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitForModelReady(t *testing.T) {
	requests := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		switch requests {
		case 1:
			// transient failure, tolerated
			http.Error(w, "circuit breaker open", http.StatusInternalServerError)
		case 2:
			w.Write([]byte(`{"model_state":"DEPLOYING"}`))
		default:
			w.Write([]byte(`{"model_state":"DEPLOYED"}`))
		}
	}))

	poll := PollConfig{Timeout: time.Second, Interval: 10 * time.Millisecond}
	err := client.WaitForModelReady(context.Background(), "m1", poll)

	require.NoError(t, err)
	assert.Equal(t, 3, requests)
}

func TestWaitForModelReadyTimeout(t *testing.T) {
	requests := 0
	client := newTestClient(t, taskSequence(&requests, `{"model_state":"DEPLOYING"}`))

	poll := PollConfig{Timeout: 40 * time.Millisecond, Interval: 15 * time.Millisecond}
	err := client.WaitForModelReady(context.Background(), "m1", poll)

	assert.ErrorIs(t, err, ErrWaitTimeout)
}

func TestTaskErrorMessage(t *testing.T) {
	err := &TaskError{TaskID: "t9", Kind: TaskDeployment, Reason: "no nodes"}
	assert.False(t, errors.Is(err, ErrWaitTimeout))
	assert.Contains(t, err.Error(), "t9")
	assert.Contains(t, err.Error(), "deployment")
	assert.Contains(t, err.Error(), "no nodes")
}
