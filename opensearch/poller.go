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
	"fmt"
	"time"
)

// PollConfig bounds a wait loop: fetch status, sleep a fixed interval, retry
// until the deadline. The task queue's own completion semantics are
// authoritative, so the interval stays fixed with no jitter.
type PollConfig struct {
	Timeout  time.Duration
	Interval time.Duration
}

// DefaultTaskPoll is the bound used while waiting on registration and
// deployment tasks.
var DefaultTaskPoll = PollConfig{Timeout: 5 * time.Minute, Interval: 5 * time.Second}

// DefaultReadyPoll is the coarser bound used while waiting for the deployed
// model to become servable.
var DefaultReadyPoll = PollConfig{Timeout: 5 * time.Minute, Interval: 10 * time.Second}

// WaitForTask blocks until the task reaches a terminal state or the poll
// deadline elapses.
//
// COMPLETED returns the task payload: for registration the new model id (its
// absence is a malformed response), for deployment nothing. FAILED returns a
// *TaskError carrying the upstream message immediately, without further
// polling. Any other state sleeps one interval and retries.
func (c *Client) WaitForTask(ctx context.Context, taskID string, kind TaskKind, poll PollConfig) (string, error) {
	start := time.Now()

	for time.Since(start) < poll.Timeout {
		task, err := c.GetTask(ctx, taskID)
		if err != nil {
			return "", err
		}

		switch task.State {
		case TaskStateCompleted:
			if kind == TaskRegistration {
				if task.ModelID == "" {
					return "", fmt.Errorf("%w: completed registration task %s carries no model_id",
						ErrMalformedResponse, taskID)
				}
				c.logger.Info("model registered", "task", taskID, "model", task.ModelID)
				return task.ModelID, nil
			}
			c.logger.Info("model deployed", "task", taskID)
			return "", nil

		case TaskStateFailed:
			reason := task.Error
			if reason == "" {
				reason = "unknown error"
			}
			return "", &TaskError{TaskID: taskID, Kind: kind, Reason: reason}
		}

		c.logger.Debug("task in progress", "task", taskID, "kind", kind.String(), "state", task.State)

		if err := sleep(ctx, poll.Interval); err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("%w: model %s after %v", ErrWaitTimeout, kind, poll.Timeout)
}

// WaitForModelReady blocks until the model reports the DEPLOYED serving
// state. Task completion and serving readiness are not simultaneous, so this
// is a second, independently-timed wait over model status rather than task
// status.
//
// DEPLOYING and PARTIALLY_DEPLOYED are in-progress; any other non-terminal
// state is logged but only the deadline fails the wait. Status fetch errors
// are tolerated the same way.
func (c *Client) WaitForModelReady(ctx context.Context, modelID string, poll PollConfig) error {
	start := time.Now()

	for time.Since(start) < poll.Timeout {
		model, err := c.GetModel(ctx, modelID)
		switch {
		case err != nil && ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			c.logger.Warn("model status check failed", "model", modelID, "err", err)
		case model.ModelState == ModelStateDeployed:
			c.logger.Info("model ready for inference", "model", modelID)
			return nil
		case model.ModelState == ModelStateDeploying || model.ModelState == ModelStatePartiallyDeployed:
			c.logger.Debug("model deployment in progress", "model", modelID, "state", model.ModelState)
		default:
			c.logger.Warn("unexpected model state", "model", modelID, "state", model.ModelState)
		}

		if err := sleep(ctx, poll.Interval); err != nil {
			return err
		}
	}

	return fmt.Errorf("%w: model %s not ready after %v", ErrWaitTimeout, modelID, poll.Timeout)
}

// sleep waits for the interval or context cancellation.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
