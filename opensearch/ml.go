package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

const (
	mlRegisterPath = "/_plugins/_ml/models/_register"
	mlDeployFmt    = "/_plugins/_ml/models/%s/_deploy"
	mlTaskFmt      = "/_plugins/_ml/tasks/%s"
	mlModelFmt     = "/_plugins/_ml/models/%s"
)

// UpdateMLSettings applies the persistent cluster settings required to run
// the embedding model on data nodes.
func (c *Client) UpdateMLSettings(ctx context.Context) error {
	settings := map[string]any{
		"persistent": map[string]any{
			"plugins.ml_commons.only_run_on_ml_node":     "false",
			"plugins.ml_commons.native_memory_threshold": "99",
		},
	}

	body, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	res, err := opensearchapi.ClusterPutSettingsRequest{Body: bytes.NewReader(body)}.Do(ctx, c.os)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if err := readAck(res); err != nil {
		return fmt.Errorf("update ML cluster settings: %w", err)
	}

	c.logger.Info("ML cluster settings configured")
	return nil
}

// RegisterModel submits an embedding model registration and returns the
// asynchronous task id to wait on.
func (c *Client) RegisterModel(ctx context.Context, name, version, format string) (string, error) {
	req := registerModelRequest{Name: name, Version: version, ModelFormat: format}

	var out taskSubmitResponse
	if err := c.performJSON(ctx, http.MethodPost, mlRegisterPath, req, &out); err != nil {
		return "", fmt.Errorf("register model %s: %w", name, err)
	}
	if out.TaskID == "" {
		return "", fmt.Errorf("%w: register response carries no task_id", ErrMalformedResponse)
	}

	c.logger.Info("model registration submitted", "model", name, "task", out.TaskID)
	return out.TaskID, nil
}

// DeployModel submits the deployment of a registered model and returns the
// asynchronous task id to wait on.
func (c *Client) DeployModel(ctx context.Context, modelID string) (string, error) {
	var out taskSubmitResponse
	path := fmt.Sprintf(mlDeployFmt, modelID)
	if err := c.performJSON(ctx, http.MethodPost, path, nil, &out); err != nil {
		return "", fmt.Errorf("deploy model %s: %w", modelID, err)
	}
	if out.TaskID == "" {
		return "", fmt.Errorf("%w: deploy response carries no task_id", ErrMalformedResponse)
	}

	c.logger.Info("model deployment submitted", "model", modelID, "task", out.TaskID)
	return out.TaskID, nil
}

// GetTask fetches the current status of an asynchronous ML task.
func (c *Client) GetTask(ctx context.Context, taskID string) (*TaskStatus, error) {
	var out TaskStatus
	path := fmt.Sprintf(mlTaskFmt, taskID)
	if err := c.performJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("get task %s: %w", taskID, err)
	}
	return &out, nil
}

// GetModel fetches the current serving status of a registered model.
func (c *Client) GetModel(ctx context.Context, modelID string) (*ModelStatus, error) {
	var out ModelStatus
	path := fmt.Sprintf(mlModelFmt, modelID)
	if err := c.performJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("get model %s: %w", modelID, err)
	}
	return &out, nil
}
