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
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterModel(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/_plugins/_ml/models/_register", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"task_id": "t1", "status": "CREATED"}`))
	}))

	taskID, err := client.RegisterModel(context.Background(),
		"huggingface/sentence-transformers/all-MiniLM-L6-v2", "1.0.1", "TORCH_SCRIPT")

	require.NoError(t, err)
	assert.Equal(t, "t1", taskID)
	assert.Equal(t, "huggingface/sentence-transformers/all-MiniLM-L6-v2", body["name"])
	assert.Equal(t, "1.0.1", body["version"])
	assert.Equal(t, "TORCH_SCRIPT", body["model_format"])
}

func TestRegisterModelMissingTaskID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "CREATED"}`))
	}))

	_, err := client.RegisterModel(context.Background(), "m", "1", "TORCH_SCRIPT")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestDeployModel(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/_plugins/_ml/models/m1/_deploy", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"task_id": "t2", "status": "CREATED"}`))
	}))

	taskID, err := client.DeployModel(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "t2", taskID)
}

func TestUpdateMLSettings(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/_cluster/settings", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"acknowledged": true}`))
	}))

	require.NoError(t, client.UpdateMLSettings(context.Background()))

	persistent := body["persistent"].(map[string]any)
	assert.Equal(t, "false", persistent["plugins.ml_commons.only_run_on_ml_node"])
	assert.Equal(t, "99", persistent["plugins.ml_commons.native_memory_threshold"])
}

func TestUpdateMLSettingsNotAcknowledged(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"acknowledged": false}`))
	}))

	err := client.UpdateMLSettings(context.Background())
	assert.ErrorIs(t, err, ErrNotAcknowledged)
}
