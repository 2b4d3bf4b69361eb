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

package provision

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/wikirag/core"
	"github.com/poiesic/wikirag/opensearch"
)

type staticSource struct {
	passages []core.Passage
	err      error
}

func (s *staticSource) Passages(ctx context.Context) ([]core.Passage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.passages, nil
}

// fakeCluster scripts the full provisioning conversation.
type fakeCluster struct {
	t        *testing.T
	calls    []string
	bulkDocs int
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/":
		w.Write([]byte(`{"cluster_name": "test-cluster", "version": {"number": "2.11.0"}}`))
	case r.URL.Path == "/_cluster/settings":
		w.Write([]byte(`{"acknowledged": true}`))
	case r.URL.Path == "/_plugins/_ml/models/_register":
		w.Write([]byte(`{"task_id": "t-reg", "status": "CREATED"}`))
	case r.URL.Path == "/_plugins/_ml/tasks/t-reg":
		w.Write([]byte(`{"state": "COMPLETED", "model_id": "m1"}`))
	case r.URL.Path == "/_plugins/_ml/models/m1/_deploy":
		w.Write([]byte(`{"task_id": "t-dep", "status": "CREATED"}`))
	case r.URL.Path == "/_plugins/_ml/tasks/t-dep":
		w.Write([]byte(`{"state": "COMPLETED"}`))
	case r.Method == http.MethodGet && r.URL.Path == "/_plugins/_ml/models/m1":
		w.Write([]byte(`{"model_state": "DEPLOYED"}`))
	case strings.HasPrefix(r.URL.Path, "/_ingest/pipeline/"):
		w.Write([]byte(`{"acknowledged": true}`))
	case r.Method == http.MethodHead:
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodPut:
		w.Write([]byte(`{"acknowledged": true}`))
	case r.URL.Path == "/_bulk":
		var items []string
		scanner := bufio.NewScanner(r.Body)
		for scanner.Scan() {
			var line map[string]any
			require.NoError(f.t, json.Unmarshal(scanner.Bytes(), &line))
			if _, isAction := line["index"]; isAction {
				continue
			}
			f.bulkDocs++
			items = append(items, `{"index": {"status": 201}}`)
		}
		fmt.Fprintf(w, `{"errors": false, "items": [%s]}`, strings.Join(items, ","))
	default:
		f.t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}
}

func newFakeCluster(t *testing.T) (*fakeCluster, *opensearch.Client) {
	t.Helper()

	cluster := &fakeCluster{t: t}
	server := httptest.NewServer(cluster)
	t.Cleanup(server.Close)

	client, err := opensearch.NewClient(opensearch.NewConfig(opensearch.WithAddress(server.URL)))
	require.NoError(t, err)
	return cluster, client
}

func fastConfig() Config {
	config := DefaultConfig()
	config.TaskPoll = opensearch.PollConfig{Timeout: time.Second, Interval: time.Millisecond}
	config.ReadyPoll = config.TaskPoll
	config.BatchSize = 2
	return config
}

func TestProvisionerRun(t *testing.T) {
	cluster, client := newFakeCluster(t)

	source := &staticSource{passages: []core.Passage{
		{ID: "1", Text: "one"},
		{ID: "2", Text: "two"},
		{ID: "3", Text: "three"},
	}}
	var progress bytes.Buffer
	provisioner := NewProvisioner(client, source, fastConfig(), &progress)

	modelID, err := provisioner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "m1", modelID)

	// batch size 2 over 3 passages means two bulk requests
	assert.Equal(t, 3, cluster.bulkDocs)
	assert.Contains(t, cluster.calls, "POST /_plugins/_ml/models/_register")
	assert.Contains(t, cluster.calls, "POST /_plugins/_ml/models/m1/_deploy")
	assert.Contains(t, cluster.calls, "PUT /_ingest/pipeline/nlp-ingest-pipeline")
	assert.Contains(t, cluster.calls, "PUT /my-nlp-index")

	out := progress.String()
	assert.Contains(t, out, "test-cluster")
	assert.Contains(t, out, "Ingesting 3 passages")
	assert.Contains(t, out, "Indexed 3/3 passages")

	// the model must be serving before the pipeline references it
	readyAt := -1
	pipelineAt := -1
	for i, call := range cluster.calls {
		switch call {
		case "GET /_plugins/_ml/models/m1":
			if readyAt < 0 {
				readyAt = i
			}
		case "PUT /_ingest/pipeline/nlp-ingest-pipeline":
			pipelineAt = i
		}
	}
	assert.Greater(t, pipelineAt, readyAt)
}

func TestProvisionerSkipIngest(t *testing.T) {
	cluster, client := newFakeCluster(t)

	config := fastConfig()
	config.SkipIngest = true
	provisioner := NewProvisioner(client, &staticSource{}, config, &bytes.Buffer{})

	modelID, err := provisioner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "m1", modelID)
	assert.NotContains(t, cluster.calls, "POST /_bulk")
}

func TestProvisionerCorpusError(t *testing.T) {
	_, client := newFakeCluster(t)

	source := &staticSource{err: fmt.Errorf("dataset unavailable")}
	provisioner := NewProvisioner(client, source, fastConfig(), &bytes.Buffer{})

	_, err := provisioner.Run(context.Background())
	assert.ErrorContains(t, err, "dataset unavailable")
}
