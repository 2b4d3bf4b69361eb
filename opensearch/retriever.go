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
	"log/slog"

	"github.com/poiesic/wikirag/core"
)

// PassageRetriever adapts neural search over a single index and field pair
// into passage retrieval.
type PassageRetriever struct {
	client      *Client
	index       string
	textField   string
	vectorField string
	modelID     string
	logger      *slog.Logger
}

// NewPassageRetriever returns a retriever bound to one index, its text and
// embedding fields, and the model used for server-side query embedding.
func NewPassageRetriever(client *Client, index, textField, vectorField, modelID string) *PassageRetriever {
	return &PassageRetriever{
		client:      client,
		index:       index,
		textField:   textField,
		vectorField: vectorField,
		modelID:     modelID,
		logger:      slog.Default().With("component", "opensearch.retriever"),
	}
}

// Ping reports whether the backing cluster is reachable.
func (r *PassageRetriever) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

// Retrieve runs a neural search for the query and decodes each hit into a
// passage. Hits missing the text field are skipped.
func (r *PassageRetriever) Retrieve(ctx context.Context, query string, k, size int) ([]core.Passage, error) {
	hits, err := r.client.NeuralSearch(ctx, r.index, r.vectorField, r.modelID, query, k, size)
	if err != nil {
		return nil, err
	}

	passages := make([]core.Passage, 0, len(hits))
	for _, hit := range hits {
		var source map[string]any
		if err := json.Unmarshal(hit.Source, &source); err != nil {
			r.logger.Warn("skipping undecodable hit", "id", hit.ID, "err", err)
			continue
		}
		text, ok := source[r.textField].(string)
		if !ok || text == "" {
			r.logger.Warn("skipping hit without passage text", "id", hit.ID)
			continue
		}
		passages = append(passages, core.Passage{
			ID:    hit.ID,
			Text:  text,
			Score: hit.Score,
		})
	}

	return passages, nil
}
