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
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// KNNSearch runs an approximate nearest-neighbour query against a raw vector
// field, returning up to size hits ordered by similarity.
func (c *Client) KNNSearch(ctx context.Context, index, field string, vector []float32, k, size int) ([]Hit, error) {
	query := map[string]any{
		"size": size,
		"query": map[string]any{
			"knn": map[string]any{
				field: map[string]any{
					"vector": vector,
					"k":      k,
				},
			},
		},
	}
	return c.search(ctx, index, query)
}

// NeuralSearch embeds the query text through the given model server-side and
// ranks by vector similarity. The embedding field itself is excluded from
// returned sources since callers only want the text back.
func (c *Client) NeuralSearch(ctx context.Context, index, field, modelID, query string, k, size int) ([]Hit, error) {
	if modelID == "" {
		return nil, ErrModelIDRequired
	}

	body := map[string]any{
		"size": size,
		"_source": map[string]any{
			"excludes": []string{field},
		},
		"query": map[string]any{
			"neural": map[string]any{
				field: map[string]any{
					"query_text": query,
					"model_id":   modelID,
					"k":          k,
				},
			},
		},
	}
	return c.search(ctx, index, body)
}

func (c *Client) search(ctx context.Context, index string, query map[string]any) ([]Hit, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	req := opensearchapi.SearchRequest{
		Index: []string{index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("searching %s: %s", index, res.String())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	c.logger.Debug("search complete", "index", index, "hits", len(parsed.Hits.Hits))
	return parsed.Hits.Hits, nil
}
