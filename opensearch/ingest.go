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

// Bulk indexes docs into the named index in a single bulk request. Per-item
// failures do not abort the batch: they are logged and counted in the
// returned summary.
func (c *Client) Bulk(ctx context.Context, index string, docs []Document) (*BulkSummary, error) {
	if len(docs) == 0 {
		return &BulkSummary{}, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, doc := range docs {
		action := map[string]any{"index": map[string]any{"_index": index}}
		if doc.ID != "" {
			action["index"].(map[string]any)["_id"] = doc.ID
		}
		if err := enc.Encode(action); err != nil {
			return nil, err
		}
		if err := enc.Encode(doc.Source); err != nil {
			return nil, err
		}
	}

	// Refresh so the batch is searchable as soon as the call returns; the
	// corpus is small enough that per-batch refreshes stay cheap.
	req := opensearchapi.BulkRequest{Body: &buf, Refresh: "true"}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("bulk indexing into %s: %s", index, res.String())
	}

	var body bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	summary := &BulkSummary{}
	for _, item := range body.Items {
		result, ok := item["index"]
		if !ok {
			continue
		}
		if result.Error != nil {
			summary.Failed++
			c.logger.Warn("bulk item rejected",
				"index", index, "type", result.Error.Type, "reason", result.Error.Reason)
			continue
		}
		summary.Indexed++
	}

	return summary, nil
}
