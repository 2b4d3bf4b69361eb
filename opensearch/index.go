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
	"strings"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// IndexDefinition describes a k-NN index whose vector field is populated by
// an ingest pipeline at index time.
type IndexDefinition struct {
	Name        string
	VectorField string
	TextField   string
	Dimension   int
	Pipeline    string
}

func (d IndexDefinition) body() map[string]any {
	settings := map[string]any{"index.knn": true}
	if d.Pipeline != "" {
		settings["default_pipeline"] = d.Pipeline
	}

	properties := map[string]any{
		d.VectorField: map[string]any{
			"type":      "knn_vector",
			"dimension": d.Dimension,
			"method": map[string]any{
				"engine":     "nmslib",
				"space_type": "l2",
				"name":       "hnsw",
				"parameters": map[string]any{},
			},
		},
	}
	if d.TextField != "" {
		properties[d.TextField] = map[string]any{"type": "text"}
	}

	return map[string]any{
		"settings": settings,
		"mappings": map[string]any{"properties": properties},
	}
}

// EnsureIndex creates the index described by def, dropping any existing index
// with the same name first so the mapping is always the one requested.
func (c *Client) EnsureIndex(ctx context.Context, def IndexDefinition) error {
	exists := opensearchapi.IndicesExistsRequest{Index: []string{def.Name}}
	res, err := exists.Do(ctx, c.os)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	res.Body.Close()

	if res.StatusCode == 200 {
		c.logger.Info("deleting existing index", "index", def.Name)
		del := opensearchapi.IndicesDeleteRequest{Index: []string{def.Name}}
		dres, err := del.Do(ctx, c.os)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnreachable, err)
		}
		if err := readAck(dres); err != nil {
			return fmt.Errorf("deleting index %s: %w", def.Name, err)
		}
	}

	body, err := json.Marshal(def.body())
	if err != nil {
		return err
	}

	create := opensearchapi.IndicesCreateRequest{
		Index: def.Name,
		Body:  bytes.NewReader(body),
	}
	cres, err := create.Do(ctx, c.os)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if err := readAck(cres); err != nil {
		return fmt.Errorf("creating index %s: %w", def.Name, err)
	}

	c.logger.Info("index created", "index", def.Name, "dimension", def.Dimension)
	return nil
}

// PutIngestPipeline installs a text_embedding ingest pipeline that embeds the
// fields in fieldMap through the given model on every indexed document.
func (c *Client) PutIngestPipeline(ctx context.Context, id, description, modelID string, fieldMap map[string]string) error {
	if modelID == "" {
		return ErrModelIDRequired
	}

	body, err := json.Marshal(map[string]any{
		"description": description,
		"processors": []map[string]any{
			{
				"text_embedding": map[string]any{
					"model_id":  modelID,
					"field_map": fieldMap,
				},
			},
		},
	})
	if err != nil {
		return err
	}

	req := opensearchapi.IngestPutPipelineRequest{
		PipelineID: id,
		Body:       strings.NewReader(string(body)),
	}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if err := readAck(res); err != nil {
		return fmt.Errorf("installing pipeline %s: %w", id, err)
	}

	c.logger.Info("ingest pipeline installed", "pipeline", id, "model", modelID)
	return nil
}
