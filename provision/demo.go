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
	"context"
	"fmt"
	"io"

	"github.com/poiesic/wikirag/opensearch"
)

// Demo index constants. The demo exercises raw k-NN search with tiny
// two-dimensional vectors, with no embedding model involved, so a cluster
// can be smoke-tested before the full provisioning run.
const (
	DemoIndex       = "hotels-index"
	DemoVectorField = "location"

	demoDimension = 2
)

var demoLocations = [][]float32{
	{5.2, 4.4},
	{5.2, 3.9},
	{4.9, 3.4},
	{4.2, 4.6},
	{3.3, 4.5},
}

// ProvisionDemo creates and populates the demo index, then runs a sample
// k-NN query against it and prints the ranked hits.
func ProvisionDemo(ctx context.Context, search *opensearch.Client, w io.Writer) error {
	err := search.EnsureIndex(ctx, opensearch.IndexDefinition{
		Name:        DemoIndex,
		VectorField: DemoVectorField,
		Dimension:   demoDimension,
	})
	if err != nil {
		return err
	}

	docs := make([]opensearch.Document, 0, len(demoLocations))
	for i, location := range demoLocations {
		docs = append(docs, opensearch.Document{
			ID:     fmt.Sprintf("%d", i+1),
			Source: map[string]any{DemoVectorField: location},
		})
	}
	summary, err := search.Bulk(ctx, DemoIndex, docs)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Indexed %d demo locations\n", summary.Indexed)

	hits, err := search.KNNSearch(ctx, DemoIndex, DemoVectorField, []float32{5, 4}, 3, 3)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Nearest locations to [5, 4]:\n")
	for _, hit := range hits {
		fmt.Fprintf(w, "  %s  score=%.4f  %s\n", hit.ID, hit.Score, hit.Source)
	}
	return nil
}
