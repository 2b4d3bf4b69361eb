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
	"log/slog"

	"github.com/poiesic/wikirag/core"
	"github.com/poiesic/wikirag/opensearch"
)

// Config holds the full provisioning plan: the embedding model to register
// and deploy, the ingest pipeline that embeds passages, and the k-NN index
// they land in.
type Config struct {
	ModelName    string
	ModelVersion string
	ModelFormat  string

	Index       string
	Pipeline    string
	VectorField string
	TextField   string
	Dimension   int

	// BatchSize caps documents per bulk request during corpus ingestion.
	BatchSize int

	TaskPoll  opensearch.PollConfig
	ReadyPoll opensearch.PollConfig

	// SkipIngest provisions the model, pipeline and index but loads no
	// corpus.
	SkipIngest bool
}

// DefaultConfig returns the standard plan: a small sentence-transformer
// embedding the passage corpus into a 384-dimensional k-NN index.
func DefaultConfig() Config {
	return Config{
		ModelName:    "huggingface/sentence-transformers/all-MiniLM-L6-v2",
		ModelVersion: "1.0.1",
		ModelFormat:  "TORCH_SCRIPT",
		Index:        "my-nlp-index",
		Pipeline:     "nlp-ingest-pipeline",
		VectorField:  "passage_embedding",
		TextField:    "passage",
		Dimension:    384,
		BatchSize:    100,
		TaskPoll:     opensearch.DefaultTaskPoll,
		ReadyPoll:    opensearch.DefaultReadyPoll,
	}
}

// PassageSource supplies the corpus to ingest. The dataset package provides
// the production implementation.
type PassageSource interface {
	Passages(ctx context.Context) ([]core.Passage, error)
}

// Provisioner drives the cluster from empty to query-ready.
type Provisioner struct {
	search   *opensearch.Client
	corpus   PassageSource
	config   Config
	progress io.Writer
	logger   *slog.Logger
}

// NewProvisioner creates a Provisioner. Progress messages for the operator
// are written to progressW; pass io.Discard to silence them.
func NewProvisioner(search *opensearch.Client, corpus PassageSource, config Config, progressW io.Writer) *Provisioner {
	return &Provisioner{
		search:   search,
		corpus:   corpus,
		config:   config,
		progress: progressW,
		logger:   slog.Default().With("component", "provision"),
	}
}

// Run executes the provisioning sequence and returns the id of the deployed
// embedding model: cluster settings, model registration and deployment (each
// an asynchronous task waited to completion), readiness, ingest pipeline,
// index, and finally corpus ingestion.
func (p *Provisioner) Run(ctx context.Context) (string, error) {
	info, err := p.search.Info(ctx)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(p.progress, "Connected to %s (%s)\n", info.ClusterName, info.Version.Number)

	if err := p.search.UpdateMLSettings(ctx); err != nil {
		return "", err
	}

	fmt.Fprintf(p.progress, "Registering model %s...\n", p.config.ModelName)
	registerTask, err := p.search.RegisterModel(ctx,
		p.config.ModelName, p.config.ModelVersion, p.config.ModelFormat)
	if err != nil {
		return "", err
	}
	modelID, err := p.search.WaitForTask(ctx, registerTask, opensearch.TaskRegistration, p.config.TaskPoll)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(p.progress, "Deploying model %s...\n", modelID)
	deployTask, err := p.search.DeployModel(ctx, modelID)
	if err != nil {
		return "", err
	}
	if _, err := p.search.WaitForTask(ctx, deployTask, opensearch.TaskDeployment, p.config.TaskPoll); err != nil {
		return "", err
	}
	if err := p.search.WaitForModelReady(ctx, modelID, p.config.ReadyPoll); err != nil {
		return "", err
	}

	if err := p.search.PutIngestPipeline(ctx, p.config.Pipeline,
		"Embeds passages at index time",
		modelID,
		map[string]string{p.config.TextField: p.config.VectorField},
	); err != nil {
		return "", err
	}

	err = p.search.EnsureIndex(ctx, opensearch.IndexDefinition{
		Name:        p.config.Index,
		VectorField: p.config.VectorField,
		TextField:   p.config.TextField,
		Dimension:   p.config.Dimension,
		Pipeline:    p.config.Pipeline,
	})
	if err != nil {
		return "", err
	}

	if p.config.SkipIngest {
		return modelID, nil
	}
	if err := p.ingestCorpus(ctx); err != nil {
		return "", err
	}
	return modelID, nil
}

// ingestCorpus loads the passage corpus and bulk-indexes it in batches. Each
// document runs through the ingest pipeline server-side, so batches are small
// and batch failures only cost their own documents.
func (p *Provisioner) ingestCorpus(ctx context.Context) error {
	passages, err := p.corpus.Passages(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.progress, "Ingesting %d passages...\n", len(passages))

	indexed, failed := 0, 0
	for start := 0; start < len(passages); start += p.config.BatchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(start+p.config.BatchSize, len(passages))
		docs := make([]opensearch.Document, 0, end-start)
		for _, passage := range passages[start:end] {
			docs = append(docs, opensearch.Document{
				ID:     passage.ID,
				Source: map[string]any{p.config.TextField: passage.Text},
			})
		}

		summary, err := p.search.Bulk(ctx, p.config.Index, docs)
		if err != nil {
			p.logger.Warn("batch failed", "start", start, "err", err)
			failed += len(docs)
			continue
		}
		indexed += summary.Indexed
		failed += summary.Failed
		fmt.Fprintf(p.progress, "\rIndexed %d/%d passages", indexed, len(passages))
	}
	fmt.Fprintln(p.progress)

	if failed > 0 {
		p.logger.Warn("ingestion finished with failures", "indexed", indexed, "failed", failed)
	} else {
		p.logger.Info("ingestion complete", "indexed", indexed)
	}
	return nil
}
