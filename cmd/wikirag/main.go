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

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/poiesic/wikirag/ai"
	"github.com/poiesic/wikirag/ai/ollama"
	"github.com/poiesic/wikirag/core"
	"github.com/poiesic/wikirag/dataset"
	"github.com/poiesic/wikirag/eval"
	"github.com/poiesic/wikirag/opensearch"
	"github.com/poiesic/wikirag/provision"
	"github.com/poiesic/wikirag/rag"
	"github.com/poiesic/wikirag/results"
	"github.com/urfave/cli/v2"
)

func main() {
	searchFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "opensearch-host",
			Usage: "OpenSearch cluster URL",
			Value: "http://localhost:9200",
		},
		&cli.StringFlag{
			Name:    "model-id",
			Usage:   "Id of the deployed embedding model",
			EnvVars: []string{"OPENSEARCH_MODEL_ID"},
		},
	}
	llmFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "llm-host",
			Usage: "Ollama host URL",
			Value: "http://localhost:11434",
		},
		&cli.StringFlag{
			Name:  "llm-model",
			Usage: "Ollama model name",
			Value: "gemma3",
		},
	}

	app := &cli.App{
		Name:  "wikirag",
		Usage: "Retrieval-augmented question answering over the mini-wikipedia corpus",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "provision",
				Usage:  "Register and deploy the embedding model, create the index, and ingest the corpus",
				Action: provisionCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "dataset",
						Usage: "Hugging Face dataset name",
						Value: dataset.DefaultDataset,
					},
					&cli.BoolFlag{
						Name:  "skip-ingest",
						Usage: "Provision the model and index but load no corpus",
					},
				}, searchFlags[:1]...),
			},
			{
				Name:   "demo",
				Usage:  "Smoke-test raw k-NN search with a tiny demo index",
				Action: demoCommand,
				Flags:  searchFlags[:1],
			},
			{
				Name:      "search",
				Usage:     "Run a neural search and print the matching passages",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  "k",
						Usage: "Number of nearest neighbours to retrieve",
						Value: 5,
					},
				}, searchFlags...),
			},
			{
				Name:      "ask",
				Usage:     "Answer a single question",
				ArgsUsage: "QUESTION...",
				Action:    askCommand,
				Flags: append(append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "rag",
						Usage: "Ground the answer in retrieved passages",
					},
				}, searchFlags...), llmFlags...),
			},
			{
				Name:   "evaluate",
				Usage:  "Compare plain and retrieval-grounded answer accuracy over the question set",
				Action: evaluateCommand,
				Flags: append(append([]cli.Flag{
					&cli.StringFlag{
						Name:  "dataset",
						Usage: "Hugging Face dataset name",
						Value: dataset.DefaultDataset,
					},
					&cli.IntFlag{
						Name:    "questions",
						Aliases: []string{"n"},
						Usage:   "Number of questions to evaluate",
						Value:   10,
					},
					&cli.StringFlag{
						Name:  "split",
						Usage: "Question-answer split to evaluate (defaults to the best available)",
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB directory for persisting outcomes",
					},
					&cli.StringFlag{
						Name:  "run",
						Usage: "Run name for persisted outcomes (defaults to a timestamp)",
					},
				}, searchFlags...), llmFlags...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newSearchClient(c *cli.Context) (*opensearch.Client, error) {
	return opensearch.NewClient(opensearch.NewConfig(
		opensearch.WithAddress(c.String("opensearch-host")),
	))
}

func newGenerator(c *cli.Context) (ai.Generator, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("llm-host")),
		ai.WithModel(c.String("llm-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return ollama.NewGenerator(aiConfig)
}

func newRetriever(c *cli.Context, client *opensearch.Client) *opensearch.PassageRetriever {
	config := provision.DefaultConfig()
	return opensearch.NewPassageRetriever(client,
		config.Index, config.TextField, config.VectorField, c.String("model-id"))
}

func provisionCommand(c *cli.Context) error {
	ctx := context.Background()

	client, err := newSearchClient(c)
	if err != nil {
		return err
	}

	config := provision.DefaultConfig()
	config.SkipIngest = c.Bool("skip-ingest")

	corpus := dataset.NewClient(c.String("dataset"))
	provisioner := provision.NewProvisioner(client, corpus, config, os.Stderr)

	modelID, err := provisioner.Run(ctx)
	if err != nil {
		return fmt.Errorf("provisioning failed: %w", err)
	}

	fmt.Printf("Model deployed: %s\n", modelID)
	fmt.Printf("Export it for later commands:\n\n  export OPENSEARCH_MODEL_ID=%s\n", modelID)
	return nil
}

func demoCommand(c *cli.Context) error {
	client, err := newSearchClient(c)
	if err != nil {
		return err
	}
	return provision.ProvisionDemo(context.Background(), client, os.Stdout)
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("a query is required")
	}

	client, err := newSearchClient(c)
	if err != nil {
		return err
	}

	retriever := newRetriever(c, client)
	passages, err := retriever.Retrieve(context.Background(), query, c.Int("k"), c.Int("k"))
	if err != nil {
		return err
	}

	for _, passage := range passages {
		text := passage.Text
		if utf8.RuneCountInString(text) > 200 {
			text = string([]rune(text)[:200]) + "..."
		}
		fmt.Printf("%s  score=%.4f\n  %s\n", passage.ID, passage.Score, text)
	}
	return nil
}

func askCommand(c *cli.Context) error {
	question := strings.Join(c.Args().Slice(), " ")
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	generator, err := newGenerator(c)
	if err != nil {
		return err
	}

	var retriever rag.Retriever
	if c.Bool("rag") {
		client, err := newSearchClient(c)
		if err != nil {
			return err
		}
		retriever = newRetriever(c, client)
	}

	answerer, err := rag.NewAnswerer(generator, retriever)
	if err != nil {
		return err
	}

	answer := answerer.Answer(context.Background(), question, c.Bool("rag"))
	if answer.Mode == core.AnswerModeFailed {
		return fmt.Errorf("no answer: %w", answer.Err)
	}
	fmt.Printf("[%s] %s\n", answer.Mode, answer.Text)
	return nil
}

func evaluateCommand(c *cli.Context) error {
	ctx := context.Background()

	generator, err := newGenerator(c)
	if err != nil {
		return err
	}

	client, err := newSearchClient(c)
	if err != nil {
		return err
	}
	retriever := newRetriever(c, client)

	data := dataset.NewClient(c.String("dataset"))
	split := c.String("split")
	if split == "" {
		splits, err := data.Splits(ctx, dataset.ConfigQuestionAnswer)
		if err != nil {
			return fmt.Errorf("failed to list dataset splits: %w", err)
		}
		split = dataset.PreferredQASplit(splits)
	}

	pairs, err := data.QAPairs(ctx, split, c.Int("questions"))
	if err != nil {
		return fmt.Errorf("failed to load questions: %w", err)
	}

	var recorder eval.Recorder
	if dbPath := c.String("db"); dbPath != "" {
		backend, err := results.OpenBackend(dbPath, false)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer backend.Close()

		store, err := results.NewStore(backend)
		if err != nil {
			return err
		}
		recorder = store
	}

	answerer, err := rag.NewAnswerer(generator, retriever)
	if err != nil {
		return err
	}

	run := c.String("run")
	if run == "" {
		run = time.Now().UTC().Format("run-2006-01-02T15-04-05")
	}
	runner := eval.NewRunner(answerer, rag.NewJudge(generator), recorder,
		eval.Config{Questions: c.Int("questions"), Run: run}, os.Stderr)

	fmt.Fprintf(os.Stderr, "Evaluating %d questions from split %q (run %s)\n",
		len(pairs), split, run)

	report, err := runner.Run(ctx, pairs)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	printReport(os.Stdout, report)
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func printReport(w io.Writer, report *eval.Report) {
	fmt.Fprintf(w, "\nResults (%s):\n", report.Elapsed.Round(time.Second))
	for _, mode := range []*eval.ModeReport{&report.Plain, &report.Grounded} {
		fmt.Fprintf(w, "  %-8s  accuracy %5.1f%%  (%d correct, %d incorrect, %d unclear, %d unanswered",
			mode.Label, mode.Accuracy(), mode.Correct, mode.Incorrect, mode.Unclear, mode.Unanswered)
		if mode.Degraded > 0 {
			fmt.Fprintf(w, ", %d degraded", mode.Degraded)
		}
		fmt.Fprintf(w, " of %d)\n", mode.Total)
	}

	diff := report.Grounded.Accuracy() - report.Plain.Accuracy()
	switch {
	case diff > 0:
		fmt.Fprintf(w, "Retrieval grounding improved accuracy by %.1f points\n", diff)
	case diff < 0:
		fmt.Fprintf(w, "Retrieval grounding reduced accuracy by %.1f points\n", -diff)
	default:
		fmt.Fprintln(w, "Retrieval grounding made no difference")
	}
}
