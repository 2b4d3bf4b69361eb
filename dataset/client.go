package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/poiesic/wikirag/core"
)

const (
	// DefaultEndpoint is the public datasets-server API.
	DefaultEndpoint = "https://datasets-server.huggingface.co"

	// DefaultDataset is the Wikipedia passage/question-answer corpus used by
	// the experiment.
	DefaultDataset = "rag-datasets/rag-mini-wikipedia"

	// ConfigTextCorpus is the passage configuration of the dataset.
	ConfigTextCorpus = "text-corpus"

	// ConfigQuestionAnswer is the question-answer configuration of the dataset.
	ConfigQuestionAnswer = "question-answer"

	// SplitPassages is the single split of the text-corpus configuration.
	SplitPassages = "passages"

	// pageLength is the page size for /rows requests; the datasets-server
	// caps a single page at 100 rows.
	pageLength = 100
)

// Client fetches dataset rows from a HuggingFace datasets-server endpoint.
type Client struct {
	rc      *resty.Client
	dataset string
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the datasets-server base URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.rc.SetBaseURL(endpoint)
	}
}

// WithToken sets a HuggingFace access token for gated datasets.
func WithToken(token string) Option {
	return func(c *Client) {
		if token != "" {
			c.rc.SetAuthToken(token)
		}
	}
}

// WithTimeout overrides the per-request timeout. Default is 30 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.rc.SetTimeout(d)
	}
}

// NewClient creates a client for the named dataset. An empty name selects
// DefaultDataset.
func NewClient(dataset string, opts ...Option) *Client {
	if dataset == "" {
		dataset = DefaultDataset
	}

	c := &Client{
		rc:      resty.New().SetBaseURL(DefaultEndpoint).SetTimeout(30 * time.Second),
		dataset: dataset,
		logger:  slog.Default().With("component", "dataset-client"),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Splits returns the split names published for the given configuration.
func (c *Client) Splits(ctx context.Context, config string) ([]string, error) {
	var out splitsResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"dataset": c.dataset,
			"config":  config,
		}).
		SetResult(&out).
		Get("/splits")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: %s returned status %s", ErrUnavailable, c.dataset, resp.Status())
	}

	if len(out.Splits) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrNoSplits, c.dataset, config)
	}

	splits := make([]string, 0, len(out.Splits))
	for _, s := range out.Splits {
		splits = append(splits, s.Split)
	}
	return splits, nil
}

// Passages loads the full text corpus, paging through the passages split.
func (c *Client) Passages(ctx context.Context) ([]core.Passage, error) {
	var passages []core.Passage

	offset := 0
	for {
		page, err := c.rows(ctx, ConfigTextCorpus, SplitPassages, offset, pageLength)
		if err != nil {
			return nil, err
		}
		if len(page.Rows) == 0 {
			break
		}

		for _, row := range page.Rows {
			var pr passageRow
			if err := json.Unmarshal(row.Row, &pr); err != nil {
				// A malformed row is dropped, not fatal.
				c.logger.Warn("skipping malformed passage row", "row", row.RowIdx, "err", err)
				continue
			}
			passages = append(passages, core.Passage{
				ID:   pr.ID.String(),
				Text: pr.Passage,
			})
		}

		offset += len(page.Rows)
		if offset >= page.NumRowsTotal {
			break
		}
	}

	c.logger.Info("loaded passages", "dataset", c.dataset, "count", len(passages))
	return passages, nil
}

// QAPairs loads up to limit question-answer pairs from the given split.
// A limit of 0 loads the whole split.
func (c *Client) QAPairs(ctx context.Context, split string, limit int) ([]core.QAPair, error) {
	var pairs []core.QAPair

	offset := 0
	for {
		length := pageLength
		if limit > 0 && limit-len(pairs) < length {
			length = limit - len(pairs)
		}

		page, err := c.rows(ctx, ConfigQuestionAnswer, split, offset, length)
		if err != nil {
			return nil, err
		}
		if len(page.Rows) == 0 {
			break
		}

		for _, row := range page.Rows {
			var qa qaRow
			if err := json.Unmarshal(row.Row, &qa); err != nil {
				c.logger.Warn("skipping malformed qa row", "row", row.RowIdx, "err", err)
				continue
			}
			pairs = append(pairs, core.QAPair{Question: qa.Question, Answer: qa.Answer})
			if limit > 0 && len(pairs) >= limit {
				return pairs, nil
			}
		}

		offset += len(page.Rows)
		if offset >= page.NumRowsTotal {
			break
		}
	}

	return pairs, nil
}

// PreferredQASplit picks the evaluation split the way the experiment prefers
// them: test, then validation, then train, then whatever comes first.
func PreferredQASplit(splits []string) string {
	for _, want := range []string{"test", "validation", "train"} {
		for _, s := range splits {
			if s == want {
				return s
			}
		}
	}
	if len(splits) > 0 {
		return splits[0]
	}
	return ""
}

func (c *Client) rows(ctx context.Context, config, split string, offset, length int) (*rowsResponse, error) {
	var out rowsResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"dataset": c.dataset,
			"config":  config,
			"split":   split,
			"offset":  strconv.Itoa(offset),
			"length":  strconv.Itoa(length),
		}).
		SetResult(&out).
		Get("/rows")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: %s/%s/%s returned status %s",
			ErrUnavailable, c.dataset, config, split, resp.Status())
	}
	return &out, nil
}
