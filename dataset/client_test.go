package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test/dataset", WithEndpoint(srv.URL))
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestPassages_PagesThroughCorpus(t *testing.T) {
	const total = 250
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rows", r.URL.Path)
		assert.Equal(t, "test/dataset", r.URL.Query().Get("dataset"))
		assert.Equal(t, ConfigTextCorpus, r.URL.Query().Get("config"))
		assert.Equal(t, SplitPassages, r.URL.Query().Get("split"))

		offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
		require.NoError(t, err)
		length, err := strconv.Atoi(r.URL.Query().Get("length"))
		require.NoError(t, err)

		rows := make([]map[string]any, 0, length)
		for i := offset; i < offset+length && i < total; i++ {
			rows = append(rows, map[string]any{
				"row_idx": i,
				"row":     map[string]any{"id": i, "passage": fmt.Sprintf("passage %d", i)},
			})
		}
		writeJSON(t, w, map[string]any{"rows": rows, "num_rows_total": total})
	})

	passages, err := client.Passages(context.Background())
	require.NoError(t, err)
	require.Len(t, passages, total)
	assert.Equal(t, "0", passages[0].ID)
	assert.Equal(t, "passage 0", passages[0].Text)
	assert.Equal(t, "249", passages[total-1].ID)
}

func TestPassages_SkipsMalformedRows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"rows": []map[string]any{
				{"row_idx": 0, "row": map[string]any{"id": 0, "passage": "good"}},
				{"row_idx": 1, "row": "not an object"},
			},
			"num_rows_total": 2,
		})
	})

	passages, err := client.Passages(context.Background())
	require.NoError(t, err)
	require.Len(t, passages, 1)
	assert.Equal(t, "good", passages[0].Text)
}

func TestQAPairs_HonorsLimit(t *testing.T) {
	var requestedLengths []int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ConfigQuestionAnswer, r.URL.Query().Get("config"))
		assert.Equal(t, "test", r.URL.Query().Get("split"))
		length, err := strconv.Atoi(r.URL.Query().Get("length"))
		require.NoError(t, err)
		requestedLengths = append(requestedLengths, length)

		rows := make([]map[string]any, 0, length)
		for i := 0; i < length; i++ {
			rows = append(rows, map[string]any{
				"row_idx": i,
				"row":     map[string]any{"question": fmt.Sprintf("q%d", i), "answer": fmt.Sprintf("a%d", i)},
			})
		}
		writeJSON(t, w, map[string]any{"rows": rows, "num_rows_total": 900})
	})

	pairs, err := client.QAPairs(context.Background(), "test", 5)
	require.NoError(t, err)
	require.Len(t, pairs, 5)
	assert.Equal(t, "q0", pairs[0].Question)
	assert.Equal(t, "a0", pairs[0].Answer)
	assert.Equal(t, []int{5}, requestedLengths, "should not fetch more rows than the limit")
}

func TestSplits(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/splits", r.URL.Path)
		writeJSON(t, w, map[string]any{
			"splits": []map[string]any{
				{"dataset": "test/dataset", "config": ConfigQuestionAnswer, "split": "train"},
				{"dataset": "test/dataset", "config": ConfigQuestionAnswer, "split": "test"},
			},
		})
	})

	splits, err := client.Splits(context.Background(), ConfigQuestionAnswer)
	require.NoError(t, err)
	assert.Equal(t, []string{"train", "test"}, splits)
}

func TestSplits_Empty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"splits": []any{}})
	})

	_, err := client.Splits(context.Background(), ConfigQuestionAnswer)
	assert.ErrorIs(t, err, ErrNoSplits)
}

func TestRows_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Passages(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = client.QAPairs(context.Background(), "test", 3)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPreferredQASplit(t *testing.T) {
	assert.Equal(t, "test", PreferredQASplit([]string{"train", "validation", "test"}))
	assert.Equal(t, "validation", PreferredQASplit([]string{"train", "validation"}))
	assert.Equal(t, "train", PreferredQASplit([]string{"train"}))
	assert.Equal(t, "other", PreferredQASplit([]string{"other"}))
	assert.Equal(t, "", PreferredQASplit(nil))
}
