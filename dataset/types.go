package dataset

import "encoding/json"

// rowsResponse mirrors the datasets-server /rows payload.
type rowsResponse struct {
	Rows []struct {
		RowIdx int             `json:"row_idx"`
		Row    json.RawMessage `json:"row"`
	} `json:"rows"`
	NumRowsTotal int `json:"num_rows_total"`
}

// splitsResponse mirrors the datasets-server /splits payload.
type splitsResponse struct {
	Splits []struct {
		Dataset string `json:"dataset"`
		Config  string `json:"config"`
		Split   string `json:"split"`
	} `json:"splits"`
}

// passageRow is one row of the text-corpus configuration. The corpus
// publishes numeric ids.
type passageRow struct {
	ID      json.Number `json:"id"`
	Passage string      `json:"passage"`
}

// qaRow is one row of the question-answer configuration.
type qaRow struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
