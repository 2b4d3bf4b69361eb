// Package dataset loads the experiment corpus from a HuggingFace
// datasets-server endpoint: the text-corpus passages used for indexing and
// the question-answer pairs used for evaluation.
package dataset
