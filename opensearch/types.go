package opensearch

import "encoding/json"

// Task states reported by the ML commons plugin. Anything else counts as
// in-progress.
const (
	TaskStateCompleted = "COMPLETED"
	TaskStateFailed    = "FAILED"
)

// Model serving states reported by the ML commons plugin.
const (
	ModelStateDeployed          = "DEPLOYED"
	ModelStateDeploying         = "DEPLOYING"
	ModelStatePartiallyDeployed = "PARTIALLY_DEPLOYED"
)

// TaskKind distinguishes the two asynchronous model operations the
// provisioning pipeline waits on.
type TaskKind int

const (
	// TaskRegistration uploads and registers an embedding model; its
	// completed task carries the new model id.
	TaskRegistration TaskKind = iota + 1
	// TaskDeployment loads a registered model onto the cluster; its
	// completed task carries no payload.
	TaskDeployment
)

func (k TaskKind) String() string {
	switch k {
	case TaskRegistration:
		return "registration"
	case TaskDeployment:
		return "deployment"
	default:
		return "unknown"
	}
}

// TaskStatus is the ML plugin's view of an asynchronous task.
type TaskStatus struct {
	State   string `json:"state"`
	ModelID string `json:"model_id"`
	Error   string `json:"error"`
}

// ModelStatus is the ML plugin's view of a registered model.
type ModelStatus struct {
	ModelState string `json:"model_state"`
	Error      string `json:"error"`
}

// ClusterInfo is the root endpoint's identification payload.
type ClusterInfo struct {
	ClusterName string `json:"cluster_name"`
	Version     struct {
		Number string `json:"number"`
	} `json:"version"`
}

// Hit is one ranked search result.
type Hit struct {
	ID     string          `json:"_id"`
	Score  float32         `json:"_score"`
	Source json.RawMessage `json:"_source"`
}

// Document is one document submitted for bulk indexing.
type Document struct {
	ID     string
	Source any
}

// BulkSummary counts the per-item outcomes of a bulk request.
type BulkSummary struct {
	Indexed int
	Failed  int
}

type registerModelRequest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	ModelFormat string `json:"model_format"`
}

type taskSubmitResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

type ackResponse struct {
	Acknowledged bool `json:"acknowledged"`
}

type searchResponse struct {
	Hits struct {
		Hits []Hit `json:"hits"`
	} `json:"hits"`
}

type bulkItemResult struct {
	Status int `json:"status"`
	Error  *struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

type bulkResponse struct {
	Errors bool                        `json:"errors"`
	Items  []map[string]bulkItemResult `json:"items"`
}
