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

// Package opensearch wraps the OpenSearch cluster that backs retrieval: the
// ML-commons model lifecycle (register, deploy, poll), k-NN index and ingest
// pipeline management, bulk indexing, and vector/neural search.
//
// Model registration and deployment are asynchronous server-side tasks;
// WaitForTask and WaitForModelReady provide the bounded polling that turns
// them into blocking calls.
package opensearch
