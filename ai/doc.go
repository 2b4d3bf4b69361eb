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


// Package ai provides abstractions for the generation backend used by wikirag.
//
// The package defines the Generator interface for chat-style text generation.
// It follows the dependency inversion principle, allowing the RAG pipeline
// and the evaluation runner to depend on an abstraction rather than a
// concrete client.
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/ollama: Production implementation talking to a local Ollama server
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (ollama.NewGenerator) return INTERFACE types to enforce
// abstraction. Test utility constructors (mock.NewMockGenerator) return
// CONCRETE types to enable behavior injection and assertions via the mock's
// public methods (CallCount, Prompts, Reset).
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithModel("gemma3"))
//	generator, err := ollama.NewGenerator(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	reply, err := generator.Generate(ctx, "Hello!")
package ai
