// Package ollama implements the ai.Generator interface against a local
// Ollama server, using a single user-role chat message per prompt.
package ollama
