// Package embedding abstracts the semantic similarity service the bundling
// engine depends on: a Provider turns text into a fixed-length vector, and
// cosine similarity between vectors is computed locally.
//
// The OpenAI embeddings API is supported out of the box; any backend can be
// plugged in by implementing Provider. StaticProvider serves tests and
// development where deterministic vectors are needed.
package embedding
