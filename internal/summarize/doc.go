// Package summarize implements both sides of the /summarize contract.
//
// Server side, a Summarizer is backed by Gemini, by an extractive fallback
// that needs no model, or by a chain of the two, optionally wrapped in an
// LRU cache. Client side, RemoteClient calls a /summarize endpoint over HTTP
// and classifies failures as network or service errors so callers can show
// distinct messages.
package summarize
