// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): embedding providers, text generation
// providers and the search-history recorder.
package driven
