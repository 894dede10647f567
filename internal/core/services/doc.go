// Package services contains the application services that orchestrate the
// core: document ingestion (segment, embed, dual-store write) and answer
// synthesis (retrieve, rank, generate, score confidence).
package services
