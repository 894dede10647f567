// Package plaintext passes text files through with light cleanup. It is
// also the fallback for unrecognised extensions.
package plaintext

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
	"github.com/custodia-labs/docquery-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text and markdown documents.
type Normaliser struct{}

// New creates a new plaintext normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions handled.
func (n *Normaliser) Extensions() []string {
	return []string{".txt", ".md", ".text"}
}

// Normalise strips the BOM, rejects binary content and normalises line
// endings. Document type detection happens downstream.
func (n *Normaliser) Normalise(raw []byte, filename string) (string, domain.DocumentMetadata, error) {
	meta := domain.DocumentMetadata{Filename: filename}

	text := strings.TrimPrefix(string(raw), "\uFEFF")
	if !utf8.ValidString(text) || strings.ContainsRune(text, 0) {
		return "", meta, domain.ErrInvalidInput
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	return strings.TrimSpace(text), meta, nil
}
