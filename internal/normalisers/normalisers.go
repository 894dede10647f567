// Package normalisers selects the right file-format normaliser for a
// document by extension.
package normalisers

import (
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docquery-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docquery-cli/internal/normalisers/eml"
	"github.com/custodia-labs/docquery-cli/internal/normalisers/plaintext"
)

// registry lists the available normalisers. Order does not matter;
// extensions are disjoint.
var registry = []driven.Normaliser{
	eml.New(),
	plaintext.New(),
}

// fallback handles unrecognised extensions.
var fallback = plaintext.New()

// ForFile returns the normaliser for the file's extension. Unrecognised
// extensions get the plaintext fallback.
func ForFile(filename string) driven.Normaliser {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, n := range registry {
		for _, e := range n.Extensions() {
			if e == ext {
				return n
			}
		}
	}
	return fallback
}
