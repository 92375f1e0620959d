package ports

import (
	"localpuppet.io/cli/internal/core/enc"
)

// DocumentStore reads ENC input and persists the normalized classification.
type DocumentStore interface {
	// LoadENC reads and parses the ENC document at path
	LoadENC(path string) (enc.Document, error)

	// WriteClassification replaces the file at path with c. A failed write
	// leaves any previous content in place.
	WriteClassification(path string, c enc.Classification) error
}
