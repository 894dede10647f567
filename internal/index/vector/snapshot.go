package vector

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
	"github.com/custodia-labs/docquery-cli/internal/logger"
)

// snapshot is the on-disk shape of the index. Saves always overwrite in
// full; there is no append-only log and no transactional guarantee.
type snapshot struct {
	Documents []domain.IndexedDocument `json:"documents"`
	Dimension int                      `json:"dimension"`
	Timestamp int64                    `json:"timestamp"`
}

// loadSnapshot reads the snapshot file. A missing or unparsable file is
// treated as an empty store, never a fatal error - a crash mid-write can
// legitimately leave a truncated snapshot behind.
func loadSnapshot(path string) ([]domain.IndexedDocument, int) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Snapshot read failed: %v", err)
		}
		return nil, 0
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		logger.Warn("Snapshot unparsable, starting empty: %v", err)
		return nil, 0
	}

	return snap.Documents, snap.Dimension
}

// saveSnapshot writes the full index state, overwriting any previous file.
func saveSnapshot(path string, docs []domain.IndexedDocument, dimension int, ts int64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := json.Marshal(snapshot{
		Documents: docs,
		Dimension: dimension,
		Timestamp: ts,
	})
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
