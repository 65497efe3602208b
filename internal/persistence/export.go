// Compressed snapshot export: zstd-compressed JSON files for archival and
// out-of-band inspection, alongside the SQLite store.
package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/talgya/macrocosm/internal/tier"
)

// exportFile is the archived hierarchy: every root snapshot plus the tick.
type exportFile struct {
	Tick  uint64          `json:"tick"`
	Roots []tier.Snapshot `json:"roots"`
}

// ExportSnapshot writes the hierarchy to dir/<tick>.snap.zst.
func ExportSnapshot(dir string, roots []*tier.Node, tick uint64) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("snapshot dir: %w", err)
	}

	out := exportFile{Tick: tick}
	for _, r := range roots {
		out.Roots = append(out.Roots, r.Snapshot())
	}

	path := filepath.Join(dir, fmt.Sprintf("%d.snap.zst", tick))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return "", err
	}
	if err := json.NewEncoder(enc).Encode(out); err != nil {
		enc.Close()
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("flush snapshot: %w", err)
	}
	return path, nil
}

// ImportSnapshot reads a .snap.zst file back into a node tree.
func ImportSnapshot(path string) ([]*tier.Node, uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, 0, err
	}
	defer dec.Close()

	var in exportFile
	if err := json.NewDecoder(dec.IOReadCloser()).Decode(&in); err != nil {
		return nil, 0, fmt.Errorf("decode snapshot: %w", err)
	}

	var roots []*tier.Node
	for _, s := range in.Roots {
		n, err := tier.FromSnapshot(s)
		if err != nil {
			return nil, 0, err
		}
		roots = append(roots, n)
	}
	return roots, in.Tick, nil
}
