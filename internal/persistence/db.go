// Package persistence provides SQLite-based hierarchy storage. Saves are
// full replaces inside one transaction; the reconstruction path is
// lossless for abstract-tier state.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/macrocosm/internal/tier"
)

// DB wraps a SQLite connection for hierarchy persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tiers (
		id TEXT PRIMARY KEY,
		parent_id TEXT,
		ordinal INTEGER NOT NULL,
		name TEXT NOT NULL,
		level INTEGER NOT NULL,
		mode INTEGER NOT NULL,
		address TEXT NOT NULL,
		institutions INTEGER NOT NULL,
		ext_kind TEXT NOT NULL DEFAULT '',
		pop_json TEXT NOT NULL,
		econ_json TEXT NOT NULL,
		stab_json TEXT NOT NULL,
		tech_json TEXT NOT NULL,
		beliefs_json TEXT NOT NULL,
		events_json TEXT NOT NULL,
		highlights_json TEXT NOT NULL,
		specialists_json TEXT NOT NULL,
		ext_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tiers_parent ON tiers(parent_id, ordinal);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// HasWorldState reports whether a saved hierarchy exists.
func (db *DB) HasWorldState() bool {
	var count int
	if err := db.conn.Get(&count, "SELECT COUNT(*) FROM tiers"); err != nil {
		return false
	}
	return count > 0
}

// SaveTree writes the full hierarchy of every root (full replace).
func (db *DB) SaveTree(roots []*tier.Node) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM tiers"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO tiers
		(id, parent_id, ordinal, name, level, mode, address, institutions, ext_kind,
		 pop_json, econ_json, stab_json, tech_json, beliefs_json, events_json,
		 highlights_json, specialists_json, ext_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, root := range roots {
		if err := insertNode(stmt, root, nil, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertNode(stmt *sqlx.Stmt, n *tier.Node, parentID *tier.NodeID, ordinal int) error {
	s := n.Snapshot()
	// Children are serialized as their own rows, not inside this one.
	s.Children = nil

	popJSON, _ := json.Marshal(s.Pop)
	econJSON, _ := json.Marshal(s.Econ)
	stabJSON, _ := json.Marshal(s.Stab)
	techJSON, _ := json.Marshal(s.Tech)
	beliefsJSON, _ := json.Marshal(s.Beliefs)
	eventsJSON, _ := json.Marshal(s.Events)
	highlightsJSON, _ := json.Marshal(s.Highlights)
	specialistsJSON, _ := json.Marshal(s.SpecialistPool)

	var extJSON []byte
	switch s.ExtKind {
	case "planet":
		extJSON, _ = json.Marshal(s.Planet)
	case "system":
		extJSON, _ = json.Marshal(s.System)
	case "galaxy":
		extJSON, _ = json.Marshal(s.Galaxy)
	default:
		extJSON = []byte("null")
	}

	_, err := stmt.Exec(
		s.ID, parentID, ordinal, s.Name, s.Level, s.Mode, s.Address,
		s.Institutions, s.ExtKind,
		string(popJSON), string(econJSON), string(stabJSON), string(techJSON),
		string(beliefsJSON), string(eventsJSON), string(highlightsJSON),
		string(specialistsJSON), string(extJSON),
	)
	if err != nil {
		return fmt.Errorf("insert tier %s: %w", s.ID, err)
	}

	for i, c := range n.Children {
		if err := insertNode(stmt, c, &n.ID, i); err != nil {
			return err
		}
	}
	return nil
}

type tierRow struct {
	ID              string  `db:"id"`
	ParentID        *string `db:"parent_id"`
	Ordinal         int     `db:"ordinal"`
	Name            string  `db:"name"`
	Level           uint8   `db:"level"`
	Mode            uint8   `db:"mode"`
	Address         string  `db:"address"`
	Institutions    int     `db:"institutions"`
	ExtKind         string  `db:"ext_kind"`
	PopJSON         string  `db:"pop_json"`
	EconJSON        string  `db:"econ_json"`
	StabJSON        string  `db:"stab_json"`
	TechJSON        string  `db:"tech_json"`
	BeliefsJSON     string  `db:"beliefs_json"`
	EventsJSON      string  `db:"events_json"`
	HighlightsJSON  string  `db:"highlights_json"`
	SpecialistsJSON string  `db:"specialists_json"`
	ExtJSON         string  `db:"ext_json"`
}

// LoadTree reconstructs every root subtree exactly as saved.
func (db *DB) LoadTree() ([]*tier.Node, error) {
	var rows []tierRow
	if err := db.conn.Select(&rows, "SELECT * FROM tiers ORDER BY ordinal"); err != nil {
		return nil, fmt.Errorf("load tiers: %w", err)
	}

	snaps := make(map[string]*tier.Snapshot, len(rows))
	children := make(map[string][]*tierRow)
	var rootRows []*tierRow
	for i := range rows {
		r := &rows[i]
		s, err := rowToSnapshot(r)
		if err != nil {
			return nil, err
		}
		snaps[r.ID] = s
		if r.ParentID == nil {
			rootRows = append(rootRows, r)
		} else {
			children[*r.ParentID] = append(children[*r.ParentID], r)
		}
	}

	// Stitch child snapshots into parents depth-first, preserving order.
	var attach func(r *tierRow) *tier.Snapshot
	attach = func(r *tierRow) *tier.Snapshot {
		s := snaps[r.ID]
		for _, cr := range children[r.ID] {
			s.Children = append(s.Children, *attach(cr))
		}
		return s
	}

	var roots []*tier.Node
	for _, r := range rootRows {
		n, err := tier.FromSnapshot(*attach(r))
		if err != nil {
			return nil, fmt.Errorf("rebuild tier %s: %w", r.ID, err)
		}
		roots = append(roots, n)
	}
	return roots, nil
}

func rowToSnapshot(r *tierRow) (*tier.Snapshot, error) {
	s := &tier.Snapshot{
		ID:           r.ID,
		Name:         r.Name,
		Level:        tier.Level(r.Level),
		Mode:         tier.Mode(r.Mode),
		Address:      r.Address,
		Institutions: r.Institutions,
		ExtKind:      r.ExtKind,
	}
	fields := []struct {
		raw string
		dst any
	}{
		{r.PopJSON, &s.Pop},
		{r.EconJSON, &s.Econ},
		{r.StabJSON, &s.Stab},
		{r.TechJSON, &s.Tech},
		{r.BeliefsJSON, &s.Beliefs},
		{r.EventsJSON, &s.Events},
		{r.HighlightsJSON, &s.Highlights},
		{r.SpecialistsJSON, &s.SpecialistPool},
	}
	for _, f := range fields {
		if err := json.Unmarshal([]byte(f.raw), f.dst); err != nil {
			return nil, fmt.Errorf("tier %s: corrupt column: %w", r.ID, err)
		}
	}
	switch r.ExtKind {
	case "planet":
		if err := json.Unmarshal([]byte(r.ExtJSON), &s.Planet); err != nil {
			return nil, fmt.Errorf("tier %s: corrupt planet extension: %w", r.ID, err)
		}
	case "system":
		if err := json.Unmarshal([]byte(r.ExtJSON), &s.System); err != nil {
			return nil, fmt.Errorf("tier %s: corrupt system extension: %w", r.ID, err)
		}
	case "galaxy":
		if err := json.Unmarshal([]byte(r.ExtJSON), &s.Galaxy); err != nil {
			return nil, fmt.Errorf("tier %s: corrupt galaxy extension: %w", r.ID, err)
		}
	}
	return s, nil
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// SaveWorldState performs a full save: the hierarchy plus the tick counter.
func (db *DB) SaveWorldState(roots []*tier.Node, tick uint64) error {
	if err := db.SaveTree(roots); err != nil {
		return fmt.Errorf("save tiers: %w", err)
	}
	if err := db.SaveMeta("last_tick", fmt.Sprintf("%d", tick)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	slog.Info("world state saved", "roots", len(roots), "tick", tick)
	return nil
}
