package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"randoexport/internal/catalog"
	"randoexport/internal/export"
	"randoexport/internal/settings"
)

// SQLiteIndex is a queryable read-model of exports. Profile files remain the
// source of truth.
type SQLiteIndex struct {
	db   *sql.DB
	once sync.Once
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteIndex{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS exports (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			profile_path TEXT NOT NULL,
			placements INTEGER NOT NULL,
			items INTEGER NOT NULL,
			transitions INTEGER NOT NULL,
			shop_defaults INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS placements (
			export_id TEXT NOT NULL REFERENCES exports(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			name TEXT NOT NULL,
			capability TEXT NOT NULL,
			composite INTEGER NOT NULL,
			vendor INTEGER NOT NULL,
			cost TEXT NOT NULL,
			PRIMARY KEY (export_id, seq)
		);`,
		`CREATE TABLE IF NOT EXISTS items (
			export_id TEXT NOT NULL REFERENCES exports(id) ON DELETE CASCADE,
			tag INTEGER NOT NULL,
			item TEXT NOT NULL,
			location TEXT NOT NULL,
			cost TEXT NOT NULL,
			PRIMARY KEY (export_id, tag)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_items_item ON items(export_id, item);`,
		`CREATE TABLE IF NOT EXISTS transitions (
			export_id TEXT NOT NULL REFERENCES exports(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			source_scene TEXT NOT NULL,
			source_gate TEXT NOT NULL,
			target_scene TEXT NOT NULL,
			target_gate TEXT NOT NULL,
			PRIMARY KEY (export_id, seq)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		err = s.db.Close()
	})
	return err
}

// UpsertCatalogs stores the catalog files and the applied settings with their
// digests.
func (s *SQLiteIndex) UpsertCatalogs(configDir string, cat *catalog.Catalog, gs settings.GenerationSettings) error {
	if s == nil {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	type kv struct {
		name   string
		digest string
		json   []byte
	}
	var rows []kv
	read := func(name, file, digest string) {
		if configDir == "" {
			return
		}
		b, err := os.ReadFile(filepath.Join(configDir, file))
		if err != nil {
			return
		}
		rows = append(rows, kv{name: name, digest: digest, json: b})
	}
	read("locations", "locations.json", cat.Locations.Digest)
	read("items", "items.json", cat.Items.Digest)
	read("starts", "starts.json", cat.Starts.Digest)
	read("platforms", "platforms.json", cat.Platforms.Digest)

	// Settings: store the values we actually apply (canonical JSON).
	{
		b, _ := json.Marshal(gs)
		sum := sha256.Sum256(b)
		rows = append(rows, kv{name: "settings", digest: hex.EncodeToString(sum[:]), json: b})
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO catalogs(name,digest,json,updated_at) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if r.name == "" || r.digest == "" || len(r.json) == 0 {
			continue
		}
		if _, err := stmt.Exec(r.name, r.digest, string(r.json), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RecordExport indexes p in one transaction, replacing any earlier rows for
// the same export id.
func (s *SQLiteIndex) RecordExport(profilePath string, p *export.Profile) error {
	if s == nil {
		return nil
	}
	sum := p.Summary()

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM exports WHERE id=?`, p.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`INSERT INTO exports(id,seed,created_at,profile_path,placements,items,transitions,shop_defaults) VALUES(?,?,?,?,?,?,?,?)`,
		p.ID, p.Seed, p.CreatedAt.UTC().Format(time.RFC3339Nano), profilePath,
		sum.Placements, sum.Items, sum.Transitions, int64(p.ShopDefaults),
	); err != nil {
		return err
	}

	insertPlacement, err := tx.Prepare(`INSERT INTO placements(export_id,seq,name,capability,composite,vendor,cost) VALUES(?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer insertPlacement.Close()
	insertItem, err := tx.Prepare(`INSERT INTO items(export_id,tag,item,location,cost) VALUES(?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer insertItem.Close()
	insertTransition, err := tx.Prepare(`INSERT INTO transitions(export_id,seq,source_scene,source_gate,target_scene,target_gate) VALUES(?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer insertTransition.Close()

	for i, a := range p.Placements {
		if _, err := insertPlacement.Exec(p.ID, i, a.Name, a.Capability.String(), boolInt(a.Composite != nil), boolInt(a.Vendor), a.Cost.String()); err != nil {
			return fmt.Errorf("placement %s: %w", a.Name, err)
		}
		for _, it := range a.Items {
			if _, err := insertItem.Exec(p.ID, it.Tag, it.Name, a.Name, a.ItemCost(it).String()); err != nil {
				return fmt.Errorf("item %d: %w", it.Tag, err)
			}
		}
	}
	for i, t := range p.Transitions {
		if _, err := insertTransition.Exec(p.ID, i, t.Source.Scene, t.Source.Gate, t.Target.Scene, t.Target.Gate); err != nil {
			return fmt.Errorf("transition %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// ItemLocations returns where item was placed in an export, by input order.
func (s *SQLiteIndex) ItemLocations(exportID, item string) ([]string, error) {
	rows, err := s.db.Query(`SELECT location FROM items WHERE export_id=? AND item=? ORDER BY tag`, exportID, item)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var loc string
		if err := rows.Scan(&loc); err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
