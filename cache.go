package gbgfx

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Cache stores the artifacts of successful conversions in a sqlite
// database.
type Cache struct {
	db *sql.DB
}

// OpenCache opens, creating it if needed, the cache database in file.
func OpenCache(file string) (*Cache, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS artifact (id INTEGER PRIMARY KEY NOT NULL, key TEXT NOT NULL UNIQUE, tiles BLOB NOT NULL, tilemap BLOB NOT NULL, attrmap BLOB NOT NULL, palmap BLOB NOT NULL, palettes BLOB NOT NULL, nb_tiles INTEGER NOT NULL, nb_palettes INTEGER NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{
		db: db,
	}, nil
}

// Find returns the result stored under key, or nil if there is none.
func (c *Cache) Find(key string) (*Result, error) {
	r := new(Result)
	switch err := c.db.QueryRow("SELECT tiles, tilemap, attrmap, palmap, palettes, nb_tiles, nb_palettes FROM artifact WHERE key = ?", key).Scan(&r.TileData, &r.Tilemap, &r.Attrmap, &r.Palmap, &r.Palettes, &r.NbTiles, &r.NbPalettes); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		r.Cached = true
		return r, nil
	default:
		return nil, err
	}
}

// Store saves r under key, replacing any previous entry.
func (c *Cache) Store(key string, r *Result) error {
	if _, err := c.db.Exec("INSERT OR REPLACE INTO artifact (key, tiles, tilemap, attrmap, palmap, palettes, nb_tiles, nb_palettes) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", key, nonNil(r.TileData), nonNil(r.Tilemap), nonNil(r.Attrmap), nonNil(r.Palmap), nonNil(r.Palettes), r.NbTiles, r.NbPalettes); err != nil {
		return err
	}
	return nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// A nil slice is stored as NULL which the NOT NULL columns reject.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
