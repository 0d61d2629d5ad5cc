// Package tilestore caches baked tiles in LevelDB, keyed by the canonical
// rendering of the config that produced them.
package tilestore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"terrafill/internal/core"
	"terrafill/internal/terrain"
	"terrafill/pkg/priorityflood"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var (
	// ErrNotFound is returned by Get for configs that were never stored.
	ErrNotFound = errors.New("tilestore: tile not found")
	// ErrCorrupt is returned when a stored record cannot be decoded.
	ErrCorrupt = errors.New("tilestore: corrupt record")
)

const (
	keyPrefix     = "tile/"
	recordVersion = 1
)

// Store is a LevelDB backed tile cache. It is safe for concurrent use.
type Store struct {
	db *leveldb.DB
}

// Open opens or creates a store in the directory at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("tilestore: open %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// OpenStorage opens a store on an existing LevelDB storage, such as
// storage.NewMemStorage in tests.
func OpenStorage(stor storage.Storage) (*Store, error) {
	db, err := leveldb.Open(stor, nil)
	if err != nil {
		return nil, fmt.Errorf("tilestore: open storage: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Key returns the database key for cfg.
func Key(cfg terrain.Config) []byte {
	return []byte(keyPrefix + cfg.String())
}

// Put stores t under its config, replacing any earlier bake.
func (s *Store) Put(t *terrain.Tile) error {
	data, err := encodeTile(t)
	if err != nil {
		return err
	}
	if err := s.db.Put(Key(t.Config), data, nil); err != nil {
		return fmt.Errorf("tilestore: put: %w", err)
	}
	return nil
}

// Get loads the tile baked for cfg. Timings are not persisted.
func (s *Store) Get(cfg terrain.Config) (*terrain.Tile, error) {
	data, err := s.db.Get(Key(cfg), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("tilestore: get: %w", err)
	}
	t, err := decodeTile(data)
	if err != nil {
		return nil, err
	}
	t.Config = cfg
	return t, nil
}

// Has reports whether a tile for cfg is stored.
func (s *Store) Has(cfg terrain.Config) (bool, error) {
	ok, err := s.db.Has(Key(cfg), nil)
	if err != nil {
		return false, fmt.Errorf("tilestore: has: %w", err)
	}
	return ok, nil
}

// Delete removes the tile for cfg. Deleting a missing tile is not an error.
func (s *Store) Delete(cfg terrain.Config) error {
	if err := s.db.Delete(Key(cfg), nil); err != nil {
		return fmt.Errorf("tilestore: delete: %w", err)
	}
	return nil
}

// Configs lists the config keys of every stored tile in key order.
func (s *Store) Configs() ([]string, error) {
	iter := s.db.NewIterator(util.BytesPrefix([]byte(keyPrefix)), nil)
	defer iter.Release()

	var out []string
	for iter.Next() {
		out = append(out, string(iter.Key()[len(keyPrefix):]))
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("tilestore: iterate: %w", err)
	}
	return out, nil
}

// Record layout, little endian:
//
//	u8 version | u32 side | u32 outlet | 8 x i64 fill stats | 3 x side*side f64
func encodeTile(t *terrain.Tile) ([]byte, error) {
	if t == nil || t.Raw == nil || t.Filled == nil || t.Final == nil {
		return nil, fmt.Errorf("tilestore: incomplete tile")
	}
	side := t.Raw.Side
	cells := side * side
	if t.Filled.Side != side || t.Final.Side != side {
		return nil, fmt.Errorf("tilestore: grid sides differ")
	}

	buf := make([]byte, 0, 1+4+4+8*8+3*8*cells)
	buf = append(buf, recordVersion)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(side))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(t.Outlet))
	st := t.Fill
	for _, v := range []int{st.Cells, st.Raised, st.Inserted, st.Deferred, st.Promoted, st.Discarded, st.CanSpillHits} {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(v))
	}
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(st.Volume))
	for _, g := range []*core.Grid{t.Raw, t.Filled, t.Final} {
		for _, h := range g.Cells() {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(h))
		}
	}
	return buf, nil
}

func decodeTile(data []byte) (*terrain.Tile, error) {
	const header = 1 + 4 + 4 + 8*8
	if len(data) < header || data[0] != recordVersion {
		return nil, ErrCorrupt
	}
	side := int(binary.LittleEndian.Uint32(data[1:]))
	outlet := int(binary.LittleEndian.Uint32(data[5:]))
	cells := side * side
	if side <= 0 || outlet >= cells || len(data) != header+3*8*cells {
		return nil, ErrCorrupt
	}

	var ints [7]int
	off := 9
	for i := range ints {
		ints[i] = int(binary.LittleEndian.Uint64(data[off:]))
		off += 8
	}
	volume := math.Float64frombits(binary.LittleEndian.Uint64(data[off:]))
	off += 8

	grids := make([]*core.Grid, 3)
	for i := range grids {
		g := core.NewGrid(side)
		for j := range g.Cells() {
			g.Cells()[j] = math.Float64frombits(binary.LittleEndian.Uint64(data[off:]))
			off += 8
		}
		grids[i] = g
	}
	return &terrain.Tile{
		Outlet: outlet,
		Raw:    grids[0],
		Filled: grids[1],
		Final:  grids[2],
		Fill: priorityflood.Stats{
			Cells:        ints[0],
			Raised:       ints[1],
			Volume:       volume,
			Inserted:     ints[2],
			Deferred:     ints[3],
			Promoted:     ints[4],
			Discarded:    ints[5],
			CanSpillHits: ints[6],
		},
	}, nil
}
