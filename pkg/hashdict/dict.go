package hashdict

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/pebble"
)

// Dict is a persistent hash-to-name dictionary backed by pebble. Keys are
// the 4-byte little-endian hash, values the original name.
type Dict struct {
	db *pebble.DB
}

// Open opens (creating if needed) a dictionary at path.
func Open(path string) (*Dict, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Dict{db: db}, nil
}

func hashKey(h uint32) []byte {
	key := make([]byte, 4)
	binary.LittleEndian.PutUint32(key, h)
	return key
}

// Put stores a name under its own hash.
func (d *Dict) Put(name string) error {
	return d.db.Set(hashKey(Hash(name)), []byte(name), pebble.NoSync)
}

// Lookup resolves a hash to its name, if known.
func (d *Dict) Lookup(h uint32) (string, bool) {
	data, closer, err := d.db.Get(hashKey(h))
	if err != nil {
		return "", false
	}
	name := string(data)
	closer.Close()
	return name, true
}

// LoadFile ingests a community hashtable file: one "<hex hash> <name>" pair
// per line, '#' comments and blank lines ignored. The declared hash wins
// over recomputation because some tables carry names whose hashes were
// produced by other algorithms.
func (d *Dict) LoadFile(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	batch := d.db.NewBatch()
	defer batch.Close()

	loaded := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.SplitN(line, " ", 2)
		if len(fields) != 2 {
			return loaded, fmt.Errorf("hashdict: malformed line %q", line)
		}
		h, err := strconv.ParseUint(strings.TrimPrefix(fields[0], "0x"), 16, 32)
		if err != nil {
			return loaded, fmt.Errorf("hashdict: bad hash in line %q: %w", line, err)
		}
		if err := batch.Set(hashKey(uint32(h)), []byte(strings.TrimSpace(fields[1])), nil); err != nil {
			return loaded, err
		}
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return loaded, err
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return loaded, err
	}
	return loaded, nil
}

// Count returns the number of stored names.
func (d *Dict) Count() (int, error) {
	iter, err := d.db.NewIter(nil)
	if err != nil {
		return 0, err
	}
	defer iter.Close()
	count := 0
	for iter.First(); iter.Valid(); iter.Next() {
		count++
	}
	return count, iter.Error()
}

// Close closes the underlying database.
func (d *Dict) Close() error {
	if err := d.db.Close(); err != nil && !errors.Is(err, pebble.ErrClosed) {
		return err
	}
	return nil
}
