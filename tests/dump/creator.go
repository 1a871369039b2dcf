package dump

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
)

// Creator dumps states of the registry contracts. Output is a single file
// '<label>-<block>.json' holding JSON object with the dump ID and array of
// contracts with their roles, states and storages.
//
// Use IterateDumps or ReadDump to access existing dumps.
type Creator struct {
	path string

	snap snapshot
}

// NewCreator returns Creator which dumps contracts into given directory. The
// dump is identified by specified ID.
//
// NewCreator fails if dump with provided ID already exists.
func NewCreator(dir string, id ID) (*Creator, error) {
	p := filepath.Join(dir, fileName(id))

	err := checkFileNotExists(p)
	if err != nil {
		return nil, err
	}

	return &Creator{
		path: p,
		snap: snapshot{
			Label: id.Label,
			Block: id.Block,
		},
	}, nil
}

// AddContract adds given state of the Neo contract with the specified role to
// the resulting dump and returns StorageWriter for the contract storage. After
// all needed contracts are added, they should be flushed via Flush method.
func (x *Creator) AddContract(role Role, st state.Contract) *StorageWriter {
	x.snap.Contracts = append(x.snap.Contracts, Contract{
		Role:  role,
		State: st,
	})

	return &StorageWriter{
		c: x,
		i: len(x.snap.Contracts) - 1,
	}
}

// Flush writes accumulated dump to the file system.
func (x *Creator) Flush() error {
	data, err := json.MarshalIndent(x.snap, "", " ")
	if err != nil {
		return fmt.Errorf("encode dump to JSON: %w", err)
	}

	err = os.WriteFile(x.path, data, 0600)
	if err != nil {
		return fmt.Errorf("write dump file: %w", err)
	}

	return nil
}

// StorageWriter writes data into the superior contract's storage dump.
type StorageWriter struct {
	c *Creator
	i int
}

// Write saves given binary key-value into the contract dump as storage item.
// Both slices are copied, so the caller may reuse them.
func (x *StorageWriter) Write(key, value []byte) error {
	c := &x.c.snap.Contracts[x.i]
	c.Storage = append(c.Storage, StorageItem{
		Key:   slices.Clone(key),
		Value: slices.Clone(value),
	})
	return nil
}

// checkFileNotExists returns an error if the path is taken.
func checkFileNotExists(p string) error {
	_, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err == nil {
		err = fs.ErrExist
	}
	return fmt.Errorf("file '%s' absence check failed: %w", p, err)
}
