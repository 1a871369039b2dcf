package dump

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
)

// IterateDumps iterates over all dumps collected by the Creator model in the
// specified directory, and passes ID and Reader of each dump into f.
func IterateDumps(dir string, f func(ID, *Reader)) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, e error) error {
		if errors.Is(e, fs.ErrNotExist) {
			return nil
		}
		if e != nil {
			return e
		}

		if d.IsDir() {
			if path != dir {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()
		if !strings.HasSuffix(name, fileSuffix) {
			return nil
		}

		var id ID

		err := id.decodeString(strings.TrimSuffix(name, fileSuffix))
		if err != nil {
			return fmt.Errorf("decode dump ID from file name '%s': %w", name, err)
		}

		r, err := ReadDump(dir, id)
		if err != nil {
			return err
		}

		f(id, r)

		return nil
	})
}

// ReadDump reads dump with the given ID from the directory.
func ReadDump(dir string, id ID) (*Reader, error) {
	data, err := os.ReadFile(filepath.Join(dir, fileName(id)))
	if err != nil {
		return nil, fmt.Errorf("read dump file: %w", err)
	}

	var r Reader

	err = json.Unmarshal(data, &r.snap)
	if err != nil {
		return nil, fmt.Errorf("decode dump '%s' from JSON: %w", id, err)
	}

	if r.snap.Label != id.Label || r.snap.Block != id.Block {
		return nil, fmt.Errorf("dump ID mismatch: file '%s', content '%s'", id, ID{r.snap.Label, r.snap.Block})
	}

	return &r, nil
}

// Reader reads contracts collected in the superior dump.
type Reader struct {
	snap snapshot
}

// Contracts returns all dumped contracts in the order they were added.
func (x *Reader) Contracts() []Contract {
	return x.snap.Contracts
}

// IterateContractStates iterates over all contracts from the superior dump and
// passes their roles and states into f.
func (x *Reader) IterateContractStates(f func(role Role, _state state.Contract)) {
	for i := range x.snap.Contracts {
		f(x.snap.Contracts[i].Role, x.snap.Contracts[i].State)
	}
}

// IterateContractStorages iterates over all contracts from the superior dump
// and passes their storage items into f along with the contract ID.
func (x *Reader) IterateContractStorages(f func(id int32, key, value []byte)) {
	for i := range x.snap.Contracts {
		c := &x.snap.Contracts[i]
		for j := range c.Storage {
			f(c.State.ID, c.Storage[j].Key, c.Storage[j].Value)
		}
	}
}
