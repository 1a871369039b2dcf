/*
Package contracts embeds compiled Trustful contracts and provides access to them.
*/
package contracts

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

const (
	deployerDir      = "deployer"
	scorerDir        = "scorer"
	scorerFactoryDir = "scorerfactory"

	nefName      = "contract.nef"
	manifestName = "manifest.json"
)

// Contract groups information about Neo contract stored in the current package.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Set is a complete set of Trustful contracts.
type Set struct {
	// Deployer is deployed once per network through the native management
	// contract.
	Deployer Contract
	// Scorer is uploaded to the Deployer and instantiated by the factory.
	Scorer Contract
	// ScorerFactory is uploaded to the Deployer and deployed through it.
	ScorerFactory Contract
}

var (
	//go:embed */contract.nef */manifest.json
	_fs embed.FS

	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")
)

// Get returns current set of contracts stored in the package.
func Get() (Set, error) {
	return readSet(_fs)
}

// ReadDir reads contracts compiled into the given directory. The directory
// layout is the same as the embedded one: '<name>/contract.nef' and
// '<name>/manifest.json'.
func ReadDir(dir string) (Set, error) {
	return readSet(os.DirFS(dir))
}

// Code returns binary NEF and JSON manifest of the contract in the form
// accepted by the Deployer upload method.
func (c Contract) Code() ([]byte, []byte, error) {
	bNEF, err := c.NEF.Bytes()
	if err != nil {
		return nil, nil, fmt.Errorf("encode NEF: %w", err)
	}

	jManifest, err := json.Marshal(c.Manifest)
	if err != nil {
		return nil, nil, fmt.Errorf("encode manifest: %w", err)
	}

	return bNEF, jManifest, nil
}

func readSet(_fs fs.FS) (Set, error) {
	var res Set

	cs, err := read(_fs, []string{deployerDir, scorerDir, scorerFactoryDir})
	if err != nil {
		return res, err
	}

	res.Deployer, res.Scorer, res.ScorerFactory = cs[0], cs[1], cs[2]

	return res, nil
}

// read same as Get but allows to override source fs.FS and the list of
// contracts.
func read(_fs fs.FS, dirs []string) ([]Contract, error) {
	var res = make([]Contract, 0, len(dirs))

	for i := range dirs {
		c, err := readContractFromDir(_fs, dirs[i])
		if err != nil {
			return nil, fmt.Errorf("read contract %s: %w", dirs[i], err)
		}

		res = append(res, c)
	}

	return res, nil
}

func readContractFromDir(_fs fs.FS, dir string) (Contract, error) {
	var c Contract

	// fs.FS uses "/" even on Windows, so filepath.Join() is not applicable.
	fNEF, err := _fs.Open(dir + "/" + nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := _fs.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidManifest, err)
	}

	return c, nil
}
