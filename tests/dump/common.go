package dump

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
)

// ID is a unique identifier of the dump prepared according to the model
// described in the current package.
type ID struct {
	// Label of the dump source (e.g. testnet, mainnet).
	Label string
	// Blockchain height at which the state was pulled.
	Block uint32
}

// String returns hyphen-separated ID fields.
func (x ID) String() string {
	return x.Label + sep + strconv.FormatUint(uint64(x.Block), 10)
}

// decodes ID fields from the hyphen-separated string. Label may contain
// separators itself, so the block number is taken from the end.
func (x *ID) decodeString(s string) error {
	i := strings.LastIndex(s, sep)
	if i <= 0 {
		return fmt.Errorf("expected '%s'-separated string with at least 2 items", sep)
	}

	n, err := strconv.ParseUint(s[i+1:], 10, 32)
	if err != nil {
		return fmt.Errorf("decode block number from '%s': %w", s[i+1:], err)
	}

	x.Label = s[:i]
	x.Block = uint32(n)

	return nil
}

// Role is a role of the contract in the scorer registry.
type Role string

// Supported roles.
const (
	RoleDeployer Role = "deployer"
	RoleFactory  Role = "factory"
	RoleScorer   Role = "scorer"
)

// StorageItem is a single key-value pair of the contract storage. Binary
// values are base64-encoded in JSON.
type StorageItem struct {
	Key   []byte `json:"key"`
	Value []byte `json:"value"`
}

// Contract is a dumped contract: its role, state and storage.
type Contract struct {
	Role    Role          `json:"role"`
	State   state.Contract `json:"state"`
	Storage []StorageItem `json:"storage"`
}

// snapshot is a JSON-encoded dump file.
type snapshot struct {
	Label     string     `json:"label"`
	Block     uint32     `json:"block"`
	Contracts []Contract `json:"contracts"`
}

const (
	// word separator used in dump file naming
	sep = "-"
	// suffix of dump files
	fileSuffix = ".json"
)

func fileName(id ID) string {
	return id.String() + fileSuffix
}
