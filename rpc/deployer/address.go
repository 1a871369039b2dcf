package deployer

import (
	"encoding/hex"
	"slices"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/trustful-labs/trustful-contract/contracts/deployer/deployerconst"
)

// NameSeparator separates template name and instance suffix in manifest names
// of the contracts deployed by the Deployer.
const NameSeparator = "#"

// SaltLength is the exact length of the salt accepted by the Deployer.
const SaltLength = deployerconst.SaltLength

// SaltID returns identifier of the invoker and salt pair the same way the
// Deployer does it: RIPEMD-160 of their concatenation.
func SaltID(invoker util.Uint160, salt []byte) util.Uint160 {
	return hash.RipeMD160(append(invoker.BytesBE(), salt...))
}

// InstanceName returns manifest name of the contract deployed by invoker with
// the given salt from the code whose manifest is named template.
func InstanceName(template string, invoker util.Uint160, salt []byte) string {
	return template + NameSeparator + base58.Encode(SaltID(invoker, salt).BytesBE())
}

// Address returns address of the contract deployed by invoker with the given
// salt from the code with template manifest name and NEF checksum. Sender is
// the sender of the deploying transaction.
//
// The address can be computed before deployment and doesn't depend on the
// Deployer state.
func Address(sender util.Uint160, checksum uint32, template string, invoker util.Uint160, salt []byte) util.Uint160 {
	return state.CreateContractHash(sender, checksum, InstanceName(template, invoker, salt))
}

// CodeHash returns hash of the code uploaded to the Deployer: SHA-256 of
// binary NEF concatenated with JSON manifest.
func CodeHash(nef []byte, manifest []byte) util.Uint256 {
	return hash.Sha256(append(slices.Clip(nef), manifest...))
}

// SaltFromString returns Deployer salt encoded in s. Hex string of SaltLength
// bytes is decoded as is, any other string is hashed with SHA-256, so salts
// can be derived from human-readable seeds.
func SaltFromString(s string) []byte {
	if b, err := hex.DecodeString(s); err == nil && len(b) == SaltLength {
		return b
	}

	h := hash.Sha256([]byte(s))
	return h.BytesBE()
}
