package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
)

// NameSeparator separates template name and instance suffix in manifest
// names of the contracts deployed from the code registry.
const NameSeparator = "#"

// SaltID returns identifier of the (invoker, salt) pair: RIPEMD-160 of
// their concatenation.
func SaltID(invoker interop.Hash160, salt []byte) []byte {
	return crypto.Ripemd160(append([]byte(invoker), salt...))
}

// InstanceName returns manifest name of the contract instance deployed from
// the code with template manifest name. Salt identifier is Base58-encoded.
func InstanceName(template string, saltID []byte) string {
	return template + NameSeparator + std.Base58Encode(saltID)
}

// ManifestName returns name field of the JSON-encoded manifest.
func ManifestName(manifest []byte) string {
	m := std.JSONDeserialize(manifest).(map[string]any)
	return m["name"].(string)
}

// RenameManifest returns JSON-encoded manifest with name field set to
// the given one. Other fields are kept as is.
func RenameManifest(manifest []byte, name string) []byte {
	m := std.JSONDeserialize(manifest).(map[string]any)
	m["name"] = name
	return std.JSONSerialize(m)
}
