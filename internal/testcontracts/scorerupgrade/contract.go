package scorerupgrade

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/trustful-labs/trustful-contract/contracts/scorer/scorerconst"
)

// nolint:deadcode,unused
func _deploy(_ any, isUpdate bool) {
	if isUpdate {
		runtime.Log("next scorer revision installed")
	}
}

func ContractVersion() int {
	return scorerconst.ContractVersion + 1
}

func GetMetadata() scorerconst.Metadata {
	val := storage.Get(storage.GetReadOnlyContext(), "meta")
	if val == nil {
		return scorerconst.Metadata{}
	}
	return std.Deserialize(val.([]byte)).(scorerconst.Metadata)
}

func GetContractOwner() interop.Hash160 {
	return storage.Get(storage.GetReadOnlyContext(), "creator").(interop.Hash160)
}

func IsUser(user interop.Hash160) bool {
	val := storage.Get(storage.GetReadOnlyContext(), append([]byte{'u'}, user...))
	return val != nil && std.Deserialize(val.([]byte)).(bool)
}
