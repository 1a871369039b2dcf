package deployer

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/trustful-labs/trustful-contract/common"
	"github.com/trustful-labs/trustful-contract/contracts/deployer/deployerconst"
)

const (
	codePrefix = 'c'
	saltPrefix = 's'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		common.CheckUpdateData(data)
		return
	}

	runtime.Log("deployer contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("deployer contract updated")
}

// Upload stores NEF and JSON manifest in the code registry and returns
// code hash: SHA-256 of NEF concatenated with manifest. Repeated upload of
// the same code returns the same hash and does not produce notification.
//
// Manifest name is used as a template: contract instances are named
// '<template>#<suffix>', see Deploy.
func Upload(nef []byte, manifest []byte) interop.Hash256 {
	if len(nef) == 0 {
		panic(deployerconst.ErrInvalidNEF)
	}
	if len(manifest) == 0 || len(common.ManifestName(manifest)) == 0 {
		panic(deployerconst.ErrInvalidManifest)
	}

	ctx := storage.GetContext()

	hash := crypto.Sha256(append(nef, manifest...))
	key := append([]byte{codePrefix}, hash...)
	if storage.Get(ctx, key) != nil {
		return hash
	}

	common.SetSerialized(ctx, key, deployerconst.Code{
		NEF:      nef,
		Manifest: manifest,
	})

	runtime.Notify("CodeUploaded", hash)

	return hash
}

// GetCode returns code uploaded with the given hash. It panics with
// deployerconst.ErrCodeNotFound if there is no such code.
func GetCode(hash interop.Hash256) deployerconst.Code {
	ctx := storage.GetReadOnlyContext()
	return getCode(ctx, hash)
}

// Deploy instantiates code with the given hash at the address derived from
// invoker and salt and invokes initFn method of the new contract with
// initArgs within the same transaction. It returns a pair of the new contract
// address and the initFn result.
//
// Invoker's witness is required unless the invoker is the Deployer itself.
// Salt must be deployerconst.SaltLength bytes long and is consumed on
// success: repeated Deploy with the same invoker and salt fails. Failing
// initFn reverts the whole deployment, so the salt stays available.
//
// The instance is deployed with the Deployer address as _deploy data.
func Deploy(invoker interop.Hash160, codeHash interop.Hash256, salt []byte, initFn string, initArgs []any) []any {
	common.CheckWitnessUnlessSelf(invoker)

	if len(salt) != deployerconst.SaltLength {
		panic(deployerconst.ErrInvalidSalt)
	}

	ctx := storage.GetContext()

	id := common.SaltID(invoker, salt)
	saltKey := append([]byte{saltPrefix}, id...)
	if storage.Get(ctx, saltKey) != nil {
		panic(deployerconst.ErrSaltUsed)
	}

	code := getCode(ctx, codeHash)
	name := common.InstanceName(common.ManifestName(code.Manifest), id)

	c := management.DeployWithData(code.NEF, common.RenameManifest(code.Manifest, name),
		runtime.GetExecutingScriptHash())

	res := contract.Call(c.Hash, initFn, contract.All, initArgs...)

	storage.Put(ctx, saltKey, c.Hash)
	runtime.Notify("Deployed", invoker, c.Hash, codeHash)

	return []any{c.Hash, res}
}

// GetDeployment returns address of the contract deployed by invoker with
// the given salt or nil if there is no such deployment.
func GetDeployment(invoker interop.Hash160, salt []byte) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()

	data := storage.Get(ctx, append([]byte{saltPrefix}, common.SaltID(invoker, salt)...))
	if data == nil {
		return nil
	}

	return data.(interop.Hash160)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func getCode(ctx storage.Context, hash interop.Hash256) deployerconst.Code {
	data := storage.Get(ctx, append([]byte{codePrefix}, hash...))
	if data == nil {
		panic(deployerconst.ErrCodeNotFound)
	}

	return std.Deserialize(data.([]byte)).(deployerconst.Code)
}
