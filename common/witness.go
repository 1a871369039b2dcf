package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// ErrUnauthorized appears when the caller either does not hold the role
// required by the method (creator, manager) or has not signed the
// transaction.
const ErrUnauthorized = "Unauthorized"

// CheckWitness checks witness of the passed caller.
// It panics with ErrUnauthorized message on fail.
func CheckWitness(caller interop.Hash160) {
	if !runtime.CheckWitness(caller) {
		panic(ErrUnauthorized)
	}
}

// CheckWitnessUnlessSelf is the same as CheckWitness, but it passes
// without any witness if caller is the executing contract itself.
func CheckWitnessUnlessSelf(caller interop.Hash160) {
	if caller.Equals(runtime.GetExecutingScriptHash()) {
		return
	}

	CheckWitness(caller)
}

// CheckRole panics with ErrUnauthorized if hasRole is false and checks
// caller's witness otherwise.
func CheckRole(caller interop.Hash160, hasRole bool) {
	if !hasRole {
		panic(ErrUnauthorized)
	}

	CheckWitness(caller)
}
