package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/neo"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// CommitteeAddress returns multisignature address of the current Neo
// committee.
func CommitteeAddress() interop.Hash160 {
	committee := neo.GetCommittee()
	if committee == nil {
		panic("failed to get committee")
	}

	l := len(committee)
	return interop.Hash160(contract.CreateMultisigAccount(l-(l-1)/2, committee))
}

// HasUpdateAccess returns true if contract can be updated.
func HasUpdateAccess() bool {
	return runtime.CheckWitness(CommitteeAddress())
}
