package main

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// remoteBlockchain reads contract states and storage from the RPC node at
// a fixed height, so all dumped contracts are consistent with each other.
type remoteBlockchain struct {
	rpc    *rpcclient.Client
	height uint32
}

func newRemoteBlockchain(c *rpcclient.Client) (*remoteBlockchain, error) {
	count, err := c.GetBlockCount()
	if err != nil {
		return nil, fmt.Errorf("get block count: %w", err)
	}
	if count < 2 {
		return nil, fmt.Errorf("too few blocks in the chain: %d", count)
	}

	// state root of the last block may be not ready yet
	return &remoteBlockchain{rpc: c, height: count - 2}, nil
}

func (x *remoteBlockchain) contractState(h util.Uint160) (state.Contract, error) {
	cs, err := x.rpc.GetContractStateByHash(h)
	if err != nil {
		return state.Contract{}, fmt.Errorf("get contract %s: %w", h.StringLE(), err)
	}

	return *cs, nil
}

// iterateContractStorage passes all storage items of the contract to f until
// f returns an error.
func (x *remoteBlockchain) iterateContractStorage(contract util.Uint160, f func(key, value []byte) error) error {
	root, err := x.rpc.GetStateRootByHeight(x.height)
	if err != nil {
		return fmt.Errorf("get state root at #%d: %w", x.height, err)
	}

	var start []byte

	for {
		res, err := x.rpc.FindStates(root.Root, contract, nil, start, nil)
		if err != nil {
			return fmt.Errorf("find storage items of %s at %s: %w", contract.StringLE(), root.Root, err)
		}

		for _, kv := range res.Results {
			if err = f(kv.Key, kv.Value); err != nil {
				return err
			}
		}

		if !res.Truncated || len(res.Results) == 0 {
			return nil
		}

		start = res.Results[len(res.Results)-1].Key
	}
}
