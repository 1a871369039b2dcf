package deploy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/trustful-labs/trustful-contract/contracts"
	"github.com/trustful-labs/trustful-contract/rpc/deployer"
	"github.com/trustful-labs/trustful-contract/rpc/scorerfactory"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the registry deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to the
	// blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// Prm groups all parameters of the registry deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy the registry to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// It becomes the factory creator.
	LocalAccount *wallet.Account

	// Compiled registry contracts.
	Contracts contracts.Set

	// Salt of the factory deployment, deployer.SaltLength bytes.
	FactorySalt []byte

	// Additional factory managers. Missing ones are added.
	Managers []util.Uint160

	// Factory policy to be set. Nil keeps the current one.
	Policy *scorerfactory.Policy
}

// Result describes the deployed registry.
type Result struct {
	Deployer    util.Uint160
	Factory     util.Uint160
	ScorerCode  util.Uint256
	FactoryCode util.Uint256
}

// Deploy brings the scorer registry described by Prm to the blockchain.
//
// Deploy is idempotent: each stage checks the chain state first and skips
// already done work, so the procedure can be safely repeated after a failure.
// Every transaction is awaited before the next stage. Summary of stages:
//  1. Deployer contract deployment
//  2. upload of the Scorer and ScorerFactory code to the Deployer
//  3. ScorerFactory deployment and initialization through the Deployer
//  4. addition of the extra factory managers
//  5. factory policy setting
func Deploy(ctx context.Context, prm Prm) (Result, error) {
	var res Result

	if len(prm.FactorySalt) != deployer.SaltLength {
		return res, fmt.Errorf("invalid factory salt length %d, expected %d", len(prm.FactorySalt), deployer.SaltLength)
	}

	localAcc := prm.LocalAccount.ScriptHash()

	res.Deployer = state.CreateContractHash(localAcc, prm.Contracts.Deployer.NEF.Checksum, prm.Contracts.Deployer.Manifest.Name)

	factoryNEF, factoryManifest, err := prm.Contracts.ScorerFactory.Code()
	if err != nil {
		return res, fmt.Errorf("encode factory code: %w", err)
	}

	res.Factory = deployer.Address(localAcc, prm.Contracts.ScorerFactory.NEF.Checksum,
		prm.Contracts.ScorerFactory.Manifest.Name, localAcc, prm.FactorySalt)

	// the factory checks creator's witness when called by the Deployer, so
	// the signature must be valid in both contracts
	act, err := actor.New(prm.Blockchain, []actor.SignerAccount{{
		Signer: transaction.Signer{
			Account:          localAcc,
			Scopes:           transaction.CalledByEntry | transaction.CustomContracts,
			AllowedContracts: []util.Uint160{res.Deployer, res.Factory},
		},
		Account: prm.LocalAccount,
	}})
	if err != nil {
		return res, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	prm.Logger.Info("synchronizing Deployer contract with the chain...")

	err = deployDeployer(ctx, prm, act, res.Deployer)
	if err != nil {
		return res, fmt.Errorf("sync Deployer contract with the chain: %w", err)
	}

	prm.Logger.Info("Deployer contract successfully synchronized", zap.Stringer("address", res.Deployer))

	deployerContract := deployer.New(act, res.Deployer)
	deployerReader := deployer.NewReader(invoker.New(prm.Blockchain, nil), res.Deployer)

	res.ScorerCode, err = uploadCode(ctx, prm.Logger, act, deployerContract, deployerReader, prm.Contracts.Scorer)
	if err != nil {
		return res, fmt.Errorf("upload Scorer code: %w", err)
	}

	res.FactoryCode, err = uploadCode(ctx, prm.Logger, act, deployerContract, deployerReader, prm.Contracts.ScorerFactory)
	if err != nil {
		return res, fmt.Errorf("upload ScorerFactory code: %w", err)
	}

	if ch := deployer.CodeHash(factoryNEF, factoryManifest); !ch.Equals(res.FactoryCode) {
		return res, fmt.Errorf("factory code hash mismatch: uploaded %s, calculated %s", res.FactoryCode.StringLE(), ch.StringLE())
	}

	prm.Logger.Info("synchronizing ScorerFactory contract with the chain...")

	addr, err := deployerReader.GetDeployment(localAcc, prm.FactorySalt)
	switch {
	case err == nil:
		if !addr.Equals(res.Factory) {
			return res, fmt.Errorf("factory deployed at unexpected address %s", addr.StringLE())
		}

		prm.Logger.Info("ScorerFactory contract is already deployed", zap.Stringer("address", addr))
	case errors.Is(err, deployer.ErrNotDeployed):
		err = await(ctx, act, "deploy ScorerFactory")(deployerContract.Deploy(localAcc, res.FactoryCode,
			prm.FactorySalt, "initialize", []any{localAcc, res.ScorerCode}))
		if err != nil {
			return res, err
		}

		prm.Logger.Info("ScorerFactory contract successfully deployed", zap.Stringer("address", res.Factory))
	default:
		return res, fmt.Errorf("get factory deployment: %w", err)
	}

	factory := scorerfactory.New(act, res.Factory)

	for i := range prm.Managers {
		isManager, err := factory.IsManager(prm.Managers[i])
		if err != nil {
			return res, fmt.Errorf("check factory manager %s: %w", prm.Managers[i].StringLE(), err)
		}

		if isManager {
			prm.Logger.Debug("factory manager is already set", zap.Stringer("manager", prm.Managers[i]))
			continue
		}

		err = await(ctx, act, "add factory manager")(factory.AddManager(localAcc, prm.Managers[i]))
		if err != nil {
			return res, err
		}

		prm.Logger.Info("factory manager added", zap.Stringer("manager", prm.Managers[i]))
	}

	if prm.Policy != nil {
		cur, err := factory.GetPolicy()
		if err != nil {
			return res, fmt.Errorf("get factory policy: %w", err)
		}

		if *cur != *prm.Policy {
			err = await(ctx, act, "set factory policy")(factory.SetPolicy(localAcc,
				prm.Policy.ManagerOnlyCreate, prm.Policy.KeepLastManager))
			if err != nil {
				return res, err
			}

			prm.Logger.Info("factory policy set",
				zap.Bool("managerOnlyCreate", prm.Policy.ManagerOnlyCreate),
				zap.Bool("keepLastManager", prm.Policy.KeepLastManager))
		} else {
			prm.Logger.Debug("factory policy is already set")
		}
	}

	return res, nil
}

func deployDeployer(ctx context.Context, prm Prm, act *actor.Actor, addr util.Uint160) error {
	_, err := prm.Blockchain.GetContractStateByHash(addr)
	if err == nil {
		prm.Logger.Debug("Deployer contract is already deployed")
		return nil
	}

	if !isErrContractNotFound(err) {
		return fmt.Errorf("get Deployer contract state: %w", err)
	}

	c := prm.Contracts.Deployer

	return await(ctx, act, "deploy Deployer")(management.New(act).Deploy(&c.NEF, &c.Manifest, nil))
}

func uploadCode(ctx context.Context, l *zap.Logger, act *actor.Actor, d *deployer.Contract, r *deployer.ContractReader, c contracts.Contract) (util.Uint256, error) {
	bNEF, jManifest, err := c.Code()
	if err != nil {
		return util.Uint256{}, fmt.Errorf("encode code: %w", err)
	}

	h := deployer.CodeHash(bNEF, jManifest)

	_, err = r.GetCode(h)
	if err == nil {
		l.Debug("code is already uploaded", zap.String("name", c.Manifest.Name), zap.Stringer("hash", h))
		return h, nil
	}

	err = await(ctx, act, "upload code")(d.Upload(bNEF, jManifest))
	if err != nil {
		return util.Uint256{}, err
	}

	l.Info("code uploaded", zap.String("name", c.Manifest.Name), zap.Stringer("hash", h))

	return h, nil
}

// await returns function waiting for the transaction sent by act to be
// accepted and checking that it finished with 'HALT' state.
func await(ctx context.Context, act *actor.Actor, op string) func(util.Uint256, uint32, error) error {
	return func(txHash util.Uint256, vub uint32, err error) error {
		if err != nil {
			return fmt.Errorf("%s: send transaction: %w", op, err)
		}

		res, err := act.WaitAny(ctx, vub, txHash)
		if err != nil {
			return fmt.Errorf("%s: wait for transaction %s: %w", op, txHash.StringLE(), err)
		}

		if !res.VMState.HasFlag(vmstate.Halt) {
			return fmt.Errorf("%s: transaction %s failed: %s", op, txHash.StringLE(), res.FaultException)
		}

		return nil
	}
}

func isErrContractNotFound(err error) bool {
	return strings.Contains(err.Error(), "Unknown contract")
}
