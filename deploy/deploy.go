package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IBetYou/ibetyou-contract/rpc/fault"
	"github.com/IBetYou/ibetyou-contract/rpc/master"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for escrow contracts deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions.
	actor.RPCActor

	// GetApplicationLog returns execution results of the transaction. It is
	// used to await deployment transactions.
	GetApplicationLog(hash util.Uint256, trig *trigger.Type) (*result.ApplicationLog, error)

	// GetContractStateByHash returns network state of the smart contract by
	// its address. It returns error if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Prm groups all parameters of the escrow deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy contracts to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// It is the sender of deployment transactions, so contract addresses
	// depend on it.
	LocalAccount *wallet.Account

	// Owner of the deployed contracts. Zero value means LocalAccount.
	Owner util.Uint160

	// Address of the already deployed Master contract. When set, addresses
	// of Account and Bet contracts are read from it instead of being
	// calculated from the local NEF files, which change with any code
	// change. All three contracts must be present on the chain then.
	Master util.Uint160

	// Update contracts which are already deployed with different NEF. Update
	// requires committee witness, so LocalAccount must be the committee
	// account. Requires Master to be set.
	Update bool

	AccountContract CommonDeployPrm
	BetContract     CommonDeployPrm
	MasterContract  CommonDeployPrm
}

// Addresses groups addresses of escrow contracts.
type Addresses struct {
	Account util.Uint160
	Bet     util.Uint160
	Master  util.Uint160
}

// ContractAddresses calculates addresses of escrow contracts deployed by the
// sender. Contracts refer to each other, so all addresses are known before
// any of them is deployed.
func ContractAddresses(sender util.Uint160, prm Prm) Addresses {
	return Addresses{
		Account: contractAddress(sender, prm.AccountContract),
		Bet:     contractAddress(sender, prm.BetContract),
		Master:  contractAddress(sender, prm.MasterContract),
	}
}

// DeployArgs returns _deploy arguments of Account, Bet and Master contracts
// respectively.
func DeployArgs(owner util.Uint160, addrs Addresses) (accountArgs, betArgs, masterArgs []any) {
	accountArgs = []any{owner, addrs.Master}
	betArgs = []any{owner, addrs.Master}
	masterArgs = []any{owner, addrs.Account, addrs.Bet}
	return
}

// Deploy deploys escrow contracts to the Neo network represented by given
// Prm.Blockchain.
//
// Deploy is idempotent: contracts already present on the chain are skipped
// or updated if Prm.Update is set. Stages:
//  1. Account contract deployment
//  2. Bet contract deployment
//  3. Master contract deployment
//
// If Prm.Master is set, the existing deployment is synchronized in place
// and no contract is deployed anew.
func Deploy(ctx context.Context, prm Prm) (Addresses, error) {
	if prm.LocalAccount == nil {
		return Addresses{}, errors.New("missing local account")
	}

	deployed := !prm.Master.Equals(util.Uint160{})
	if prm.Update && !deployed {
		return Addresses{}, ErrMissingMaster
	}

	sender := prm.LocalAccount.ScriptHash()
	owner := prm.Owner
	if owner.Equals(util.Uint160{}) {
		owner = sender
	}

	var (
		addrs Addresses
		err   error
	)
	if deployed {
		addrs, err = DeployedAddresses(prm.Blockchain, prm.Master)
		if err != nil {
			return Addresses{}, err
		}
	} else {
		addrs = ContractAddresses(sender, prm)
	}

	accountArgs, betArgs, masterArgs := DeployArgs(owner, addrs)

	d := &deployer{
		logger:     prm.Logger,
		blockchain: prm.Blockchain,
		localAcc:   prm.LocalAccount,
		update:     prm.Update,
		mustExist:  deployed,
	}

	for _, c := range []struct {
		name    string
		address util.Uint160
		prm     CommonDeployPrm
		args    []any
	}{
		{"Account", addrs.Account, prm.AccountContract, accountArgs},
		{"Bet", addrs.Bet, prm.BetContract, betArgs},
		{"Master", addrs.Master, prm.MasterContract, masterArgs},
	} {
		select {
		case <-ctx.Done():
			return Addresses{}, fmt.Errorf("wait for %s contract synchronization: %w", c.name, ctx.Err())
		default:
		}

		prm.Logger.Info("synchronizing contract with the chain...",
			zap.String("contract", c.name), zap.Stringer("address", c.address))

		err := d.syncContract(c.address, c.prm, c.args)
		if err != nil {
			return Addresses{}, fmt.Errorf("sync %s contract with the chain: %w", c.name, err)
		}

		prm.Logger.Info("contract successfully synchronized",
			zap.String("contract", c.name), zap.Stringer("address", c.address))
	}

	return addrs, nil
}

// ErrMissingMaster is returned by Deploy when update is requested without
// the address of the deployed Master contract.
var ErrMissingMaster = errors.New("update requires address of the deployed Master contract")

// DeployedAddresses returns addresses of escrow contracts bound to the
// deployed Master contract.
func DeployedAddresses(b Blockchain, masterAddr util.Uint160) (Addresses, error) {
	accountAddr, betAddr, err := master.NewReader(invoker.New(b, nil), masterAddr).Contracts()
	if err != nil {
		return Addresses{}, fmt.Errorf("read contracts of Master %s: %w", masterAddr.StringLE(), err)
	}

	return Addresses{
		Account: accountAddr,
		Bet:     betAddr,
		Master:  masterAddr,
	}, nil
}

type deployer struct {
	logger     *zap.Logger
	blockchain Blockchain
	localAcc   *wallet.Account
	update     bool
	mustExist  bool

	act *actor.Actor
}

func (d *deployer) getActor() (*actor.Actor, error) {
	if d.act != nil {
		return d.act, nil
	}

	act, err := actor.NewSimple(d.blockchain, d.localAcc)
	if err != nil {
		return nil, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	d.act = act
	return act, nil
}

func (d *deployer) syncContract(address util.Uint160, prm CommonDeployPrm, args []any) error {
	onChain, err := d.blockchain.GetContractStateByHash(address)
	if err == nil && onChain != nil {
		if onChain.NEF.Checksum == prm.NEF.Checksum {
			d.logger.Info("contract is already deployed, skip", zap.Stringer("address", address))
			return nil
		}

		if !d.update {
			d.logger.Warn("contract on the chain differs from the local one, update is disabled",
				zap.Stringer("address", address),
				zap.Uint32("on-chain checksum", onChain.NEF.Checksum),
				zap.Uint32("local checksum", prm.NEF.Checksum))
			return nil
		}

		return d.updateContract(address, prm)
	}

	if d.mustExist {
		return fmt.Errorf("contract %s is missing on the chain", address.StringLE())
	}

	d.logger.Info("contract is missing on the chain, deploying...", zap.Stringer("address", address))

	act, err := d.getActor()
	if err != nil {
		return fmt.Errorf("deploy contract: %w", err)
	}

	res, err := act.Wait(management.New(act).Deploy(&prm.NEF, &prm.Manifest, args))
	if err != nil {
		return fmt.Errorf("deploy contract: %w", err)
	}

	err = fault.CheckExecution(res)
	if err != nil {
		return fmt.Errorf("deploy contract: %w", err)
	}

	d.logger.Info("contract deployed", zap.Stringer("tx", res.Container))

	return nil
}

func (d *deployer) updateContract(address util.Uint160, prm CommonDeployPrm) error {
	d.logger.Info("updating contract on the chain...", zap.Stringer("address", address))

	act, err := d.getActor()
	if err != nil {
		return fmt.Errorf("update contract: %w", err)
	}

	bNEF, err := prm.NEF.Bytes()
	if err != nil {
		return fmt.Errorf("encode NEF: %w", err)
	}

	bManifest, err := json.Marshal(&prm.Manifest)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	res, err := act.Wait(act.SendCall(address, "update", bNEF, bManifest, nil))
	if err != nil {
		return fmt.Errorf("update contract: %w", err)
	}

	err = fault.CheckExecution(res)
	if err != nil {
		return fmt.Errorf("update contract: %w", err)
	}

	d.logger.Info("contract updated", zap.Stringer("tx", res.Container))

	return nil
}

func contractAddress(sender util.Uint160, prm CommonDeployPrm) util.Uint160 {
	return state.CreateContractHash(sender, prm.NEF.Checksum, prm.Manifest.Name)
}
