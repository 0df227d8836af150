package deploy

import (
	"context"
	"errors"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// deployedChain is a Blockchain with some contracts already deployed.
// Methods sending transactions are not implemented, actor can not be
// created since network version is unavailable.
type deployedChain struct {
	Blockchain

	contracts map[util.Uint160]*state.Contract
	requested []util.Uint160

	// result of Master contracts method, nil means FAULT
	bound []util.Uint160
}

var errNoVersion = errors.New("version is unavailable")

// GetVersion implements [Blockchain] interface.
func (c *deployedChain) GetVersion() (*result.Version, error) {
	return nil, errNoVersion
}

// InvokeFunction implements [Blockchain] interface.
func (c *deployedChain) InvokeFunction(_ util.Uint160, method string, _ []smartcontract.Parameter, _ []transaction.Signer) (*result.Invoke, error) {
	if method != "contracts" || c.bound == nil {
		return &result.Invoke{State: vmstate.Fault.String(), FaultException: "method not found"}, nil
	}

	items := make([]stackitem.Item, len(c.bound))
	for i := range c.bound {
		items[i] = stackitem.NewBuffer(c.bound[i].BytesBE())
	}
	return &result.Invoke{
		State: vmstate.Halt.String(),
		Stack: []stackitem.Item{stackitem.NewArray(items)},
	}, nil
}

// GetContractStateByHash implements [Blockchain] interface.
func (c *deployedChain) GetContractStateByHash(h util.Uint160) (*state.Contract, error) {
	c.requested = append(c.requested, h)

	st, ok := c.contracts[h]
	if !ok {
		return nil, errors.New("Unknown contract")
	}
	return st, nil
}

func testDeployPrm(t *testing.T) Prm {
	acc, err := wallet.NewAccount()
	require.NoError(t, err)

	newPrm := func(name string, script byte) CommonDeployPrm {
		f, err := nef.NewFile([]byte{script})
		require.NoError(t, err)
		return CommonDeployPrm{NEF: *f, Manifest: *manifest.NewManifest(name)}
	}

	return Prm{
		Logger:          zaptest.NewLogger(t),
		LocalAccount:    acc,
		AccountContract: newPrm("IBetYou Account", 1),
		BetContract:     newPrm("IBetYou Bet", 2),
		MasterContract:  newPrm("IBetYou Master", 3),
	}
}

func TestContractAddresses(t *testing.T) {
	prm := testDeployPrm(t)
	sender := prm.LocalAccount.ScriptHash()

	addrs := ContractAddresses(sender, prm)
	require.Equal(t, state.CreateContractHash(sender, prm.AccountContract.NEF.Checksum, "IBetYou Account"), addrs.Account)
	require.Equal(t, state.CreateContractHash(sender, prm.BetContract.NEF.Checksum, "IBetYou Bet"), addrs.Bet)
	require.Equal(t, state.CreateContractHash(sender, prm.MasterContract.NEF.Checksum, "IBetYou Master"), addrs.Master)

	require.NotEqual(t, addrs, ContractAddresses(util.Uint160{1}, prm))
}

func TestDeployArgs(t *testing.T) {
	owner := util.Uint160{1}
	addrs := Addresses{
		Account: util.Uint160{2},
		Bet:     util.Uint160{3},
		Master:  util.Uint160{4},
	}

	accountArgs, betArgs, masterArgs := DeployArgs(owner, addrs)
	require.Equal(t, []any{owner, addrs.Master}, accountArgs)
	require.Equal(t, []any{owner, addrs.Master}, betArgs)
	require.Equal(t, []any{owner, addrs.Account, addrs.Bet}, masterArgs)
}

func TestDeploy(t *testing.T) {
	t.Run("missing account", func(t *testing.T) {
		prm := testDeployPrm(t)
		prm.LocalAccount = nil

		_, err := Deploy(context.Background(), prm)
		require.Error(t, err)
	})

	t.Run("already deployed", func(t *testing.T) {
		prm := testDeployPrm(t)
		addrs := ContractAddresses(prm.LocalAccount.ScriptHash(), prm)

		chain := &deployedChain{contracts: map[util.Uint160]*state.Contract{
			addrs.Account: {ContractBase: state.ContractBase{NEF: prm.AccountContract.NEF}},
			addrs.Bet:     {ContractBase: state.ContractBase{NEF: prm.BetContract.NEF}},
			// differs, but update is disabled
			addrs.Master: {ContractBase: state.ContractBase{NEF: prm.AccountContract.NEF}},
		}}
		prm.Blockchain = chain

		res, err := Deploy(context.Background(), prm)
		require.NoError(t, err)
		require.Equal(t, addrs, res)
		require.Equal(t, []util.Uint160{addrs.Account, addrs.Bet, addrs.Master}, chain.requested)
	})

	t.Run("fresh deploy", func(t *testing.T) {
		prm := testDeployPrm(t)
		addrs := ContractAddresses(prm.LocalAccount.ScriptHash(), prm)
		chain := &deployedChain{}
		prm.Blockchain = chain

		_, err := Deploy(context.Background(), prm)
		require.ErrorIs(t, err, errNoVersion)
		require.ErrorContains(t, err, "deploy contract")
		require.Equal(t, []util.Uint160{addrs.Account}, chain.requested)
	})

	t.Run("update without Master", func(t *testing.T) {
		prm := testDeployPrm(t)
		chain := &deployedChain{}
		prm.Blockchain = chain
		prm.Update = true

		_, err := Deploy(context.Background(), prm)
		require.ErrorIs(t, err, ErrMissingMaster)
		require.Empty(t, chain.requested)
	})

	// Contracts deployed from the older code live at addresses which can not
	// be derived from the current NEF files.
	deployedV1 := func(t *testing.T, prm Prm) (*deployedChain, Addresses) {
		v1 := Addresses{
			Account: util.Uint160{0xa1},
			Bet:     util.Uint160{0xb1},
			Master:  util.Uint160{0xc1},
		}
		oldNEF, err := nef.NewFile([]byte{0xff})
		require.NoError(t, err)

		return &deployedChain{
			contracts: map[util.Uint160]*state.Contract{
				v1.Account: {ContractBase: state.ContractBase{NEF: *oldNEF}},
				v1.Bet:     {ContractBase: state.ContractBase{NEF: prm.BetContract.NEF}},
				v1.Master:  {ContractBase: state.ContractBase{NEF: prm.MasterContract.NEF}},
			},
			bound: []util.Uint160{v1.Account, v1.Bet},
		}, v1
	}

	t.Run("update existing", func(t *testing.T) {
		prm := testDeployPrm(t)
		chain, v1 := deployedV1(t, prm)
		prm.Blockchain = chain
		prm.Master = v1.Master
		prm.Update = true

		require.NotEqual(t, v1.Account, ContractAddresses(prm.LocalAccount.ScriptHash(), prm).Account)

		_, err := Deploy(context.Background(), prm)
		require.ErrorIs(t, err, errNoVersion)
		require.ErrorContains(t, err, "update contract")
		require.Equal(t, []util.Uint160{v1.Account}, chain.requested)
	})

	t.Run("existing without update", func(t *testing.T) {
		prm := testDeployPrm(t)
		chain, v1 := deployedV1(t, prm)
		prm.Blockchain = chain
		prm.Master = v1.Master

		res, err := Deploy(context.Background(), prm)
		require.NoError(t, err)
		require.Equal(t, v1, res)
		require.Equal(t, []util.Uint160{v1.Account, v1.Bet, v1.Master}, chain.requested)
	})

	t.Run("existing contract missing", func(t *testing.T) {
		prm := testDeployPrm(t)
		chain, v1 := deployedV1(t, prm)
		delete(chain.contracts, v1.Account)
		prm.Blockchain = chain
		prm.Master = v1.Master
		prm.Update = true

		_, err := Deploy(context.Background(), prm)
		require.ErrorContains(t, err, "missing on the chain")
	})

	t.Run("unreadable Master", func(t *testing.T) {
		prm := testDeployPrm(t)
		chain, v1 := deployedV1(t, prm)
		chain.bound = nil
		prm.Blockchain = chain
		prm.Master = v1.Master
		prm.Update = true

		_, err := Deploy(context.Background(), prm)
		require.ErrorContains(t, err, "read contracts of Master")
		require.Empty(t, chain.requested)
	})

	t.Run("canceled", func(t *testing.T) {
		prm := testDeployPrm(t)
		chain := &deployedChain{}
		prm.Blockchain = chain

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Deploy(ctx, prm)
		require.ErrorIs(t, err, context.Canceled)
		require.Empty(t, chain.requested)
	})
}
