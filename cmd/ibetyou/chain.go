package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/IBetYou/ibetyou-contract/client"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
)

// remoteChain is a connection to the Neo RPC server on behalf of the wallet
// account.
type remoteChain struct {
	rpc     *rpcclient.Client
	actor   *actor.Actor
	account *wallet.Account
}

// dialChain opens the wallet account and dials Neo RPC server. Connection
// and all requests are done within configured timeouts.
func dialChain(ctx context.Context, cfg *config) (*remoteChain, error) {
	acc, err := openAccount(cfg)
	if err != nil {
		return nil, err
	}

	c, err := rpcclient.New(ctx, cfg.RPC.Endpoint, rpcclient.Options{
		DialTimeout:    cfg.RPC.DialTimeout,
		RequestTimeout: cfg.RPC.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	act, err := actor.NewSimple(c, acc)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init actor: %w", err)
	}

	return &remoteChain{
		rpc:     c,
		actor:   act,
		account: acc,
	}, nil
}

func (x *remoteChain) close() {
	x.rpc.Close()
}

// publicKey returns public key of the wallet account.
func (x *remoteChain) publicKey() *keys.PublicKey {
	return x.account.PrivateKey().PublicKey()
}

// openAccount reads the configured wallet and decrypts its account. The
// first account is used if no address is configured.
func openAccount(cfg *config) (*wallet.Account, error) {
	if cfg.Wallet.Path == "" {
		return nil, errors.New("missing wallet path")
	}

	w, err := wallet.NewWalletFromFile(cfg.Wallet.Path)
	if err != nil {
		return nil, fmt.Errorf("read wallet: %w", err)
	}

	var acc *wallet.Account
	if cfg.Wallet.Address != "" {
		h, err := address.StringToUint160(cfg.Wallet.Address)
		if err != nil {
			return nil, fmt.Errorf("invalid wallet address: %w", err)
		}
		acc = w.GetAccount(h)
		if acc == nil {
			return nil, fmt.Errorf("account %s not found in the wallet", cfg.Wallet.Address)
		}
	} else {
		if len(w.Accounts) == 0 {
			return nil, errors.New("wallet has no accounts")
		}
		acc = w.Accounts[0]
	}

	if err := acc.Decrypt(cfg.Wallet.Password, w.Scrypt); err != nil {
		return nil, fmt.Errorf("decrypt account %s: %w", acc.Address, err)
	}

	return acc, nil
}

// newClient creates escrow client over the connection.
func (a *app) newClient(x *remoteChain) (*client.Client, error) {
	masterHash, err := parseHash(a.cfg.Contracts.Master)
	if err != nil {
		return nil, fmt.Errorf("invalid Master contract address: %w", err)
	}

	var accountHash util.Uint160
	if a.cfg.Contracts.Account != "" {
		accountHash, err = parseHash(a.cfg.Contracts.Account)
		if err != nil {
			return nil, fmt.Errorf("invalid Account contract address: %w", err)
		}
	}

	return client.New(client.Prm{
		Logger:  a.logger,
		Actor:   x.actor,
		Master:  masterHash,
		Account: accountHash,
	})
}

// parseHash parses contract script hash given either as Neo address or as
// LE hex string with optional 0x prefix.
func parseHash(s string) (util.Uint160, error) {
	if s == "" {
		return util.Uint160{}, errors.New("empty contract address")
	}

	if h, err := address.StringToUint160(s); err == nil {
		return h, nil
	}

	return util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
}
