package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/IBetYou/ibetyou-contract/auth"
	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}

	require.ElementsMatch(t, []string{
		"deploy", "add-balance", "sign-increase", "increase-balance",
		"create-bet", "join", "vote", "solve-dispute", "withdraw",
		"status", "balance", "monitor",
	}, names)

	for _, flag := range []string{"config", "rpc", "wallet", "address", "master", "log-level"} {
		require.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestParseHash(t *testing.T) {
	h := util.Uint160{1, 2, 3}

	for _, s := range []string{h.StringLE(), "0x" + h.StringLE(), address.Uint160ToString(h)} {
		got, err := parseHash(s)
		require.NoError(t, err, s)
		require.Equal(t, h, got, s)
	}

	for _, s := range []string{"", "0x01", "not a hash"} {
		_, err := parseHash(s)
		require.Error(t, err, s)
	}
}

func TestParseSignature(t *testing.T) {
	sig := make([]byte, auth.SignatureLen)
	sig[0] = 1

	got, err := parseSignature(base58.Encode(sig))
	require.NoError(t, err)
	require.Equal(t, sig, got)

	_, err = parseSignature(base58.Encode(sig[1:]))
	require.Error(t, err)

	_, err = parseSignature("0OIl")
	require.Error(t, err)
}

func newWallet(t *testing.T, password string) (string, *keys.PublicKey) {
	path := filepath.Join(t.TempDir(), "wallet.json")

	w, err := wallet.NewWallet(path)
	require.NoError(t, err)

	acc, err := wallet.NewAccount()
	require.NoError(t, err)
	pub := acc.PrivateKey().PublicKey()

	require.NoError(t, acc.Encrypt(password, w.Scrypt))
	w.AddAccount(acc)
	require.NoError(t, w.Save())

	return path, pub
}

func TestOpenAccount(t *testing.T) {
	path, pub := newWallet(t, "pass")

	cfg := &config{}
	cfg.Wallet.Path = path
	cfg.Wallet.Password = "pass"

	acc, err := openAccount(cfg)
	require.NoError(t, err)
	require.True(t, acc.PrivateKey().PublicKey().Equal(pub))

	cfg.Wallet.Address = address.Uint160ToString(pub.GetScriptHash())
	_, err = openAccount(cfg)
	require.NoError(t, err)

	cfg.Wallet.Address = address.Uint160ToString(util.Uint160{1})
	_, err = openAccount(cfg)
	require.Error(t, err)

	cfg.Wallet.Address = ""
	cfg.Wallet.Password = "wrong"
	_, err = openAccount(cfg)
	require.Error(t, err)

	cfg.Wallet.Path = ""
	_, err = openAccount(cfg)
	require.Error(t, err)
}

func TestSignIncrease(t *testing.T) {
	walletPath, pub := newWallet(t, "pass")
	accountHash := util.Uint160{1, 2, 3}

	cfgPath := writeConfig(t, fmt.Sprintf(`
wallet:
  path: %s
contracts:
  account: %q
logger:
  level: error
`, walletPath, accountHash.StringLE()))

	t.Setenv("IBETYOU_WALLET_PASSWORD", "pass")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", cfgPath, "sign-increase", "--amount", "25"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	fields := make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		kv := strings.Fields(line)
		require.Len(t, kv, 2, line)
		fields[strings.TrimSuffix(kv[0], ":")] = kv[1]
	}

	require.Equal(t, keyString(pub), fields["user"])

	sig, err := base58.Decode(fields["signature"])
	require.NoError(t, err)
	require.NoError(t, auth.Verify(pub, sig, auth.TagIncreaseBalance, accountHash, int64(25)))
	require.Error(t, auth.Verify(pub, sig, auth.TagIncreaseBalance, accountHash, int64(26)))
}

func TestSignOnlyVote(t *testing.T) {
	walletPath, pub := newWallet(t, "pass")
	masterHash := util.Uint160{4, 5, 6}

	cfgPath := writeConfig(t, fmt.Sprintf(`
wallet:
  path: %s
  password: pass
contracts:
  master: %s
logger:
  level: error
`, walletPath, address.Uint160ToString(masterHash)))

	candidate, err := keys.NewPrivateKey()
	require.NoError(t, err)
	betID := []byte("0123456789abcdef")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", cfgPath, "vote",
		"--bet", base58.Encode(betID),
		"--side", "counter-bettor",
		"--candidate", keyString(candidate.PublicKey()),
		"--sign-only",
	})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	sig, err := base58.Decode(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	require.NoError(t, auth.Verify(pub, sig, auth.TagCounterBettorJudgeVote, masterHash, betID, candidate.PublicKey().Bytes()))
	require.Error(t, auth.Verify(pub, sig, auth.TagBettorJudgeVote, masterHash, betID, candidate.PublicKey().Bytes()))

	t.Run("exclusive flags", func(t *testing.T) {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--config", cfgPath, "vote",
			"--bet", base58.Encode(betID),
			"--side", "bettor",
			"--candidate", keyString(candidate.PublicKey()),
			"--sign-only", "--signature", "abc",
		})
		require.Error(t, cmd.ExecuteContext(context.Background()))
	})
}
