package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, data string) string {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := loadConfig(viper.New(), "")
		require.NoError(t, err)
		require.Equal(t, "http://localhost:30333", cfg.RPC.Endpoint)
		require.Equal(t, 15*time.Second, cfg.RPC.DialTimeout)
		require.Equal(t, 15*time.Second, cfg.RPC.RequestTimeout)
		require.Equal(t, "info", cfg.Logger.Level)
		require.Equal(t, "prod", cfg.Logger.Env)
		require.Equal(t, ":9090", cfg.Metrics.Address)
		require.Empty(t, cfg.Wallet.Path)
		require.Empty(t, cfg.Contracts.Master)
	})

	t.Run("file and environment", func(t *testing.T) {
		path := writeConfig(t, `
rpc:
  endpoint: http://node:30333
  request_timeout: 30s
wallet:
  path: /etc/ibetyou/wallet.json
  address: NfgHwwTi3wHAS8aFAN243C5vGbkYDpqLHP
contracts:
  master: 0x0102030405060708090a0b0c0d0e0f1011121314
logger:
  level: debug
  env: local
`)

		t.Setenv("IBETYOU_WALLET_PASSWORD", "secret")
		t.Setenv("IBETYOU_RPC_DIAL_TIMEOUT", "3s")
		t.Setenv("IBETYOU_LOGGER_LEVEL", "warn")

		cfg, err := loadConfig(viper.New(), path)
		require.NoError(t, err)
		require.Equal(t, "http://node:30333", cfg.RPC.Endpoint)
		require.Equal(t, 3*time.Second, cfg.RPC.DialTimeout)
		require.Equal(t, 30*time.Second, cfg.RPC.RequestTimeout)
		require.Equal(t, "/etc/ibetyou/wallet.json", cfg.Wallet.Path)
		require.Equal(t, "NfgHwwTi3wHAS8aFAN243C5vGbkYDpqLHP", cfg.Wallet.Address)
		require.Equal(t, "secret", cfg.Wallet.Password)
		require.Equal(t, "0x0102030405060708090a0b0c0d0e0f1011121314", cfg.Contracts.Master)
		require.Equal(t, "warn", cfg.Logger.Level)
		require.Equal(t, "local", cfg.Logger.Env)
	})

	t.Run("flags", func(t *testing.T) {
		path := writeConfig(t, "rpc:\n  endpoint: http://file:30333\n")

		cmd := &cobra.Command{}
		cmd.Flags().String("rpc", "", "")
		require.NoError(t, cmd.Flags().Set("rpc", "http://flag:30333"))

		v := viper.New()
		require.NoError(t, v.BindPFlag(cfgRPCEndpoint, cmd.Flags().Lookup("rpc")))

		cfg, err := loadConfig(v, path)
		require.NoError(t, err)
		require.Equal(t, "http://flag:30333", cfg.RPC.Endpoint)
	})

	t.Run("unset flag", func(t *testing.T) {
		cmd := &cobra.Command{}
		cmd.Flags().String("rpc", "", "")

		v := viper.New()
		require.NoError(t, v.BindPFlag(cfgRPCEndpoint, cmd.Flags().Lookup("rpc")))

		cfg, err := loadConfig(v, "")
		require.NoError(t, err)
		require.Equal(t, "http://localhost:30333", cfg.RPC.Endpoint)
	})

	t.Run("quoted digits", func(t *testing.T) {
		const h = "0000000000000000000000000000000000030201"
		path := writeConfig(t, "contracts:\n  account: \""+h+"\"\n")

		cfg, err := loadConfig(viper.New(), path)
		require.NoError(t, err)
		require.Equal(t, h, cfg.Contracts.Account)
	})

	t.Run("digits from env", func(t *testing.T) {
		const h = "0000000000000000000000000000000000030201"
		t.Setenv("IBETYOU_CONTRACTS_MASTER", h)

		cfg, err := loadConfig(viper.New(), "")
		require.NoError(t, err)
		require.Equal(t, h, cfg.Contracts.Master)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadConfig(viper.New(), filepath.Join(t.TempDir(), "missing.yml"))
		require.Error(t, err)
	})

	t.Run("invalid", func(t *testing.T) {
		for name, data := range map[string]string{
			"empty endpoint":   "rpc:\n  endpoint: \"\"\n",
			"zero timeout":     "rpc:\n  dial_timeout: 0s\n",
			"negative timeout": "rpc:\n  request_timeout: -1s\n",
			"bad duration":     "rpc:\n  dial_timeout: soon\n",
			"numeric master":   "contracts:\n  master: 0000000000000000000000000000000000030201\n",
			"numeric account":  "contracts:\n  account: 1234\n",
		} {
			_, err := loadConfig(viper.New(), writeConfig(t, data))
			require.Error(t, err, name)
		}
	})
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"local", "prod"} {
		l, err := newLogger(env, "debug")
		require.NoError(t, err, env)
		require.True(t, l.Core().Enabled(-1), env)
	}

	l, err := newLogger("prod", "error")
	require.NoError(t, err)
	require.False(t, l.Core().Enabled(0))

	_, err = newLogger("prod", "loud")
	require.Error(t, err)
}
