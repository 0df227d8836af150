package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "IBETYOU"

// Configuration keys.
const (
	cfgRPCEndpoint       = "rpc.endpoint"
	cfgRPCDialTimeout    = "rpc.dial_timeout"
	cfgRPCRequestTimeout = "rpc.request_timeout"
	cfgWalletPath        = "wallet.path"
	cfgWalletAddress     = "wallet.address"
	cfgWalletPassword    = "wallet.password"
	cfgContractsMaster   = "contracts.master"
	cfgContractsAccount  = "contracts.account"
	cfgLoggerLevel       = "logger.level"
	cfgLoggerEnv         = "logger.env"
	cfgMetricsAddress    = "metrics.address"
)

type config struct {
	RPC struct {
		Endpoint       string        `mapstructure:"endpoint"`
		DialTimeout    time.Duration `mapstructure:"dial_timeout"`
		RequestTimeout time.Duration `mapstructure:"request_timeout"`
	} `mapstructure:"rpc"`

	Wallet struct {
		Path     string `mapstructure:"path"`
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
	} `mapstructure:"wallet"`

	Contracts struct {
		Master  string `mapstructure:"master"`
		Account string `mapstructure:"account"`
	} `mapstructure:"contracts"`

	Logger struct {
		Level string `mapstructure:"level"`
		Env   string `mapstructure:"env"`
	} `mapstructure:"logger"`

	Metrics struct {
		Address string `mapstructure:"address"`
	} `mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(cfgRPCEndpoint, "http://localhost:30333")
	v.SetDefault(cfgRPCDialTimeout, 15*time.Second)
	v.SetDefault(cfgRPCRequestTimeout, 15*time.Second)
	v.SetDefault(cfgWalletPath, "")
	v.SetDefault(cfgWalletAddress, "")
	v.SetDefault(cfgWalletPassword, "")
	v.SetDefault(cfgContractsMaster, "")
	v.SetDefault(cfgContractsAccount, "")
	v.SetDefault(cfgLoggerLevel, "info")
	v.SetDefault(cfgLoggerEnv, "prod")
	v.SetDefault(cfgMetricsAddress, ":9090")
}

// loadConfig reads configuration from defaults, the YAML file at path (if
// set), IBETYOU_* environment variables and flags already bound to v, in
// the increasing order of priority.
func loadConfig(v *viper.Viper, path string) (*config, error) {
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unquoted hex made of digits only is decoded from YAML as a number and
	// can not be turned back into the address.
	for _, key := range []string{cfgContractsMaster, cfgContractsAccount} {
		if val := v.Get(key); val != nil {
			if _, ok := val.(string); !ok {
				return nil, fmt.Errorf("%s must be a quoted string, got %T", key, val)
			}
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *config) validate() error {
	switch {
	case c.RPC.Endpoint == "":
		return errors.New("empty RPC endpoint")
	case c.RPC.DialTimeout <= 0:
		return fmt.Errorf("non-positive RPC dial timeout %s", c.RPC.DialTimeout)
	case c.RPC.RequestTimeout <= 0:
		return fmt.Errorf("non-positive RPC request timeout %s", c.RPC.RequestTimeout)
	}
	return nil
}
