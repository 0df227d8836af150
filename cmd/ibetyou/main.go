// Command ibetyou deploys escrow betting contracts, operates bets on behalf
// of the wallet account and monitors the contracts.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app is a state shared by all commands.
type app struct {
	v          *viper.Viper
	configPath string

	cfg    *config
	logger *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "ibetyou",
		Short: "IBetYou escrow betting on Neo",
		Long: `ibetyou operates IBetYou escrow contracts: Account keeps user balances,
Bet stores bets and guards their state machine, Master is the entry point
authenticating users. Configuration is read from the YAML file, IBETYOU_*
environment variables (e.g. IBETYOU_WALLET_PASSWORD) and flags.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&a.configPath, "config", "c", "", "path to YAML configuration file")
	f.String("rpc", "", "Neo RPC server endpoint")
	f.String("wallet", "", "path to NEP-6 wallet")
	f.String("address", "", "wallet account address (first account by default)")
	f.String("master", "", "Master contract address or LE script hash")
	f.String("log-level", "", "logging level")

	for key, flag := range map[string]string{
		cfgRPCEndpoint:     "rpc",
		cfgWalletPath:      "wallet",
		cfgWalletAddress:   "address",
		cfgContractsMaster: "master",
		cfgLoggerLevel:     "log-level",
	} {
		_ = a.v.BindPFlag(key, f.Lookup(flag))
	}

	cmd.AddCommand(
		a.deployCmd(),
		a.addBalanceCmd(),
		a.signIncreaseCmd(),
		a.increaseBalanceCmd(),
		a.createBetCmd(),
		a.joinCmd(),
		a.voteCmd(),
		a.solveDisputeCmd(),
		a.withdrawCmd(),
		a.statusCmd(),
		a.balanceCmd(),
		a.monitorCmd(),
	)

	return cmd
}

// init reads configuration and creates the logger before any command runs.
func (a *app) init(*cobra.Command, []string) error {
	cfg, err := loadConfig(a.v, a.configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Logger.Env, cfg.Logger.Level)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger

	return nil
}
