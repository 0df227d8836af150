package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/IBetYou/ibetyou-contract/metrics"
	"github.com/IBetYou/ibetyou-contract/monitor"
	"github.com/IBetYou/ibetyou-contract/rpc/master"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func (a *app) monitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Follow contract notifications and serve metrics",
		Long: `Subscribe to notifications of Account and Bet contracts over WebSocket RPC
and export bet and balance metrics on /metrics. /healthz reports the RPC
connection state.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMonitor(cmd.Context())
		},
	}

	cmd.Flags().String("metrics-address", "", "listen address of the metrics server")
	_ = a.v.BindPFlag(cfgMetricsAddress, cmd.Flags().Lookup("metrics-address"))

	return cmd
}

func (a *app) runMonitor(ctx context.Context) error {
	masterHash, err := parseHash(a.cfg.Contracts.Master)
	if err != nil {
		return fmt.Errorf("invalid Master contract address: %w", err)
	}

	ws, err := rpcclient.NewWS(ctx, a.cfg.RPC.Endpoint, rpcclient.WSOptions{
		Options: rpcclient.Options{
			DialTimeout:    a.cfg.RPC.DialTimeout,
			RequestTimeout: a.cfg.RPC.RequestTimeout,
		},
	})
	if err != nil {
		return fmt.Errorf("WebSocket RPC client dial: %w", err)
	}
	defer ws.Close()

	if err := ws.Init(); err != nil {
		return fmt.Errorf("init WebSocket RPC client: %w", err)
	}

	accountHash, betHash, err := master.NewReader(invoker.New(ws, nil), masterHash).Contracts()
	if err != nil {
		return fmt.Errorf("get escrow contracts from Master: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	mon := monitor.New(a.logger, metrics.NewMonitor(reg), accountHash, betHash)

	srvErr := make(chan error, 1)
	srv := metrics.StartServer(a.cfg.Metrics.Address, reg, metrics.WithContext(func() error {
		_, err := ws.GetBlockCount()
		return err
	}), srvErr)

	a.logger.Info("metrics server started", zap.String("address", a.cfg.Metrics.Address))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	monErr := make(chan error, 1)
	go func() { monErr <- mon.Run(ctx, ws) }()

	select {
	case err = <-monErr:
	case err = <-srvErr:
		cancel()
		<-monErr
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()

	if shErr := srv.Shutdown(shutdownCtx); shErr != nil && !errors.Is(shErr, http.ErrServerClosed) {
		a.logger.Warn("metrics server shutdown", zap.Error(shErr))
	}

	if err != nil {
		return fmt.Errorf("monitor: %w", err)
	}

	a.logger.Info("monitor stopped")
	return nil
}
