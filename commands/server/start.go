package server

import (
	"net/http"

	"github.com/iov-one/loom/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	FlagBind    = "bind"
	FlagDebug   = "debug"
	FlagMetrics = "metrics"
)

// Options are passed to an AppGenerator. They are collected from flags,
// environment and the home directory.
type Options struct {
	Home   string
	Logger log.Logger
	// Debug returns full error stacks to the client.
	Debug bool
	// Registerer receives the application metrics.
	Registerer prometheus.Registerer
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(*Options) (abci.Application, error)

// StartCmd runs the abci server until the process is signaled.
func StartCmd(gen AppGenerator, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer(gen, logger)
		},
	}
	flags := cmd.Flags()
	flags.String(FlagBind, "tcp://localhost:26658", "address server listens on")
	flags.Bool(FlagDebug, false, "call stack returned on error")
	flags.String(FlagMetrics, "", "address of the prometheus endpoint, disabled if empty")
	for _, name := range []string{FlagBind, FlagDebug, FlagMetrics} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
	return cmd
}

func startServer(gen AppGenerator, logger log.Logger) error {
	addr := viper.GetString(FlagBind)
	reg := prometheus.NewRegistry()

	app, err := gen(&Options{
		Home:       viper.GetString(FlagHome),
		Logger:     logger,
		Debug:      viper.GetBool(FlagDebug),
		Registerer: reg,
	})
	if err != nil {
		return err
	}

	if metricsAddr := viper.GetString(FlagMetrics); metricsAddr != "" {
		go serveMetrics(metricsAddr, reg, logger.With("module", "metrics"))
	}

	logger.Info("Starting ABCI app", "bind", addr)
	svr, err := server.NewServer(addr, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "creating listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrState, "starting server: %s", err)
	}

	// Wait forever
	cmn.TrapSignal(logger, func() {
		if err := svr.Stop(); err != nil {
			logger.Error("Stopping server", "err", err)
		}
	})
	select {}
}

func serveMetrics(addr string, g prometheus.Gatherer, logger log.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	logger.Info("Serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics server stopped", "err", err)
	}
}
