package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/cmd/loomd/app"
	"github.com/iov-one/loom/commands/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	tmflags "github.com/tendermint/tendermint/libs/cli/flags"
	"github.com/tendermint/tendermint/libs/log"
)

const flagLogLevel = "log_level"

func main() {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "loom")

	root := &cobra.Command{
		Use:   "loomd",
		Short: "Loom program runtime node",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			filtered, err := tmflags.ParseLogLevel(viper.GetString(flagLogLevel), logger, "info")
			if err != nil {
				return err
			}
			logger = filtered
			return nil
		},
		SilenceUsage: true,
	}

	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".loom")
	root.PersistentFlags().String(server.FlagHome, defaultHome, "directory to store files under")
	root.PersistentFlags().String(flagLogLevel, "info", "log level, for example main:info,*:error")
	for _, name := range []string{server.FlagHome, flagLogLevel} {
		if err := viper.BindPFlag(name, root.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix("LOOM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Subcommands receive the logger lazily, after the level filter applied.
	lazy := lazyLogger{get: func() log.Logger { return logger }}
	registry := app.Programs()
	root.AddCommand(
		server.InitCmd(app.GenInitOptions, lazy),
		server.StartCmd(app.GenerateApp, lazy),
		server.ValidateCmd(app.Initializers(registry)),
		&cobra.Command{
			Use:   "version",
			Short: "Print the app version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println(loom.Version())
			},
		},
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

// lazyLogger forwards to the logger returned by get at call time.
type lazyLogger struct {
	get func() log.Logger
}

func (l lazyLogger) Debug(msg string, keyvals ...interface{}) { l.get().Debug(msg, keyvals...) }
func (l lazyLogger) Info(msg string, keyvals ...interface{})  { l.get().Info(msg, keyvals...) }
func (l lazyLogger) Error(msg string, keyvals ...interface{}) { l.get().Error(msg, keyvals...) }
func (l lazyLogger) With(keyvals ...interface{}) log.Logger   { return l.get().With(keyvals...) }
