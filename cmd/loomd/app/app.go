// Package app wires the programs, decorators and stores of loomd.
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/app"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/ledger"
	"github.com/iov-one/loom/store/iavl"
	"github.com/iov-one/loom/vm"
	"github.com/iov-one/loom/x"
	"github.com/iov-one/loom/x/checker"
	"github.com/iov-one/loom/x/escrow"
	"github.com/iov-one/loom/x/lever"
	"github.com/iov-one/loom/x/sigs"
	"github.com/iov-one/loom/x/system"
	"github.com/iov-one/loom/x/token"
	"github.com/iov-one/loom/x/utils"
	"github.com/iov-one/loom/x/vault"
)

// Authenticator accepts the signers verified by the sigs decorator.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Programs returns the registry of every program this chain runs.
func Programs() *vm.Registry {
	r := vm.NewRegistry()
	r.Register(system.ProgramID, "system", system.Program{})
	r.Register(token.ProgramID, "token", token.Program{})
	r.Register(escrow.ProgramID, "escrow", escrow.Program{})
	r.Register(lever.ProgramID, "lever", lever.Program{})
	r.Register(vault.ProgramID, "vault", vault.Program{})
	r.Register(checker.ProgramID, "checker", checker.Program{})
	return r
}

// Chain is the decorator stack in front of the executor. The first
// savepoint keeps CheckTx from leaking state of a rejected transaction.
// The second sits after signature verification, so a transaction failing
// in DeliverTx still uses up its sequence but changes no account.
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		utils.NewProgramTagger(),
		utils.NewSavepoint().OnDeliver(),
	)
}

// Stack is the handler given to BaseApp. metrics may be nil.
func Stack(registry *vm.Registry, metrics *vm.Metrics) loom.Handler {
	exec := vm.NewExecutor(registry, Authenticator())
	if metrics != nil {
		exec = exec.WithMetrics(metrics)
	}
	return Chain().WithHandler(exec)
}

// QueryRouter serves "/accounts", "/accounts/owner" and "/auth".
func QueryRouter() loom.QueryRouter {
	r := loom.NewQueryRouter()
	r.RegisterAll(ledger.RegisterQuery, sigs.RegisterQuery)
	return r
}

// Initializers returns the genesis loaders in run order. Rent must be
// configured before accounts are created.
func Initializers(registry *vm.Registry) loom.Initializer {
	return loom.MultiInitializer{
		vm.ConfigInitializer(),
		registry,
		ledger.Initializer{},
		token.Initializer{},
	}
}

// Application builds the abci application over the store at dbPath.
func Application(name string, h loom.Handler, decoder loom.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	return app.NewBaseApp(store, decoder, h, debug), nil
}

// CommitKVStore opens the iavl store at dbPath, or an in-memory one for
// an empty path. A ".db" suffix is dropped since the backend adds it.
func CommitKVStore(dbPath string) (loom.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "database path %q", dbPath)
	}
	path = strings.TrimSuffix(path, filepath.Ext(path))
	return iavl.NewCommitStore(filepath.Dir(path), filepath.Base(path))
}
