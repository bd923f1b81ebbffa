package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/commands/server"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/ledger"
	"github.com/iov-one/loom/vm"
	"github.com/iov-one/loom/x/system"
	"github.com/iov-one/loom/x/token"
	abci "github.com/tendermint/tendermint/abci/types"
)

// FaucetLamports is the balance of the genesis faucet account.
const FaucetLamports = 1000000000000

// genesis is the app_state written by GenInitOptions.
type genesis struct {
	Accounts []ledger.GenesisAccount `json:"accounts"`
	Conf     genesisConf             `json:"conf"`
	Token    token.Genesis           `json:"token"`
}

type genesisConf struct {
	VM   vm.Configuration `json:"vm"`
	Rent loom.Rent        `json:"rent"`
}

// GenInitOptions will produce the app_state for one rich account, to use
// for dev mode.
//
// The optional first argument is the base58 address of the faucet. If it
// is missing a key is generated and its secret printed to stdout.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var faucet loom.Address
	if len(args) > 0 {
		addr, err := loom.ParseAddress(args[0])
		if err != nil {
			return nil, errors.Wrap(err, "faucet address")
		}
		faucet = addr
	} else {
		key, err := solana.NewRandomPrivateKey()
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
		faucet = loom.Address(key.PublicKey())
		fmt.Printf("faucet %s\nsecret %s\n", faucet, key)
	}

	gen := genesis{
		Accounts: []ledger.GenesisAccount{
			{Address: faucet, Lamports: FaucetLamports, Owner: system.ProgramID},
		},
		Conf: genesisConf{
			VM:   vm.DefaultConfiguration(),
			Rent: loom.DefaultRent(),
		},
		Token: token.Genesis{
			Mints:    []token.GenesisMint{},
			Accounts: []token.GenesisAccount{},
		},
	}
	raw, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(options *server.Options) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if options.Home != "" {
		dbPath = filepath.Join(options.Home, "loom.db")
	}

	var metrics *vm.Metrics
	if options.Registerer != nil {
		metrics = vm.NewMetrics(options.Registerer)
	}

	registry := Programs()
	application, err := Application("loom", Stack(registry, metrics), TxDecoder, dbPath, options.Debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers(registry))
	application.WithLogger(options.Logger)
	return application, nil
}
