package server

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/loom/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cfg "github.com/tendermint/tendermint/config"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/privval"
	tmtypes "github.com/tendermint/tendermint/types"
	tmtime "github.com/tendermint/tendermint/types/time"
)

const (
	// FlagHome is the viper key of the node home directory.
	FlagHome = "home"

	appStateKey = "app_state"
	flagForce   = "force"
)

// GenOptions can parse command-line arguments to generate the default
// app_state of the genesis file. This is application specific.
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd will initialize all files for tendermint, along with a proper
// app_state. An existing app_state is only replaced when --force is set.
func InitCmd(gen GenOptions, logger log.Logger) *cobra.Command {
	c := initCmd{gen: gen, logger: logger}
	cmd := &cobra.Command{
		Use:   "init [args...]",
		Short: "Initialize the genesis file with the application state",
		RunE:  c.run,
	}
	cmd.Flags().Bool(flagForce, false, "overwrite an existing app_state")
	if err := viper.BindPFlag(flagForce, cmd.Flags().Lookup(flagForce)); err != nil {
		panic(err)
	}
	return cmd
}

type initCmd struct {
	gen    GenOptions
	logger log.Logger
}

func (c initCmd) run(cmd *cobra.Command, args []string) error {
	home := viper.GetString(FlagHome)
	if home == "" {
		return errors.Wrap(errors.ErrInput, "home directory not set")
	}
	cfg.EnsureRoot(home)
	config := cfg.DefaultConfig()
	config.SetRoot(home)

	if err := c.initTendermintFiles(config); err != nil {
		return err
	}

	genFile := config.GenesisFile()
	doc, err := readGenesis(genFile)
	if err != nil {
		return err
	}
	if len(doc[appStateKey]) > 0 && string(doc[appStateKey]) != "null" && !viper.GetBool(flagForce) {
		return errors.Wrapf(errors.ErrState, "%s already has an app_state, use --%s to replace it", genFile, flagForce)
	}

	options, err := c.gen(args)
	if err != nil {
		return err
	}
	doc[appStateKey] = options
	if err := writeGenesis(genFile, doc); err != nil {
		return err
	}
	c.logger.Info("App state written", "path", genFile)
	return nil
}

// initTendermintFiles creates the validator key and a single validator
// genesis file, unless they already exist.
func (c initCmd) initTendermintFiles(config *cfg.Config) error {
	keyFile := config.PrivValidatorKeyFile()
	stateFile := config.PrivValidatorStateFile()
	if cmn.FileExists(keyFile) {
		c.logger.Info("Found private validator", "path", keyFile)
	} else {
		c.logger.Info("Generated private validator", "path", keyFile)
	}
	pv := privval.LoadOrGenFilePV(keyFile, stateFile)

	genFile := config.GenesisFile()
	if cmn.FileExists(genFile) {
		c.logger.Info("Found genesis file", "path", genFile)
		return nil
	}
	genDoc := tmtypes.GenesisDoc{
		ChainID:         fmt.Sprintf("test-chain-%v", cmn.RandStr(6)),
		GenesisTime:     tmtime.Now(),
		ConsensusParams: tmtypes.DefaultConsensusParams(),
		Validators: []tmtypes.GenesisValidator{{
			Address: pv.GetPubKey().Address(),
			PubKey:  pv.GetPubKey(),
			Power:   10,
		}},
	}
	if err := genDoc.SaveAs(genFile); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	c.logger.Info("Generated genesis file", "path", genFile)
	return nil
}

// genesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type genesisDoc map[string]json.RawMessage

func readGenesis(filename string) (genesisDoc, error) {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var doc genesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "%s: %s", filename, err)
	}
	return doc, nil
}

func writeGenesis(filename string, doc genesisDoc) error {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0700); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := ioutil.WriteFile(filename, out, 0600); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
