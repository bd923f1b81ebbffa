package server

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/store"
	"github.com/spf13/cobra"
)

// ValidateGenesis runs the initializer over the app_state of every given
// genesis file against a throwaway store.
func ValidateGenesis(ini loom.Initializer, genesisPaths []string) error {
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini loom.Initializer, genesisPath string) error {
	b, err := ioutil.ReadFile(genesisPath)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	var genesis struct {
		ChainID string       `json:"chain_id"`
		State   loom.Options `json:"app_state"`
	}
	if err := json.Unmarshal(b, &genesis); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot JSON deserialize genesis: %s", err)
	}
	if genesis.State == nil {
		return errors.Wrap(errors.ErrEmpty, "app_state")
	}

	// Use in memory store because we want to discard the result.
	db := store.MemStore()

	params := loom.GenesisParams{ChainID: genesis.ChainID}
	if err := ini.FromGenesis(genesis.State, params, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}

// ValidateCmd checks that the given genesis files can be loaded by the
// application.
func ValidateCmd(ini loom.Initializer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <genesis.json>...",
		Short: "Validate the app_state of genesis files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ValidateGenesis(ini, args)
		},
	}
}
