package gconf

import (
	"github.com/iov-one/loom"
)

// Initializer loads the configuration of a single package from the "conf"
// section of the genesis file.
type Initializer struct {
	// Pkg is the configuration key, both in genesis and in the store.
	Pkg string
	// New returns an empty configuration object to decode into.
	New func() Configuration
	// Optional makes a missing genesis entry a no-op.
	Optional bool
}

var _ loom.Initializer = Initializer{}

// FromGenesis stores the configuration of Pkg found in genesis.
func (i Initializer) FromGenesis(opts loom.Options, params loom.GenesisParams, db loom.KVStore) error {
	if i.Optional {
		if section, err := confSection(opts); err != nil || section[i.Pkg] == nil {
			return nil
		}
	}
	return InitConfig(db, opts, i.Pkg, i.New())
}
