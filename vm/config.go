package vm

import (
	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/gconf"
)

const (
	// ConfigPkg is the gconf package of the runtime configuration.
	ConfigPkg = "vm"
	// RentPkg is the gconf package of the rent parameters.
	RentPkg = "rent"
)

// Configuration of the runtime. It is stored with gconf and can be set in
// genesis under conf.vm.
type Configuration struct {
	// MaxCallDepth limits the number of nested program calls, the top
	// level instruction included.
	MaxCallDepth uint32 `json:"max_call_depth"`
}

// DefaultConfiguration is used when genesis declares none.
func DefaultConfiguration() Configuration {
	return Configuration{MaxCallDepth: 4}
}

func (c Configuration) Validate() error {
	if c.MaxCallDepth == 0 {
		return errors.Wrap(errors.ErrModel, "max call depth must be positive")
	}
	if c.MaxCallDepth > 64 {
		return errors.Wrapf(errors.ErrModel, "max call depth %d too big", c.MaxCallDepth)
	}
	return nil
}

func (c Configuration) Marshal() ([]byte, error) {
	raw, err := bin.MarshalBorsh(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return raw, nil
}

func (c *Configuration) Unmarshal(raw []byte) error {
	if err := bin.UnmarshalBorsh(c, raw); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

// LoadConfiguration returns the stored configuration or the default one.
func LoadConfiguration(db gconf.ReadStore) (Configuration, error) {
	var c Configuration
	switch err := gconf.Load(db, ConfigPkg, &c); {
	case err == nil:
		return c, nil
	case errors.ErrNotFound.Is(err):
		return DefaultConfiguration(), nil
	default:
		return c, err
	}
}

// LoadRent returns the stored rent parameters or the default ones.
func LoadRent(db gconf.ReadStore) (loom.Rent, error) {
	var r loom.Rent
	switch err := gconf.Load(db, RentPkg, &r); {
	case err == nil:
		return r, nil
	case errors.ErrNotFound.Is(err):
		return loom.DefaultRent(), nil
	default:
		return r, err
	}
}

// ConfigInitializer loads conf.vm and conf.rent from genesis. Both are
// optional.
func ConfigInitializer() loom.Initializer {
	return loom.MultiInitializer{
		gconf.Initializer{
			Pkg:      ConfigPkg,
			New:      func() gconf.Configuration { return new(Configuration) },
			Optional: true,
		},
		gconf.Initializer{
			Pkg:      RentPkg,
			New:      func() gconf.Configuration { return new(loom.Rent) },
			Optional: true,
		},
	}
}
