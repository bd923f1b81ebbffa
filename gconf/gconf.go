package gconf

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// ReadStore is the part of loom.ReadOnlyKVStore Load needs.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is the part of loom.KVStore Save needs.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// Configuration is a package configuration record.
type Configuration interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
	Validate() error
}

// configKey is where the configuration of pkg lives.
func configKey(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates conf and stores it as the configuration of pkg,
// replacing any previous one.
func Save(db Store, pkg string, conf interface {
	Marshal() ([]byte, error)
	Validate() error
}) error {
	if err := conf.Validate(); err != nil {
		return errors.Wrapf(err, "%s configuration", pkg)
	}
	raw, err := conf.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal %s configuration", pkg)
	}
	return db.Set(configKey(pkg), raw)
}

// Load decodes the configuration of pkg into dst. It fails with
// ErrNotFound when pkg has none.
func Load(db ReadStore, pkg string, dst interface{ Unmarshal([]byte) error }) error {
	raw, err := db.Get(configKey(pkg))
	switch {
	case err != nil:
		return err
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "%s configuration", pkg)
	}
	return errors.Wrapf(dst.Unmarshal(raw), "unmarshal %s configuration", pkg)
}

// InitConfig reads opts["conf"][pkg] into conf and saves it.
func InitConfig(db Store, opts loom.Options, pkg string, conf Configuration) error {
	section, err := confSection(opts)
	if err != nil {
		return err
	}
	if section[pkg] == nil {
		return errors.Wrapf(errors.ErrNotFound, "genesis has no %s configuration", pkg)
	}
	if err := section.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(errors.ErrInput, "%s configuration: %s", pkg, err)
	}
	return Save(db, pkg, conf)
}

func confSection(opts loom.Options) (loom.Options, error) {
	var section loom.Options
	if err := opts.ReadOptions("conf", &section); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return section, nil
}
