package loom

import (
	"bytes"
	"encoding/json"

	"github.com/iov-one/loom/errors"
)

// Handler is a core engine that can process a transaction.
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality like
// authentication, or logging, to every transaction.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Options are the app options. Each extension can look up its key and
// parse the json as desired.
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key, and parses the
// json into the given obj. Returns an error if it cannot parse. Noop and no
// error if key is missing.
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Stream expects an array of json elements under key and returns a
// function that decodes one element at a time into the given object. The
// function returns ErrEmpty once all elements were read, and ErrState when
// called again after that or after any failure.
func (o Options) Stream(key string) (func(obj interface{}) error, error) {
	data, ok := o[key]
	if !ok {
		return nil, errors.Wrapf(errors.ErrEmpty, "no %q key", key)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	started, closed := false, false
	return func(obj interface{}) error {
		if closed {
			return errors.Wrap(errors.ErrState, "stream closed")
		}
		if !started {
			started = true
			tok, err := dec.Token()
			if err != nil {
				closed = true
				return errors.Wrap(errors.ErrInput, err.Error())
			}
			if d, ok := tok.(json.Delim); !ok || d != '[' {
				closed = true
				return errors.Wrap(errors.ErrInput, "array expected")
			}
		}
		if !dec.More() {
			closed = true
			return errors.ErrEmpty
		}
		if err := dec.Decode(obj); err != nil {
			closed = true
			return errors.Wrap(errors.ErrInput, err.Error())
		}
		return nil
	}, nil
}

// Initializer implementations are used to initialize extensions from
// genesis file contents.
type Initializer interface {
	FromGenesis(Options, GenesisParams, KVStore) error
}

// GenesisParams are the chain parameters every initializer may need.
type GenesisParams struct {
	ChainID string
	Height  int64
}

// MultiInitializer combines many Initializers into one.
type MultiInitializer []Initializer

// FromGenesis runs all the initializers in order.
func (m MultiInitializer) FromGenesis(opts Options, params GenesisParams, kv KVStore) error {
	for _, i := range m {
		if err := i.FromGenesis(opts, params, kv); err != nil {
			return err
		}
	}
	return nil
}
