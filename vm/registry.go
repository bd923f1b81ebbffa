package vm

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/ledger"
)

var isProgramName = regexp.MustCompile(`^[a-z0-9_]+$`).MatchString

type registered struct {
	name    string
	program loom.Program
}

// Registry maps program ids to the code that executes them.
type Registry struct {
	programs map[loom.Address]registered
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{programs: make(map[loom.Address]registered)}
}

// Register adds a program under given id. The name is used in logs and
// metrics. It panics if the id is already taken.
func (r *Registry) Register(id loom.Address, name string, p loom.Program) {
	if !isProgramName(name) {
		panic(fmt.Sprintf("invalid program name: %q", name))
	}
	if prev, ok := r.programs[id]; ok {
		panic(fmt.Sprintf("program %s already registered as %s", id, prev.name))
	}
	r.programs[id] = registered{name: name, program: p}
}

// Program returns the program registered under id.
func (r *Registry) Program(id loom.Address) (loom.Program, bool) {
	p, ok := r.programs[id]
	return p.program, ok
}

// Name returns the name of a registered program, or the id in base58 for
// an unknown one.
func (r *Registry) Name(id loom.Address) string {
	if p, ok := r.programs[id]; ok {
		return p.name
	}
	return id.String()
}

// IDs returns all registered program ids in ascending order.
func (r *Registry) IDs() []loom.Address {
	ids := make([]loom.Address, 0, len(r.programs))
	for id := range r.programs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return string(ids[i].Bytes()) < string(ids[j].Bytes())
	})
	return ids
}

var _ loom.Initializer = (*Registry)(nil)

// FromGenesis stores an executable account for every registered program
// that does not have one yet.
func (r *Registry) FromGenesis(opts loom.Options, params loom.GenesisParams, db loom.KVStore) error {
	b := ledger.NewBucket()
	for _, id := range r.IDs() {
		acct, err := b.Load(db, id)
		if err != nil {
			return err
		}
		if acct != nil {
			continue
		}
		acct = &loom.Account{Lamports: 1, Owner: ledger.NativeLoaderID, Executable: true}
		if err := b.Store(db, id, acct); err != nil {
			return err
		}
	}
	return nil
}
