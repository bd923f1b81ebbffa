package x

import (
	"github.com/iov-one/loom"
)

// Authenticator tells who authorized the transaction of a context. The
// executor asks it which accounts of an instruction are signers, so the
// signature scheme can be swapped without touching the programs.
type Authenticator interface {
	GetSigners(loom.Context) []loom.Address
	HasAddress(loom.Context, loom.Address) bool
}

// MultiAuth accepts the signers of any of its Authenticators.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth{}

func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth(impls)
}

// GetSigners concatenates the signers in Authenticator order.
func (m MultiAuth) GetSigners(ctx loom.Context) []loom.Address {
	var all []loom.Address
	for _, a := range m {
		all = append(all, a.GetSigners(ctx)...)
	}
	return all
}

func (m MultiAuth) HasAddress(ctx loom.Context, addr loom.Address) bool {
	for _, a := range m {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}
