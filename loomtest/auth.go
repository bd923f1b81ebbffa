package loomtest

import (
	"context"
	"fmt"

	"github.com/iov-one/loom"
)

// Auth is an x.Authenticator with a fixed set of signers: Signers plus
// Signer when it is not zero.
type Auth struct {
	Signer  loom.Address
	Signers []loom.Address
}

func (a *Auth) GetSigners(loom.Context) []loom.Address {
	if a.Signer.IsZero() {
		return a.Signers
	}
	return append(a.Signers, a.Signer)
}

func (a *Auth) HasAddress(ctx loom.Context, addr loom.Address) bool {
	return contains(a.GetSigners(ctx), addr)
}

// CtxAuth is an x.Authenticator reading signers stored in the context
// under Key, so tests can vary signers per call.
type CtxAuth struct {
	Key string
}

func (a *CtxAuth) SetSigners(ctx loom.Context, signers ...loom.Address) loom.Context {
	return context.WithValue(ctx, a.Key, signers)
}

// GetSigners panics if something other than signers is stored under Key.
func (a *CtxAuth) GetSigners(ctx loom.Context) []loom.Address {
	switch v := ctx.Value(a.Key).(type) {
	case nil:
		return nil
	case []loom.Address:
		return v
	default:
		panic(fmt.Sprintf("context key %q holds %T", a.Key, v))
	}
}

func (a *CtxAuth) HasAddress(ctx loom.Context, addr loom.Address) bool {
	return contains(a.GetSigners(ctx), addr)
}

func contains(all []loom.Address, addr loom.Address) bool {
	for _, a := range all {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}
