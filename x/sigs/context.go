package sigs

import (
	"context"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/x"
)

type signersKey struct{}

// only the Decorator sets signers
func withSigners(ctx loom.Context, signers []loom.Address) loom.Context {
	return context.WithValue(ctx, signersKey{}, signers)
}

// Authenticate reads the signers verified by the Decorator.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetSigners returns nil when no Decorator ran.
func (Authenticate) GetSigners(ctx loom.Context) []loom.Address {
	signers, _ := ctx.Value(signersKey{}).([]loom.Address)
	return signers
}

func (a Authenticate) HasAddress(ctx loom.Context, addr loom.Address) bool {
	for _, s := range a.GetSigners(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}
