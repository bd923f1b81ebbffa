package loomtest

import (
	"crypto/rand"
	"crypto/sha256"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/loom"
	"golang.org/x/crypto/ed25519"
)

// NewKey returns a random ed25519 private key.
func NewKey() solana.PrivateKey {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		panic(err)
	}
	return solana.PrivateKey(ed25519.NewKeyFromSeed(seed))
}

// KeyFromPhrase deterministically derives a private key from given phrase.
// Use it when a test needs stable addresses between runs.
func KeyFromPhrase(phrase string) solana.PrivateKey {
	seed := sha256.Sum256([]byte(phrase))
	return solana.PrivateKey(ed25519.NewKeyFromSeed(seed[:]))
}

// NewAddress returns the address of a freshly generated key.
func NewAddress() loom.Address {
	return loom.Address(NewKey().PublicKey())
}

// SequenceAddress returns an address made of the given byte repeated. Handy
// for program ids and accounts that never sign.
func SequenceAddress(b byte) loom.Address {
	var a loom.Address
	for i := range a {
		a[i] = b
	}
	return a
}
