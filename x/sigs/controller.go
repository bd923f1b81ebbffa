package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// SignCodeV1 starts every signed payload. It changes with the layout of
// the payload.
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// Signer produces ed25519 signatures. solana.PrivateKey implements it.
type Signer interface {
	Sign(payload []byte) (solana.Signature, error)
	PublicKey() solana.PublicKey
}

// VerifyTxSignatures verifies every signature of tx and bumps the
// sequence of each signer. It returns the signers in signature order and
// fails on the first bad signature.
func VerifyTxSignatures(db loom.KVStore, tx SignedTx, chainID string) ([]loom.Address, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	sigs := tx.GetSignatures()
	signers := make([]loom.Address, 0, len(sigs))
	for _, sig := range sigs {
		signer, err := VerifySignature(db, sig, payload, chainID)
		if err != nil {
			return nil, err
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature verifies sig over payload for chainID. The signature
// sequence must be the next sequence of the signer, which is then stored
// incremented.
func VerifySignature(db loom.KVStore, sig *StdSignature, payload []byte, chainID string) (loom.Address, error) {
	if err := sig.Validate(); err != nil {
		return loom.Address{}, err
	}
	digest, err := BuildSignBytes(payload, chainID, sig.Sequence)
	if err != nil {
		return loom.Address{}, err
	}

	users := NewBucket()
	obj, err := users.GetOrCreate(db, sig.Pubkey)
	if err != nil {
		return loom.Address{}, err
	}
	user := AsUser(obj)
	if !sig.Signature.Verify(user.Pubkey.PublicKey(), digest) {
		return loom.Address{}, errors.Wrapf(errors.ErrSignature, "signer %s", user.Pubkey)
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return loom.Address{}, err
	}
	return user.Pubkey, users.Save(db, obj)
}

// BuildSignBytes returns the sha512 digest signed for a transaction:
//
//	SignCodeV1 | len(chainID) as uint8 | chainID | seq as big endian uint64 | payload
//
// Binding the chain id and sequence makes a signature valid for one chain
// and one use.
func BuildSignBytes(payload []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(errors.ErrSequence, "negative")
	}
	if !loom.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	msg := make([]byte, 0, len(SignCodeV1)+1+len(chainID)+8+len(payload))
	msg = append(msg, SignCodeV1...)
	msg = append(msg, byte(len(chainID)))
	msg = append(msg, chainID...)
	msg = binary.BigEndian.AppendUint64(msg, uint64(seq))
	msg = append(msg, payload...)

	digest := sha512.Sum512(msg)
	return digest[:], nil
}

// BuildSignBytesTx is BuildSignBytes over the sign bytes of tx.
func BuildSignBytesTx(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	return BuildSignBytes(payload, chainID, seq)
}

// SignTx signs tx as the seq'th transaction of signer on chainID.
func SignTx(signer Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	digest, err := BuildSignBytesTx(tx, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, errors.Wrap(errors.ErrSignature, err.Error())
	}
	return &StdSignature{
		Pubkey:    loom.Address(signer.PublicKey()),
		Signature: sig,
		Sequence:  seq,
	}, nil
}
