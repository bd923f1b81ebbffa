package app

import (
	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/x/sigs"
)

// Tx is the transaction format of the chain. It is borsh encoded.
type Tx struct {
	Instructions []loom.Instruction
	Signatures   []sigs.StdSignature
	Memo         string
}

// signedContent is the part of a Tx covered by signatures.
type signedContent struct {
	Instructions []loom.Instruction
	Memo         string
}

var _ loom.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (loom.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

func (tx *Tx) GetInstructions() []loom.Instruction {
	return tx.Instructions
}

// GetSignatures returns pointers into the signature list.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	if len(tx.Signatures) == 0 {
		return nil
	}
	res := make([]*sigs.StdSignature, len(tx.Signatures))
	for i := range tx.Signatures {
		res[i] = &tx.Signatures[i]
	}
	return res
}

// GetSignBytes returns the bytes to sign. Signatures are never part of
// them.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	raw, err := bin.MarshalBorsh(signedContent{Instructions: tx.Instructions, Memo: tx.Memo})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// Sign appends the signature of signer bound to chainID and seq.
func (tx *Tx) Sign(signer sigs.Signer, chainID string, seq int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, *sig)
	return nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	raw, err := bin.MarshalBorsh(tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

func (tx *Tx) Unmarshal(raw []byte) error {
	if err := bin.UnmarshalBorsh(tx, raw); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
