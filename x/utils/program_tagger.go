package utils

import (
	"github.com/iov-one/loom"
	"github.com/tendermint/tendermint/libs/common"
)

// ProgramTagger adds a `program = <program id>` tag for every distinct
// program invoked by the top level instructions of a transaction. Clients
// use it to search or subscribe to all transactions touching a program.
type ProgramTagger struct{}

var _ loom.Decorator = ProgramTagger{}

// ProgramKey is used by ProgramTagger as the Key in the Tag it appends
const ProgramKey = "program"

// NewProgramTagger creates a ProgramTagger decorator
func NewProgramTagger() ProgramTagger {
	return ProgramTagger{}
}

// Check just passes the request along
func (ProgramTagger) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Checker) (*loom.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends tags on the result if there is a success.
func (ProgramTagger) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Deliverer) (*loom.DeliverResult, error) {
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	for _, id := range programsOf(tx) {
		res.Tags = append(res.Tags, common.KVPair{
			Key:   []byte(ProgramKey),
			Value: []byte(id.String()),
		})
	}
	return res, nil
}

// programsOf lists the distinct programs called by the top level
// instructions of tx, in call order.
func programsOf(tx loom.Tx) []loom.Address {
	if tx == nil {
		return nil
	}
	var ids []loom.Address
	seen := make(map[loom.Address]bool)
	for _, ix := range tx.GetInstructions() {
		if !seen[ix.ProgramID] {
			seen[ix.ProgramID] = true
			ids = append(ids, ix.ProgramID)
		}
	}
	return ids
}
