package client

import (
	"fmt"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/x/utils"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	tmtypes "github.com/tendermint/tendermint/types"
)

// TransactionID is the tendermint hash of a transaction.
type TransactionID = cmn.HexBytes

type (
	RequestQuery  = abci.RequestQuery
	ResponseQuery = abci.ResponseQuery
)

// TxQuery is a tendermint event query over transaction tags.
type TxQuery = string

// CommitResult is the outcome of a transaction included in a block. Only
// one of Result and Err is set.
type CommitResult struct {
	ID     TransactionID
	Height int64
	Result *loom.DeliverResult
	Err    error
}

// Status is what the client needs from the node status.
type Status struct {
	Height     int64
	CatchingUp bool
}

// Header is a tendermint block header
type Header = tmtypes.Header

// Option tunes a subscription.
type Option interface {
	isOption()
}

// OptionCapacity sets the buffer of the event channel tendermint hands out.
type OptionCapacity struct {
	Capacity int
}

func (OptionCapacity) isOption() {}

// QueryTxByID matches exactly one transaction.
func QueryTxByID(id TransactionID) TxQuery {
	return fmt.Sprintf("%s='%X'", tmtypes.TxHashKey, id)
}

// QueryForHeader matches every new block header.
func QueryForHeader() string {
	return queryForEvent(tmtypes.EventNewBlockHeader)
}

// QueryForProgram matches every transaction with a top level instruction
// of the given program.
func QueryForProgram(programID loom.Address) TxQuery {
	return fmt.Sprintf("%s='%s'", utils.ProgramKey, programID)
}

func queryForEvent(eventType string) string {
	return fmt.Sprintf("%s='%s'", tmtypes.EventTypeKey, eventType)
}
