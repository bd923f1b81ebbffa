/*
Package checker validates the accounts handed to an instruction without
changing any of them.
*/
package checker

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/x/system"
)

// ProgramID of the checker program.
var ProgramID = loom.MustParseAddress("Checker111111111111111111111111111111111111")

// TagCheckAccounts is the only instruction of the program.
const TagCheckAccounts uint8 = 0

// Program is the checker program.
type Program struct{}

var _ loom.Program = Program{}

// NewCheckAccountsInstruction builds the instruction in the account order
// Process expects.
func NewCheckAccountsInstruction(payer, toCreate, toChange loom.Address) loom.Instruction {
	return loom.Instruction{
		ProgramID: ProgramID,
		Accounts: []loom.AccountMeta{
			loom.ReadOnly(payer, true),
			loom.ReadOnly(toCreate, false),
			loom.Writable(toChange, false),
			loom.ReadOnly(system.ProgramID, false),
		},
		Data: []byte{TagCheckAccounts},
	}
}

func (Program) Process(ctx loom.Context, _ loom.Host, programID loom.Address, accounts []*loom.AccountInfo, data []byte) error {
	if programID == system.ProgramID {
		return errors.Wrap(errors.ErrIncorrectProgramID, "cannot run as the system program")
	}
	if tag, _, err := loom.SplitInstructionData(data); err != nil {
		return err
	} else if tag != TagCheckAccounts {
		return errors.Wrapf(errors.ErrInvalidInstruction, "unknown tag %d", tag)
	}
	if len(accounts) < 4 {
		loom.Log(ctx, "This instruction requires 4 accounts:")
		loom.Log(ctx, "  payer, account_to_create, account_to_change, system_program")
		return errors.Wrapf(errors.ErrNotEnoughAccountKeys, "got %d accounts", len(accounts))
	}

	c := loom.NewAccountCursor(accounts)
	if _, err := c.NextSigner(); err != nil {
		return err
	}
	toCreate, _ := c.Next()
	toChange, _ := c.Next()
	sys, _ := c.Next()

	loom.Logf(ctx, "New account: %s", toCreate.Key)
	if toCreate.Lamports != 0 {
		return errors.Wrapf(errors.ErrAccountAlreadyInitialized, "account to create %s holds lamports", toCreate.Key)
	}
	loom.Logf(ctx, "Account to change: %s", toChange.Key)
	if toChange.Lamports == 0 {
		return errors.Wrapf(errors.ErrUninitializedAccount, "account to change %s", toChange.Key)
	}
	if !toChange.IsOwnedBy(programID) {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "account to change %s is owned by %s", toChange.Key, toChange.Owner)
	}
	if sys.Key != system.ProgramID {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "system program %s", sys.Key)
	}
	return nil
}
