package system

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// Program is the system program.
type Program struct{}

var _ loom.Program = Program{}

func (Program) Process(ctx loom.Context, host loom.Host, programID loom.Address, accounts []*loom.AccountInfo, data []byte) error {
	tag, payload, err := loom.SplitInstructionData(data)
	if err != nil {
		return err
	}
	switch tag {
	case TagCreateAccount:
		var args CreateAccountArgs
		if err := loom.DecodeInstructionArgs(payload, &args); err != nil {
			return err
		}
		return createAccount(ctx, accounts, args)
	case TagAssign:
		var args AssignArgs
		if err := loom.DecodeInstructionArgs(payload, &args); err != nil {
			return err
		}
		return assign(ctx, accounts, args)
	case TagTransfer:
		var args TransferArgs
		if err := loom.DecodeInstructionArgs(payload, &args); err != nil {
			return err
		}
		return transfer(ctx, accounts, args)
	default:
		return errors.Wrapf(errors.ErrInvalidInstruction, "unknown tag %d", tag)
	}
}

func createAccount(ctx loom.Context, accounts []*loom.AccountInfo, args CreateAccountArgs) error {
	c := loom.NewAccountCursor(accounts)
	from, err := c.NextSigner()
	if err != nil {
		return err
	}
	to, err := c.NextSigner()
	if err != nil {
		return err
	}

	if to.Lamports != 0 || len(to.Data) != 0 || !to.IsOwnedBy(ProgramID) {
		return errors.Wrapf(errors.ErrAccountAlreadyInitialized, "account %s already in use", to.Key)
	}
	if args.Space > MaxPermittedDataLength {
		return errors.Wrapf(errors.ErrInvalidArgument, "space %d too big", args.Space)
	}
	if err := checkFunder(from); err != nil {
		return err
	}
	if err := from.SubLamports(args.Lamports); err != nil {
		return err
	}
	if err := to.AddLamports(args.Lamports); err != nil {
		return err
	}
	to.Data = make([]byte, args.Space)
	to.Owner = args.Owner
	return nil
}

func assign(ctx loom.Context, accounts []*loom.AccountInfo, args AssignArgs) error {
	acct, err := loom.NewAccountCursor(accounts).NextSigner()
	if err != nil {
		return err
	}
	if acct.Owner == args.Owner {
		return nil
	}
	if !acct.IsOwnedBy(ProgramID) {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "account %s is not a system account", acct.Key)
	}
	acct.Owner = args.Owner
	return nil
}

func transfer(ctx loom.Context, accounts []*loom.AccountInfo, args TransferArgs) error {
	c := loom.NewAccountCursor(accounts)
	from, err := c.NextSigner()
	if err != nil {
		return err
	}
	to, err := c.Next()
	if err != nil {
		return err
	}
	if err := checkFunder(from); err != nil {
		return err
	}
	if err := from.SubLamports(args.Lamports); err != nil {
		return err
	}
	return to.AddLamports(args.Lamports)
}

// checkFunder ensures lamports are only taken from plain wallets.
func checkFunder(from *loom.AccountInfo) error {
	if !from.IsOwnedBy(ProgramID) {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "funding account %s is not a system account", from.Key)
	}
	if len(from.Data) != 0 {
		return errors.Wrapf(errors.ErrInvalidArgument, "funding account %s carries data", from.Key)
	}
	return nil
}
