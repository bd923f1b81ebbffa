package escrow

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/x/system"
	"github.com/iov-one/loom/x/token"
)

// Program is the escrow program.
type Program struct{}

var _ loom.Program = Program{}

func (Program) Process(ctx loom.Context, host loom.Host, programID loom.Address, accounts []*loom.AccountInfo, data []byte) error {
	tag, payload, err := loom.SplitInstructionData(data)
	if err != nil {
		return err
	}
	switch tag {
	case TagInitEscrow:
		loom.Log(ctx, "Instruction: InitEscrow")
		var args AmountArgs
		if err := loom.DecodeInstructionArgs(payload, &args); err != nil {
			return err
		}
		return initEscrow(ctx, host, programID, accounts, args.Amount)
	case TagExchange:
		loom.Log(ctx, "Instruction: Exchange")
		var args AmountArgs
		if err := loom.DecodeInstructionArgs(payload, &args); err != nil {
			return err
		}
		return exchange(ctx, host, programID, accounts, args.Amount)
	case TagResetTimeLock:
		loom.Log(ctx, "Instruction: ResetTimeLock")
		return resetTimeLock(host, programID, accounts)
	case TagCancel:
		loom.Log(ctx, "Instruction: Cancel")
		return cancel(ctx, host, programID, accounts)
	default:
		return errors.Wrapf(errors.ErrInvalidInstruction, "unknown tag %d", tag)
	}
}

func initEscrow(ctx loom.Context, host loom.Host, programID loom.Address, accounts []*loom.AccountInfo, expected uint64) error {
	c := loom.NewAccountCursor(accounts)
	initializer, err := c.NextSigner()
	if err != nil {
		return err
	}
	temp, err := c.Next()
	if err != nil {
		return err
	}
	receive, err := c.Next()
	if err != nil {
		return err
	}
	record, err := c.Next()
	if err != nil {
		return err
	}
	if err := expectProgram(c, token.ProgramID); err != nil {
		return err
	}
	if err := expectProgram(c, system.ProgramID); err != nil {
		return err
	}

	if !receive.IsOwnedBy(token.ProgramID) {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "receive account %s", receive.Key)
	}

	rent := host.Rent()
	if record.Lamports == 0 && len(record.Data) == 0 && record.IsOwnedBy(system.ProgramID) {
		create := system.NewCreateAccountInstruction(initializer.Key, record.Key, rent.MinimumBalance(Len), Len, programID)
		if err := host.Invoke(ctx, create); err != nil {
			return errors.Wrap(err, "create record")
		}
	} else {
		if !record.IsOwnedBy(programID) {
			return errors.Wrapf(errors.ErrIncorrectProgramID, "escrow %s", record.Key)
		}
		var prev Escrow
		if err := prev.Unmarshal(record.Data); err != nil {
			return err
		}
		if prev.Initialized {
			return errors.Wrapf(errors.ErrAccountAlreadyInitialized, "escrow %s", record.Key)
		}
		if !rent.IsExempt(record.Lamports, len(record.Data)) {
			return errors.Wrapf(errors.ErrNotRentExempt, "escrow %s", record.Key)
		}
	}

	e := Escrow{
		Initialized:        true,
		Initializer:        initializer.Key,
		TempHolding:        temp.Key,
		InitializerReceive: receive.Key,
		ExpectedAmount:     expected,
	}
	if err := e.ResetTimeLock(host.Clock().Slot); err != nil {
		return err
	}
	if err := save(record, &e); err != nil {
		return err
	}

	authority, _ := Authority(programID)
	setAuthority := token.NewSetAuthorityInstruction(temp.Key, initializer.Key, authority)
	if err := host.Invoke(ctx, setAuthority); err != nil {
		return errors.Wrap(err, "lock deposit")
	}
	loom.Logf(ctx, "escrow %s locked until slot %d", record.Key, e.UnlockTime)
	return nil
}

func exchange(ctx loom.Context, host loom.Host, programID loom.Address, accounts []*loom.AccountInfo, offered uint64) error {
	c := loom.NewAccountCursor(accounts)
	taker, err := c.NextSigner()
	if err != nil {
		return err
	}
	takerSending, err := c.Next()
	if err != nil {
		return err
	}
	takerReceive, err := c.Next()
	if err != nil {
		return err
	}
	temp, err := c.Next()
	if err != nil {
		return err
	}
	initializer, err := c.Next()
	if err != nil {
		return err
	}
	initializerReceive, err := c.Next()
	if err != nil {
		return err
	}
	record, err := c.Next()
	if err != nil {
		return err
	}
	if err := expectProgram(c, token.ProgramID); err != nil {
		return err
	}
	authority, seeds, err := nextAuthority(c, programID)
	if err != nil {
		return err
	}

	e, err := load(record, programID)
	if err != nil {
		return err
	}
	if temp.Key != e.TempHolding {
		return errors.Wrapf(errors.ErrInvalidAccountData, "temp holding %s", temp.Key)
	}
	if initializer.Key != e.Initializer {
		return errors.Wrapf(errors.ErrInvalidAccountData, "initializer %s", initializer.Key)
	}
	if initializerReceive.Key != e.InitializerReceive {
		return errors.Wrapf(errors.ErrInvalidAccountData, "initializer receive %s", initializerReceive.Key)
	}
	deposit, err := token.LoadAccount(temp)
	if err != nil {
		return err
	}
	if offered != deposit.Amount {
		return errors.Wrapf(ErrExpectedAmountMismatch, "offered %d, deposit %d", offered, deposit.Amount)
	}
	now := host.Clock().Slot
	switch e.WindowAt(now) {
	case BeforeWindow:
		return errors.Wrapf(ErrEscrowUnlockTime, "slot %d, unlock at %d", now, e.UnlockTime)
	case AfterWindow:
		return errors.Wrapf(ErrEscrowTimeout, "slot %d, timeout at %d", now, e.TimeoutTime)
	}

	pay := token.NewTransferInstruction(takerSending.Key, initializerReceive.Key, taker.Key, e.ExpectedAmount)
	if err := host.Invoke(ctx, pay); err != nil {
		return errors.Wrap(err, "pay initializer")
	}
	release := token.NewTransferInstruction(temp.Key, takerReceive.Key, authority, deposit.Amount)
	if err := host.Invoke(ctx, release, seeds); err != nil {
		return errors.Wrap(err, "release deposit")
	}
	closeTemp := token.NewCloseAccountInstruction(temp.Key, initializer.Key, authority)
	if err := host.Invoke(ctx, closeTemp, seeds); err != nil {
		return errors.Wrap(err, "close temp holding")
	}
	return record.Close(initializer)
}

func resetTimeLock(host loom.Host, programID loom.Address, accounts []*loom.AccountInfo) error {
	c := loom.NewAccountCursor(accounts)
	initializer, err := c.NextSigner()
	if err != nil {
		return err
	}
	record, err := c.Next()
	if err != nil {
		return err
	}
	e, err := load(record, programID)
	if err != nil {
		return err
	}
	if initializer.Key != e.Initializer {
		return errors.Wrapf(errors.ErrInvalidAccountData, "initializer %s", initializer.Key)
	}
	if err := e.ResetTimeLock(host.Clock().Slot); err != nil {
		return err
	}
	return save(record, e)
}

// cancel is accepted at any slot.
func cancel(ctx loom.Context, host loom.Host, programID loom.Address, accounts []*loom.AccountInfo) error {
	c := loom.NewAccountCursor(accounts)
	initializer, err := c.NextSigner()
	if err != nil {
		return err
	}
	temp, err := c.Next()
	if err != nil {
		return err
	}
	refund, err := c.Next()
	if err != nil {
		return err
	}
	record, err := c.Next()
	if err != nil {
		return err
	}
	if err := expectProgram(c, token.ProgramID); err != nil {
		return err
	}
	authority, seeds, err := nextAuthority(c, programID)
	if err != nil {
		return err
	}

	e, err := load(record, programID)
	if err != nil {
		return err
	}
	if initializer.Key != e.Initializer {
		return errors.Wrapf(errors.ErrInvalidAccountData, "initializer %s", initializer.Key)
	}
	if temp.Key != e.TempHolding {
		return errors.Wrapf(errors.ErrInvalidAccountData, "temp holding %s", temp.Key)
	}
	deposit, err := token.LoadAccount(temp)
	if err != nil {
		return err
	}

	giveBack := token.NewTransferInstruction(temp.Key, refund.Key, authority, deposit.Amount)
	if err := host.Invoke(ctx, giveBack, seeds); err != nil {
		return errors.Wrap(err, "refund deposit")
	}
	closeTemp := token.NewCloseAccountInstruction(temp.Key, initializer.Key, authority)
	if err := host.Invoke(ctx, closeTemp, seeds); err != nil {
		return errors.Wrap(err, "close temp holding")
	}
	return record.Close(initializer)
}

func expectProgram(c *loom.AccountCursor, id loom.Address) error {
	info, err := c.Next()
	if err != nil {
		return err
	}
	if info.Key != id {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "want program %s, got %s", id, info.Key)
	}
	return nil
}

// nextAuthority reads the derived authority account and returns the seeds
// to sign for it.
func nextAuthority(c *loom.AccountCursor, programID loom.Address) (loom.Address, loom.Seeds, error) {
	info, err := c.Next()
	if err != nil {
		return loom.Address{}, nil, err
	}
	authority, bump := Authority(programID)
	if info.Key != authority {
		return loom.Address{}, nil, errors.Wrapf(errors.ErrIncorrectProgramID, "authority %s", info.Key)
	}
	return authority, loom.SignerSeeds(bump, AuthoritySeed), nil
}
