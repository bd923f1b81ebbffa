package vault

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/x/system"
)

// Program is the vault program.
type Program struct{}

var _ loom.Program = Program{}

func (Program) Process(ctx loom.Context, host loom.Host, programID loom.Address, accounts []*loom.AccountInfo, data []byte) error {
	tag, payload, err := loom.SplitInstructionData(data)
	if err != nil {
		return err
	}
	if tag == TagInitialize {
		return initialize(ctx, host, programID, accounts)
	}

	var args AmountArgs
	if err := loom.DecodeInstructionArgs(payload, &args); err != nil {
		return err
	}
	switch tag {
	case TagDeposit:
		return deposit(ctx, host, programID, accounts, args.Amount)
	case TagWithdraw:
		return withdraw(host, programID, accounts, args.Amount)
	default:
		return errors.Wrapf(errors.ErrInvalidInstruction, "unknown tag %d", tag)
	}
}

func initialize(ctx loom.Context, host loom.Host, programID loom.Address, accounts []*loom.AccountInfo) error {
	c := loom.NewAccountCursor(accounts)
	initializer, err := c.NextSigner()
	if err != nil {
		return err
	}
	vault, err := c.Next()
	if err != nil {
		return err
	}
	sys, err := c.Next()
	if err != nil {
		return err
	}
	if sys.Key != system.ProgramID {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "system program %s", sys.Key)
	}

	addr, bump, err := Address(programID, initializer.Key)
	if err != nil {
		return err
	}
	if vault.Key != addr {
		return errors.Wrapf(errors.ErrInvalidSeeds, "vault of %s is %s", initializer.Key, addr)
	}

	if vault.IsOwnedBy(programID) {
		if _, err := loadFor(vault, programID, initializer.Key); err != nil {
			return err
		}
		loom.Logf(ctx, "vault %s already initialized", vault.Key)
		return nil
	}

	create := system.NewCreateAccountInstruction(initializer.Key, vault.Key, host.Rent().MinimumBalance(Len), Len, programID)
	if err := host.Invoke(ctx, create, loom.SignerSeeds(bump, Seed, initializer.Key.Bytes())); err != nil {
		return errors.Wrap(err, "create vault")
	}
	raw, err := (&Vault{Initializer: initializer.Key}).Marshal()
	if err != nil {
		return err
	}
	copy(vault.Data, raw)
	return nil
}

func deposit(ctx loom.Context, host loom.Host, programID loom.Address, accounts []*loom.AccountInfo, amount uint64) error {
	c := loom.NewAccountCursor(accounts)
	initializer, err := c.NextSigner()
	if err != nil {
		return err
	}
	vault, err := c.Next()
	if err != nil {
		return err
	}
	if _, err := loadFor(vault, programID, initializer.Key); err != nil {
		return err
	}
	transfer := system.NewTransferInstruction(initializer.Key, vault.Key, amount)
	if err := host.Invoke(ctx, transfer); err != nil {
		return errors.Wrap(err, "deposit")
	}
	return nil
}

// withdraw debits the vault directly, the program owns it.
func withdraw(host loom.Host, programID loom.Address, accounts []*loom.AccountInfo, amount uint64) error {
	c := loom.NewAccountCursor(accounts)
	initializer, err := c.NextSigner()
	if err != nil {
		return err
	}
	vault, err := c.Next()
	if err != nil {
		return err
	}
	if _, err := loadFor(vault, programID, initializer.Key); err != nil {
		return err
	}

	min := host.Rent().MinimumBalance(len(vault.Data))
	if vault.Lamports < min || vault.Lamports-min < amount {
		return errors.Wrapf(errors.ErrInsufficientFunds, "vault holds %d, %d must stay", vault.Lamports, min)
	}
	if err := vault.SubLamports(amount); err != nil {
		return err
	}
	return initializer.AddLamports(amount)
}
