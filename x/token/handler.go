package token

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// Program is the token program.
type Program struct{}

var _ loom.Program = Program{}

func (Program) Process(ctx loom.Context, host loom.Host, programID loom.Address, accounts []*loom.AccountInfo, data []byte) error {
	tag, payload, err := loom.SplitInstructionData(data)
	if err != nil {
		return err
	}
	switch tag {
	case TagInitializeMint:
		loom.Log(ctx, "Instruction: InitializeMint")
		var args InitializeMintArgs
		if err := loom.DecodeInstructionArgs(payload, &args); err != nil {
			return err
		}
		return initializeMint(host, accounts, args)
	case TagInitializeAccount:
		loom.Log(ctx, "Instruction: InitializeAccount")
		return initializeAccount(host, accounts)
	case TagTransfer:
		loom.Log(ctx, "Instruction: Transfer")
		var args TransferArgs
		if err := loom.DecodeInstructionArgs(payload, &args); err != nil {
			return err
		}
		return transfer(accounts, args)
	case TagSetAuthority:
		loom.Log(ctx, "Instruction: SetAuthority")
		var args SetAuthorityArgs
		if err := loom.DecodeInstructionArgs(payload, &args); err != nil {
			return err
		}
		return setAuthority(accounts, args)
	case TagCloseAccount:
		loom.Log(ctx, "Instruction: CloseAccount")
		return closeAccount(accounts)
	case TagMintTo:
		loom.Log(ctx, "Instruction: MintTo")
		var args MintToArgs
		if err := loom.DecodeInstructionArgs(payload, &args); err != nil {
			return err
		}
		return mintTo(accounts, args)
	default:
		return errors.Wrapf(errors.ErrInvalidInstruction, "unknown tag %d", tag)
	}
}

// checkUninitialized ensures info is a fresh, rent exempt account of this
// program, ready to store a state of given size.
func checkUninitialized(host loom.Host, info *loom.AccountInfo, dst loom.Persistent, initialized func() bool) error {
	if err := readState(info, dst); err != nil {
		return err
	}
	if initialized() {
		return errors.Wrapf(errors.ErrAccountAlreadyInitialized, "account %s", info.Key)
	}
	if !host.Rent().IsExempt(info.Lamports, len(info.Data)) {
		return errors.Wrapf(errors.ErrNotRentExempt, "account %s", info.Key)
	}
	return nil
}

func initializeMint(host loom.Host, accounts []*loom.AccountInfo, args InitializeMintArgs) error {
	info, err := loom.NewAccountCursor(accounts).Next()
	if err != nil {
		return err
	}
	var mint Mint
	if err := checkUninitialized(host, info, &mint, func() bool { return mint.Initialized }); err != nil {
		return err
	}
	mint = Mint{
		MintAuthority: args.MintAuthority,
		Decimals:      args.Decimals,
		Initialized:   true,
	}
	return store(info, &mint)
}

func initializeAccount(host loom.Host, accounts []*loom.AccountInfo) error {
	c := loom.NewAccountCursor(accounts)
	info, err := c.Next()
	if err != nil {
		return err
	}
	mintInfo, err := c.Next()
	if err != nil {
		return err
	}
	owner, err := c.Next()
	if err != nil {
		return err
	}

	var acct TokenAccount
	if err := checkUninitialized(host, info, &acct, func() bool { return acct.Initialized }); err != nil {
		return err
	}
	if _, err := LoadMint(mintInfo); err != nil {
		return err
	}
	acct = TokenAccount{
		Mint:        mintInfo.Key,
		Owner:       owner.Key,
		Initialized: true,
	}
	return store(info, &acct)
}

func transfer(accounts []*loom.AccountInfo, args TransferArgs) error {
	c := loom.NewAccountCursor(accounts)
	srcInfo, err := c.Next()
	if err != nil {
		return err
	}
	dstInfo, err := c.Next()
	if err != nil {
		return err
	}
	authority, err := c.NextSigner()
	if err != nil {
		return err
	}

	src, err := LoadAccount(srcInfo)
	if err != nil {
		return err
	}
	dst, err := LoadAccount(dstInfo)
	if err != nil {
		return err
	}
	if src.Mint != dst.Mint {
		return errors.Wrapf(ErrMintMismatch, "%s and %s", srcInfo.Key, dstInfo.Key)
	}
	if src.Owner != authority.Key {
		return errors.Wrapf(ErrOwnerMismatch, "account %s", srcInfo.Key)
	}
	if src.Amount < args.Amount {
		return errors.Wrapf(errors.ErrInsufficientFunds, "account %s holds %d, need %d", srcInfo.Key, src.Amount, args.Amount)
	}
	if srcInfo.Key == dstInfo.Key {
		return nil
	}
	total := dst.Amount + args.Amount
	if total < dst.Amount {
		return errors.Wrapf(errors.ErrAmountOverflow, "account %s", dstInfo.Key)
	}
	src.Amount -= args.Amount
	dst.Amount = total
	if err := store(srcInfo, src); err != nil {
		return err
	}
	return store(dstInfo, dst)
}

func setAuthority(accounts []*loom.AccountInfo, args SetAuthorityArgs) error {
	c := loom.NewAccountCursor(accounts)
	info, err := c.Next()
	if err != nil {
		return err
	}
	owner, err := c.NextSigner()
	if err != nil {
		return err
	}
	acct, err := LoadAccount(info)
	if err != nil {
		return err
	}
	if acct.Owner != owner.Key {
		return errors.Wrapf(ErrOwnerMismatch, "account %s", info.Key)
	}
	acct.Owner = args.NewOwner
	return store(info, acct)
}

func closeAccount(accounts []*loom.AccountInfo) error {
	c := loom.NewAccountCursor(accounts)
	info, err := c.Next()
	if err != nil {
		return err
	}
	dest, err := c.Next()
	if err != nil {
		return err
	}
	owner, err := c.NextSigner()
	if err != nil {
		return err
	}
	acct, err := LoadAccount(info)
	if err != nil {
		return err
	}
	if acct.Owner != owner.Key {
		return errors.Wrapf(ErrOwnerMismatch, "account %s", info.Key)
	}
	if acct.Amount != 0 {
		return errors.Wrapf(ErrNonZeroBalance, "account %s holds %d", info.Key, acct.Amount)
	}
	return info.Close(dest)
}

func mintTo(accounts []*loom.AccountInfo, args MintToArgs) error {
	c := loom.NewAccountCursor(accounts)
	mintInfo, err := c.Next()
	if err != nil {
		return err
	}
	dstInfo, err := c.Next()
	if err != nil {
		return err
	}
	authority, err := c.NextSigner()
	if err != nil {
		return err
	}
	mint, err := LoadMint(mintInfo)
	if err != nil {
		return err
	}
	dst, err := LoadAccount(dstInfo)
	if err != nil {
		return err
	}
	if dst.Mint != mintInfo.Key {
		return errors.Wrapf(ErrMintMismatch, "account %s", dstInfo.Key)
	}
	if mint.MintAuthority != authority.Key {
		return errors.Wrapf(ErrOwnerMismatch, "mint %s", mintInfo.Key)
	}
	supply := mint.Supply + args.Amount
	if supply < mint.Supply {
		return errors.Wrapf(errors.ErrAmountOverflow, "mint %s supply", mintInfo.Key)
	}
	amount := dst.Amount + args.Amount
	if amount < dst.Amount {
		return errors.Wrapf(errors.ErrAmountOverflow, "account %s", dstInfo.Key)
	}
	mint.Supply = supply
	dst.Amount = amount
	if err := store(mintInfo, mint); err != nil {
		return err
	}
	return store(dstInfo, dst)
}
