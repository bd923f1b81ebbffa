package token

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/ledger"
	"github.com/iov-one/loom/vm"
)

const optKey = "token"

// GenesisMint declares a mint. Its supply is the sum of all genesis
// accounts of that mint.
type GenesisMint struct {
	Address   loom.Address `json:"address"`
	Authority loom.Address `json:"authority"`
	Decimals  uint8        `json:"decimals"`
}

// GenesisAccount declares a token account with an initial balance.
type GenesisAccount struct {
	Address loom.Address `json:"address"`
	Mint    loom.Address `json:"mint"`
	Owner   loom.Address `json:"owner"`
	Amount  uint64       `json:"amount"`
}

// Genesis is the "token" section of the genesis file.
type Genesis struct {
	Mints    []GenesisMint    `json:"mints"`
	Accounts []GenesisAccount `json:"accounts"`
}

// Initializer creates the mints and token accounts declared in genesis.
// Every account receives the rent exempt balance. Run it after the rent
// configuration was loaded.
type Initializer struct{}

var _ loom.Initializer = Initializer{}

func (Initializer) FromGenesis(opts loom.Options, params loom.GenesisParams, db loom.KVStore) error {
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	rent, err := vm.LoadRent(db)
	if err != nil {
		return err
	}

	mints := make(map[loom.Address]*Mint, len(gen.Mints))
	for _, m := range gen.Mints {
		if _, ok := mints[m.Address]; ok {
			return errors.Wrapf(errors.ErrDuplicate, "mint %s", m.Address)
		}
		mints[m.Address] = &Mint{MintAuthority: m.Authority, Decimals: m.Decimals, Initialized: true}
	}

	b := ledger.NewBucket()
	for _, a := range gen.Accounts {
		mint, ok := mints[a.Mint]
		if !ok {
			return errors.Wrapf(ErrMintMismatch, "account %s: unknown mint %s", a.Address, a.Mint)
		}
		supply := mint.Supply + a.Amount
		if supply < mint.Supply {
			return errors.Wrapf(errors.ErrAmountOverflow, "mint %s supply", a.Mint)
		}
		mint.Supply = supply
		acct := TokenAccount{Mint: a.Mint, Owner: a.Owner, Amount: a.Amount, Initialized: true}
		if err := save(db, b, rent, a.Address, &acct, AccountLen); err != nil {
			return err
		}
	}
	for _, m := range gen.Mints {
		if err := save(db, b, rent, m.Address, mints[m.Address], MintLen); err != nil {
			return err
		}
	}
	return nil
}

func save(db loom.KVStore, b ledger.Bucket, rent loom.Rent, addr loom.Address, state loom.Marshaller, size int) error {
	prev, err := b.Load(db, addr)
	if err != nil {
		return err
	}
	if prev != nil {
		return errors.Wrapf(errors.ErrDuplicate, "account %s", addr)
	}
	raw, err := state.Marshal()
	if err != nil {
		return err
	}
	acct := &loom.Account{
		Lamports: rent.MinimumBalance(size),
		Data:     raw,
		Owner:    ProgramID,
	}
	return b.Store(db, addr, acct)
}
