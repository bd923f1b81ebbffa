package app

import (
	"encoding/json"
	"fmt"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp is the part of the abci application that owns state: it loads
// and commits the store, runs genesis and answers queries. BaseApp embeds
// it and adds transaction processing.
//
// Info, InitChain, BeginBlock, EndBlock and Commit carry no user input, so
// any failure there is a broken node and panics.
type StoreApp struct {
	name   string
	logger log.Logger
	store  *CommitStore

	initializer loom.Initializer
	queryRouter loom.QueryRouter

	// chainID is empty until genesis ran
	chainID string
	// base holds what is valid for the app lifetime, block what is valid
	// for the block being processed
	base  loom.Context
	block loom.Context
}

// NewStoreApp loads the latest committed version of kv. ctx must not carry
// a block height. It panics if the store cannot be read.
func NewStoreApp(name string, kv loom.CommitKVStore, queryRouter loom.QueryRouter, ctx loom.Context) *StoreApp {
	cs, err := NewCommitStore(kv)
	if err != nil {
		panic(err)
	}
	s := &StoreApp{
		name:        name,
		store:       cs,
		queryRouter: queryRouter,
		base:        ctx,
	}
	s.WithLogger(log.NewNopLogger())

	chainID, err := loadChainID(cs.DeliverStore())
	if err != nil {
		panic(err)
	}
	if chainID != "" {
		s.setChainID(chainID)
	}

	info, err := cs.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.block = loom.WithHeight(s.base, info.Version)
	return s
}

func (s *StoreApp) setChainID(chainID string) {
	s.chainID = chainID
	s.base = loom.WithChainID(s.base, chainID)
}

// GetChainID returns the chain id recorded at genesis.
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit sets the initializer run on InitChain.
func (s *StoreApp) WithInit(init loom.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger sets the logger of the app and of every context it builds.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.base = loom.WithLogger(s.base, logger)
	return s
}

func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockContext is the context of the block being processed.
func (s *StoreApp) BlockContext() loom.Context {
	return s.block
}

// DeliverStore is the cache DeliverTx writes to until Commit.
func (s *StoreApp) DeliverStore() loom.CacheableKVStore {
	return s.store.DeliverStore()
}

// CheckStore is the cache CheckTx writes to. It is dropped on Commit.
func (s *StoreApp) CheckStore() loom.CacheableKVStore {
	return s.store.CheckStore()
}

// genesis stores the chain id and hands the app state to the initializer.
// It only runs once per chain.
func (s *StoreApp) genesis(chainID string, appState []byte) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "genesis already loaded for chain %s", s.chainID)
	}
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrState, "genesis has no app_state, run init first")
	}
	var opts loom.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	db := s.DeliverStore()
	if err := saveChainID(db, chainID); err != nil {
		return err
	}
	s.setChainID(chainID)
	if s.initializer == nil {
		return nil
	}
	return s.initializer.FromGenesis(opts, loom.GenesisParams{ChainID: chainID}, db)
}

// Info reports the last committed height and app hash.
func (s *StoreApp) Info(abci.RequestInfo) abci.ResponseInfo {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("state loaded", "height", info.Version, "hash", fmt.Sprintf("%X", info.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		Version:          loom.Version(),
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption is not supported.
func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "not supported"}
}

func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.genesis(req.ChainId, req.AppStateBytes); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := loom.WithHeader(s.base, req.Header)
	ctx = loom.WithHeight(ctx, req.Header.GetHeight())
	s.block = loom.WithBlockTime(ctx, req.Header.GetTime())
	return abci.ResponseBeginBlock{}
}

// EndBlock returns no validator updates, programs cannot change the set.
func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("committed", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}
