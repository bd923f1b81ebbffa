package app

import (
	"strings"

	"github.com/iov-one/loom/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Query looks up reqQuery.Path in the query router and runs the handler
// against the last committed state. The requested height is ignored.
//
// A path is "/<bucket>" or "/<bucket>/<index>", optionally followed by
// "?prefix" to scan instead of reading one key. Key and Value of the
// response are ResultSets of the same length.
func (s *StoreApp) Query(reqQuery abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(reqQuery.Path)
	h := s.queryRouter.Handler(path)
	if h == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "no handler for %q", reqQuery.Path))
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err)
	}
	db := s.store.committed.CacheWrap()
	defer db.Discard()

	models, err := h.Query(db, mod, reqQuery.Data)
	if err != nil {
		return queryError(err)
	}
	keys, err := ResultsFromKeys(models).Marshal()
	if err != nil {
		return queryError(err)
	}
	values, err := ResultsFromValues(models).Marshal()
	if err != nil {
		return queryError(err)
	}
	return abci.ResponseQuery{Height: info.Version, Key: keys, Value: values}
}

// splitPath cuts the query modifier following "?" off path.
func splitPath(path string) (string, string) {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, ""
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Code: code, Log: log}
}
