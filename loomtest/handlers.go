package loomtest

import "github.com/iov-one/loom"

// Handler is a mock loom.Handler. It counts calls, writes Writes into the
// store and then returns the configured result or error.
type Handler struct {
	checks, delivers int

	// Writes are applied to the store on every call, before the result
	// is returned. A failing handler therefore leaves them behind unless
	// a savepoint discards them.
	Writes []loom.Model

	CheckResult loom.CheckResult
	CheckErr    error

	DeliverResult loom.DeliverResult
	DeliverErr    error
}

var _ loom.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	h.checks++
	if err := write(db, h.Writes); err != nil {
		return nil, err
	}
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	h.delivers++
	if err := write(db, h.Writes); err != nil {
		return nil, err
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

// CheckCallCount returns the number of Check calls.
func (h *Handler) CheckCallCount() int { return h.checks }

// DeliverCallCount returns the number of Deliver calls.
func (h *Handler) DeliverCallCount() int { return h.delivers }

// CallCount returns the number of Check and Deliver calls.
func (h *Handler) CallCount() int { return h.checks + h.delivers }

func write(db loom.KVStore, models []loom.Model) error {
	for _, m := range models {
		if err := db.Set(m.Key, m.Value); err != nil {
			return err
		}
	}
	return nil
}
