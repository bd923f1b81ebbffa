package utils

import (
	"time"

	"github.com/iov-one/loom"
)

// Logging is a decorator to log transactions as they pass through
type Logging struct{}

var _ loom.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug
func (r Logging) Check(ctx loom.Context, store loom.KVStore, tx loom.Tx, next loom.Checker) (*loom.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, tx, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx loom.Context, store loom.KVStore, tx loom.Tx, next loom.Deliverer) (*loom.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, tx, resLog, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx loom.Context, start time.Time, tx loom.Tx, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := loom.GetLogger(ctx).With(
		"duration", delta/time.Microsecond,
		"instructions", len(tx.GetInstructions()),
	)

	if err != nil {
		logger.Error(msg, "err", err)
		return
	}
	// The message can be empty, the entry is still useful for its
	// key values.
	if lowPrio {
		logger.Debug(msg)
	} else {
		logger.Info(msg)
	}
}
