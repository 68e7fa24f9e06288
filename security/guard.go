// Package security holds the reentrancy guard and the slippage and
// minimum-profit checks that gate route execution.
package security

import (
	"sync/atomic"

	"github.com/lumenarb/flasharb/apperror"
)

// ReentrancyGuard is an instance-wide mutual-exclusion marker. At most one
// orchestration call may hold it at a time; a nested attempt fails instead
// of blocking.
type ReentrancyGuard struct {
	entered atomic.Bool
}

// Enter acquires the guard. It returns a release func that must run on
// every exit path (defer it immediately); the release unconditionally
// clears the marker.
func (g *ReentrancyGuard) Enter() (func(), error) {
	if !g.entered.CompareAndSwap(false, true) {
		return nil, apperror.New(apperror.CodeReentrancyGuard, "security.ReentrancyGuard.Enter")
	}
	return func() {
		g.entered.Store(false)
	}, nil
}

// Held reports whether an orchestration call is currently in flight.
func (g *ReentrancyGuard) Held() bool {
	return g.entered.Load()
}
