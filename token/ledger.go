// Package token implements the asset transfer primitive: per-asset
// balances keyed by holder, with snapshot/restore supplying the
// all-or-nothing boundary the orchestrator relies on.
package token

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Ledger holds asset balances in memory. Values handed out are copies;
// callers cannot mutate ledger state through returned integers.
type Ledger struct {
	mu       sync.RWMutex
	balances map[common.Address]map[common.Address]*big.Int // asset -> holder -> balance
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		balances: make(map[common.Address]map[common.Address]*big.Int),
	}
}

// Balance returns the holder's balance of asset. Unknown pairs are zero.
func (l *Ledger) Balance(asset, holder common.Address) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	holders, ok := l.balances[asset]
	if !ok {
		return big.NewInt(0)
	}
	b, ok := holders[holder]
	if !ok {
		return big.NewInt(0)
	}
	return new(big.Int).Set(b)
}

// Mint credits amount of asset to holder. Used to seed pools and test
// fixtures; amounts must be positive.
func (l *Ledger) Mint(asset, holder common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("mint amount must be positive")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	holders, ok := l.balances[asset]
	if !ok {
		holders = make(map[common.Address]*big.Int)
		l.balances[asset] = holders
	}
	cur, ok := holders[holder]
	if !ok {
		cur = big.NewInt(0)
	}
	holders[holder] = new(big.Int).Add(cur, amount)
	return nil
}

// Transfer moves amount of asset from one holder to another. It fails if
// the amount is non-positive or the sender's balance is insufficient;
// callers wrap the failure with their own error code.
func (l *Ledger) Transfer(asset, from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("transfer amount must be positive")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	holders, ok := l.balances[asset]
	if !ok {
		return fmt.Errorf("insufficient balance of %s at %s", asset.Hex(), from.Hex())
	}
	fromBal, ok := holders[from]
	if !ok || fromBal.Cmp(amount) < 0 {
		return fmt.Errorf("insufficient balance of %s at %s", asset.Hex(), from.Hex())
	}

	toBal, ok := holders[to]
	if !ok {
		toBal = big.NewInt(0)
	}
	holders[from] = new(big.Int).Sub(fromBal, amount)
	holders[to] = new(big.Int).Add(toBal, amount)
	return nil
}

// Snapshot is a point-in-time copy of every balance.
type Snapshot struct {
	balances map[common.Address]map[common.Address]*big.Int
}

// Snapshot captures the current ledger state.
func (l *Ledger) Snapshot() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	copied := make(map[common.Address]map[common.Address]*big.Int, len(l.balances))
	for asset, holders := range l.balances {
		h := make(map[common.Address]*big.Int, len(holders))
		for holder, bal := range holders {
			h[holder] = new(big.Int).Set(bal)
		}
		copied[asset] = h
	}
	return &Snapshot{balances: copied}
}

// Restore replaces the ledger state with a previously captured snapshot.
func (l *Ledger) Restore(s *Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	restored := make(map[common.Address]map[common.Address]*big.Int, len(s.balances))
	for asset, holders := range s.balances {
		h := make(map[common.Address]*big.Int, len(holders))
		for holder, bal := range holders {
			h[holder] = new(big.Int).Set(bal)
		}
		restored[asset] = h
	}
	l.balances = restored
}
