package bank

import (
	"context"
	"sync"

	"github.com/activityhub/backend/domain"
)

// Memory is an in-process native-currency account ledger. Balances are
// whole units of the smallest denomination; transfers are atomic under the
// ledger mutex.
type Memory struct {
	mu       sync.Mutex
	balances map[domain.Address]int64
}

func NewMemory() *Memory {
	return &Memory{balances: make(map[domain.Address]int64)}
}

// Transfer moves amount from one account to another. A zero amount is a
// no-op; a short source balance fails without mutation.
func (b *Memory) Transfer(ctx context.Context, from, to domain.Address, amount int64) error {
	if amount < 0 {
		return domain.ErrInvalidPayload
	}
	if amount == 0 {
		return nil
	}
	if from.IsZero() || to.IsZero() {
		return domain.ErrInvalidPayload
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.balances[from] < amount {
		return domain.ErrInsufficientFunds
	}
	b.balances[from] -= amount
	b.balances[to] += amount
	return nil
}

// Deposit mints amount into an account.
func (b *Memory) Deposit(ctx context.Context, to domain.Address, amount int64) error {
	if amount < 0 || to.IsZero() {
		return domain.ErrInvalidPayload
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[to] += amount
	return nil
}

// BalanceOf returns an account's balance; unknown accounts read as zero.
func (b *Memory) BalanceOf(ctx context.Context, addr domain.Address) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[addr], nil
}
