package controller

import (
	"context"

	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/castalgo/castvm/storage"
)

var _ chain.BalanceHandler = (*Controller)(nil)

// Controller wires transaction fees to the settlement-currency ledger, so
// fees and market deposits draw on the same balance.
type Controller struct{}

func New() *Controller {
	return &Controller{}
}

// SponsorStateKeys enumerates every key fee payment can touch. Deduct writes
// the sponsor balance, so Read alone would have the host reject the fee
// transfer inside the transaction's scoped view.
func (*Controller) SponsorStateKeys(addr codec.Address) state.Keys {
	return state.Keys{string(storage.BalanceKey(addr)): state.Read | state.Write}
}

func (*Controller) CanDeduct(ctx context.Context, addr codec.Address, im state.Immutable, amount uint64) error {
	return storage.EnsureBalance(ctx, im, addr, amount)
}

func (*Controller) Deduct(ctx context.Context, addr codec.Address, mu state.Mutable, amount uint64) error {
	return storage.DeductBalance(ctx, mu, addr, amount)
}

func (*Controller) AddBalance(ctx context.Context, addr codec.Address, mu state.Mutable, amount uint64) error {
	return storage.AddBalance(ctx, mu, addr, amount)
}

func (*Controller) GetBalance(ctx context.Context, addr codec.Address, im state.Immutable) (uint64, error) {
	return storage.GetBalance(ctx, im, addr)
}
