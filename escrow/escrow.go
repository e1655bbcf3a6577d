// Package escrow tracks the settlement currency custodied by each market.
// Only a buy may credit an escrow entry and only a payout may debit it; the
// entry is the market's sole store of redeemable value.
package escrow

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	safemath "github.com/ava-labs/avalanchego/utils/math"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/castalgo/castvm/consts"
	"github.com/castalgo/castvm/storage"
)

const (
	// EscrowPrefix keys escrowed settlement currency.
	// Format: EscrowPrefix | marketID | EscrowChunks -> uint64
	EscrowPrefix byte = 0x3

	// EscrowChunks is the max-chunks key suffix required by the host.
	EscrowChunks uint16 = 1
)

var (
	ErrZeroAmount        = errors.New("amount cannot be zero")
	ErrInsufficientFunds = errors.New("insufficient funds in escrow")
)

// EscrowKey generates the state key for a market's escrow entry.
func EscrowKey(marketID ids.ID) []byte {
	key := make([]byte, 1+ids.IDLen+consts.Uint16Len)
	key[0] = EscrowPrefix
	copy(key[1:], marketID[:])
	binary.BigEndian.PutUint16(key[1+ids.IDLen:], EscrowChunks)
	return key
}

// Deposit moves amount of settlement currency from the payer into the
// market's escrow. The debit and the credit land in the same transaction
// view, so a failure on either side voids both.
func Deposit(ctx context.Context, mu state.Mutable, marketID ids.ID, payer codec.Address, amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}
	if err := storage.DeductBalance(ctx, mu, payer, amount); err != nil {
		return fmt.Errorf("failed to debit payer %s for market %s: %w", payer, marketID, err)
	}
	escrowed, err := Escrowed(ctx, mu, marketID)
	if err != nil {
		return err
	}
	newEscrowed, err := safemath.Add(escrowed, amount)
	if err != nil {
		return err
	}
	return mu.Insert(ctx, EscrowKey(marketID), database.PackUInt64(newEscrowed))
}

// PayOut moves amount of settlement currency from the market's escrow to the
// recipient. Overdrafts are rejected with ErrInsufficientFunds.
func PayOut(ctx context.Context, mu state.Mutable, marketID ids.ID, recipient codec.Address, amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}
	escrowed, err := Escrowed(ctx, mu, marketID)
	if err != nil {
		return err
	}
	if escrowed < amount {
		return fmt.Errorf("%w: market %s holds %d, payout needs %d",
			ErrInsufficientFunds, marketID, escrowed, amount)
	}

	remaining := escrowed - amount
	key := EscrowKey(marketID)
	if remaining == 0 {
		if err := mu.Remove(ctx, key); err != nil {
			return fmt.Errorf("failed to remove drained escrow entry for market %s: %w", marketID, err)
		}
	} else {
		if err := mu.Insert(ctx, key, database.PackUInt64(remaining)); err != nil {
			return fmt.Errorf("failed to update escrow for market %s: %w", marketID, err)
		}
	}
	return storage.AddBalance(ctx, mu, recipient, amount)
}

// Escrowed returns the settlement currency held for a market. A missing
// entry reads as zero.
func Escrowed(ctx context.Context, im state.Immutable, marketID ids.ID) (uint64, error) {
	val, err := im.GetValue(ctx, EscrowKey(marketID))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get escrowed amount for market %s: %w", marketID, err)
	}
	return database.ParseUInt64(val)
}
