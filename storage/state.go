package storage

import (
	"context"
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	safemath "github.com/ava-labs/avalanchego/utils/math"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/castalgo/castvm/consts"
)

const (
	// BalancePrefix is the prefix for settlement-currency balances.
	// Format: BalancePrefix | Address | BalanceChunks -> uint64
	BalancePrefix byte = 0x0

	// MarketPrefix is the prefix for market entities.
	// Format: MarketPrefix | MarketID | MarketChunks -> Market
	MarketPrefix byte = 0x1

	// BalanceChunks is the max-chunks suffix for balance keys. Every state
	// key carries its chunk budget in the trailing two bytes; the host reads
	// it for write validation and fee accounting.
	BalanceChunks uint16 = 1

	// MarketChunks bounds a marshaled market at consts.MaxMarketDataSize.
	MarketChunks uint16 = uint16(consts.MaxMarketDataSize/64) + 1
)

var ErrInsufficientBalance = errors.New("insufficient balance")

// BalanceKey returns the state key for an address's settlement-currency
// balance.
func BalanceKey(addr codec.Address) []byte {
	key := make([]byte, 1+codec.AddressLen+consts.Uint16Len)
	key[0] = BalancePrefix
	copy(key[1:], addr[:])
	binary.BigEndian.PutUint16(key[1+codec.AddressLen:], BalanceChunks)
	return key
}

// GetBalance retrieves the settlement-currency balance for an address.
// A missing entry reads as zero.
func GetBalance(ctx context.Context, im state.Immutable, addr codec.Address) (uint64, error) {
	valBytes, err := im.GetValue(ctx, BalanceKey(addr))
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return database.ParseUInt64(valBytes)
}

// SetBalance sets the settlement-currency balance for an address. A zero
// balance removes the entry, so a fully drained account reads back as zero
// instead of holding a value codec readers reject.
func SetBalance(ctx context.Context, mu state.Mutable, addr codec.Address, amount uint64) error {
	key := BalanceKey(addr)
	if amount == 0 {
		if err := mu.Remove(ctx, key); err != nil && !errors.Is(err, database.ErrNotFound) {
			return err
		}
		return nil
	}
	return mu.Insert(ctx, key, database.PackUInt64(amount))
}

// DeductBalance subtracts an amount from an address's balance. It returns
// ErrInsufficientBalance if the deduction is not possible.
func DeductBalance(ctx context.Context, mu state.Mutable, addr codec.Address, amount uint64) error {
	currentBalance, err := GetBalance(ctx, mu, addr)
	if err != nil {
		return err
	}
	if currentBalance < amount {
		return ErrInsufficientBalance
	}
	return SetBalance(ctx, mu, addr, currentBalance-amount)
}

// AddBalance adds an amount to an address's balance, rejecting overflow.
func AddBalance(ctx context.Context, mu state.Mutable, addr codec.Address, amount uint64) error {
	currentBalance, err := GetBalance(ctx, mu, addr)
	if err != nil {
		return err
	}
	newBalance, err := safemath.Add(currentBalance, amount)
	if err != nil {
		return err
	}
	return SetBalance(ctx, mu, addr, newBalance)
}

// EnsureBalance checks that an address holds at least the required amount.
func EnsureBalance(ctx context.Context, im state.Immutable, addr codec.Address, required uint64) error {
	bal, err := GetBalance(ctx, im, addr)
	if err != nil {
		return err
	}
	if bal < required {
		return ErrInsufficientBalance
	}
	return nil
}
