// Package asset is the share-token ledger. Each market registers two
// fixed-purpose fungible tokens (YES and NO) exactly once, at creation, with
// the market's custody address as the sole administrative authority. Holders
// only ever carry balances; issuance and clawback run under the market's
// authority alone.
package asset

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	safemath "github.com/ava-labs/avalanchego/utils/math"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/castalgo/castvm/consts"
	"github.com/castalgo/castvm/storage"
)

const (
	// definitionPrefix keys asset definitions.
	// Format: definitionPrefix | assetID | definitionChunks -> AssetDefinition
	definitionPrefix byte = 0x2

	// balancePrefix keys share balances.
	// Format: balancePrefix | holder | assetID | balanceChunks -> uint64
	balancePrefix byte = 0x4

	maxDefinitionSize = 512

	// Max-chunks key suffixes required by the host for write validation.
	definitionChunks uint16 = uint16(maxDefinitionSize/64) + 1
	balanceChunks    uint16 = 1
)

var (
	ErrZeroAmount         = errors.New("amount cannot be zero")
	ErrAssetNotRegistered = errors.New("asset not registered")
	ErrAssetExists        = errors.New("asset already registered")
	ErrInsufficientShares = errors.New("insufficient share balance")
	ErrUnknownShareClass  = errors.New("unknown share class")
)

// AssetDefinition is the metadata stored for a share token. Authority is the
// market custody address; it alone may receive clawbacks.
type AssetDefinition struct {
	Market    ids.ID        `json:"market"`
	Authority codec.Address `json:"authority"`
	Created   uint64        `json:"created"`
	Name      string        `json:"name"`
	Symbol    string        `json:"symbol"`
}

func (ad *AssetDefinition) MarshalCodec(p *codec.Packer) error {
	p.PackID(ad.Market)
	p.PackAddress(ad.Authority)
	p.PackLong(ad.Created)
	p.PackString(ad.Name)
	p.PackString(ad.Symbol)
	return p.Err()
}

func (ad *AssetDefinition) UnmarshalCodec(p *codec.Packer) error {
	p.UnpackID(true, &ad.Market)
	p.UnpackAddress(&ad.Authority)
	ad.Created = p.UnpackLong()
	ad.Name = p.UnpackString(true)
	ad.Symbol = p.UnpackString(true)
	return p.Err()
}

// ShareAssetID deterministically derives the asset ID for a market's share
// class. Both sides of a market, and every market, map to distinct IDs.
func ShareAssetID(marketID ids.ID, class uint8) ids.ID {
	preimage := make([]byte, 0, len("share:")+ids.IDLen+1)
	preimage = append(preimage, []byte("share:")...)
	preimage = append(preimage, marketID[:]...)
	preimage = append(preimage, class)
	return ids.ID(hashing.ComputeHash256Array(preimage))
}

// DefinitionKey returns the state key for an asset's definition.
func DefinitionKey(assetID ids.ID) []byte {
	key := make([]byte, 1+ids.IDLen+consts.Uint16Len)
	key[0] = definitionPrefix
	copy(key[1:], assetID[:])
	binary.BigEndian.PutUint16(key[1+ids.IDLen:], definitionChunks)
	return key
}

// GetDefinition retrieves an asset's definition. Returns
// ErrAssetNotRegistered when no definition exists.
func GetDefinition(ctx context.Context, im state.Immutable, assetID ids.ID) (*AssetDefinition, error) {
	valBytes, err := im.GetValue(ctx, DefinitionKey(assetID))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotRegistered, assetID)
		}
		return nil, err
	}
	ad := &AssetDefinition{}
	reader := codec.NewReader(valBytes, maxDefinitionSize)
	if err := ad.UnmarshalCodec(reader); err != nil {
		return nil, fmt.Errorf("failed to unmarshal asset definition %s: %w", assetID, err)
	}
	return ad, nil
}

// RegisterShareAsset mints a market's share token definition. Called exactly
// once per side, at market creation; a second registration fails.
func RegisterShareAsset(
	ctx context.Context,
	mu state.Mutable,
	marketID ids.ID,
	class uint8,
	created uint64,
) (ids.ID, error) {
	if class != consts.YesShare && class != consts.NoShare {
		return ids.Empty, fmt.Errorf("%w: %d", ErrUnknownShareClass, class)
	}
	assetID := ShareAssetID(marketID, class)

	if _, err := mu.GetValue(ctx, DefinitionKey(assetID)); err == nil {
		return ids.Empty, fmt.Errorf("%w: %s", ErrAssetExists, assetID)
	} else if !errors.Is(err, database.ErrNotFound) {
		return ids.Empty, err
	}

	symbol := consts.ShareSymbol(class)
	definition := &AssetDefinition{
		Market:    marketID,
		Authority: storage.MarketAddress(marketID),
		Created:   created,
		Name:      fmt.Sprintf("%s %s", consts.Symbol, symbol),
		Symbol:    symbol,
	}
	writer := codec.NewWriter(maxDefinitionSize, maxDefinitionSize)
	if err := definition.MarshalCodec(writer); err != nil {
		return ids.Empty, fmt.Errorf("failed to marshal asset definition: %w", err)
	}
	if err := mu.Insert(ctx, DefinitionKey(assetID), writer.Bytes()); err != nil {
		return ids.Empty, fmt.Errorf("failed to store asset definition: %w", err)
	}
	return assetID, nil
}

// BalanceKey returns the state key for a holder's balance of an asset.
func BalanceKey(holder codec.Address, assetID ids.ID) []byte {
	key := make([]byte, 1+codec.AddressLen+ids.IDLen+consts.Uint16Len)
	key[0] = balancePrefix
	copy(key[1:], holder[:])
	copy(key[1+codec.AddressLen:], assetID[:])
	binary.BigEndian.PutUint16(key[1+codec.AddressLen+ids.IDLen:], balanceChunks)
	return key
}

// GetAssetBalance retrieves a holder's balance of an asset. A missing entry
// reads as zero.
func GetAssetBalance(ctx context.Context, im state.Immutable, holder codec.Address, assetID ids.ID) (uint64, error) {
	valBytes, err := im.GetValue(ctx, BalanceKey(holder, assetID))
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return database.ParseUInt64(valBytes)
}

// SetAssetBalance sets a holder's balance of an asset. A zero balance removes
// the entry.
func SetAssetBalance(ctx context.Context, mu state.Mutable, holder codec.Address, assetID ids.ID, balance uint64) error {
	key := BalanceKey(holder, assetID)
	if balance == 0 {
		if err := mu.Remove(ctx, key); err != nil && !errors.Is(err, database.ErrNotFound) {
			return err
		}
		return nil
	}
	return mu.Insert(ctx, key, database.PackUInt64(balance))
}

// Issue mints amount units of the asset to recipient. Called at most once
// per trade. Issuing an unregistered asset fails loudly so the enclosing
// transaction is voided rather than silently dropping the shares.
func Issue(ctx context.Context, mu state.Mutable, assetID ids.ID, recipient codec.Address, amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}
	if _, err := GetDefinition(ctx, mu, assetID); err != nil {
		return err
	}
	currentBalance, err := GetAssetBalance(ctx, mu, recipient, assetID)
	if err != nil {
		return fmt.Errorf("failed to get balance of %s for %s: %w", assetID, recipient, err)
	}
	newBalance, err := safemath.Add(currentBalance, amount)
	if err != nil {
		return err
	}
	return SetAssetBalance(ctx, mu, recipient, assetID, newBalance)
}

// Clawback compulsorily moves amount units of the asset from holder back to
// the market custody address, under the market's own authority rather than
// the holder's consent. Exercised only during claim settlement.
func Clawback(ctx context.Context, mu state.Mutable, assetID ids.ID, holder codec.Address, amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}
	definition, err := GetDefinition(ctx, mu, assetID)
	if err != nil {
		return err
	}

	holderBalance, err := GetAssetBalance(ctx, mu, holder, assetID)
	if err != nil {
		return fmt.Errorf("failed to get balance of %s for %s: %w", assetID, holder, err)
	}
	if holderBalance < amount {
		return fmt.Errorf("%w: holder %s has %d of %s, clawback needs %d",
			ErrInsufficientShares, holder, holderBalance, assetID, amount)
	}
	if err := SetAssetBalance(ctx, mu, holder, assetID, holderBalance-amount); err != nil {
		return err
	}

	custodyBalance, err := GetAssetBalance(ctx, mu, definition.Authority, assetID)
	if err != nil {
		return fmt.Errorf("failed to get custody balance of %s: %w", assetID, err)
	}
	newBalance, err := safemath.Add(custodyBalance, amount)
	if err != nil {
		return err
	}
	return SetAssetBalance(ctx, mu, definition.Authority, assetID, newBalance)
}
