package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	safemath "github.com/ava-labs/avalanchego/utils/math"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/castalgo/castvm/consts"
)

// Side identifies which half of a binary market a deposit backs.
type Side uint8

const (
	SideYes Side = 0
	SideNo  Side = 1
)

func (s Side) String() string {
	switch s {
	case SideYes:
		return "YES"
	case SideNo:
		return "NO"
	default:
		return fmt.Sprintf("UnknownSide:%d", uint8(s))
	}
}

// Outcome is the recorded resolution of a market. It only carries meaning
// once Market.Resolved is true; before that any stored value is a sentinel.
type Outcome uint8

const (
	OutcomeNo  Outcome = 0
	OutcomeYes Outcome = 1
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNo:
		return "NO"
	case OutcomeYes:
		return "YES"
	default:
		return fmt.Sprintf("UnknownOutcome:%d", uint8(o))
	}
}

// Market is the single persistent entity per prediction market.
// Key: MarketPrefix | marketID -> Market
//
// Reserves are cumulative deposits per side and only grow while trading is
// open. Once Resolved flips to true it never reverts and Outcome is frozen.
type Market struct {
	ID             ids.ID        `serialize:"true" json:"id"`
	Question       string        `serialize:"true" json:"question"`
	Creator        codec.Address `serialize:"true" json:"creator"`
	Resolver       codec.Address `serialize:"true" json:"resolver"`
	CloseTimestamp int64         `serialize:"true" json:"closeTimestamp"`
	YesAssetID     ids.ID        `serialize:"true" json:"yesAssetId"`
	NoAssetID      ids.ID        `serialize:"true" json:"noAssetId"`
	YesReserve     uint64        `serialize:"true" json:"yesReserve"`
	NoReserve      uint64        `serialize:"true" json:"noReserve"`
	Resolved       bool          `serialize:"true" json:"resolved"`
	Outcome        Outcome       `serialize:"true" json:"outcome"`
}

// MarketAddress derives the custody address owned by a market. The market
// alone holds issuance and clawback authority over its share tokens, and
// deposited settlement currency is escrowed under this address.
func MarketAddress(marketID ids.ID) codec.Address {
	return codec.CreateAddress(consts.MarketAddressTypeID, marketID)
}

// RecordDeposit adds amount to the given side's reserve and returns the
// number of shares to issue. Pricing is fixed 1:1: shares == amount, no
// rounding, no fee.
func (m *Market) RecordDeposit(side Side, amount uint64, now int64) (uint64, error) {
	if amount == 0 {
		return 0, ErrZeroAmount
	}
	if err := m.TradingOpen(now); err != nil {
		return 0, err
	}
	switch side {
	case SideYes:
		newReserve, err := safemath.Add(m.YesReserve, amount)
		if err != nil {
			return 0, fmt.Errorf("YES reserve: %w", err)
		}
		m.YesReserve = newReserve
	case SideNo:
		newReserve, err := safemath.Add(m.NoReserve, amount)
		if err != nil {
			return 0, fmt.Errorf("NO reserve: %w", err)
		}
		m.NoReserve = newReserve
	default:
		return 0, fmt.Errorf("%w: side %d", ErrInvalidSide, uint8(side))
	}
	return amount, nil
}

// ImpliedProbabilityBps reports the YES probability implied by the reserve
// ratio, in basis points. Defined as 5000 while both reserves are zero so
// the quantity is total before any trade. Informational only: issuance and
// settlement never read it.
func (m *Market) ImpliedProbabilityBps() uint64 {
	yes, no := m.YesReserve, m.NoReserve
	total, carry := bits.Add64(yes, no, 0)
	if carry != 0 {
		// Halving both preserves the ratio to within a basis point and
		// keeps the total in range.
		yes >>= 1
		no >>= 1
		total = yes + no
	}
	if total == 0 {
		return consts.ProbabilityEven
	}
	// 128-bit intermediate: yes*scale overflows uint64 for reserves past
	// ~1.8e15. The quotient is at most the scale, and the high word is
	// below the divisor, so Div64 cannot panic.
	hi, lo := bits.Mul64(yes, consts.ProbabilityScale)
	quotient, _ := bits.Div64(hi, lo, total)
	return quotient
}

// WinningAssetID returns the share token that pays out under the recorded
// outcome. Callable only after resolution.
func (m *Market) WinningAssetID() (ids.ID, error) {
	if err := m.RequireResolved(); err != nil {
		return ids.Empty, err
	}
	if m.Outcome == OutcomeYes {
		return m.YesAssetID, nil
	}
	return m.NoAssetID, nil
}

// MarketKey generates the state key for a given market ID.
func MarketKey(marketID ids.ID) []byte {
	key := make([]byte, 1+ids.IDLen+consts.Uint16Len)
	key[0] = MarketPrefix
	copy(key[1:], marketID[:])
	binary.BigEndian.PutUint16(key[1+ids.IDLen:], MarketChunks)
	return key
}

// GetMarket retrieves a market by its ID from the state.
func GetMarket(ctx context.Context, im state.Immutable, marketID ids.ID) (*Market, error) {
	valBytes, err := im.GetValue(ctx, MarketKey(marketID))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("market %s not found: %w", marketID, err)
		}
		return nil, err
	}

	reader := codec.NewReader(valBytes, consts.MaxMarketDataSize)
	market := &Market{}
	if err := codec.LinearCodec.UnmarshalFrom(reader.Packer, market); err != nil {
		return nil, fmt.Errorf("failed to unmarshal market %s: %w", marketID, err)
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("reader error after unmarshaling market %s: %w", marketID, err)
	}
	return market, nil
}

// MarketExists reports whether a market entity is already stored under the
// given ID.
func MarketExists(ctx context.Context, im state.Immutable, marketID ids.ID) (bool, error) {
	_, err := im.GetValue(ctx, MarketKey(marketID))
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetMarket stores a market into the state.
func SetMarket(ctx context.Context, mu state.Mutable, market *Market) error {
	writer := codec.NewWriter(0, consts.MaxMarketDataSize)
	if err := codec.LinearCodec.MarshalInto(market, writer.Packer); err != nil {
		return fmt.Errorf("failed to marshal market %s: %w", market.ID, err)
	}
	if err := writer.Err(); err != nil {
		return fmt.Errorf("writer error after marshaling market %s: %w", market.ID, err)
	}
	return mu.Insert(ctx, MarketKey(market.ID), writer.Bytes())
}
