package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/castalgo/castvm/consts"
	"github.com/castalgo/castvm/storage"
)

var _ chain.Action = (*BuyYes)(nil)

// BuyYes deposits settlement currency against the YES side of a market and
// issues YES shares 1:1 to the caller. The deposit record travels with the
// action so value transfer and state mutation commit or fail as one unit.
type BuyYes struct {
	MarketID ids.ID  `serialize:"true" json:"marketId"`
	Deposit  Deposit `serialize:"true" json:"deposit"`
}

// GetTypeID implements chain.Action.
func (*BuyYes) GetTypeID() uint8 {
	return consts.BuyYesID
}

// StateKeys implements chain.Action.
func (b *BuyYes) StateKeys(actor codec.Address, _ ids.ID) state.Keys {
	return buyStateKeys(b.MarketID, consts.YesShare, actor)
}

// Execute implements chain.Action.
func (b *BuyYes) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	timestamp int64,
	actor codec.Address,
	_ ids.ID,
) ([]byte, error) {
	shares, reserve, err := executeBuy(ctx, mu, storage.SideYes, b.MarketID, b.Deposit, timestamp, actor)
	if err != nil {
		return nil, err
	}

	result := &BuyYesResult{
		SharesIssued: shares,
		YesReserve:   reserve,
	}
	packer := codec.NewWriter(maxBuyResultSize, maxBuyResultSize)
	packer.PackByte(result.GetTypeID())
	if err := result.MarshalCodec(packer); err != nil {
		return nil, fmt.Errorf("failed to marshal BuyYesResult: %w", err)
	}
	return packer.Bytes(), nil
}

// ComputeUnits implements chain.Action.
func (*BuyYes) ComputeUnits(chain.Rules) uint64 {
	return BuyComputeUnits
}

// ValidRange implements chain.Action.
func (*BuyYes) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}

// Bytes implements chain.Action.
func (b *BuyYes) Bytes() []byte {
	packer := codec.NewWriter(0, consts.MaxActionSize)
	if err := codec.LinearCodec.MarshalInto(b, packer.Packer); err != nil {
		panic(fmt.Errorf("failed to marshal BuyYes action: %w", err))
	}
	return packer.Bytes()
}

// UnmarshalBuyYes deserializes bytes into a BuyYes action, suitable for
// registration with codec.TypeParser.
func UnmarshalBuyYes(b []byte) (chain.Action, error) {
	action := &BuyYes{}
	if err := unmarshalBuyInto(b, action); err != nil {
		return nil, err
	}
	return action, nil
}
