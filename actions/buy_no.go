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

var _ chain.Action = (*BuyNo)(nil)

// BuyNo is the mirror of BuyYes for the NO side.
type BuyNo struct {
	MarketID ids.ID  `serialize:"true" json:"marketId"`
	Deposit  Deposit `serialize:"true" json:"deposit"`
}

// GetTypeID implements chain.Action.
func (*BuyNo) GetTypeID() uint8 {
	return consts.BuyNoID
}

// StateKeys implements chain.Action.
func (b *BuyNo) StateKeys(actor codec.Address, _ ids.ID) state.Keys {
	return buyStateKeys(b.MarketID, consts.NoShare, actor)
}

// Execute implements chain.Action.
func (b *BuyNo) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	timestamp int64,
	actor codec.Address,
	_ ids.ID,
) ([]byte, error) {
	shares, reserve, err := executeBuy(ctx, mu, storage.SideNo, b.MarketID, b.Deposit, timestamp, actor)
	if err != nil {
		return nil, err
	}

	result := &BuyNoResult{
		SharesIssued: shares,
		NoReserve:    reserve,
	}
	packer := codec.NewWriter(maxBuyResultSize, maxBuyResultSize)
	packer.PackByte(result.GetTypeID())
	if err := result.MarshalCodec(packer); err != nil {
		return nil, fmt.Errorf("failed to marshal BuyNoResult: %w", err)
	}
	return packer.Bytes(), nil
}

// ComputeUnits implements chain.Action.
func (*BuyNo) ComputeUnits(chain.Rules) uint64 {
	return BuyComputeUnits
}

// ValidRange implements chain.Action.
func (*BuyNo) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}

// Bytes implements chain.Action.
func (b *BuyNo) Bytes() []byte {
	packer := codec.NewWriter(0, consts.MaxActionSize)
	if err := codec.LinearCodec.MarshalInto(b, packer.Packer); err != nil {
		panic(fmt.Errorf("failed to marshal BuyNo action: %w", err))
	}
	return packer.Bytes()
}

// UnmarshalBuyNo deserializes bytes into a BuyNo action, suitable for
// registration with codec.TypeParser.
func UnmarshalBuyNo(b []byte) (chain.Action, error) {
	action := &BuyNo{}
	if err := unmarshalBuyInto(b, action); err != nil {
		return nil, err
	}
	return action, nil
}
