package actions

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/hypersdk/codec"

	"github.com/castalgo/castvm/consts"
)

var _ codec.Typed = (*CreateMarketResult)(nil)

// maxCreateMarketResultSize: TypeID (1) + three IDs (3*32).
const maxCreateMarketResultSize = 1 + 3*ids.IDLen

// CreateMarketResult is the output of a successful CreateMarket action.
type CreateMarketResult struct {
	MarketID   ids.ID `serialize:"true" json:"marketId"`
	YesAssetID ids.ID `serialize:"true" json:"yesAssetId"`
	NoAssetID  ids.ID `serialize:"true" json:"noAssetId"`
}

// GetTypeID returns the type ID of the CreateMarketResult.
func (*CreateMarketResult) GetTypeID() uint8 {
	return consts.CreateMarketID
}

// MarshalCodec serializes the CreateMarketResult using the provided packer.
func (r *CreateMarketResult) MarshalCodec(p *codec.Packer) error {
	p.PackID(r.MarketID)
	p.PackID(r.YesAssetID)
	p.PackID(r.NoAssetID)
	return p.Err()
}

// UnmarshalCodec deserializes a CreateMarketResult using the provided reader.
func (r *CreateMarketResult) UnmarshalCodec(p *codec.Packer) error {
	p.UnpackID(true, &r.MarketID)
	p.UnpackID(true, &r.YesAssetID)
	p.UnpackID(true, &r.NoAssetID)
	return p.Err()
}
