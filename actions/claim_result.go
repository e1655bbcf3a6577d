package actions

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/hypersdk/codec"

	"github.com/castalgo/castvm/consts"
)

var _ codec.Typed = (*ClaimResult)(nil)

// maxClaimResultSize: TypeID (1) + MarketID (32) + Claimant (33) + Payout (8).
const maxClaimResultSize = 1 + ids.IDLen + codec.AddressLen + 8

// ClaimResult is the output of a successful Claim action.
type ClaimResult struct {
	MarketID ids.ID        `serialize:"true" json:"marketId"`
	Claimant codec.Address `serialize:"true" json:"claimant"`
	Payout   uint64        `serialize:"true" json:"payout"`
}

// GetTypeID returns the type ID of the ClaimResult.
func (*ClaimResult) GetTypeID() uint8 {
	return consts.ClaimID
}

// MarshalCodec serializes the ClaimResult using the provided packer.
func (r *ClaimResult) MarshalCodec(p *codec.Packer) error {
	p.PackID(r.MarketID)
	p.PackAddress(r.Claimant)
	p.PackUint64(r.Payout)
	return p.Err()
}

// UnmarshalCodec deserializes a ClaimResult using the provided reader.
func (r *ClaimResult) UnmarshalCodec(p *codec.Packer) error {
	p.UnpackID(true, &r.MarketID)
	p.UnpackAddress(&r.Claimant)
	r.Payout = p.UnpackUint64(true)
	return p.Err()
}
