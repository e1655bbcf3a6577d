package actions

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/hypersdk/codec"

	"github.com/castalgo/castvm/consts"
	"github.com/castalgo/castvm/storage"
)

var _ codec.Typed = (*ResolveResult)(nil)

// maxResolveResultSize: TypeID (1) + MarketID (32) + Outcome (1).
const maxResolveResultSize = 1 + ids.IDLen + 1

// ResolveResult is the output of a successful Resolve action.
type ResolveResult struct {
	MarketID ids.ID          `serialize:"true" json:"marketId"`
	Outcome  storage.Outcome `serialize:"true" json:"outcome"`
}

// GetTypeID returns the type ID of the ResolveResult.
func (*ResolveResult) GetTypeID() uint8 {
	return consts.ResolveID
}

// MarshalCodec serializes the ResolveResult using the provided packer.
func (r *ResolveResult) MarshalCodec(p *codec.Packer) error {
	p.PackID(r.MarketID)
	p.PackByte(uint8(r.Outcome))
	return p.Err()
}

// UnmarshalCodec deserializes a ResolveResult using the provided reader.
func (r *ResolveResult) UnmarshalCodec(p *codec.Packer) error {
	p.UnpackID(true, &r.MarketID)
	r.Outcome = storage.Outcome(p.UnpackByte())
	return p.Err()
}
