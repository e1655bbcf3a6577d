package actions

import (
	"github.com/ava-labs/hypersdk/codec"

	"github.com/castalgo/castvm/consts"
)

var (
	_ codec.Typed = (*BuyYesResult)(nil)
	_ codec.Typed = (*BuyNoResult)(nil)
)

// maxBuyResultSize: TypeID (1) + two uint64 (2*8).
const maxBuyResultSize = 1 + 16

// BuyYesResult is the output of a successful BuyYes action.
type BuyYesResult struct {
	SharesIssued uint64 `serialize:"true" json:"sharesIssued"`
	YesReserve   uint64 `serialize:"true" json:"yesReserve"`
}

// GetTypeID returns the type ID of the BuyYesResult.
func (*BuyYesResult) GetTypeID() uint8 {
	return consts.BuyYesID
}

// MarshalCodec serializes the BuyYesResult using the provided packer.
func (r *BuyYesResult) MarshalCodec(p *codec.Packer) error {
	p.PackUint64(r.SharesIssued)
	p.PackUint64(r.YesReserve)
	return p.Err()
}

// UnmarshalCodec deserializes a BuyYesResult using the provided reader.
func (r *BuyYesResult) UnmarshalCodec(p *codec.Packer) error {
	r.SharesIssued = p.UnpackUint64(true)
	r.YesReserve = p.UnpackUint64(true)
	return p.Err()
}

// BuyNoResult is the output of a successful BuyNo action.
type BuyNoResult struct {
	SharesIssued uint64 `serialize:"true" json:"sharesIssued"`
	NoReserve    uint64 `serialize:"true" json:"noReserve"`
}

// GetTypeID returns the type ID of the BuyNoResult.
func (*BuyNoResult) GetTypeID() uint8 {
	return consts.BuyNoID
}

// MarshalCodec serializes the BuyNoResult using the provided packer.
func (r *BuyNoResult) MarshalCodec(p *codec.Packer) error {
	p.PackUint64(r.SharesIssued)
	p.PackUint64(r.NoReserve)
	return p.Err()
}

// UnmarshalCodec deserializes a BuyNoResult using the provided reader.
func (r *BuyNoResult) UnmarshalCodec(p *codec.Packer) error {
	r.SharesIssued = p.UnpackUint64(true)
	r.NoReserve = p.UnpackUint64(true)
	return p.Err()
}
