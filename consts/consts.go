// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/version"
)

const (
	Name   = "castvm"
	Symbol = "CAST"

	// Action type IDs. Result types reuse the ID of their action.
	CreateMarketID uint8 = 0
	BuyYesID       uint8 = 1
	BuyNoID        uint8 = 2
	ResolveID      uint8 = 3
	ClaimID        uint8 = 4

	// MaxQuestionLength bounds the market question in bytes.
	MaxQuestionLength = 128

	// ProbabilityScale is the denominator for implied probabilities:
	// they are reported in integer basis points, 0..10_000.
	ProbabilityScale uint64 = 10_000
	// ProbabilityEven is returned while both reserves are zero.
	ProbabilityEven uint64 = 5_000

	// MaxMarketDataSize is the maximum expected size for marshaled market data.
	MaxMarketDataSize = 1024

	// MaxActionSize is the limit for a marshaled action.
	MaxActionSize = 1024

	// MarketAddressTypeID is the address type byte used to derive a market's
	// custody address from its ID. Distinct from every auth address type.
	MarketAddressTypeID uint8 = 0xca

	Uint16Len int = 2
)

// Share classes.
const (
	YesShare uint8 = 0
	NoShare  uint8 = 1
)

// ShareSymbol returns the token symbol for a share class.
func ShareSymbol(class uint8) string {
	switch class {
	case YesShare:
		return "YES"
	case NoShare:
		return "NO"
	default:
		return "UNKNOWN"
	}
}

var ID ids.ID

func init() {
	b := make([]byte, ids.IDLen)
	copy(b, []byte(Name))
	vmID, err := ids.ToID(b)
	if err != nil {
		panic(err)
	}
	ID = vmID
}

var Version = &version.Semantic{
	Major: 0,
	Minor: 1,
	Patch: 0,
}
