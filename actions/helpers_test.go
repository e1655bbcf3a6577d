package actions

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"
	"github.com/stretchr/testify/require"

	"github.com/castalgo/castvm/asset"
	"github.com/castalgo/castvm/consts"
	"github.com/castalgo/castvm/storage"
)

const (
	testCreatedAt = int64(1_700_000_000)
	testCloseAt   = int64(1_700_086_400)
)

var (
	testCreator  = codec.CreateAddress(1, ids.Empty)
	testResolver = codec.CreateAddress(2, ids.Empty)
	testTrader   = codec.CreateAddress(3, ids.Empty)
	testOutsider = codec.CreateAddress(4, ids.Empty)
)

// newOpenMarket seeds a store with a tradeable market the same way a
// successful CreateMarket execution would leave it.
func newOpenMarket(t *testing.T, ctx context.Context, mu state.Mutable) *storage.Market {
	t.Helper()
	require := require.New(t)

	marketID := ids.GenerateTestID()
	yesAssetID, err := asset.RegisterShareAsset(ctx, mu, marketID, consts.YesShare, uint64(testCreatedAt))
	require.NoError(err)
	noAssetID, err := asset.RegisterShareAsset(ctx, mu, marketID, consts.NoShare, uint64(testCreatedAt))
	require.NoError(err)

	market := &storage.Market{
		ID:             marketID,
		Question:       "Will the launch happen this quarter?",
		Creator:        testCreator,
		Resolver:       testResolver,
		CloseTimestamp: testCloseAt,
		YesAssetID:     yesAssetID,
		NoAssetID:      noAssetID,
	}
	require.NoError(storage.SetMarket(ctx, mu, market))
	return market
}

// custodyDeposit builds a well-formed deposit from sender to the market's
// custody address.
func custodyDeposit(marketID ids.ID, sender codec.Address, amount uint64) Deposit {
	return Deposit{
		Sender:    sender,
		Recipient: storage.MarketAddress(marketID),
		Amount:    amount,
	}
}
