package asset

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/stretchr/testify/require"

	"github.com/castalgo/castvm/consts"
	"github.com/castalgo/castvm/storage"
)

func TestShareAssetID_Deterministic(t *testing.T) {
	require := require.New(t)

	marketA := ids.GenerateTestID()
	marketB := ids.GenerateTestID()

	require.Equal(ShareAssetID(marketA, consts.YesShare), ShareAssetID(marketA, consts.YesShare))
	require.NotEqual(ShareAssetID(marketA, consts.YesShare), ShareAssetID(marketA, consts.NoShare))
	require.NotEqual(ShareAssetID(marketA, consts.YesShare), ShareAssetID(marketB, consts.YesShare))
}

func TestRegisterShareAsset(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	st := chaintest.NewInMemoryStore()

	marketID := ids.GenerateTestID()
	assetID, err := RegisterShareAsset(ctx, st, marketID, consts.YesShare, 1_700_000_000)
	require.NoError(err)
	require.Equal(ShareAssetID(marketID, consts.YesShare), assetID)

	definition, err := GetDefinition(ctx, st, assetID)
	require.NoError(err)
	require.Equal(marketID, definition.Market)
	require.Equal(storage.MarketAddress(marketID), definition.Authority)
	require.Equal(uint64(1_700_000_000), definition.Created)
	require.Equal(consts.ShareSymbol(consts.YesShare), definition.Symbol)

	// Mint-once: the same side cannot be registered twice.
	_, err = RegisterShareAsset(ctx, st, marketID, consts.YesShare, 1_700_000_001)
	require.ErrorIs(err, ErrAssetExists)

	// The other side is independent.
	_, err = RegisterShareAsset(ctx, st, marketID, consts.NoShare, 1_700_000_000)
	require.NoError(err)
}

func TestRegisterShareAsset_UnknownClass(t *testing.T) {
	require := require.New(t)

	_, err := RegisterShareAsset(context.Background(), chaintest.NewInMemoryStore(), ids.GenerateTestID(), 2, 0)
	require.ErrorIs(err, ErrUnknownShareClass)
}

func TestGetDefinition_NotRegistered(t *testing.T) {
	require := require.New(t)

	_, err := GetDefinition(context.Background(), chaintest.NewInMemoryStore(), ids.GenerateTestID())
	require.ErrorIs(err, ErrAssetNotRegistered)
}

func TestIssue(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	st := chaintest.NewInMemoryStore()

	marketID := ids.GenerateTestID()
	holder := codec.CreateAddress(1, ids.GenerateTestID())
	assetID, err := RegisterShareAsset(ctx, st, marketID, consts.YesShare, 0)
	require.NoError(err)

	require.NoError(Issue(ctx, st, assetID, holder, 100))
	balance, err := GetAssetBalance(ctx, st, holder, assetID)
	require.NoError(err)
	require.Equal(uint64(100), balance)

	// Issuance accumulates.
	require.NoError(Issue(ctx, st, assetID, holder, 50))
	balance, err = GetAssetBalance(ctx, st, holder, assetID)
	require.NoError(err)
	require.Equal(uint64(150), balance)
}

func TestIssue_Rejections(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	st := chaintest.NewInMemoryStore()

	holder := codec.CreateAddress(1, ids.GenerateTestID())

	// An unregistered asset cannot be issued.
	err := Issue(ctx, st, ids.GenerateTestID(), holder, 100)
	require.ErrorIs(err, ErrAssetNotRegistered)

	assetID, err := RegisterShareAsset(ctx, st, ids.GenerateTestID(), consts.YesShare, 0)
	require.NoError(err)
	require.ErrorIs(Issue(ctx, st, assetID, holder, 0), ErrZeroAmount)
}

func TestClawback(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	st := chaintest.NewInMemoryStore()

	marketID := ids.GenerateTestID()
	custody := storage.MarketAddress(marketID)
	holder := codec.CreateAddress(1, ids.GenerateTestID())
	assetID, err := RegisterShareAsset(ctx, st, marketID, consts.NoShare, 0)
	require.NoError(err)
	require.NoError(Issue(ctx, st, assetID, holder, 300))

	require.NoError(Clawback(ctx, st, assetID, holder, 300))

	holderBalance, err := GetAssetBalance(ctx, st, holder, assetID)
	require.NoError(err)
	require.Equal(uint64(0), holderBalance)

	custodyBalance, err := GetAssetBalance(ctx, st, custody, assetID)
	require.NoError(err)
	require.Equal(uint64(300), custodyBalance)
}

func TestClawback_Rejections(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	st := chaintest.NewInMemoryStore()

	marketID := ids.GenerateTestID()
	holder := codec.CreateAddress(1, ids.GenerateTestID())
	assetID, err := RegisterShareAsset(ctx, st, marketID, consts.YesShare, 0)
	require.NoError(err)
	require.NoError(Issue(ctx, st, assetID, holder, 10))

	require.ErrorIs(Clawback(ctx, st, assetID, holder, 0), ErrZeroAmount)
	require.ErrorIs(Clawback(ctx, st, assetID, holder, 11), ErrInsufficientShares)
	require.ErrorIs(Clawback(ctx, st, ids.GenerateTestID(), holder, 10), ErrAssetNotRegistered)

	// Holder balance untouched by the failed attempts.
	balance, err := GetAssetBalance(ctx, st, holder, assetID)
	require.NoError(err)
	require.Equal(uint64(10), balance)
}

func TestSetAssetBalance_ZeroRemovesEntry(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	st := chaintest.NewInMemoryStore()

	holder := codec.CreateAddress(1, ids.GenerateTestID())
	assetID := ids.GenerateTestID()

	require.NoError(SetAssetBalance(ctx, st, holder, assetID, 5))
	require.NoError(SetAssetBalance(ctx, st, holder, assetID, 0))

	_, err := st.GetValue(ctx, BalanceKey(holder, assetID))
	require.Error(err)

	balance, err := GetAssetBalance(ctx, st, holder, assetID)
	require.NoError(err)
	require.Equal(uint64(0), balance)
}
