package storage

import (
	"context"
	"math"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/stretchr/testify/require"
)

func testMarket() *Market {
	return &Market{
		ID:             ids.GenerateTestID(),
		Question:       "Will it rain tomorrow?",
		Creator:        codec.CreateAddress(1, ids.GenerateTestID()),
		Resolver:       codec.CreateAddress(2, ids.GenerateTestID()),
		CloseTimestamp: 1_700_000_000,
		YesAssetID:     ids.GenerateTestID(),
		NoAssetID:      ids.GenerateTestID(),
	}
}

func TestSetGetMarket_RoundTrip(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name     string
		resolved bool
		outcome  Outcome
	}{
		{"open", false, OutcomeNo},
		{"resolved_yes", true, OutcomeYes},
		{"resolved_no", true, OutcomeNo},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require := require.New(t)
			st := chaintest.NewInMemoryStore()

			original := testMarket()
			original.YesReserve = 100
			original.NoReserve = 300
			original.Resolved = tc.resolved
			original.Outcome = tc.outcome

			require.NoError(SetMarket(ctx, st, original))

			retrieved, err := GetMarket(ctx, st, original.ID)
			require.NoError(err)
			require.Equal(original, retrieved)
		})
	}
}

func TestGetMarket_NotFound(t *testing.T) {
	require := require.New(t)
	st := chaintest.NewInMemoryStore()

	_, err := GetMarket(context.Background(), st, ids.GenerateTestID())
	require.Error(err)

	exists, err := MarketExists(context.Background(), st, ids.GenerateTestID())
	require.NoError(err)
	require.False(exists)
}

func TestMarketExists(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	st := chaintest.NewInMemoryStore()

	m := testMarket()
	require.NoError(SetMarket(ctx, st, m))

	exists, err := MarketExists(ctx, st, m.ID)
	require.NoError(err)
	require.True(exists)
}

func TestRecordDeposit(t *testing.T) {
	require := require.New(t)

	m := testMarket()
	now := m.CloseTimestamp - 100

	shares, err := m.RecordDeposit(SideYes, 100, now)
	require.NoError(err)
	require.Equal(uint64(100), shares) // 1:1 issuance
	require.Equal(uint64(100), m.YesReserve)
	require.Equal(uint64(0), m.NoReserve)

	shares, err = m.RecordDeposit(SideNo, 300, now)
	require.NoError(err)
	require.Equal(uint64(300), shares)
	require.Equal(uint64(300), m.NoReserve)

	// Reserves only grow.
	_, err = m.RecordDeposit(SideYes, 1, now)
	require.NoError(err)
	require.Equal(uint64(101), m.YesReserve)
}

func TestRecordDeposit_Rejections(t *testing.T) {
	require := require.New(t)

	m := testMarket()
	open := m.CloseTimestamp - 100

	_, err := m.RecordDeposit(SideYes, 0, open)
	require.ErrorIs(err, ErrZeroAmount)

	_, err = m.RecordDeposit(Side(7), 10, open)
	require.ErrorIs(err, ErrInvalidSide)

	// At or after the close timestamp.
	_, err = m.RecordDeposit(SideYes, 10, m.CloseTimestamp)
	require.ErrorIs(err, ErrTradingClosed)
	_, err = m.RecordDeposit(SideYes, 10, m.CloseTimestamp+1)
	require.ErrorIs(err, ErrTradingClosed)

	// After resolution, regardless of time.
	m.Resolved = true
	_, err = m.RecordDeposit(SideYes, 10, open)
	require.ErrorIs(err, ErrTradingClosed)

	require.Equal(uint64(0), m.YesReserve)
	require.Equal(uint64(0), m.NoReserve)
}

func TestImpliedProbabilityBps(t *testing.T) {
	require := require.New(t)

	m := testMarket()
	// Maximal uncertainty before any trade.
	require.Equal(uint64(5000), m.ImpliedProbabilityBps())

	m.YesReserve = 100
	m.NoReserve = 300
	require.Equal(uint64(2500), m.ImpliedProbabilityBps())

	m.YesReserve = 300
	m.NoReserve = 100
	require.Equal(uint64(7500), m.ImpliedProbabilityBps())

	// Integer division truncates toward zero.
	m.YesReserve = 1
	m.NoReserve = 2
	require.Equal(uint64(3333), m.ImpliedProbabilityBps())

	// Reads never mutate.
	require.Equal(uint64(3333), m.ImpliedProbabilityBps())
	require.Equal(uint64(1), m.YesReserve)
}

func TestImpliedProbabilityBps_LargeReserves(t *testing.T) {
	require := require.New(t)

	// Reserves past ~1.8e15 would wrap a naive yes*scale multiply.
	m := testMarket()
	m.YesReserve = 3_000_000_000_000_000_000
	m.NoReserve = 1_000_000_000_000_000_000
	require.Equal(uint64(7500), m.ImpliedProbabilityBps())

	// Even when the two reserves together exceed the uint64 range.
	m.YesReserve = math.MaxUint64
	m.NoReserve = math.MaxUint64
	require.Equal(uint64(5000), m.ImpliedProbabilityBps())
}

func TestRecordDeposit_ReserveOverflow(t *testing.T) {
	require := require.New(t)

	m := testMarket()
	m.YesReserve = math.MaxUint64
	_, err := m.RecordDeposit(SideYes, 1, m.CloseTimestamp-100)
	require.Error(err)
	require.Equal(uint64(math.MaxUint64), m.YesReserve)
}

func TestGuards(t *testing.T) {
	require := require.New(t)

	m := testMarket()
	require.NoError(m.TradingOpen(m.CloseTimestamp-1))
	require.ErrorIs(m.TradingOpen(m.CloseTimestamp), ErrTradingClosed)
	require.ErrorIs(m.PastClose(m.CloseTimestamp-1), ErrNotYetExpired)
	require.NoError(m.PastClose(m.CloseTimestamp))
	require.NoError(m.NotResolved())
	require.ErrorIs(m.RequireResolved(), ErrNotYetResolved)

	m.Resolved = true
	require.ErrorIs(m.NotResolved(), ErrAlreadyResolved)
	require.NoError(m.RequireResolved())
	require.ErrorIs(m.TradingOpen(m.CloseTimestamp-1), ErrTradingClosed)
}

func TestWinningAssetID(t *testing.T) {
	require := require.New(t)

	m := testMarket()
	_, err := m.WinningAssetID()
	require.ErrorIs(err, ErrNotYetResolved)

	m.Resolved = true
	m.Outcome = OutcomeYes
	winner, err := m.WinningAssetID()
	require.NoError(err)
	require.Equal(m.YesAssetID, winner)

	m.Outcome = OutcomeNo
	winner, err = m.WinningAssetID()
	require.NoError(err)
	require.Equal(m.NoAssetID, winner)
}

func TestMarketAddress_Deterministic(t *testing.T) {
	require := require.New(t)

	a := ids.GenerateTestID()
	b := ids.GenerateTestID()
	require.Equal(MarketAddress(a), MarketAddress(a))
	require.NotEqual(MarketAddress(a), MarketAddress(b))
}
