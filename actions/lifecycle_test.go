package actions

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/stretchr/testify/require"

	"github.com/castalgo/castvm/asset"
	"github.com/castalgo/castvm/escrow"
	"github.com/castalgo/castvm/storage"
)

// TestMarketLifecycle walks one market from creation through settlement:
// create, trade both sides, close, resolve, claim. Checks the ledger adds up
// at every step.
func TestMarketLifecycle(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	st := chaintest.NewInMemoryStore()

	require.NoError(storage.SetBalance(ctx, st, testTrader, 1000))
	require.NoError(storage.SetBalance(ctx, st, testOutsider, 1000))

	// Create.
	marketID := ids.GenerateTestID()
	create := &CreateMarket{
		Question:       "Will the rollout finish before the deadline?",
		CloseTimestamp: testCloseAt,
		Resolver:       testResolver,
	}
	_, err := create.Execute(ctx, nil, st, testCreatedAt, testCreator, marketID)
	require.NoError(err)

	market, err := storage.GetMarket(ctx, st, marketID)
	require.NoError(err)
	require.Equal(uint64(5000), market.ImpliedProbabilityBps())

	// Trade: 100 on YES, 300 on NO.
	buyYes := &BuyYes{MarketID: marketID, Deposit: custodyDeposit(marketID, testTrader, 100)}
	_, err = buyYes.Execute(ctx, nil, st, testCreatedAt+100, testTrader, ids.GenerateTestID())
	require.NoError(err)

	buyNo := &BuyNo{MarketID: marketID, Deposit: custodyDeposit(marketID, testOutsider, 300)}
	_, err = buyNo.Execute(ctx, nil, st, testCreatedAt+200, testOutsider, ids.GenerateTestID())
	require.NoError(err)

	market, err = storage.GetMarket(ctx, st, marketID)
	require.NoError(err)
	require.Equal(uint64(2500), market.ImpliedProbabilityBps())

	// Escrow holds exactly the sum of deposits.
	escrowed, err := escrow.Escrowed(ctx, st, marketID)
	require.NoError(err)
	require.Equal(uint64(400), escrowed)

	// Trading window shut: buys at and after close fail, on both sides.
	lateBuy := &BuyYes{MarketID: marketID, Deposit: custodyDeposit(marketID, testTrader, 50)}
	_, err = lateBuy.Execute(ctx, nil, st, testCloseAt, testTrader, ids.GenerateTestID())
	require.ErrorIs(err, storage.ErrTradingClosed)
	lateBuyNo := &BuyNo{MarketID: marketID, Deposit: custodyDeposit(marketID, testOutsider, 50)}
	_, err = lateBuyNo.Execute(ctx, nil, st, testCloseAt+500, testOutsider, ids.GenerateTestID())
	require.ErrorIs(err, storage.ErrTradingClosed)

	// No claims before resolution.
	claim := &Claim{MarketID: marketID}
	_, err = claim.Execute(ctx, nil, st, testCloseAt+1, testTrader, ids.GenerateTestID())
	require.ErrorIs(err, storage.ErrNotYetResolved)

	// Resolve YES.
	resolve := &Resolve{MarketID: marketID, Outcome: storage.OutcomeYes}
	_, err = resolve.Execute(ctx, nil, st, testCloseAt, testResolver, ids.GenerateTestID())
	require.NoError(err)

	// Post-resolution trading stays shut and the outcome is final.
	_, err = buyYes.Execute(ctx, nil, st, testCloseAt+1000, testTrader, ids.GenerateTestID())
	require.ErrorIs(err, storage.ErrTradingClosed)
	_, err = resolve.Execute(ctx, nil, st, testCloseAt+1000, testResolver, ids.GenerateTestID())
	require.ErrorIs(err, storage.ErrAlreadyResolved)

	// Settlement: the YES holder collects, the NO holder cannot, and a
	// repeat claim finds nothing.
	_, err = claim.Execute(ctx, nil, st, testCloseAt+2000, testTrader, ids.GenerateTestID())
	require.NoError(err)
	_, err = claim.Execute(ctx, nil, st, testCloseAt+2000, testOutsider, ids.GenerateTestID())
	require.ErrorIs(err, ErrNoWinningShares)
	_, err = claim.Execute(ctx, nil, st, testCloseAt+3000, testTrader, ids.GenerateTestID())
	require.ErrorIs(err, ErrNoWinningShares)

	// Final ledger: the winner is whole, the loser is down the deposit, and
	// escrow retains the unclaimed remainder.
	winnerBalance, err := storage.GetBalance(ctx, st, testTrader)
	require.NoError(err)
	require.Equal(uint64(1000), winnerBalance)

	loserBalance, err := storage.GetBalance(ctx, st, testOutsider)
	require.NoError(err)
	require.Equal(uint64(700), loserBalance)

	escrowed, err = escrow.Escrowed(ctx, st, marketID)
	require.NoError(err)
	require.Equal(uint64(300), escrowed)

	// All winning shares sit in custody after settlement.
	market, err = storage.GetMarket(ctx, st, marketID)
	require.NoError(err)
	custodyShares, err := asset.GetAssetBalance(ctx, st, storage.MarketAddress(marketID), market.YesAssetID)
	require.NoError(err)
	require.Equal(uint64(100), custodyShares)
}
