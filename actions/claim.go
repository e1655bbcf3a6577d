package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/castalgo/castvm/asset"
	"github.com/castalgo/castvm/consts"
	"github.com/castalgo/castvm/escrow"
	"github.com/castalgo/castvm/storage"
)

var _ chain.Action = (*Claim)(nil)

// Claim pays out a holder of winning shares from a resolved market. The
// claimant's entire winning balance is clawed back to market custody and an
// equal amount of settlement currency is paid out of escrow, so a repeat
// claim finds a zero balance and fails. The market entity itself is not
// mutated.
type Claim struct {
	MarketID ids.ID `serialize:"true" json:"marketId"`
}

// GetTypeID implements chain.Action.
func (*Claim) GetTypeID() uint8 {
	return consts.ClaimID
}

// StateKeys implements chain.Action. The winning side is only known after
// reading the market, so both share classes are declared.
func (c *Claim) StateKeys(actor codec.Address, _ ids.ID) state.Keys {
	yesAssetID := asset.ShareAssetID(c.MarketID, consts.YesShare)
	noAssetID := asset.ShareAssetID(c.MarketID, consts.NoShare)
	custody := storage.MarketAddress(c.MarketID)
	return state.Keys{
		string(storage.MarketKey(c.MarketID)):         state.Read,
		string(escrow.EscrowKey(c.MarketID)):          state.Write,
		string(storage.BalanceKey(actor)):             state.Write,
		string(asset.DefinitionKey(yesAssetID)):       state.Read,
		string(asset.DefinitionKey(noAssetID)):        state.Read,
		string(asset.BalanceKey(actor, yesAssetID)):   state.Write,
		string(asset.BalanceKey(actor, noAssetID)):    state.Write,
		string(asset.BalanceKey(custody, yesAssetID)): state.Write,
		string(asset.BalanceKey(custody, noAssetID)):  state.Write,
	}
}

// Execute implements chain.Action.
func (c *Claim) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	_ ids.ID,
) ([]byte, error) {
	market, err := storage.GetMarket(ctx, mu, c.MarketID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMarketNotFound, c.MarketID)
		}
		return nil, err
	}

	winningAssetID, err := market.WinningAssetID()
	if err != nil {
		return nil, err
	}

	balance, err := asset.GetAssetBalance(ctx, mu, actor, winningAssetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get winning share balance for %s: %w", actor, err)
	}
	if balance == 0 {
		return nil, fmt.Errorf("%w: %s holds no %s shares of market %s",
			ErrNoWinningShares, actor, market.Outcome, c.MarketID)
	}

	if err := asset.Clawback(ctx, mu, winningAssetID, actor, balance); err != nil {
		return nil, fmt.Errorf("failed to claw back winning shares from %s: %w", actor, err)
	}
	if err := escrow.PayOut(ctx, mu, c.MarketID, actor, balance); err != nil {
		return nil, fmt.Errorf("failed to pay out claim for market %s: %w", c.MarketID, err)
	}

	result := &ClaimResult{
		MarketID: c.MarketID,
		Claimant: actor,
		Payout:   balance,
	}
	packer := codec.NewWriter(maxClaimResultSize, maxClaimResultSize)
	packer.PackByte(result.GetTypeID())
	if err := result.MarshalCodec(packer); err != nil {
		return nil, fmt.Errorf("failed to marshal ClaimResult: %w", err)
	}
	return packer.Bytes(), nil
}

// ComputeUnits implements chain.Action.
func (*Claim) ComputeUnits(chain.Rules) uint64 {
	return ClaimComputeUnits
}

// ValidRange implements chain.Action.
func (*Claim) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}

// Bytes implements chain.Action.
func (c *Claim) Bytes() []byte {
	packer := codec.NewWriter(ids.IDLen, ids.IDLen)
	packer.PackID(c.MarketID)
	return packer.Bytes()
}

// UnmarshalClaim deserializes bytes into a Claim action, suitable for
// registration with codec.TypeParser.
func UnmarshalClaim(b []byte) (chain.Action, error) {
	action := &Claim{}
	reader := codec.NewReader(b, ids.IDLen)
	reader.UnpackID(true, &action.MarketID)
	if err := reader.Err(); err != nil {
		return nil, err
	}
	return action, nil
}
