package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/castalgo/castvm/asset"
	"github.com/castalgo/castvm/consts"
	"github.com/castalgo/castvm/storage"
)

var _ chain.Action = (*CreateMarket)(nil)

// CreateMarket initializes one binary prediction market. The market entity
// is keyed by the action ID, so creation runs exactly once: re-executing
// against an existing market is rejected, never silently absorbed. Both
// share tokens are minted here, with the market custody address as their
// sole authority.
type CreateMarket struct {
	Question       string        `serialize:"true" json:"question"`
	CloseTimestamp int64         `serialize:"true" json:"closeTimestamp"`
	Resolver       codec.Address `serialize:"true" json:"resolver"`
}

// GetTypeID implements chain.Action.
func (*CreateMarket) GetTypeID() uint8 {
	return consts.CreateMarketID
}

// StateKeys implements chain.Action. The market ID is the action ID, so
// every touched key is known up front.
func (cm *CreateMarket) StateKeys(actor codec.Address, actionID ids.ID) state.Keys {
	return state.Keys{
		string(storage.MarketKey(actionID)):                                          state.Write,
		string(asset.DefinitionKey(asset.ShareAssetID(actionID, consts.YesShare))):   state.Write,
		string(asset.DefinitionKey(asset.ShareAssetID(actionID, consts.NoShare))):    state.Write,
		string(storage.BalanceKey(actor)):                                            state.Write,
	}
}

// Execute implements chain.Action.
func (cm *CreateMarket) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	timestamp int64,
	actor codec.Address,
	actionID ids.ID,
) ([]byte, error) {
	if len(cm.Question) == 0 {
		return nil, ErrQuestionEmpty
	}
	if len(cm.Question) > consts.MaxQuestionLength {
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrQuestionTooLong, len(cm.Question), consts.MaxQuestionLength)
	}
	if cm.CloseTimestamp <= timestamp {
		return nil, fmt.Errorf("%w: close %d, now %d", ErrCloseTimeNotFuture, cm.CloseTimestamp, timestamp)
	}

	marketID := actionID
	exists, err := storage.MarketExists(ctx, mu, marketID)
	if err != nil {
		return nil, fmt.Errorf("failed to check market %s: %w", marketID, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: market %s", storage.ErrMarketExists, marketID)
	}

	yesAssetID, err := asset.RegisterShareAsset(ctx, mu, marketID, consts.YesShare, uint64(timestamp))
	if err != nil {
		return nil, fmt.Errorf("failed to register YES share asset for market %s: %w", marketID, err)
	}
	noAssetID, err := asset.RegisterShareAsset(ctx, mu, marketID, consts.NoShare, uint64(timestamp))
	if err != nil {
		return nil, fmt.Errorf("failed to register NO share asset for market %s: %w", marketID, err)
	}

	market := &storage.Market{
		ID:             marketID,
		Question:       cm.Question,
		Creator:        actor,
		Resolver:       cm.Resolver,
		CloseTimestamp: cm.CloseTimestamp,
		YesAssetID:     yesAssetID,
		NoAssetID:      noAssetID,
		YesReserve:     0,
		NoReserve:      0,
		Resolved:       false,
		Outcome:        storage.OutcomeNo,
	}
	if err := storage.SetMarket(ctx, mu, market); err != nil {
		return nil, fmt.Errorf("failed to store market %s: %w", marketID, err)
	}

	result := &CreateMarketResult{
		MarketID:   marketID,
		YesAssetID: yesAssetID,
		NoAssetID:  noAssetID,
	}
	packer := codec.NewWriter(maxCreateMarketResultSize, maxCreateMarketResultSize)
	packer.PackByte(result.GetTypeID())
	if err := result.MarshalCodec(packer); err != nil {
		return nil, fmt.Errorf("failed to marshal CreateMarketResult: %w", err)
	}
	return packer.Bytes(), nil
}

// ComputeUnits implements chain.Action.
func (*CreateMarket) ComputeUnits(chain.Rules) uint64 {
	return CreateMarketComputeUnits
}

// ValidRange implements chain.Action.
func (*CreateMarket) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}

// Bytes implements chain.Action.
func (cm *CreateMarket) Bytes() []byte {
	packer := codec.NewWriter(0, consts.MaxActionSize)
	if err := codec.LinearCodec.MarshalInto(cm, packer.Packer); err != nil {
		panic(fmt.Errorf("failed to marshal CreateMarket action: %w", err))
	}
	return packer.Bytes()
}

// UnmarshalCreateMarket deserializes bytes into a CreateMarket action,
// suitable for registration with codec.TypeParser.
func UnmarshalCreateMarket(b []byte) (chain.Action, error) {
	action := &CreateMarket{}
	reader := codec.NewReader(b, consts.MaxActionSize)
	if err := codec.LinearCodec.UnmarshalFrom(reader.Packer, action); err != nil {
		return nil, err
	}
	return action, nil
}
