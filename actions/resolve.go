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

	"github.com/castalgo/castvm/consts"
	"github.com/castalgo/castvm/storage"
)

var _ chain.Action = (*Resolve)(nil)

// Resolve records the authoritative outcome of a market. Only the resolver
// identity stored at creation may call it, only after the close timestamp,
// and only once: the transition is irreversible.
type Resolve struct {
	MarketID ids.ID          `serialize:"true" json:"marketId"`
	Outcome  storage.Outcome `serialize:"true" json:"outcome"`
}

// GetTypeID implements chain.Action.
func (*Resolve) GetTypeID() uint8 {
	return consts.ResolveID
}

// StateKeys implements chain.Action.
func (r *Resolve) StateKeys(codec.Address, ids.ID) state.Keys {
	return state.Keys{
		string(storage.MarketKey(r.MarketID)): state.Write,
	}
}

// Execute implements chain.Action.
func (r *Resolve) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	timestamp int64,
	actor codec.Address,
	_ ids.ID,
) ([]byte, error) {
	if r.Outcome != storage.OutcomeNo && r.Outcome != storage.OutcomeYes {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidOutcome, uint8(r.Outcome))
	}

	market, err := storage.GetMarket(ctx, mu, r.MarketID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMarketNotFound, r.MarketID)
		}
		return nil, err
	}
	if err := market.NotResolved(); err != nil {
		return nil, err
	}
	if err := market.PastClose(timestamp); err != nil {
		return nil, err
	}
	if actor != market.Resolver {
		return nil, fmt.Errorf("%w: %s is not the resolver %s for market %s",
			ErrUnauthorized, actor, market.Resolver, r.MarketID)
	}

	market.Resolved = true
	market.Outcome = r.Outcome
	if err := storage.SetMarket(ctx, mu, market); err != nil {
		return nil, fmt.Errorf("failed to store resolved market %s: %w", r.MarketID, err)
	}

	result := &ResolveResult{
		MarketID: r.MarketID,
		Outcome:  r.Outcome,
	}
	packer := codec.NewWriter(maxResolveResultSize, maxResolveResultSize)
	packer.PackByte(result.GetTypeID())
	if err := result.MarshalCodec(packer); err != nil {
		return nil, fmt.Errorf("failed to marshal ResolveResult: %w", err)
	}
	return packer.Bytes(), nil
}

// ComputeUnits implements chain.Action.
func (*Resolve) ComputeUnits(chain.Rules) uint64 {
	return ResolveComputeUnits
}

// ValidRange implements chain.Action.
func (*Resolve) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}

// Bytes implements chain.Action.
func (r *Resolve) Bytes() []byte {
	packer := codec.NewWriter(ids.IDLen+1, ids.IDLen+1)
	packer.PackID(r.MarketID)
	packer.PackByte(uint8(r.Outcome))
	return packer.Bytes()
}

// UnmarshalResolve deserializes bytes into a Resolve action, suitable for
// registration with codec.TypeParser.
func UnmarshalResolve(b []byte) (chain.Action, error) {
	action := &Resolve{}
	reader := codec.NewReader(b, ids.IDLen+1)
	reader.UnpackID(true, &action.MarketID)
	action.Outcome = storage.Outcome(reader.UnpackByte())
	if err := reader.Err(); err != nil {
		return nil, err
	}
	return action, nil
}
