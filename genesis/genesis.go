package genesis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"
	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/castalgo/castvm/asset"
	"github.com/castalgo/castvm/consts"
	"github.com/castalgo/castvm/storage"
)

var _ chain.Genesis = (*Genesis)(nil)

// SeedMarket is a market opened at genesis, before any transaction runs.
type SeedMarket struct {
	ID             uint64 `json:"id"`
	Question       string `json:"question"`
	CloseTimestamp int64  `json:"closeTimestamp"`
	Resolver       string `json:"resolver"` // bech32
}

// Allocation credits a settlement-currency balance at genesis.
type Allocation struct {
	Address string `json:"address"` // bech32
	Balance uint64 `json:"balance"`
}

// Genesis is the genesis document for castvm.
type Genesis struct {
	Magic       uint64       `json:"magic"`
	Timestamp   int64        `json:"timestamp"`
	Markets     []SeedMarket `json:"markets"`
	Allocations []Allocation `json:"allocations"`
}

func (g *Genesis) Load(raw []byte) error {
	return json.Unmarshal(raw, g)
}

func (g *Genesis) GetMagic() uint64 {
	return g.Magic
}

func (g *Genesis) GetTimestamp() int64 {
	return g.Timestamp
}

// InitializeState credits allocations and opens seed markets, registering
// their share tokens the same way CreateMarket does.
func (g *Genesis) InitializeState(ctx context.Context, _ trace.Tracer, mu state.Mutable, bh chain.BalanceHandler) error {
	for _, alloc := range g.Allocations {
		addr, err := decodeBech32Address(alloc.Address)
		if err != nil {
			return err
		}
		if err := bh.AddBalance(ctx, addr, mu, alloc.Balance); err != nil {
			return err
		}
	}

	for _, seed := range g.Markets {
		if len(seed.Question) == 0 || len(seed.Question) > consts.MaxQuestionLength {
			return fmt.Errorf("seed market %d: question length %d out of range [1,%d]",
				seed.ID, len(seed.Question), consts.MaxQuestionLength)
		}
		if seed.CloseTimestamp <= g.Timestamp {
			return fmt.Errorf("seed market %d: close timestamp %d not after genesis %d",
				seed.ID, seed.CloseTimestamp, g.Timestamp)
		}
		resolver := codec.EmptyAddress
		if seed.Resolver != "" {
			var err error
			resolver, err = decodeBech32Address(seed.Resolver)
			if err != nil {
				return fmt.Errorf("seed market %d: %w", seed.ID, err)
			}
		}

		marketID := SeedMarketID(seed.ID)
		exists, err := storage.MarketExists(ctx, mu, marketID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: seed market %d", storage.ErrMarketExists, seed.ID)
		}

		yesAssetID, err := asset.RegisterShareAsset(ctx, mu, marketID, consts.YesShare, uint64(g.Timestamp))
		if err != nil {
			return fmt.Errorf("seed market %d: %w", seed.ID, err)
		}
		noAssetID, err := asset.RegisterShareAsset(ctx, mu, marketID, consts.NoShare, uint64(g.Timestamp))
		if err != nil {
			return fmt.Errorf("seed market %d: %w", seed.ID, err)
		}

		market := &storage.Market{
			ID:             marketID,
			Question:       seed.Question,
			Creator:        resolver,
			Resolver:       resolver,
			CloseTimestamp: seed.CloseTimestamp,
			YesAssetID:     yesAssetID,
			NoAssetID:      noAssetID,
		}
		if err := storage.SetMarket(ctx, mu, market); err != nil {
			return err
		}
	}
	return nil
}

// SeedMarketID maps a small genesis market number onto the ID space used by
// transaction-created markets.
func SeedMarketID(n uint64) ids.ID {
	var id ids.ID
	for i := 0; i < 8; i++ {
		id[ids.IDLen-1-i] = byte(n >> (8 * i))
	}
	return id
}

func decodeBech32Address(s string) (codec.Address, error) {
	_, data5bit, err := bech32.Decode(s)
	if err != nil {
		return codec.EmptyAddress, fmt.Errorf("failed to decode bech32 address %s: %w", s, err)
	}
	data8bit, err := bech32.ConvertBits(data5bit, 5, 8, false)
	if err != nil {
		return codec.EmptyAddress, fmt.Errorf("failed to convert bech32 data bits for %s: %w", s, err)
	}
	if len(data8bit) > codec.AddressLen {
		return codec.EmptyAddress, fmt.Errorf("decoded address %s too long: %d bytes, max %d",
			s, len(data8bit), codec.AddressLen)
	}
	var addr codec.Address
	copy(addr[:], data8bit)
	return addr, nil
}

// GetDefault returns a genesis document with one open demo market and no
// allocations.
func GetDefault() *Genesis {
	now := time.Now().Unix()
	return &Genesis{
		Magic:     12345,
		Timestamp: now,
		Markets: []SeedMarket{
			{
				ID:             1,
				Question:       "Will X happen by Y date?",
				CloseTimestamp: now + 24*60*60,
			},
		},
	}
}
