package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/castalgo/castvm/asset"
	"github.com/castalgo/castvm/consts"
	"github.com/castalgo/castvm/escrow"
	"github.com/castalgo/castvm/storage"
)

// Deposit is the value-transfer record bundled atomically with a buy. The
// declared sender must be the calling identity and the declared recipient
// must be the market custody address; the cross-check stops a caller from
// claiming credit for someone else's deposit or redirecting funds.
type Deposit struct {
	Sender    codec.Address `serialize:"true" json:"sender"`
	Recipient codec.Address `serialize:"true" json:"recipient"`
	Amount    uint64        `serialize:"true" json:"amount"`
}

// executeBuy is the shared buy path: guards, identity cross-checks, escrow
// transfer, reserve accounting and 1:1 share issuance. Returns shares issued
// and the side's new reserve.
func executeBuy(
	ctx context.Context,
	mu state.Mutable,
	side storage.Side,
	marketID ids.ID,
	deposit Deposit,
	timestamp int64,
	actor codec.Address,
) (uint64, uint64, error) {
	if deposit.Amount == 0 {
		return 0, 0, storage.ErrZeroAmount
	}

	market, err := storage.GetMarket(ctx, mu, marketID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, 0, fmt.Errorf("%w: %s", ErrMarketNotFound, marketID)
		}
		return 0, 0, err
	}
	if err := market.TradingOpen(timestamp); err != nil {
		return 0, 0, err
	}

	if deposit.Sender != actor {
		return 0, 0, fmt.Errorf("%w: deposit sender %s does not match caller %s",
			ErrUnauthorized, deposit.Sender, actor)
	}
	custody := storage.MarketAddress(marketID)
	if deposit.Recipient != custody {
		return 0, 0, fmt.Errorf("%w: deposit recipient %s is not market custody %s",
			ErrUnauthorized, deposit.Recipient, custody)
	}

	shares, err := market.RecordDeposit(side, deposit.Amount, timestamp)
	if err != nil {
		return 0, 0, err
	}
	if err := escrow.Deposit(ctx, mu, marketID, actor, deposit.Amount); err != nil {
		return 0, 0, err
	}
	if err := storage.SetMarket(ctx, mu, market); err != nil {
		return 0, 0, fmt.Errorf("failed to store market %s: %w", marketID, err)
	}

	assetID := market.YesAssetID
	reserve := market.YesReserve
	if side == storage.SideNo {
		assetID = market.NoAssetID
		reserve = market.NoReserve
	}
	if err := asset.Issue(ctx, mu, assetID, actor, shares); err != nil {
		return 0, 0, fmt.Errorf("failed to issue %s shares for market %s: %w", side, marketID, err)
	}
	return shares, reserve, nil
}

// buyStateKeys lists the keys a buy on either side touches.
func buyStateKeys(marketID ids.ID, class uint8, actor codec.Address) state.Keys {
	shareAssetID := asset.ShareAssetID(marketID, class)
	return state.Keys{
		string(storage.MarketKey(marketID)):           state.Write,
		string(storage.BalanceKey(actor)):             state.Write,
		string(escrow.EscrowKey(marketID)):            state.Write,
		string(asset.DefinitionKey(shareAssetID)):     state.Read,
		string(asset.BalanceKey(actor, shareAssetID)): state.Write,
	}
}

func unmarshalBuyInto(b []byte, action interface{}) error {
	reader := codec.NewReader(b, consts.MaxActionSize)
	return codec.LinearCodec.UnmarshalFrom(reader.Packer, action)
}
