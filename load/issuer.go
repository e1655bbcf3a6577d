// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package load

import (
	"context"
	"errors"
	"time"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/hypersdk/api/ws"
	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/fees"
	"github.com/ava-labs/hypersdk/load"

	"github.com/castalgo/castvm/actions"
	"github.com/castalgo/castvm/storage"
)

var (
	ErrTxGeneratorFundsExhausted = errors.New("tx generator funds exhausted")
	ErrIssuerStopped             = errors.New("issuer stopped")

	_ load.Issuer[*chain.Transaction] = (*Issuer)(nil)
)

// Issuer floods a market with minimal BuyYes transactions until its funds
// run out, for load testing.
type Issuer struct {
	authFactory chain.AuthFactory
	ruleFactory chain.RuleFactory
	marketID    ids.ID
	currBalance uint64
	unitPrices  fees.Dimensions

	client  *ws.WebSocketClient
	tracker load.Tracker[ids.ID]
	stopped bool
}

func NewIssuer(
	authFactory chain.AuthFactory,
	ruleFactory chain.RuleFactory,
	marketID ids.ID,
	currBalance uint64,
	unitPrices fees.Dimensions,
	client *ws.WebSocketClient,
	tracker load.Tracker[ids.ID],
) *Issuer {
	return &Issuer{
		authFactory: authFactory,
		ruleFactory: ruleFactory,
		marketID:    marketID,
		currBalance: currBalance,
		unitPrices:  unitPrices,
		client:      client,
		tracker:     tracker,
	}
}

func (i *Issuer) GenerateTx(context.Context) (*chain.Transaction, error) {
	const depositAmount = 1
	tx, err := chain.GenerateTransaction(
		i.ruleFactory,
		i.unitPrices,
		time.Now().UnixMilli(),
		[]chain.Action{
			&actions.BuyYes{
				MarketID: i.marketID,
				Deposit: actions.Deposit{
					Sender:    i.authFactory.Address(),
					Recipient: storage.MarketAddress(i.marketID),
					Amount:    depositAmount,
				},
			},
		},
		i.authFactory,
	)
	if err != nil {
		return nil, err
	}
	if tx.MaxFee()+depositAmount > i.currBalance {
		return nil, ErrTxGeneratorFundsExhausted
	}
	i.currBalance -= tx.MaxFee() + depositAmount
	return tx, nil
}

func (i *Issuer) IssueTx(_ context.Context, tx *chain.Transaction) error {
	if i.stopped {
		return ErrIssuerStopped
	}
	if err := i.client.RegisterTx(tx); err != nil {
		return err
	}
	i.tracker.Issue(tx.GetID())
	return nil
}

// Listen blocks until the context is done. Confirmation tracking rides on
// the tracker callbacks registered by the load harness.
func (i *Issuer) Listen(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// Stop prevents further transaction issuance.
func (i *Issuer) Stop() {
	i.stopped = true
}
