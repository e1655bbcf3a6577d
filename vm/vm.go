// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"errors"

	"github.com/ava-labs/hypersdk/auth"
	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/genesis"
	"github.com/ava-labs/hypersdk/state/metadata"
	"github.com/ava-labs/hypersdk/vm"
	"github.com/ava-labs/hypersdk/vm/defaultvm"

	"github.com/castalgo/castvm/actions"
	"github.com/castalgo/castvm/controller"
)

var (
	ActionParser *codec.TypeParser[chain.Action]
	AuthParser   *codec.TypeParser[chain.Auth]
	OutputParser *codec.TypeParser[codec.Typed]

	AuthProvider *auth.AuthProvider

	Parser *chain.TxTypeParser
)

// Setup types
func init() {
	ActionParser = codec.NewTypeParser[chain.Action]()
	AuthParser = codec.NewTypeParser[chain.Auth]()
	OutputParser = codec.NewTypeParser[codec.Typed]()
	AuthProvider = auth.NewAuthProvider()

	if err := auth.WithDefaultPrivateKeyFactories(AuthProvider); err != nil {
		panic(err)
	}

	if err := errors.Join(
		ActionParser.Register(&actions.CreateMarket{}, actions.UnmarshalCreateMarket),
		ActionParser.Register(&actions.BuyYes{}, actions.UnmarshalBuyYes),
		ActionParser.Register(&actions.BuyNo{}, actions.UnmarshalBuyNo),
		ActionParser.Register(&actions.Resolve{}, actions.UnmarshalResolve),
		ActionParser.Register(&actions.Claim{}, actions.UnmarshalClaim),

		AuthParser.Register(&auth.ED25519{}, auth.UnmarshalED25519),
		AuthParser.Register(&auth.SECP256R1{}, auth.UnmarshalSECP256R1),
		AuthParser.Register(&auth.BLS{}, auth.UnmarshalBLS),

		OutputParser.Register(&actions.CreateMarketResult{}, nil),
		OutputParser.Register(&actions.BuyYesResult{}, nil),
		OutputParser.Register(&actions.BuyNoResult{}, nil),
		OutputParser.Register(&actions.ResolveResult{}, nil),
		OutputParser.Register(&actions.ClaimResult{}, nil),
	); err != nil {
		panic(err)
	}

	Parser = chain.NewTxTypeParser(ActionParser, AuthParser)
}

// New returns a VM with the specified options
func New(options ...vm.Option) (*vm.VM, error) {
	return NewFactory().New(options...)
}

func NewFactory() *vm.Factory {
	options := defaultvm.NewDefaultOptions()
	return vm.NewFactory(
		&genesis.DefaultGenesisFactory{},
		controller.New(),
		metadata.NewDefaultManager(),
		ActionParser,
		AuthParser,
		OutputParser,
		auth.DefaultEngines(),
		options...,
	)
}
