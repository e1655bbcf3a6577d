// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/castalgo/castvm/asset"
	"github.com/castalgo/castvm/consts"
	"github.com/castalgo/castvm/storage"
)

var (
	yesReserve uint64
	noReserve  uint64
)

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "inspect market-derived values",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var marketAssetsCmd = &cobra.Command{
	Use:   "assets [marketID]",
	Short: "derive the share asset IDs and custody address for a market",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		marketID, err := ids.FromString(args[0])
		if err != nil {
			return fmt.Errorf("invalid market ID %q: %w", args[0], err)
		}
		color.Cyan("market:  %s", marketID)
		color.Green("YES:     %s", asset.ShareAssetID(marketID, consts.YesShare))
		color.Red("NO:      %s", asset.ShareAssetID(marketID, consts.NoShare))
		fmt.Printf("custody: %s\n", storage.MarketAddress(marketID))
		return nil
	},
}

var marketOddsCmd = &cobra.Command{
	Use:   "odds",
	Short: "compute the implied YES probability from reserves",
	RunE: func(*cobra.Command, []string) error {
		m := storage.Market{YesReserve: yesReserve, NoReserve: noReserve}
		bps := m.ImpliedProbabilityBps()
		color.Cyan("yesReserve=%d noReserve=%d", yesReserve, noReserve)
		fmt.Printf("implied YES probability: %d bps (%d.%02d%%)\n", bps, bps/100, bps%100)
		return nil
	},
}

func init() {
	marketOddsCmd.Flags().Uint64Var(&yesReserve, "yes", 0, "cumulative YES reserve")
	marketOddsCmd.Flags().Uint64Var(&noReserve, "no", 0, "cumulative NO reserve")
	marketCmd.AddCommand(marketAssetsCmd, marketOddsCmd)
}
