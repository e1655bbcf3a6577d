// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/castalgo/castvm/genesis"
)

var genesisCmd = &cobra.Command{
	Use:   "genesis",
	Short: "print a default genesis document",
	RunE: func(*cobra.Command, []string) error {
		raw, err := json.MarshalIndent(genesis.GetDefault(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
		return nil
	},
}
