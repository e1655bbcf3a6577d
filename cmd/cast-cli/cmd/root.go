// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

var ErrMissingSubcommand = errors.New("missing subcommand")

var rootCmd = &cobra.Command{
	Use:   "cast-cli",
	Short: "castvm operator utilities",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.AddCommand(
		marketCmd,
		genesisCmd,
	)
}

func Execute() error {
	return rootCmd.Execute()
}
