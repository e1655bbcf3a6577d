// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "cast-cli" implements castvm operator utilities.
package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/castalgo/castvm/cmd/cast-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		color.Red("cast-cli exited with error: %+v", err)
		os.Exit(1)
	}
	os.Exit(0)
}
