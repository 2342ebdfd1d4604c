// Package main provides the autocrud command.
package main

import (
	"os"

	"github.com/leapstack-labs/autocrud/internal/cli"

	// Adapters register themselves with the adapter registry.
	_ "github.com/leapstack-labs/autocrud/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/autocrud/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/autocrud/pkg/adapters/sqlite"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
