// Command alchemy validates financial formulas and screens SEC filings
// for the companies that satisfy them.
package main

import (
	"os"

	"github.com/jsripraj/stock-alchemy/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
