// @title fintrack API
// @version 1.0
// @description Personal finance tracker: incomes, expenses, stock purchases, summaries and exports.
// @BasePath /
package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "fintrack",
	Short: "Personal finance tracker backend",
	Long: `fintrack records incomes, expenses and stock purchases, generates
recurring transactions and serves monthly and yearly summaries over HTTP.`,
	SilenceUsage: true,
}

func init() {
	// amounts go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml or $HOME/.fintrack/config.yaml)")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, recurringCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
