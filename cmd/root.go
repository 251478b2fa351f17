package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/Alijeyrad/halisaha_backend/cmd/http"
	synccmd "github.com/Alijeyrad/halisaha_backend/cmd/sync"
	systemcmd "github.com/Alijeyrad/halisaha_backend/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "halisaha",
	Short: "Booking backend for a halı saha (small-sided football) venue.",
	Long: `halisaha runs the booking backend of a two-pitch football venue: one-off
appointments, customers, weekly subscriptions and the sync that turns
subscriptions into dated bookings.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
	rootCmd.AddCommand(synccmd.NewSyncCommand())
}
