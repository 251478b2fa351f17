package http

import "github.com/spf13/cobra"

// NewHTTPCommand groups the commands that serve the booking API.
func NewHTTPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve the pitch booking API",
		Long:  "Serve the REST API used by venue staff to manage bookings, customers and subscriptions.",
	}
	cmd.AddCommand(NewStartCommand())
	return cmd
}
