package sync

import "github.com/spf13/cobra"

func NewSyncCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Subscription sync commands",
	}

	cmd.AddCommand(NewRunCommand())

	return cmd
}
