package system

import "github.com/spf13/cobra"

func NewSystemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "system",
		Aliases: []string{"sys"},
		Short:   "Database setup and CLI docs",
		Long:    "Create the database, create the collection tables and generate command reference docs.",
	}
	cmd.AddCommand(
		NewInitCommand(),
		NewMigrateCommand(),
		NewGenDocsCommand(),
	)
	return cmd
}
