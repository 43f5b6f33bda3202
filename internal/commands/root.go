// Package commands implements the coleta-admin command line tool.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd returns the coleta-admin command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "coleta-admin",
		Short:         "Administrative tasks for the trash collection calendar",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		NewHashPasswordCmd(),
		NewBroadcastCmd(),
		NewEnqueueCmd(),
	)
	return root
}
