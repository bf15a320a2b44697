package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridspec/gridspec/pkg/version"
)

// VersionCmd returns the version command.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info := version.Get()
			fmt.Fprintf(cmd.OutOrStdout(), "gridspec version %s\n", info.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "commit: %s\n", info.CommitHash)
			fmt.Fprintf(cmd.OutOrStdout(), "built: %s\n", info.BuildDate)
		},
	}
}
