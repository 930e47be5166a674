package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	ucp "github.com/vishalmysore/ucpexample"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of ucpctl",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ucpctl version %s\n", ucp.Version)
		},
	}
}
