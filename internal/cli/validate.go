package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vishalmysore/ucpexample/application/validation"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	failMark = color.New(color.FgRed).Sprint("✗")
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the manifest and register it against the handler catalog",
		Long: `Validate reports every structural problem of the manifest (missing
fields, duplicate names, transport mismatches, a second primary group) and then
registers it, which also checks that every binding resolves to a handler.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			m, baseDir, err := opts.readManifest(false)
			if err != nil {
				return err
			}

			res := validation.New(validation.WithLogger(opts.logger)).ValidateManifest(m)
			if !res.Valid {
				for _, e := range res.Errors {
					fmt.Fprintf(out, "%s %s: %s\n", failMark, e.Field, e.Message)
				}
				return &InvalidManifestError{Count: len(res.Errors)}
			}

			host, closeAll, err := opts.bootstrapManifest(cmd.Context(), m, baseDir)
			if err != nil {
				fmt.Fprintf(out, "%s %v\n", failMark, err)
				return err
			}
			defer closeAll()

			fmt.Fprintf(out, "%s %s (%s): %d groups, %d capabilities\n",
				okMark, m.Business, m.Version, len(m.Groups), host.Registry.Len())
			if primary, ok := host.Registry.PrimaryGroup(); ok {
				fmt.Fprintf(out, "  primary group: %s\n", primary.GroupName)
			}
			return nil
		},
	}
}
