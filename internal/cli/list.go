package cli

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/vishalmysore/ucpexample/domain/entities"
	"github.com/vishalmysore/ucpexample/host/registry"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered capabilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			host, closeAll, err := opts.bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer closeAll()

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleRounded)
			t.AppendHeader(table.Row{"Capability", "Group", "Transport", "Path", "Params"})

			n := 0
			for _, g := range host.Registry.Groups() {
				if group != "" && g.GroupName != group {
					continue
				}
				for _, d := range host.Registry.ListByGroup(g.GroupName) {
					t.AppendRow(table.Row{d.QualifiedName, groupLabel(g), d.DeclaredTransport, d.Path, formatSignature(host.Registry, d)})
					n++
				}
			}
			t.AppendFooter(table.Row{"", "", "", "Total", n})
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "only list capabilities of this group")
	return cmd
}

func groupLabel(g entities.BusinessGroup) string {
	if g.Primary {
		return g.GroupName + " *"
	}
	return g.GroupName
}

func formatSignature(reg *registry.Registry, d entities.CapabilityDescriptor) string {
	_, h, ok := reg.Resolve(d.QualifiedName)
	if !ok {
		return ""
	}
	sig := h.Signature()
	parts := make([]string, len(sig))
	for i, p := range sig {
		parts[i] = p.Name + " " + string(p.Kind)
	}
	return strings.Join(parts, ", ")
}
