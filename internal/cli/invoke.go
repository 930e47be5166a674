package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vishalmysore/ucpexample/application/params"
	"github.com/vishalmysore/ucpexample/domain/entities"
	domainerrors "github.com/vishalmysore/ucpexample/domain/errors"
)

func newInvokeCmd(opts *rootOptions) *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "invoke <capability> [arg...|name=value...]",
		Short: "Dispatch a capability in-process and print its result envelope",
		Long: `Invoke dispatches a capability through the same path the transports use,
so capabilities declaring no transport can be called too.

Arguments are positional unless every one of them has the form name=value, in
which case they are matched to the handler's parameters by name. Values for
number parameters are parsed as numbers and values for object parameters as
JSON objects.`,
		Example: `  ucpctl invoke io.github.vishalmysore.car_comparison "Toyota Camry" "Honda Civic"
  ucpctl invoke io.github.vishalmysore.get_favorite_car personName=Alice`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, closeAll, err := opts.bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer closeAll()

			name := args[0]
			_, h, ok := host.Registry.Resolve(name)
			if !ok {
				return &domainerrors.CapabilityNotFoundError{Name: name}
			}

			callArgs, err := parseArgs(h.Signature(), args[1:])
			if err != nil {
				return err
			}

			env, err := host.Dispatch(cmd.Context(), name, callArgs)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(env)
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "print the envelope on one line")
	return cmd
}

// parseArgs turns command line words into dispatch arguments.
func parseArgs(sig entities.Signature, words []string) ([]any, error) {
	if len(words) > 0 && allNamed(words) {
		named := make(params.Named, len(words))
		for _, w := range words {
			k, v, _ := strings.Cut(w, "=")
			if _, dup := named[k]; dup {
				return nil, fmt.Errorf("parameter %s given twice", k)
			}
			named[k] = v
		}
		return params.Order(sig, named)
	}

	out := make([]any, len(words))
	for i, w := range words {
		if i < len(sig) {
			out[i] = params.Coerce(sig[i], w)
		} else {
			out[i] = w
		}
	}
	return out, nil
}

func allNamed(words []string) bool {
	for _, w := range words {
		k, _, ok := strings.Cut(w, "=")
		if !ok || k == "" || strings.ContainsAny(k, " \t") {
			return false
		}
	}
	return true
}
