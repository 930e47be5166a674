// Package cli implements the ucpctl command line: validating a manifest,
// listing its capabilities and invoking them in-process.
package cli

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	ucp "github.com/vishalmysore/ucpexample"
	domainerrors "github.com/vishalmysore/ucpexample/domain/errors"
	"github.com/vishalmysore/ucpexample/log"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeInvalidManifest indicates the manifest could not be registered.
	ExitCodeInvalidManifest = 2
)

// EnvManifest names the environment variable holding the default manifest path.
const EnvManifest = "UCP_MANIFEST"

type rootOptions struct {
	logger       *slog.Logger
	manifestPath string
	logLevel     string
	logFormat    string
	vars         []string
}

// NewRootCommand builds the ucpctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	cmd := &cobra.Command{
		Use:   "ucpctl",
		Short: "Inspect and invoke the capabilities of a manifest",
		Long: `ucpctl loads a capability manifest, registers every group and capability
against the built-in handler catalog, and lets you validate, list and invoke
them without starting a server.

Without --manifest (or $UCP_MANIFEST) the embedded AutoGroup North sample is used.
Manifests may reference ${VAR} environment variables; with --var they are also
rendered as Go templates, e.g. business: {{ .vars.business | quote }}.`,
		Version: ucp.Version,
		// SilenceUsage keeps Cobra from printing usage on command errors.
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := log.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			logger, err := log.New(opts.logFormat, level, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
	}
	cmd.SetVersionTemplate(`{{printf "ucpctl version %s\n" .Version}}`)

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.manifestPath, "manifest", os.Getenv(EnvManifest), "manifest file, YAML or TOML (default: embedded sample)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", log.FormatText, "log format: text or json")
	flags.StringArrayVar(&opts.vars, "var", nil, "manifest template variable as key=value (repeatable); enables {{ .vars.key }} templating")

	cmd.AddCommand(
		newValidateCmd(opts),
		newListCmd(opts),
		newInvokeCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs ucpctl with os.Args and returns the process exit code.
func Execute() int {
	return exitCode(NewRootCommand().Execute())
}

func exitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	var invalid *InvalidManifestError
	if errors.As(err, &invalid) || domainerrors.IsRegistrationError(err) {
		return ExitCodeInvalidManifest
	}
	return ExitCodeError
}
