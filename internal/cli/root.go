// Package cli provides the Cobra command tree and output wiring for dkimkey.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tbckr/dkimkey/internal/config"
	"github.com/tbckr/dkimkey/internal/dkim"
	"github.com/tbckr/dkimkey/internal/output"
	"github.com/tbckr/dkimkey/internal/version"
	"github.com/tbckr/dkimkey/internal/worker"
)

// newRootCmd builds the top-level Cobra command for dkimkey.
func newRootCmd() *cobra.Command {
	// d is populated by PersistentPreRunE before any subcommand's RunE runs.
	// Cobra only executes the innermost PersistentPreRunE, so subcommands must
	// not define their own.
	var d deps

	cmd := &cobra.Command{
		Use:   "dkimkey",
		Short: "Resolve and validate DKIM public keys and encode DKIM header values",
		Long: `dkimkey fetches the DKIM key record a signer publishes at
<selector>._domainkey.<domain>, checks that its p= tag holds a usable RSA
public key, and provides the encoders needed to build a DKIM-Signature header.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			resolved, err := buildDeps(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			d = *resolved
			return nil
		},
	}

	config.RegisterFlags(cmd.PersistentFlags())
	config.RegisterFlagCompletions(cmd)

	cmd.Version = version.Version
	cmd.SetVersionTemplate("dkimkey version {{.Version}}\n")

	cmd.AddGroup(
		&cobra.Group{ID: "dkim", Title: "DKIM Commands:"},
		&cobra.Group{ID: "utility", Title: "Utility Commands:"},
	)

	cmd.AddCommand(
		newCheckCmd(&d),
		newEncodeCmd(&d),
		newSplitHeaderCmd(&d),
		newConfigCmd(&d),
		newVersionCmd(&d),
	)
	return cmd
}

// Execute builds the root command and runs it with args (without the program name).
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

// resolveInputs returns positional args, or reads non-empty lines from stdin when
// no args are provided. Returns an error if stdin is an interactive terminal with
// no args (i.e. the user forgot to pass an argument or pipe input).
func resolveInputs(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	r := cmd.InOrStdin()
	if isTerminal(r) {
		return nil, fmt.Errorf("no input: pass an argument or pipe stdin")
	}
	return worker.ReadInputs(r)
}

// readAll returns args joined by a space, or all of stdin when args is empty.
func readAll(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) > 0 {
		return []byte(dkim.JoinList(args, " ")), nil
	}
	r := cmd.InOrStdin()
	if isTerminal(r) {
		return nil, fmt.Errorf("no input: pass an argument or pipe stdin")
	}
	return io.ReadAll(r)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // uintptr→int is safe for file descriptors
}

// writeResult formats and writes a result to stdout in the configured format.
func writeResult(stdout io.Writer, d *deps, result any) error {
	if err := output.Write(stdout, output.Format(d.cfg.Output), result); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
