package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbckr/dkimkey/internal/apperr"
	"github.com/tbckr/dkimkey/internal/services"
	"github.com/tbckr/dkimkey/internal/services/dkimkey"
	"github.com/tbckr/dkimkey/internal/worker"
)

func newCheckCmd(d *deps) *cobra.Command {
	var selectors []string

	cmd := &cobra.Command{
		Use:   "check [domain|selector._domainkey.domain ...]",
		Short: "Check DKIM public keys published in DNS",
		Long: `Fetch the DKIM key record of each input and validate its p= tag as an RSA
public key. Inputs are full record names (s1._domainkey.example.com) or bare
domains combined with every --selector. Without arguments, inputs are read
from stdin, one per line.

The command fails when any key is missing or invalid.`,
		Example: `  dkimkey check -s google example.com
  dkimkey check s1._domainkey.example.com s2._domainkey.example.com
  cat domains.txt | dkimkey check -s s1 -s s2 -o table`,
		GroupID: "dkim",
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := resolveInputs(cmd, args)
			if err != nil {
				return err
			}
			names, err := dkimkey.ExpandInputs(inputs, selectors)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				return fmt.Errorf("%w: no inputs", apperr.ErrInvalidInput)
			}

			svc, m, err := d.newKeyService()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			results := worker.Run(ctx, svc, names, d.cfg.Concurrency)

			var (
				collected []services.Result
				errs      []error
			)
			for _, r := range results {
				if r.Err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", r.Input, r.Err))
					continue
				}
				collected = append(collected, r.Output)
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			all := svc.AggregateResults(collected).(*dkimkey.MultiResult)
			switch all.Len() {
			case 0:
			case 1:
				err = writeResult(cmd.OutOrStdout(), d, all.Results[0])
			default:
				err = writeResult(cmd.OutOrStdout(), d, all)
			}
			if err != nil {
				return err
			}

			if m != nil {
				if err := m.WriteTextfile(d.cfg.MetricsFile); err != nil {
					return fmt.Errorf("writing metrics: %w", err)
				}
				d.logger.Debug("metrics written", "file", d.cfg.MetricsFile)
			}

			if len(errs) > 0 {
				return errors.Join(errs...)
			}
			if failed := all.Failed(); failed > 0 {
				return fmt.Errorf("%w: %d of %d", apperr.ErrCheckFailed, failed, all.Len())
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&selectors, "selector", "s", nil, "selector to combine with bare domain inputs (repeatable)")
	return cmd
}
