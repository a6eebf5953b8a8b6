package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tbckr/dkimkey/internal/appdir"
	"github.com/tbckr/dkimkey/internal/config"
	"github.com/tbckr/dkimkey/internal/output"
)

func newConfigCmd(d *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Read and write dkimkey config file values",
		GroupID: "utility",
	}
	cmd.AddCommand(
		newConfigPathCmd(d),
		newConfigShowCmd(d),
		newConfigGetCmd(d),
		newConfigSetCmd(d),
		newConfigKeysCmd(),
	)
	return cmd
}

func newConfigPathCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), d.cfg.ConfigFile)
			return err
		},
	}
}

func newConfigKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the settable config keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(config.ValidKeys(), "\n"))
			return err
		},
	}
}

// effectiveValues returns the resolved value of every key, including
// defaults, environment variables and flag overrides.
func effectiveValues(cfg *config.Config) map[string]any {
	return map[string]any{
		"verbose":      cfg.Verbose,
		"output":       cfg.Output,
		"concurrency":  cfg.Concurrency,
		"transport":    cfg.Transport,
		"nameserver":   cfg.Nameserver,
		"doh_url":      cfg.DoHURL,
		"proxy":        cfg.Proxy,
		"user_agent":   cfg.UserAgent,
		"timeout":      cfg.Timeout.String(),
		"rate_limit":   cfg.RateLimit,
		"rate_burst":   cfg.RateBurst,
		"require_tag":  cfg.RequireTag,
		"metrics_file": cfg.MetricsFile,
	}
}

func formatValue(v any) string {
	switch t := v.(type) {
	case []string:
		return strings.Join(t, ",")
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func newConfigShowCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Aliases: []string{"cat"},
		Short:   "Display all effective config settings",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			values := effectiveValues(d.cfg)
			switch output.Format(d.cfg.Output) {
			case output.FormatJSON:
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(values)
			case output.FormatPlain:
				for _, k := range config.ValidKeys() {
					if _, err := fmt.Fprintf(w, "%s=%s\n", k, formatValue(values[k])); err != nil {
						return err
					}
				}
				return nil
			case output.FormatTable:
				table := output.NewWrappingTable(w, 20, 6)
				table.Header([]string{"KEY", "VALUE"})
				rows := make([][]string, 0, len(values))
				for _, k := range config.ValidKeys() {
					rows = append(rows, []string{k, formatValue(values[k])})
				}
				if err := table.Bulk(rows); err != nil {
					return err
				}
				return table.Render()
			default: // text renders the file format
				enc := yaml.NewEncoder(w)
				enc.SetIndent(2)
				if err := enc.Encode(values); err != nil {
					return err
				}
				return enc.Close()
			}
		},
	}
}

func newConfigGetCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the effective value of a config key",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.ValidKeys(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			key := config.NormalizeKey(args[0])
			if err := config.ValidateKey(key); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), formatValue(effectiveValues(d.cfg)[key]))
			return err
		},
	}
}

func newConfigSetCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value and persist it to the config file",
		Args:  cobra.ExactArgs(2),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			switch len(args) {
			case 0:
				return config.ValidKeys(), cobra.ShellCompDirectiveNoFileComp
			case 1:
				return config.KeyCompletions(args[0]), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(_ *cobra.Command, args []string) error {
			key := config.NormalizeKey(args[0])
			typed, err := config.ParseValue(key, args[1])
			if err != nil {
				return err
			}

			// Only keys already in the file are kept; effective values from
			// flags or env never leak into it.
			raw := map[string]any{}
			data, err := os.ReadFile(d.cfg.ConfigFile)
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("reading config file: %w", err)
			}
			if len(data) > 0 {
				if err := yaml.Unmarshal(data, &raw); err != nil {
					return fmt.Errorf("parsing config file: %w", err)
				}
			}
			raw[key] = typed

			out, err := yaml.Marshal(raw)
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			return appdir.WriteFile(d.cfg.ConfigFile, out)
		},
	}
}
