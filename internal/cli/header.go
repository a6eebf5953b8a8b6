package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tbckr/dkimkey/internal/dkim"
	"github.com/tbckr/dkimkey/internal/output"
)

// headerResult is one header line split into name and value.
type headerResult struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (r *headerResult) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "name:  %q\nvalue: %q\n", r.Name, r.Value)
	return err
}

func (r *headerResult) WritePlain(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\t%s\n", r.Name, r.Value)
	return err
}

func (r *headerResult) WriteTable(w io.Writer) error {
	table := output.NewWrappingTable(w, 20, 20)
	table.Header([]string{"Name", "Value"})
	if err := table.Bulk([][]string{{r.Name, r.Value}}); err != nil {
		return err
	}
	return table.Render()
}

func newSplitHeaderCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "split-header [line]",
		Short: "Split a header line at its first colon",
		Long: `Split a raw header line into name and value at the first ':'. Neither part
is trimmed, so the value keeps its leading space. Without an argument one line
is read from stdin.`,
		Example: `  dkimkey split-header 'Subject: Hello: World'`,
		GroupID: "dkim",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readAll(cmd, args)
			if err != nil {
				return err
			}
			line := strings.TrimRight(string(data), "\r\n")

			name, value, err := dkim.SplitHeader(line)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), d, &headerResult{
				Name:  output.StripANSI(name),
				Value: output.StripANSI(value),
			})
		},
	}
}
