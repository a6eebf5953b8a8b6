package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tbckr/dkimkey/internal/dkim"
	"github.com/tbckr/dkimkey/internal/output"
)

// encodeResult is the output of the encode subcommands.
type encodeResult struct {
	Encoding string `json:"encoding"`
	Charset  string `json:"charset,omitempty"`
	Bytes    int    `json:"input_bytes"`
	Encoded  string `json:"encoded"`
}

func (r *encodeResult) WriteText(w io.Writer) error {
	_, err := fmt.Fprintln(w, r.Encoded)
	return err
}

func (r *encodeResult) WritePlain(w io.Writer) error { return r.WriteText(w) }

func (r *encodeResult) WriteTable(w io.Writer) error {
	rows := [][]string{{"Encoding", r.Encoding}}
	if r.Charset != "" {
		rows = append(rows, []string{"Charset", r.Charset})
	}
	rows = append(rows,
		[]string{"Input bytes", strconv.Itoa(r.Bytes)},
		[]string{"Encoded", r.Encoded},
	)
	table := output.NewWrappingTable(w, 20, 20)
	table.Header([]string{"Field", "Value"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func newEncodeCmd(d *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "encode",
		Short:   "Encode values for a DKIM-Signature header",
		GroupID: "dkim",
	}
	cmd.AddCommand(newEncodeQPCmd(d), newEncodeBase64Cmd(d))
	return cmd
}

func newEncodeQPCmd(d *deps) *cobra.Command {
	var charset string
	cmd := &cobra.Command{
		Use:   "qp [text...]",
		Short: "DKIM quoted-printable encode text (e.g. for z= or i=)",
		Long: `Encode text with the DKIM flavour of quoted-printable: every byte outside
printable ASCII, and every '=', ';' and space, becomes =XX. No soft line breaks
are inserted. Arguments are joined by a single space; without arguments stdin
is read and one trailing newline is dropped.`,
		Example: `  dkimkey encode qp 'From: Jöhn <j@example.com>'
  dkimkey encode qp --charset iso-8859-1 'café'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readAll(cmd, args)
			if err != nil {
				return err
			}
			text := string(data)
			if len(args) == 0 {
				text = strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")
			}

			var encoded string
			if charset != "" {
				encoded, err = dkim.QuotedPrintableCharset(text, charset)
			} else {
				encoded, err = dkim.QuotedPrintable(text)
			}
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), d, &encodeResult{
				Encoding: "quoted-printable",
				Charset:  charset,
				Bytes:    len(text),
				Encoded:  encoded,
			})
		},
	}
	cmd.Flags().StringVar(&charset, "charset", "", "transcode to this charset (e.g. iso-8859-1, windows-1252) before encoding")
	return cmd
}

func newEncodeBase64Cmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "base64 [file|-]",
		Short: "Base64 encode binary data without line breaks (e.g. for b= or bh=)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if len(args) == 1 && args[0] != "-" {
				data, err = os.ReadFile(args[0])
			} else {
				data, err = readAll(cmd, nil)
			}
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), d, &encodeResult{
				Encoding: "base64",
				Bytes:    len(data),
				Encoded:  dkim.Base64(data),
			})
		},
	}
}
