package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Format is the output format requested by the user.
type Format string

// Output format constants supported by the --output flag.
const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatPlain Format = "plain"
	FormatTable Format = "table"
)

// Formats lists every supported format in the order shown in help text.
var Formats = []Format{FormatText, FormatJSON, FormatPlain, FormatTable}

// ParseFormat returns the Format named by s, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format: %q (want %s)", s, formatList())
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// TextFormattable results render a human-readable summary.
type TextFormattable interface {
	WriteText(w io.Writer) error
}

// PlainFormattable results render one record per line for piping to other tools.
type PlainFormattable interface {
	WritePlain(w io.Writer) error
}

// TableFormattable results know how to render themselves as an ASCII table.
type TableFormattable interface {
	WriteTable(w io.Writer) error
}

// Write dispatches a result to the formatter for format. JSON uses an indented
// json.Encoder; the other formats require the matching interface.
func Write(w io.Writer, format Format, result any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatText:
		tf, ok := result.(TextFormattable)
		if !ok {
			return fmt.Errorf("result type %T does not support text output", result)
		}
		return tf.WriteText(w)
	case FormatPlain:
		pf, ok := result.(PlainFormattable)
		if !ok {
			return fmt.Errorf("result type %T does not support plain output", result)
		}
		return pf.WritePlain(w)
	case FormatTable:
		tf, ok := result.(TableFormattable)
		if !ok {
			return fmt.Errorf("result type %T does not support table output", result)
		}
		return tf.WriteTable(w)
	default:
		return fmt.Errorf("unsupported output format: %q", format)
	}
}
