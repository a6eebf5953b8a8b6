package dkimkey

import (
	"fmt"
	"io"
	"strconv"

	"github.com/tbckr/dkimkey/internal/dkim"
	"github.com/tbckr/dkimkey/internal/output"
)

// Result is the outcome of checking one DKIM key record.
type Result struct {
	Domain   string     `json:"domain"`
	Selector string     `json:"selector"`
	Record   string     `json:"record"`
	Valid    bool       `json:"valid"`
	Outcome  string     `json:"outcome"`
	KeyType  string     `json:"key_type,omitempty"`
	Bits     int        `json:"bits,omitempty"`
	Tags     []dkim.Tag `json:"tags,omitempty"`
	Error    string     `json:"error,omitempty"`

	// Err is the underlying error for errors.Is checks; not serialized.
	Err error `json:"-"`
}

// IsEmpty reports whether no record was checked.
func (r *Result) IsEmpty() bool {
	return r.Record == ""
}

// status is the one-word verdict shown in text and table output.
func (r *Result) status() string {
	if r.Valid {
		return "valid"
	}
	return "invalid"
}

// WriteText renders a one-line verdict followed by the record's tags.
func (r *Result) WriteText(w io.Writer) error {
	if !r.Valid {
		_, err := fmt.Fprintf(w, "%s: invalid (%s): %s\n", r.Record, r.Outcome, r.Error)
		return err
	}
	if _, err := fmt.Fprintf(w, "%s: valid (%s %d bits)\n", r.Record, r.KeyType, r.Bits); err != nil {
		return err
	}
	for _, tag := range r.Tags {
		if tag.Name == "p" {
			continue
		}
		if _, err := fmt.Fprintf(w, "  %s=%s\n", tag.Name, tag.Value); err != nil {
			return err
		}
	}
	return nil
}

// WritePlain renders "record status outcome bits" on a single line.
func (r *Result) WritePlain(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s %s %s %d\n", r.Record, r.status(), r.Outcome, r.Bits)
	return err
}

// WriteTable renders the record's fields and tags as a two-column table.
func (r *Result) WriteTable(w io.Writer) error {
	rows := [][]string{
		{"Record", r.Record},
		{"Status", r.status()},
		{"Outcome", r.Outcome},
	}
	if r.Valid {
		rows = append(rows, []string{"Bits", strconv.Itoa(r.Bits)})
	}
	if r.Error != "" {
		rows = append(rows, []string{"Error", r.Error})
	}
	for _, tag := range r.Tags {
		rows = append(rows, []string{"Tag " + tag.Name, tag.Value})
	}
	table := output.NewWrappingTable(w, 20, 20)
	table.Header([]string{"Field", "Value"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
