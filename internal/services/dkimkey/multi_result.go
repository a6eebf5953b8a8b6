package dkimkey

import (
	"io"
	"strconv"

	"github.com/tbckr/dkimkey/internal/output"
	"github.com/tbckr/dkimkey/internal/services"
)

// MultiResult holds the results of several key checks.
type MultiResult struct {
	services.MultiResultBase[Result, *Result]
}

// Failed reports how many contained checks did not yield a valid key.
func (m *MultiResult) Failed() int {
	n := 0
	for _, r := range m.Results {
		if !r.Valid {
			n++
		}
	}
	return n
}

// WritePlain writes one line per result.
func (m *MultiResult) WritePlain(w io.Writer) error {
	for _, r := range m.Results {
		if err := r.WritePlain(w); err != nil {
			return err
		}
	}
	return nil
}

// WriteTable renders all results in one table grouped by domain.
// Columns: Domain / Selector / Status / Bits / Detail.
func (m *MultiResult) WriteTable(w io.Writer) error {
	var rows [][]string
	for _, r := range m.Results {
		bits := ""
		if r.Valid {
			bits = strconv.Itoa(r.Bits)
		}
		detail := r.Outcome
		if r.Error != "" {
			detail = r.Error
		}
		rows = append(rows, []string{r.Domain, r.Selector, r.status(), bits, detail})
	}
	table := output.NewGroupedWrappingTable(w, 20, 50)
	table.Header([]string{"Domain", "Selector", "Status", "Bits", "Detail"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
