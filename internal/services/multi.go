package services

import (
	"encoding/json"
	"io"
)

// multiItem is the per-record result a MultiResultBase aggregates.
type multiItem[T any] interface {
	*T
	IsEmpty() bool
	WriteText(w io.Writer) error
}

// MultiResultBase holds the results of a bulk run in input order and
// implements the parts of Result that do not depend on the record type.
// Embedding types add the plain and table writers.
type MultiResultBase[T any, PT multiItem[T]] struct {
	Results []PT
}

// Len returns the number of aggregated results.
func (m *MultiResultBase[T, PT]) Len() int {
	return len(m.Results)
}

// IsEmpty reports whether no contained result carries data.
func (m *MultiResultBase[T, PT]) IsEmpty() bool {
	for _, r := range m.Results {
		if !r.IsEmpty() {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the results as a JSON array rather than an object.
func (m *MultiResultBase[T, PT]) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Results)
}

// WriteText writes each result's text form in order.
func (m *MultiResultBase[T, PT]) WriteText(w io.Writer) error {
	for _, r := range m.Results {
		if err := r.WriteText(w); err != nil {
			return err
		}
	}
	return nil
}
