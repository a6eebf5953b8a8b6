package output_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/dkimkey/internal/output"
)

type fakeResult struct {
	Name string `json:"name"`
}

func (f *fakeResult) WriteText(w io.Writer) error {
	_, err := w.Write([]byte("text:" + f.Name))
	return err
}

func (f *fakeResult) WritePlain(w io.Writer) error {
	_, err := w.Write([]byte("plain:" + f.Name))
	return err
}

func (f *fakeResult) WriteTable(w io.Writer) error {
	_, err := w.Write([]byte("table:" + f.Name))
	return err
}

func TestWrite_Formats(t *testing.T) {
	tests := []struct {
		format output.Format
		want   string
	}{
		{output.FormatText, "text:hello"},
		{output.FormatPlain, "plain:hello"},
		{output.FormatTable, "table:hello"},
		{output.FormatJSON, "{\n  \"name\": \"hello\"\n}\n"},
	}
	for _, tc := range tests {
		t.Run(string(tc.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, output.Write(&buf, tc.format, &fakeResult{Name: "hello"}))
			assert.Equal(t, tc.want, buf.String())
		})
	}
}

func TestWrite_NotFormattable(t *testing.T) {
	for _, f := range []output.Format{output.FormatText, output.FormatPlain, output.FormatTable} {
		var buf bytes.Buffer
		err := output.Write(&buf, f, struct{ X int }{X: 1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not support "+string(f)+" output")
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := output.Write(&buf, output.Format("xml"), struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestParseFormat(t *testing.T) {
	f, err := output.ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, output.FormatJSON, f)

	_, err = output.ParseFormat("yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text, json, plain, table")
}
