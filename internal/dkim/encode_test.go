package dkim_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/dkimkey/internal/dkim"
)

func TestQuotedPrintable(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain ascii unchanged", "example.com", "example.com"},
		{"semicolon escaped", "a;b", "a=3Bb"},
		{"space escaped", "hello world", "hello=20world"},
		{"equals escaped", "a=b", "a=3Db"},
		{"tab escaped", "a\tb", "a=09b"},
		{"crlf escaped", "a\r\nb", "a=0D=0Ab"},
		{"utf-8 bytes escaped", "Jürgen", "J=C3=BCrgen"},
		{"header value", "From: Joe <joe@example.com>", "From:=20Joe=20<joe@example.com>"},
		{"long input has no soft breaks", strings.Repeat("x", 200), strings.Repeat("x", 200)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := dkim.QuotedPrintable(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestQuotedPrintable_SafeInputIsIdentity(t *testing.T) {
	var b strings.Builder
	for c := byte('!'); c < 0x7f; c++ {
		if c == ';' || c == '=' {
			continue
		}
		b.WriteByte(c)
	}
	s := b.String()

	got, err := dkim.QuotedPrintable(s)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestQuotedPrintable_NoSemicolonOrSpace(t *testing.T) {
	for r := rune(0); r < 0x300; r++ {
		s := "x" + string(r) + " ;" + string(r)
		got, err := dkim.QuotedPrintable(s)
		require.NoError(t, err, "rune %U", r)
		assert.NotContains(t, got, ";", "rune %U", r)
		assert.NotContains(t, got, " ", "rune %U", r)
	}
}

func TestQuotedPrintable_InvalidUTF8(t *testing.T) {
	got, err := dkim.QuotedPrintable("abc\xffdef")
	require.Error(t, err)
	assert.ErrorIs(t, err, dkim.ErrEncoding)
	assert.Empty(t, got)
}

func TestQuotedPrintableCharset(t *testing.T) {
	got, err := dkim.QuotedPrintableCharset("café au lait", "windows-1252")
	require.NoError(t, err)
	assert.Equal(t, "caf=E9=20au=20lait", got)

	got, err = dkim.QuotedPrintableCharset("a;b", "utf-8")
	require.NoError(t, err)
	assert.Equal(t, "a=3Bb", got)
}

func TestQuotedPrintableCharset_Failures(t *testing.T) {
	t.Run("unknown charset", func(t *testing.T) {
		_, err := dkim.QuotedPrintableCharset("abc", "no-such-charset")
		require.Error(t, err)
		assert.ErrorIs(t, err, dkim.ErrEncoding)
	})
	t.Run("unrepresentable rune", func(t *testing.T) {
		_, err := dkim.QuotedPrintableCharset("Жук", "windows-1252")
		require.Error(t, err)
		assert.ErrorIs(t, err, dkim.ErrEncoding)
	})
}

func TestBase64(t *testing.T) {
	assert.Equal(t, "", dkim.Base64(nil))
	assert.Equal(t, "", dkim.Base64([]byte{}))
	assert.Equal(t, "aGVsbG8=", dkim.Base64([]byte("hello")))
}

func TestBase64_RoundTripWithoutLineBreaks(t *testing.T) {
	inputs := [][]byte{
		{0x00},
		{0xff, 0xfe, 0xfd},
		[]byte(strings.Repeat("signature bytes ", 40)),
	}
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	inputs = append(inputs, all)

	for _, in := range inputs {
		enc := dkim.Base64(in)
		assert.NotContains(t, enc, "\n")
		assert.NotContains(t, enc, "\r")

		dec, err := base64.StdEncoding.DecodeString(enc)
		require.NoError(t, err)
		assert.Equal(t, in, dec)
	}
}
