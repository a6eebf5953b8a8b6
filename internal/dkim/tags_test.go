package dkim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tbckr/dkimkey/internal/dkim"
)

func TestParseTags(t *testing.T) {
	ts := dkim.ParseTags("v=DKIM1; g=*; k=rsa; p=ABCD")

	assert.Equal(t, []string{"v", "g", "k", "p"}, ts.Keys())
	assert.Equal(t, 4, ts.Len())
	for name, want := range map[string]string{"v": "DKIM1", "g": "*", "k": "rsa", "p": "ABCD"} {
		got, ok := ts.Get(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
}

func TestParseTags_Tolerant(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []dkim.Tag
	}{
		{"garbage", "garbage;;;", []dkim.Tag{}},
		{"empty", "", []dkim.Tag{}},
		{"only separators", " ; ; ", []dkim.Tag{}},
		{"missing key", "=value; p=AB", []dkim.Tag{{Name: "p", Value: "AB"}}},
		{"value keeps later equals", "p=AB==", []dkim.Tag{{Name: "p", Value: "AB=="}}},
		{"whitespace around equals", "v = DKIM1 ;k= rsa", []dkim.Tag{{Name: "v", Value: "DKIM1"}, {Name: "k", Value: "rsa"}}},
		{"empty value kept", "p=", []dkim.Tag{{Name: "p", Value: ""}}},
		{"mixed junk", "hello; v=DKIM1; world", []dkim.Tag{{Name: "v", Value: "DKIM1"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, dkim.ParseTags(tc.raw).Tags())
		})
	}
}

func TestParseTags_DuplicateLastWins(t *testing.T) {
	ts := dkim.ParseTags("p=first; v=DKIM1; p=second")

	assert.Equal(t, []string{"p", "v"}, ts.Keys())
	got, ok := ts.Get("p")
	assert.True(t, ok)
	assert.Equal(t, "second", got)
}

func TestParseTags_Deterministic(t *testing.T) {
	raw := "v=DKIM1; h=sha256; k=rsa; s=email; p=MIGf"
	assert.True(t, dkim.ParseTags(raw).Equal(dkim.ParseTags(raw)))
	assert.False(t, dkim.ParseTags(raw).Equal(dkim.ParseTags("v=DKIM1")))
}

func TestTagSet_KeysIsCopy(t *testing.T) {
	ts := dkim.ParseTags("v=DKIM1; p=AB")
	keys := ts.Keys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"v", "p"}, ts.Keys())
}

func TestTagSet_ZeroValue(t *testing.T) {
	var ts dkim.TagSet
	_, ok := ts.Get("p")
	assert.False(t, ok)
	assert.Equal(t, 0, ts.Len())
	assert.Empty(t, ts.Tags())
}
