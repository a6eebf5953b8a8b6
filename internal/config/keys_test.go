package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/dkimkey/internal/config"
)

func TestValidateKey(t *testing.T) {
	t.Run("valid_underscore", func(t *testing.T) {
		require.NoError(t, config.ValidateKey("doh_url"))
	})
	t.Run("valid_hyphen", func(t *testing.T) {
		require.NoError(t, config.ValidateKey("rate-limit"))
	})
	t.Run("all_keys", func(t *testing.T) {
		for _, k := range config.ValidKeys() {
			require.NoError(t, config.ValidateKey(k), "key %q should be valid", k)
		}
	})
	t.Run("unknown", func(t *testing.T) {
		err := config.ValidateKey("pap_limit")
		require.ErrorIs(t, err, config.ErrUnknownKey)
	})
}

func TestValidKeys_Sorted(t *testing.T) {
	keys := config.ValidKeys()
	assert.IsIncreasing(t, keys)
	assert.Contains(t, keys, "transport")
	assert.Contains(t, keys, "metrics_file")
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    any
		wantErr bool
	}{
		{key: "verbose", value: "true", want: true},
		{key: "verbose", value: "0", want: false},
		{key: "verbose", value: "yes", wantErr: true},
		{key: "concurrency", value: "5", want: 5},
		{key: "concurrency", value: "0", wantErr: true},
		{key: "rate-burst", value: "abc", wantErr: true},
		{key: "rate_limit", value: "0.5", want: 0.5},
		{key: "rate_limit", value: "-1", wantErr: true},
		{key: "timeout", value: "1500ms", want: "1.5s"},
		{key: "timeout", value: "0s", wantErr: true},
		{key: "timeout", value: "soon", wantErr: true},
		{key: "output", value: "TABLE", want: "table"},
		{key: "output", value: "xml", wantErr: true},
		{key: "transport", value: "doh", want: "doh"},
		{key: "transport", value: "quic", wantErr: true},
		{key: "require_tag", value: "k=rsa, v=DKIM1", want: []string{"k=rsa", "v=DKIM1"}},
		{key: "require_tag", value: "k", wantErr: true},
		{key: "nameserver", value: "1.1.1.1:53", want: "1.1.1.1:53"},
		{key: "proxy", value: "socks5://127.0.0.1:9050", want: "socks5://127.0.0.1:9050"},
	}
	for _, tc := range tests {
		t.Run(tc.key+"/"+tc.value, func(t *testing.T) {
			got, err := config.ParseValue(tc.key, tc.value)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseValue_UnknownKey(t *testing.T) {
	_, err := config.ParseValue("nonexistent", "value")
	require.ErrorIs(t, err, config.ErrUnknownKey)
}

func TestKeyCompletions(t *testing.T) {
	assert.Equal(t, []string{"true", "false"}, config.KeyCompletions("verbose"))
	assert.Equal(t, config.Transports, config.KeyCompletions("transport"))
	assert.Contains(t, config.KeyCompletions("output"), "table")
	assert.Nil(t, config.KeyCompletions("proxy"))
	assert.Nil(t, config.KeyCompletions("unknown"))
}
