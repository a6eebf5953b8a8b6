package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/tbckr/dkimkey/internal/output"
)

// ErrUnknownKey is returned for a key that is not a configuration setting.
var ErrUnknownKey = errors.New("unknown config key")

type keyKind int

const (
	kindString keyKind = iota
	kindBool
	kindPositiveInt
	kindRate
	kindDuration
	kindEnum
	kindTagList
)

type keySpec struct {
	kind   keyKind
	values []string
}

func formatNames() []string {
	names := make([]string, len(output.Formats))
	for i, f := range output.Formats {
		names[i] = string(f)
	}
	return names
}

var keySpecs = map[string]keySpec{
	"verbose":      {kind: kindBool},
	"output":       {kind: kindEnum, values: formatNames()},
	"concurrency":  {kind: kindPositiveInt},
	"transport":    {kind: kindEnum, values: Transports},
	"nameserver":   {kind: kindString},
	"doh_url":      {kind: kindString},
	"proxy":        {kind: kindString},
	"user_agent":   {kind: kindString},
	"timeout":      {kind: kindDuration},
	"rate_limit":   {kind: kindRate},
	"rate_burst":   {kind: kindPositiveInt},
	"require_tag":  {kind: kindTagList},
	"metrics_file": {kind: kindString},
}

// NormalizeKey converts a flag-style key ("doh-url") to its file form ("doh_url").
func NormalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}

// ValidKeys returns every settable key, sorted.
func ValidKeys() []string {
	keys := make([]string, 0, len(keySpecs))
	for k := range keySpecs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ValidateKey returns ErrUnknownKey when key is not a setting.
func ValidateKey(key string) error {
	if _, ok := keySpecs[NormalizeKey(key)]; !ok {
		return fmt.Errorf("%w: %q (valid keys: %s)", ErrUnknownKey, key, strings.Join(ValidKeys(), ", "))
	}
	return nil
}

// KeyCompletions returns the allowed values of an enum or bool key.
func KeyCompletions(key string) []string {
	spec, ok := keySpecs[NormalizeKey(key)]
	if !ok {
		return nil
	}
	switch spec.kind {
	case kindBool:
		return []string{"true", "false"}
	case kindEnum:
		return spec.values
	default:
		return nil
	}
}

// ParseValue converts the string form of value to the type stored in the
// config file for key, rejecting values the key does not accept.
func ParseValue(key, value string) (any, error) {
	key = NormalizeKey(key)
	spec, ok := keySpecs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	switch spec.kind {
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a boolean", key, value)
		}
		return b, nil
	case kindPositiveInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%s: %q must be a positive integer", key, value)
		}
		return n, nil
	case kindRate:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("%s: %q must be a non-negative number", key, value)
		}
		return f, nil
	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%s: %q must be a positive duration such as 5s", key, value)
		}
		return d.String(), nil
	case kindEnum:
		v := strings.ToLower(value)
		if !slices.Contains(spec.values, v) {
			return nil, fmt.Errorf("%s: %q must be one of %s", key, value, strings.Join(spec.values, ", "))
		}
		return v, nil
	case kindTagList:
		var pairs []string
		for _, p := range strings.Split(value, ",") {
			name, val, err := parseTagPair(p)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			pairs = append(pairs, name+"="+val)
		}
		return pairs, nil
	default:
		return value, nil
	}
}

// Validate checks values that flags and env variables cannot constrain.
func (c *Config) Validate() error {
	if _, err := output.ParseFormat(c.Output); err != nil {
		return err
	}
	if !slices.Contains(Transports, c.Transport) {
		return fmt.Errorf("invalid transport %q: must be one of %s", c.Transport, strings.Join(Transports, ", "))
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("--timeout must be positive, got %s", c.Timeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("--rate-limit must not be negative, got %v", c.RateLimit)
	}
	if c.RateBurst < 1 {
		return fmt.Errorf("--rate-burst must be at least 1, got %d", c.RateBurst)
	}
	if _, err := c.RequiredTags(); err != nil {
		return err
	}
	return nil
}
