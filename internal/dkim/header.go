package dkim

import (
	"fmt"
	"regexp"
	"strings"
)

// SplitHeader splits an RFC 822 header line at its first colon. Neither part
// is trimmed; "DKIM-Signature: v=1" yields "DKIM-Signature" and " v=1".
func SplitHeader(line string) (name, value string, err error) {
	name, value, ok := strings.Cut(line, ":")
	if !ok {
		return "", "", fmt.Errorf("%w: %q has no colon separator", ErrMalformedHeader, line)
	}
	return name, value, nil
}

// JoinList joins items with sep. An empty list yields "".
func JoinList(items []string, sep string) string {
	return strings.Join(items, sep)
}

// looseDomain accepts anything with at least one dot between non-empty parts.
var looseDomain = regexp.MustCompile(`^(.+)\.(.+)$`)

// IsValidDomain reports whether name looks like a signing domain. The check
// is deliberately loose; it only rejects single labels and empty parts.
func IsValidDomain(name string) bool {
	return looseDomain.MatchString(name)
}
