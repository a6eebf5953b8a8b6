// Package validate checks user-supplied names before any query is sent.
package validate

import "regexp"

// domainRegexp matches RFC 1035 hostnames with an alphabetic TLD.
var domainRegexp = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

// selectorRegexp matches a DKIM selector: one or more dot-separated labels.
// Underscores are accepted because some providers publish them.
var selectorRegexp = regexp.MustCompile(`^[a-zA-Z0-9_]([a-zA-Z0-9_\-]{0,61}[a-zA-Z0-9_])?(\.[a-zA-Z0-9_]([a-zA-Z0-9_\-]{0,61}[a-zA-Z0-9_])?)*$`)

// IsDomain reports whether s is a valid hostname.
func IsDomain(s string) bool {
	return len(s) <= 253 && domainRegexp.MatchString(s)
}

// IsSelector reports whether s is a valid DKIM selector.
func IsSelector(s string) bool {
	return len(s) <= 253 && selectorRegexp.MatchString(s)
}
