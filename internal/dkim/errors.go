package dkim

import "errors"

// ErrMalformedHeader is returned when a header line has no colon separator.
var ErrMalformedHeader = errors.New("malformed header line")

// ErrDNSLookup is returned when the DNS query itself fails (timeout, NXDOMAIN,
// SERVFAIL, transport error). The underlying resolver error is wrapped.
var ErrDNSLookup = errors.New("dns lookup failed")

// ErrNoRecord is returned when the DNS query succeeds but yields no TXT value.
var ErrNoRecord = errors.New("no TXT record")

// ErrNoPublicKeyTag is returned when the TXT value carries no p= tag.
var ErrNoPublicKeyTag = errors.New("no public key tag")

// ErrInvalidPublicKey is returned when the p= tag does not decode into a
// structurally valid RSA public key.
var ErrInvalidPublicKey = errors.New("invalid public key")

// ErrTagMismatch is returned when a tag required by WithRequiredTags is
// missing or carries a different value.
var ErrTagMismatch = errors.New("required tag mismatch")

// ErrEncoding is returned when the header-safe encoder cannot transcode its
// input. It is never signalled through an empty result.
var ErrEncoding = errors.New("encoding failed")
