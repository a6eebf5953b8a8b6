// Package resolver provides the DNS transports used to fetch DKIM key
// records: the platform resolver (optionally tunnelled through a SOCKS5 proxy
// to prevent DNS leaks) and a wire-level client that queries one nameserver
// over UDP, TCP or DNS-over-TLS.
//
// No transport retries. The platform resolver issues one extra query only to
// tell a missing name from a name without TXT records.
package resolver
