// Package dkim resolves a DKIM signer's public key from DNS and provides the
// encoders used to embed values in a DKIM-Signature header.
//
// Signers building a header use QuotedPrintable for z= and i= values, Base64
// for b= and bh=, SplitHeader to take apart the headers they sign, and
// JoinList to assemble the colon-separated h= list. IsValidDomain is the
// loose shape check applied to signing domains before a lookup.
//
// The package is stateless: every call works on call-local data, performs at
// most one DNS query through the injected TXTResolver, and never logs.
// Cancellation and deadlines are supplied by the caller through the context.
package dkim
