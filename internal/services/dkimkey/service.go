// Package dkimkey checks DKIM public keys published in DNS for one
// selector/domain pair per input.
package dkimkey

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tbckr/dkimkey/internal/dkim"
	"github.com/tbckr/dkimkey/internal/metrics"
	"github.com/tbckr/dkimkey/internal/output"
	"github.com/tbckr/dkimkey/internal/ratelimit"
	"github.com/tbckr/dkimkey/internal/services"
	"github.com/tbckr/dkimkey/internal/validate"
)

// Name is the service identifier.
const Name = "dkimkey"

// recordInfix separates selector and domain in a DKIM key record name.
const recordInfix = "._domainkey."

// Outcome labels, also used as the metrics "outcome" label.
const (
	OutcomeValid            = "valid"
	OutcomeDNSError         = "dns_error"
	OutcomeNoRecord         = "no_record"
	OutcomeNoPublicKey      = "no_public_key"
	OutcomeInvalidPublicKey = "invalid_public_key"
	OutcomeTagMismatch      = "tag_mismatch"
	OutcomeError            = "error"
)

// KeyLookup is the part of *dkim.KeyChecker the service depends on.
type KeyLookup interface {
	LookupPublicKey(ctx context.Context, domain, selector string) (*dkim.PublicKey, error)
}

// Option configures a Service.
type Option func(*Service)

// WithLimiter paces lookups through l.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(s *Service) { s.limiter = l }
}

// WithTimeout bounds each lookup by d. Zero leaves the caller's context as is.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithMetrics records every finished check in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// Service resolves and validates the public key of a record name.
type Service struct {
	keys    KeyLookup
	logger  *slog.Logger
	limiter *ratelimit.Limiter
	metrics *metrics.Metrics
	timeout time.Duration
}

// NewService returns a Service using keys for lookups.
func NewService(keys KeyLookup, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{keys: keys, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the service identifier.
func (s *Service) Name() string { return Name }

// AggregateResults combines multiple results into a MultiResult.
func (s *Service) AggregateResults(results []services.Result) services.Result {
	mr := &MultiResult{}
	for _, r := range results {
		mr.Results = append(mr.Results, r.(*Result))
	}
	return mr
}

// Run checks the key at input, which must be a full record name
// ("selector._domainkey.domain"). Invalid input is returned as an error;
// lookup and validation failures are recorded in the Result so that one bad
// record does not hide the others.
func (s *Service) Run(ctx context.Context, input string) (services.Result, error) {
	pair, err := ParseRecordName(input)
	if err != nil {
		return nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	lookupCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	pk, err := s.keys.LookupPublicKey(lookupCtx, pair.Domain, pair.Selector)
	elapsed := time.Since(start)

	result := &Result{
		Domain:   pair.Domain,
		Selector: pair.Selector,
		Record:   pair.RecordName(),
		Outcome:  Outcome(err),
		Err:      err,
	}
	s.metrics.ObserveCheck(result.Outcome, elapsed)

	if err != nil {
		result.Error = output.StripANSI(err.Error())
		s.logger.Debug("dkim key check failed", "record", result.Record, "outcome", result.Outcome, "error", err)
		return result, nil
	}

	result.Valid = true
	result.KeyType = "rsa"
	result.Bits = pk.Bits()
	for _, tag := range pk.Tags.Tags() {
		result.Tags = append(result.Tags, dkim.Tag{
			Name:  output.StripANSI(tag.Name),
			Value: output.StripANSI(tag.Value),
		})
	}
	s.logger.Debug("dkim key check passed", "record", result.Record, "bits", result.Bits, "elapsed", elapsed)
	return result, nil
}

// Outcome classifies err into one of the Outcome labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeValid
	case errors.Is(err, dkim.ErrDNSLookup):
		return OutcomeDNSError
	case errors.Is(err, dkim.ErrNoRecord):
		return OutcomeNoRecord
	case errors.Is(err, dkim.ErrNoPublicKeyTag):
		return OutcomeNoPublicKey
	case errors.Is(err, dkim.ErrInvalidPublicKey):
		return OutcomeInvalidPublicKey
	case errors.Is(err, dkim.ErrTagMismatch):
		return OutcomeTagMismatch
	default:
		return OutcomeError
	}
}

// ParseRecordName splits "selector._domainkey.domain" into its pair and
// validates both halves. A trailing root dot is ignored.
func ParseRecordName(name string) (dkim.Pair, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(name), ".")
	selector, domain, ok := strings.Cut(strings.ToLower(trimmed), recordInfix)
	if !ok {
		return dkim.Pair{}, fmt.Errorf("%w: not a DKIM key record name (want selector%sdomain): %q",
			services.ErrInvalidInput, recordInfix, name)
	}
	return newPair(domain, selector, name)
}

// ExpandInputs turns CLI inputs into record names. An input that already is a
// record name is validated and kept; a bare domain is combined with every
// selector. Any malformed input fails the whole batch before a lookup is made.
func ExpandInputs(inputs, selectors []string) ([]string, error) {
	var names []string
	for _, in := range inputs {
		in = strings.TrimSuffix(strings.TrimSpace(in), ".")
		if strings.Contains(strings.ToLower(in), recordInfix) {
			pair, err := ParseRecordName(in)
			if err != nil {
				return nil, err
			}
			names = append(names, pair.RecordName())
			continue
		}
		if !dkim.IsValidDomain(in) {
			return nil, fmt.Errorf("%w: %q is neither a domain nor a record name", services.ErrInvalidInput, output.StripANSI(in))
		}
		if len(selectors) == 0 {
			return nil, fmt.Errorf("%w: %q is not a record name and no --selector was given", services.ErrInvalidInput, in)
		}
		for _, sel := range selectors {
			pair, err := newPair(in, sel, in)
			if err != nil {
				return nil, err
			}
			names = append(names, pair.RecordName())
		}
	}
	return names, nil
}

func newPair(domain, selector, input string) (dkim.Pair, error) {
	domain = strings.ToLower(domain)
	selector = strings.ToLower(selector)
	if !validate.IsDomain(domain) {
		return dkim.Pair{}, fmt.Errorf("%w: must be a valid domain name: %q", services.ErrInvalidInput, output.StripANSI(input))
	}
	if !validate.IsSelector(selector) {
		return dkim.Pair{}, fmt.Errorf("%w: must be a valid selector: %q", services.ErrInvalidInput, output.StripANSI(selector))
	}
	return dkim.Pair{Domain: domain, Selector: selector}, nil
}
