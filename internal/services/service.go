// Package services defines the contract between the CLI and the lookup
// services it drives, plus result helpers shared by service implementations.
package services

import (
	"context"

	"github.com/tbckr/dkimkey/internal/apperr"
)

// ErrInvalidInput is re-exported from apperr so service callers can match
// validation failures without importing apperr.
var ErrInvalidInput = apperr.ErrInvalidInput

// Result is the common interface every service's Run output must satisfy.
type Result interface {
	IsEmpty() bool
}

// Service is the contract every dkimkey service must implement.
type Service interface {
	Name() string
	Run(ctx context.Context, input string) (Result, error)
	AggregateResults(results []Result) Result
}
