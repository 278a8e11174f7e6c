package ports

import (
	"context"

	"github.com/bnema/rnbridge/internal/domain"
)

type TargetDiscoverer interface {
	Discover(ctx context.Context) ([]domain.Target, error)
	// BaseURL is the bundler address used for discovery, for error reporting.
	BaseURL() string
}
