package cmd

import (
	"errors"

	"github.com/bnema/rnbridge/internal/domain"
)

const (
	exitOK        = 0
	exitFailure   = 1
	exitNoTarget  = 2
	exitAmbiguous = 3
	exitNotFound  = 4
	exitDiscovery = 5
)

// ExitCode maps an error returned by Execute to the process exit status.
// Target selection failures get distinct codes so scripts can tell them
// apart.
func ExitCode(err error) int {
	var (
		noTarget  *domain.NoTargetError
		ambiguous *domain.AmbiguousTargetError
		notFound  *domain.NotFoundError
		discovery *domain.DiscoveryError
	)

	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &noTarget):
		return exitNoTarget
	case errors.As(err, &ambiguous):
		return exitAmbiguous
	case errors.As(err, &notFound):
		return exitNotFound
	case errors.As(err, &discovery):
		return exitDiscovery
	default:
		return exitFailure
	}
}
