package generation

import (
	"context"
	"fmt"

	"github.com/futig/docchat-backend/internal/entity"
)

// UnconfiguredConnector stands in when generation settings are missing.
// Every call fails with entity.ErrConfiguration.
type UnconfiguredConnector struct {
	reason error
}

func NewUnconfiguredConnector(reason error) *UnconfiguredConnector {
	return &UnconfiguredConnector{reason: reason}
}

func (u *UnconfiguredConnector) err() error {
	if u.reason == nil {
		return entity.ErrConfiguration
	}
	return fmt.Errorf("%w: %w", entity.ErrConfiguration, u.reason)
}

func (u *UnconfiguredConnector) Complete(context.Context, *entity.GenerationRequest) (string, error) {
	return "", u.err()
}

func (u *UnconfiguredConnector) StreamComplete(context.Context, *entity.GenerationRequest) (<-chan string, <-chan error) {
	fragments := make(chan string)
	errCh := make(chan error, 1)
	errCh <- u.err()
	close(fragments)
	close(errCh)
	return fragments, errCh
}
