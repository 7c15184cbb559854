package downloader

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/bacalhau-project/cortex/pkg/locator"
	"github.com/bacalhau-project/cortex/pkg/models"
)

// TrackingTarget records the first write error, so a failed copy can be
// attributed to the local side instead of the transport.
type TrackingTarget struct {
	Target
	mu  sync.Mutex
	err error
}

func NewTrackingTarget(t Target) *TrackingTarget {
	return &TrackingTarget{Target: t}
}

func (t *TrackingTarget) Write(p []byte) (int, error) {
	n, err := t.Target.Write(p)
	t.record(err)
	return n, err
}

func (t *TrackingTarget) WriteAt(p []byte, off int64) (int, error) {
	n, err := t.Target.WriteAt(p, off)
	t.record(err)
	return n, err
}

func (t *TrackingTarget) record(err error) {
	if err == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err == nil {
		t.err = err
	}
}

// Err is the first write error seen, if any.
func (t *TrackingTarget) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// IsTimeout reports whether err stems from a deadline: an expired context or
// a network operation that timed out.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// NewTransferError classifies a failed transfer. Write failures on target
// win over whatever the transport reported, timeouts come next, errors that
// are already classified pass through, and the rest are network failures.
func NewTransferError(component string, loc locator.Locator, target *TrackingTarget, err error) error {
	if target != nil {
		if writeErr := target.Err(); writeErr != nil {
			return models.NewBaseError("failed to write %s", loc).
				WithCode(models.DestinationError).
				WithComponent(component).
				WithDetail(models.DetailsKeyLocator, loc.String()).
				WithCause(writeErr)
		}
	}
	if IsTimeout(err) {
		return NewTimeoutError(component, loc, err)
	}
	if models.IsBaseError(err) {
		return err
	}
	return NewNetworkError(component, loc, err)
}

func NewTimeoutError(component string, loc locator.Locator, err error) *models.BaseError {
	return models.NewBaseError("timed out fetching %s", loc).
		WithCode(models.TimeoutError).
		WithComponent(component).
		WithRetryable().
		WithHint("increase the timeout or check connectivity to the source").
		WithDetail(models.DetailsKeyLocator, loc.String()).
		WithCause(err)
}

func NewNetworkError(component string, loc locator.Locator, err error) *models.BaseError {
	return models.NewBaseError("failed to fetch %s", loc).
		WithCode(models.NetworkFailure).
		WithComponent(component).
		WithRetryable().
		WithDetail(models.DetailsKeyLocator, loc.String()).
		WithCause(err)
}

func NewNotFoundError(component string, loc locator.Locator, err error) *models.BaseError {
	return models.NewBaseError("%s does not exist", loc).
		WithCode(models.NotFoundError).
		WithComponent(component).
		WithDetail(models.DetailsKeyLocator, loc.String()).
		WithCause(err)
}
