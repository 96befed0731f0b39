package client

import (
	"context"
	"fmt"
	"time"
)

// fetchDocumentFunc issues one status check for a document. The wait
// engine calls it strictly sequentially, never more than one in flight.
type fetchDocumentFunc func(ctx context.Context, documentID string) (*ExtractResponse, error)

// validateWaitConfig rejects impossible waiting configurations before
// any request is issued.
func validateWaitConfig(cfg WaitConfig) error {
	if cfg.PollingInterval < 0 {
		return fmt.Errorf("%w: polling interval cannot be negative", ErrInvalidWaitConfig)
	}
	if cfg.indefinite() && cfg.PollingInterval == PollingDisabled {
		return fmt.Errorf("%w: polling disabled with an indefinite wait", ErrInvalidWaitConfig)
	}
	return nil
}

// awaitCompletion drives the waiting state machine over an already
// observed response.
//
// A zero wait returns the initial response untouched, without a single
// status check. A finite wait polls until terminal status or the
// deadline, whichever comes first; running out the deadline is not an
// error, the last observed response is returned as-is. An indefinite
// wait polls until terminal status. The pause before the final check of
// a finite wait is clamped so the check lands on the deadline instead
// of overshooting it.
func awaitCompletion(ctx context.Context, initial *ExtractResponse, documentID string,
	cfg WaitConfig, fetch fetchDocumentFunc,
) (*ExtractResponse, error) {
	if err := validateWaitConfig(cfg); err != nil {
		return nil, err
	}

	if initial.Status.IsTerminal() || cfg.Wait == 0 {
		return initial, nil
	}

	if cfg.PollingInterval == PollingDisabled {
		// Single delayed check: sleep out the full wait, observe once.
		if err := sleepUntilNextCheck(ctx, cfg.Wait); err != nil {
			return nil, err
		}
		return fetch(ctx, documentID)
	}

	var deadline time.Time
	if !cfg.indefinite() {
		deadline = time.Now().Add(cfg.Wait)
	}

	last := initial
	for {
		pause := cfg.PollingInterval
		if !deadline.IsZero() {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return last, nil
			}
			if remaining < pause {
				pause = remaining
			}
		}

		if err := sleepUntilNextCheck(ctx, pause); err != nil {
			return nil, err
		}

		result, err := fetch(ctx, documentID)
		if err != nil {
			return nil, err
		}
		last = result

		if result.Status.IsTerminal() {
			return result, nil
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return last, nil
		}
	}
}

// sleepUntilNextCheck blocks until the pause elapses or the caller
// abandons the wait.
func sleepUntilNextCheck(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("waiting for document cancelled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
