package client

import "context"

// doWithRetry invokes attempt up to maxAttempts times, re-issuing
// immediately after each server fault. Client faults, rate limits and
// decode failures propagate on the first occurrence. When the budget
// runs out the last server fault is surfaced wrapped in a
// RetryExhaustedError.
func doWithRetry[T any](ctx context.Context, op Operation, maxAttempts int,
	attempt func(context.Context) (*T, error),
) (*T, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultRetries
	}

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, &TransportError{Operation: op, Err: err}
		}

		result, err := attempt(ctx)
		if err == nil {
			return result, nil
		}
		if !isServerFault(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, &RetryExhaustedError{
		Operation: op,
		Attempts:  maxAttempts,
		Last:      lastErr,
	}
}
