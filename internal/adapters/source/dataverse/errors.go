package dataverse

import (
	"context"
	stderrs "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/olusolaa/flow-drift-detector/internal/errors"
)

// StatusError is a non-success response from the Web API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 512 {
		body = body[:512] + "..."
	}
	if body == "" {
		return fmt.Sprintf("dataverse responded %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("dataverse responded %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), body)
}

// Transient reports whether the request may succeed if repeated.
func (e *StatusError) Transient() bool {
	return isTransientStatus(e.StatusCode)
}

func isTransientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// handleError maps a transport or status failure to an application error code.
func handleError(ctx context.Context, envURL string, err error) error {
	if err == nil {
		return errors.New(errors.CodeInternal, "unexpected nil error in dataverse error handler")
	}

	if ctx.Err() != nil {
		return errors.Wrap(ctx.Err(), errors.CodeTimeout,
			fmt.Sprintf("context cancelled while fetching flows from %s", envURL))
	}
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(err, errors.CodeTimeout,
			fmt.Sprintf("request to %s timed out", envURL))
	}

	var statusErr *StatusError
	if stderrs.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden:
			return errors.WrapUserFacing(err, errors.CodeAuthError,
				fmt.Sprintf("Dataverse rejected the credentials for %s", envURL),
				"Check that the application user exists in the environment and has read access to workflows.")
		case statusErr.StatusCode == http.StatusTooManyRequests:
			return errors.Wrap(err, errors.CodeThrottled,
				fmt.Sprintf("Dataverse throttled requests to %s", envURL))
		}
	}

	return errors.Wrap(err, errors.CodeFetchError,
		fmt.Sprintf("failed to fetch flows from %s", envURL))
}
