package errors

import (
	"errors"
	"fmt"
	"runtime/debug"
)

type AppError struct {
	Code            Code
	Message         string
	InternalDetails string
	IsUserFacing    bool
	SuggestedAction string
	WrappedError    error
	StackTrace      string
}

func (e *AppError) Error() string {
	if e.WrappedError != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.WrappedError)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.WrappedError
}

func New(code Code, message string) *AppError {
	return &AppError{
		Code:         code,
		Message:      message,
		IsUserFacing: false,
		StackTrace:   string(debug.Stack()),
	}
}

func NewUserFacing(code Code, message string, suggestion string) *AppError {
	return &AppError{
		Code:            code,
		Message:         message,
		IsUserFacing:    true,
		SuggestedAction: suggestion,
		StackTrace:      string(debug.Stack()),
	}
}

func Wrap(err error, code Code, message string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		// Keep the innermost code; callers classify on the first layer that knew what failed.
		return appErr
	}

	return &AppError{
		Code:         code,
		Message:      message,
		WrappedError: err,
		IsUserFacing: false,
		StackTrace:   string(debug.Stack()),
	}
}

func WrapUserFacing(err error, code Code, message string, suggestion string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Code:            code,
			Message:         message,
			InternalDetails: appErr.Error(),
			IsUserFacing:    true,
			SuggestedAction: suggestion,
			WrappedError:    err,
			StackTrace:      appErr.StackTrace,
		}
	}

	return &AppError{
		Code:            code,
		Message:         message,
		WrappedError:    err,
		IsUserFacing:    true,
		SuggestedAction: suggestion,
		StackTrace:      string(debug.Stack()),
	}
}

func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Newf is New with a formatted message.
func Newf(code Code, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// GetUserFacingMessage returns the outermost user-facing message in the chain.
func GetUserFacingMessage(err error) (string, string, bool) {
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			break
		}
		if appErr.IsUserFacing {
			return appErr.Message, appErr.SuggestedAction, true
		}
		err = appErr.WrappedError
	}
	return "An unexpected error occurred.", "Check logs for more details.", false
}

// Exit codes returned by the CLI. Anything unclassified exits with ExitFailure.
const (
	ExitFailure = 1
	ExitConfig  = 2
	ExitAuth    = 3
	ExitFetch   = 4
	ExitReport  = 5
)

// ExitCode maps the error's code to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch GetCode(err) {
	case CodeConfigValidation, CodeConfigReadError, CodeConfigParseError, CodeConfigNotFound:
		return ExitConfig
	case CodeAuthError:
		return ExitAuth
	case CodeFetchError, CodeThrottled, CodeTimeout, CodeSourceReadError, CodeSourceParseError:
		return ExitFetch
	case CodeReportError:
		return ExitReport
	default:
		return ExitFailure
	}
}
