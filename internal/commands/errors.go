package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	commandValidationCode   = "WRITING_COMMAND_VALIDATION_FAILED"
	commandContextCanceled  = "WRITING_COMMAND_CANCELED"
	commandContextTimeout   = "WRITING_COMMAND_TIMEOUT"
	commandContextErrorCode = "WRITING_COMMAND_CONTEXT_ERROR"
	commandExecuteFailed    = "WRITING_COMMAND_FAILED"
)

// Errors already carrying a go-errors category pass through untouched so a
// service's not_found or conflict reaches the caller as is.

func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.FromOzzoValidation(err, "command validation failed").
		WithTextCode(commandValidationCode)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	code, message := commandContextErrorCode, "command context error"
	switch {
	case errors.Is(err, context.Canceled):
		code, message = commandContextCanceled, "command execution cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		code, message = commandContextTimeout, "command execution deadline exceeded"
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, message).WithTextCode(code)
}

func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(commandExecuteFailed)
}
