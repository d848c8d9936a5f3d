package agent

import (
	"errors"
)

var (
	// ErrValidation marks a request the caller can correct, such as an empty prompt.
	ErrValidation = errors.New("validation error")
	// ErrBackendUnavailable marks a completion backend that could not be reached or failed.
	ErrBackendUnavailable = errors.New("completion backend unavailable")
	// ErrMalformedDecision marks model output that is not the expected JSON object.
	ErrMalformedDecision = errors.New("malformed decision")
	// ErrUnknownTool marks a decision naming a tool that is not registered.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrToolExecutionFailed marks a failure raised by the selected tool.
	ErrToolExecutionFailed = errors.New("tool execution failed")
)

// ToolError wraps a tool failure. Its message is the tool's own so it can be shown to the user.
type ToolError struct {
	Tool ToolName
	Err  error
}

func (e *ToolError) Error() string {
	return e.Err.Error()
}

func (e *ToolError) Unwrap() []error {
	return []error{ErrToolExecutionFailed, e.Err}
}
