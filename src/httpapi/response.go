package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	agent "github.com/Protocol-Lattice/chat-agent"
)

const (
	errorCodeInvalidRequest     = "invalid_request"
	errorCodeRequestTooLarge    = "request_too_large"
	errorCodeBackendUnavailable = "backend_unavailable"
	errorCodeMalformedDecision  = "malformed_decision"
	errorCodeUnknownTool        = "unknown_tool"
	errorCodeToolFailed         = "tool_failed"
	errorCodeInternal           = "internal_error"
)

const (
	backendApology      = "I apologize, but I'm having trouble connecting to the AI model. Please try again later."
	internalServerError = "Internal server error"
)

var errRequestTooLarge = errors.New("request body too large")

type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMappedError(w http.ResponseWriter, err error) {
	status, code, message := mapAgentError(err)
	writeJSON(w, status, apiError{Message: message, Code: code})
}

// mapAgentError picks the status, code and user-visible message for a pipeline failure.
// Unclassified errors never leak their text.
func mapAgentError(err error) (int, string, string) {
	var unknown *agent.UnknownToolError
	var toolErr *agent.ToolError
	switch {
	case errors.Is(err, errRequestTooLarge):
		return http.StatusRequestEntityTooLarge, errorCodeRequestTooLarge, err.Error()
	case errors.Is(err, agent.ErrValidation):
		return http.StatusBadRequest, errorCodeInvalidRequest, validationMessage(err)
	case errors.Is(err, agent.ErrBackendUnavailable):
		return http.StatusServiceUnavailable, errorCodeBackendUnavailable, backendApology
	case errors.Is(err, agent.ErrMalformedDecision):
		return http.StatusBadGateway, errorCodeMalformedDecision, "The AI model returned a response that could not be understood. Please try rephrasing your request."
	case errors.As(err, &unknown):
		return http.StatusBadGateway, errorCodeUnknownTool, unknown.Error()
	case errors.As(err, &toolErr):
		return http.StatusInternalServerError, errorCodeToolFailed, toolErr.Error()
	default:
		return http.StatusInternalServerError, errorCodeInternal, internalServerError
	}
}

// validationMessage strips the sentinel prefix so clients see only the reason.
func validationMessage(err error) string {
	var msg *validationError
	if errors.As(err, &msg) {
		return msg.message
	}
	return err.Error()
}

type validationError struct {
	message string
}

func (e *validationError) Error() string { return e.message }
func (e *validationError) Unwrap() error { return agent.ErrValidation }

func invalidRequest(message string) error {
	return &validationError{message: message}
}

func decodeJSONBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return invalidRequest("request body is required")
	}
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("%w: request body exceeds %d bytes", errRequestTooLarge, maxBytesErr.Limit)
		}
		if errors.Is(err, io.EOF) {
			return invalidRequest("request body is required")
		}
		return invalidRequest(fmt.Sprintf("invalid JSON body: %v", err))
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return invalidRequest("request body must contain exactly one JSON object")
	}
	return nil
}
