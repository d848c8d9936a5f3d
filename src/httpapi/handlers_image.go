package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Protocol-Lattice/chat-agent/src/imagegen"
)

type imageRequest struct {
	Prompt string `json:"prompt"`
}

type imageResponse struct {
	Success bool   `json:"success"`
	Image   string `json:"image"`
}

type imageError struct {
	Error string `json:"error"`
}

func (h *handlers) handleGenerateImage(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if err := decodeJSONBody(r, &req); err != nil {
		status, _, message := mapAgentError(err)
		writeJSON(w, status, imageError{Error: message})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeJSON(w, http.StatusBadRequest, imageError{Error: "Prompt is required"})
		return
	}
	if h.images == nil {
		writeJSON(w, http.StatusInternalServerError, imageError{Error: "API key configuration error"})
		return
	}

	image, err := h.images.Generate(r.Context(), req.Prompt)
	if err != nil {
		h.logFailure(r, "image generation failed", err)
		status, message := h.mapImageError(err)
		writeJSON(w, status, imageError{Error: message})
		return
	}
	writeJSON(w, http.StatusOK, imageResponse{Success: true, Image: image})
}

func (h *handlers) mapImageError(err error) (int, string) {
	var statusErr *imagegen.StatusError
	switch {
	case errors.Is(err, imagegen.ErrNotConfigured):
		return http.StatusInternalServerError, "API key configuration error"
	case errors.Is(err, imagegen.ErrTimeout):
		return http.StatusGatewayTimeout, fmt.Sprintf("Request timed out after %d seconds", int(h.cfg.ImageTimeout.Seconds()))
	case errors.As(err, &statusErr):
		return statusErr.StatusCode, statusErr.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
