package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	agent "github.com/Protocol-Lattice/chat-agent"
)

const chatExplanation = "Simple chat response using Mistral model"

type agentRequest struct {
	Prompt        string `json:"prompt"`
	UseDeepSearch bool   `json:"useDeepSearch"`
}

type chatResponse struct {
	AgentMessage string `json:"agentMessage"`
	Explanation  string `json:"explanation"`
}

func (h *handlers) handleAgent(w http.ResponseWriter, r *http.Request) {
	var req agentRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeMappedError(w, err)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeMappedError(w, invalidRequest("Prompt is required"))
		return
	}

	if !req.UseDeepSearch {
		h.handleChat(w, r, req.Prompt)
		return
	}

	envelope, err := h.agent.Process(r.Context(), req.Prompt)
	if err != nil {
		h.logFailure(r, "agent request failed", err)
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope)
}

// handleChat answers without tools. A backend failure still returns 200 with a
// canned reply since the chat UI has nowhere else to show it.
func (h *handlers) handleChat(w http.ResponseWriter, r *http.Request, prompt string) {
	text, err := h.agent.Chat(r.Context(), prompt)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, chatResponse{AgentMessage: text, Explanation: chatExplanation})
	case errors.Is(err, agent.ErrBackendUnavailable):
		h.logFailure(r, "chat backend failed", err)
		writeJSON(w, http.StatusOK, chatResponse{AgentMessage: backendApology, Explanation: "Error connecting to Ollama API"})
	default:
		h.logFailure(r, "chat request failed", err)
		writeMappedError(w, err)
	}
}

func (h *handlers) logFailure(r *http.Request, msg string, err error) {
	h.cfg.Logger.LogAttrs(r.Context(), slog.LevelWarn, msg,
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
}
