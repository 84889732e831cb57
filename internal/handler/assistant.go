package handler

import (
	"net/http"

	"github.com/msomdec/skillbarter/internal/oracle"
)

func (h *Handler) handleInsight(w http.ResponseWriter, r *http.Request) {
	text, err := h.assistant.Insight(r.Context(), accountID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"insight": text})
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	history := make([]oracle.Turn, 0, len(req.History))
	for _, t := range req.History {
		history = append(history, oracle.Turn{Role: t.Role, Text: t.Text})
	}

	reply, err := h.assistant.Chat(r.Context(), accountID(r), req.Message, history)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
