// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"

	"estudeapostilas/internal/assistant"
)

type assistantRequest struct {
	History []assistant.Message `json:"history"`
	Prompt  string              `json:"prompt"`
}

// Assistant serves the study assistant chat.
type Assistant struct {
	assistant *assistant.Assistant
}

// NewAssistant creates a new Assistant handler.
func NewAssistant(a *assistant.Assistant) *Assistant {
	return &Assistant{assistant: a}
}

// Ask answers one prompt. Provider failures still answer 200 with the
// fallback text; only malformed input is rejected.
func (h *Assistant) Ask(w http.ResponseWriter, r *http.Request) {
	var req assistantRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Requisição inválida.")
		return
	}

	reply, err := h.assistant.Ask(r.Context(), req.History, req.Prompt)
	switch {
	case errors.Is(err, assistant.ErrEmptyPrompt):
		writeError(w, http.StatusBadRequest, "Digite sua pergunta.")
		return
	case errors.Is(err, assistant.ErrPromptTooLong):
		writeError(w, http.StatusBadRequest, "Pergunta muito longa.")
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, "Histórico inválido.")
		return
	}
	writeJSON(w, http.StatusOK, reply)
}
