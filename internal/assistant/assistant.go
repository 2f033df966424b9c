// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package assistant is the storefront's study assistant: a chat over an
// LLM provider (Gemini by default, OpenAI optional) that helps visitors
// find handouts and understand what they study. Provider failures never
// reach the visitor; they get a friendly fallback reply instead.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"estudeapostilas/internal/markdown"
)

// SystemInstruction frames every conversation.
const SystemInstruction = `Você é o Assistente Virtual do portal "EstudeApostilas".
Seu objetivo é ajudar estudantes a encontrarem materiais, explicarem conceitos complexos de forma simples e sugerirem roteiros de estudo.
Seja sempre encorajador, educado e focado em educação.
Se o usuário perguntar sobre apostilas específicas, mencione que temos materiais de Concursos, TI, Graduação, Técnico, Idiomas e Vestibular.
Use markdown para formatar suas respostas.`

// Temperature is the sampling temperature sent to every provider.
const Temperature = 0.7

const (
	// MaxHistory is how many prior turns are forwarded; older ones are dropped.
	MaxHistory = 20
	// MaxPromptLength caps the prompt in characters.
	MaxPromptLength = 2000
)

// Replies shown when the provider cannot answer.
const (
	FallbackEmpty = "Desculpe, tive um problema ao processar sua resposta. Tente novamente."
	FallbackError = "Ops! Ocorreu um erro na conexão com meu cérebro artificial. Verifique sua conexão."
)

var (
	ErrEmptyPrompt    = errors.New("prompt is empty")
	ErrPromptTooLong  = fmt.Errorf("prompt exceeds %d characters", MaxPromptLength)
	ErrInvalidHistory = errors.New("history has an unknown role")
)

// Chatter continues a conversation. *Registry satisfies it.
type Chatter interface {
	Chat(ctx context.Context, system string, history []Message, prompt string) (string, error)
}

// Reply is the assistant's answer as Markdown text and rendered HTML.
type Reply struct {
	Text string `json:"text"`
	HTML string `json:"html"`
}

// Assistant answers study questions.
type Assistant struct {
	chat Chatter
}

// New returns an Assistant backed by chat.
func New(chat Chatter) *Assistant {
	return &Assistant{chat: chat}
}

// Ask sends prompt after history and returns the reply. Only invalid
// input yields an error; provider failures become a fallback Reply.
func (a *Assistant) Ask(ctx context.Context, history []Message, prompt string) (Reply, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Reply{}, ErrEmptyPrompt
	}
	if utf8.RuneCountInString(prompt) > MaxPromptLength {
		return Reply{}, ErrPromptTooLong
	}
	for _, m := range history {
		if m.Role != RoleUser && m.Role != RoleModel {
			return Reply{}, ErrInvalidHistory
		}
	}
	if len(history) > MaxHistory {
		history = history[len(history)-MaxHistory:]
	}

	text, err := a.chat.Chat(ctx, SystemInstruction, history, prompt)
	switch {
	case errors.Is(err, ErrEmptyResponse):
		slog.Warn("assistant returned no text", "error", err)
		text = FallbackEmpty
	case err != nil:
		slog.Error("assistant chat failed", "error", err)
		text = FallbackError
	}

	html, err := markdown.ToHTML(text)
	if err != nil {
		slog.Warn("render assistant reply failed", "error", err)
		html = ""
	}
	return Reply{Text: text, HTML: html}, nil
}
