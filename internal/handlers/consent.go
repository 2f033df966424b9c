// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"time"
)

// ConsentCookieName holds the visitor's cookie-consent choice.
const ConsentCookieName = "ea_consent"

// Consent choices.
const (
	ConsentAccepted  = "accepted"
	ConsentEssential = "essential"
)

const consentMaxAge = 365 * 24 * time.Hour

type consentBody struct {
	Choice string `json:"choice"`
}

// Consent records the cookie banner choice.
type Consent struct {
	secure bool
}

// NewConsent creates a Consent handler. secure marks the cookie Secure.
func NewConsent(secure bool) *Consent {
	return &Consent{secure: secure}
}

// Get returns the stored choice; an empty choice means the banner is due.
func (c *Consent) Get(w http.ResponseWriter, r *http.Request) {
	choice := ""
	if cookie, err := r.Cookie(ConsentCookieName); err == nil && validConsent(cookie.Value) {
		choice = cookie.Value
	}
	writeJSON(w, http.StatusOK, consentBody{Choice: choice})
}

// Set stores "accepted" or "essential".
func (c *Consent) Set(w http.ResponseWriter, r *http.Request) {
	var body consentBody
	if err := decodeJSON(w, r, &body); err != nil || !validConsent(body.Choice) {
		writeError(w, http.StatusBadRequest, `Escolha "accepted" ou "essential".`)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     ConsentCookieName,
		Value:    body.Choice,
		Path:     "/",
		MaxAge:   int(consentMaxAge.Seconds()),
		HttpOnly: false, // the banner script reads it
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, body)
}

func validConsent(s string) bool {
	return s == ConsentAccepted || s == ConsentEssential
}
