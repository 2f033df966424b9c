// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"estudeapostilas/internal/access"
	"estudeapostilas/internal/middleware"
	"estudeapostilas/internal/models"
	"estudeapostilas/internal/session"
)

// totpIssuer names the account in authenticator apps.
const totpIssuer = "EstudeApostilas"

// Paths the client is sent to after each sign-in step.
const (
	twoFASetupPath  = middleware.TwoFASetupPath
	twoFAVerifyPath = "/api/auth/2fa/verify"
)

// UserAccounts is the user table as sign-in needs it.
type UserAccounts interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
	SetTOTPSecret(ctx context.Context, userID uuid.UUID, secret string) error
	EnableTOTP(ctx context.Context, userID uuid.UUID) error
}

// Sessions creates, updates and destroys the signed-in session.
type Sessions interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Update(ctx context.Context, r *http.Request, data *session.Data) error
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions  Sessions
	users     UserAccounts
	authorize access.Authorizer
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions Sessions, users UserAccounts, authorize access.Authorizer) *Auth {
	return &Auth{sessions: sessions, users: users, authorize: authorize}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type codeRequest struct {
	Code string `json:"code"`
}

// nextStep tells the client where sign-in continues.
type nextStep struct {
	Next string `json:"next"`
}

type twoFASetup struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauthUrl"`
	QRCode     string `json:"qrCode"` // base64 PNG
}

// identityResponse is what the storefront knows about the visitor.
type identityResponse struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
	DisplayName   string `json:"displayName,omitempty"`
	TwoFADone     bool   `json:"twoFADone"`
	IsAdmin       bool   `json:"isAdmin"`
}

func (a *Auth) identity(sess *session.Data) identityResponse {
	if sess == nil {
		return identityResponse{}
	}
	return identityResponse{
		Authenticated: true,
		Email:         sess.Email,
		DisplayName:   sess.DisplayName,
		TwoFADone:     sess.TwoFADone,
		IsAdmin:       sess.TwoFADone && a.authorize(sess.Identity()),
	}
}

// Me reports the current identity. isAdmin drives the admin link.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.identity(middleware.SessionFromCtx(r.Context())))
}

// Login checks email and password and opens a session that still needs
// the second factor.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Requisição inválida.")
		return
	}

	user, err := a.users.FindByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erro inesperado.")
		return
	}
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, "E-mail ou senha inválidos.")
		return
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		TwoFADone:   false,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erro inesperado.")
		return
	}

	next := twoFAVerifyPath
	if user.Needs2FASetup() {
		next = twoFASetupPath
	}
	writeJSON(w, http.StatusOK, nextStep{Next: next})
}

// TwoFASetup generates a TOTP secret and returns it with a QR code.
// Users who already enabled 2FA must verify instead.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Sessão expirada.")
		return
	}

	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erro inesperado.")
		return
	}
	if !user.Needs2FASetup() {
		writeJSON(w, http.StatusConflict, nextStep{Next: twoFAVerifyPath})
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erro inesperado.")
		return
	}

	if err := a.users.SetTOTPSecret(r.Context(), sess.UserID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erro inesperado.")
		return
	}

	setup, err := newTwoFASetup(key)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erro inesperado.")
		return
	}
	writeJSON(w, http.StatusOK, setup)
}

func newTwoFASetup(key *otp.Key) (twoFASetup, error) {
	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return twoFASetup{}, err
	}
	return twoFASetup{
		Secret:     key.Secret(),
		OTPAuthURL: key.URL(),
		QRCode:     base64.StdEncoding.EncodeToString(png),
	}, nil
}

// TwoFAVerify validates the TOTP code and completes sign-in. The first
// valid code after setup also enables 2FA on the account.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Sessão expirada.")
		return
	}

	var req codeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Requisição inválida.")
		return
	}

	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erro inesperado.")
		return
	}
	if user.TOTPSecret == nil {
		writeJSON(w, http.StatusConflict, nextStep{Next: twoFASetupPath})
		return
	}

	if !totp.Validate(strings.TrimSpace(req.Code), *user.TOTPSecret) {
		writeError(w, http.StatusUnauthorized, "Código inválido. Tente novamente.")
		return
	}

	if !user.TOTPEnabled {
		if err := a.users.EnableTOTP(r.Context(), user.ID); err != nil {
			slog.Error("enable totp failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Erro inesperado.")
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erro inesperado.")
		return
	}

	writeJSON(w, http.StatusOK, a.identity(sess))
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	writeJSON(w, http.StatusOK, identityResponse{})
}
