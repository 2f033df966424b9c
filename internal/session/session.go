// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session keeps the admin's sign-in in Valkey. The browser only
// holds a random ID in the ea_session cookie; the identity and the 2FA
// step live server-side and expire with the key's TTL. The session is the
// only place the signed-in identity lives.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"estudeapostilas/internal/access"
)

const (
	// CookieName is the session cookie.
	CookieName = "ea_session"

	// DefaultTTL bounds a sign-in. Every Update restarts it.
	DefaultTTL = 24 * time.Hour

	keyPrefix = "session:"
	idBytes   = 32
)

// ErrNoCookie is returned by Update when the request carries no session.
var ErrNoCookie = errors.New("no session cookie")

// Data is what a session remembers about the signed-in admin.
type Data struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	TwoFADone   bool      `json:"two_fa_done"`
	CreatedAt   time.Time `json:"created_at"`
}

// Identity returns the identity the access gate evaluates. A nil session
// is the anonymous visitor.
func (d *Data) Identity() access.Identity {
	if d == nil {
		return access.Identity{}
	}
	return access.Identity{Email: d.Email}
}

// Store reads and writes sessions in Valkey.
type Store struct {
	client redis.Cmdable
	ttl    time.Duration
	secure bool
}

// NewStore returns a Store on client. secure marks the cookie Secure for
// deployments served over HTTPS.
func NewStore(client redis.Cmdable, secure bool) *Store {
	return &Store{client: client, ttl: DefaultTTL, secure: secure}
}

// Create saves data under a fresh ID and sets the cookie. It returns the ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := newID()
	if err != nil {
		return "", fmt.Errorf("session id: %w", err)
	}
	data.CreatedAt = time.Now()
	if err := s.save(ctx, id, data); err != nil {
		return "", err
	}
	http.SetCookie(w, s.cookie(id, int(s.ttl.Seconds())))
	return id, nil
}

// Get returns the session named by the request's cookie. A missing cookie
// or an expired key is not an error: both yield nil.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	id, ok := cookieID(r)
	if !ok {
		return nil, nil
	}

	payload, err := s.client.Get(ctx, key(id)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return &data, nil
}

// Update overwrites the request's session in place and restarts its TTL.
func (s *Store) Update(ctx context.Context, r *http.Request, data *Data) error {
	id, ok := cookieID(r)
	if !ok {
		return fmt.Errorf("session update: %w", ErrNoCookie)
	}
	return s.save(ctx, id, data)
}

// Destroy deletes the request's session and expires the cookie. Without a
// cookie there is nothing to do.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, ok := cookieID(r)
	if !ok {
		return nil
	}
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}
	http.SetCookie(w, s.cookie("", -1))
	return nil
}

func (s *Store) save(ctx context.Context, id string, data *Data) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.client.Set(ctx, key(id), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

func (s *Store) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func cookieID(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func key(id string) string { return keyPrefix + id }

func newID() (string, error) {
	b := make([]byte, idBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
