// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"estudeapostilas/internal/middleware"
	"estudeapostilas/internal/models"
	"estudeapostilas/internal/session"
	"estudeapostilas/internal/store"
)

var errBoom = errors.New("boom")

// memHandouts is an in-memory handout table. List returns newest first.
type memHandouts struct {
	mu      sync.Mutex
	items   []models.Handout
	subs    *memSubCategories
	listErr error
	saveErr error
}

func (m *memHandouts) List(context.Context) ([]models.Handout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.Handout, 0, len(m.items))
	for i := len(m.items) - 1; i >= 0; i-- {
		h := m.items[i]
		if h.SubCategoryID != nil && m.subs != nil {
			if s, _ := m.subs.FindByID(context.Background(), *h.SubCategoryID); s != nil {
				h.SubCategory = s
			}
		}
		out = append(out, h)
	}
	return out, nil
}

func (m *memHandouts) FindByID(_ context.Context, id uuid.UUID) (*models.Handout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	for _, h := range m.items {
		if h.ID == id {
			return &h, nil
		}
	}
	return nil, nil
}

func (m *memHandouts) Create(_ context.Context, d models.HandoutDraft) (*models.Handout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	h := models.Handout{
		ID: uuid.New(), Title: d.Title, Category: d.Category, SubCategoryID: d.SubCategoryID,
		Description: d.Description, Author: d.Author, Pages: d.Pages, Year: d.Year,
		Rating: d.Rating, DownloadURL: d.DownloadURL, Thumbnail: d.Thumbnail,
		CreatedAt: time.Now(),
	}
	m.items = append(m.items, h)
	return &h, nil
}

func (m *memHandouts) Update(_ context.Context, id uuid.UUID, p models.HandoutPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	for i, h := range m.items {
		if h.ID == id {
			m.items[i] = p.ApplyTo(h)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memHandouts) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, h := range m.items {
		if h.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memHandouts) add(h models.Handout) models.Handout {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	m.items = append(m.items, h)
	return h
}

// memSubCategories is an in-memory subcategory table.
type memSubCategories struct {
	mu      sync.Mutex
	items   []models.SubCategory
	listErr error
}

func (m *memSubCategories) List(context.Context) ([]models.SubCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.SubCategory{}, m.items...), nil
}

func (m *memSubCategories) ListByCategory(_ context.Context, c models.Category) ([]models.SubCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []models.SubCategory{}
	for _, s := range m.items {
		if s.Category == c {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSubCategories) FindByID(_ context.Context, id uuid.UUID) (*models.SubCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.items {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, nil
}

func (m *memSubCategories) Create(_ context.Context, d models.SubCategoryDraft) (*models.SubCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := models.SubCategory{ID: uuid.New(), Name: d.Name, Category: d.Category, CreatedAt: time.Now()}
	m.items = append(m.items, s)
	return &s, nil
}

func (m *memSubCategories) Update(_ context.Context, id uuid.UUID, p models.SubCategoryPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.items {
		if s.ID == id {
			if p.Name != "" {
				m.items[i].Name = p.Name
			}
			if p.Category != "" {
				m.items[i].Category = p.Category
			}
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memSubCategories) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.items {
		if s.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memSubCategories) add(name string, c models.Category) models.SubCategory {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := models.SubCategory{ID: uuid.New(), Name: name, Category: c}
	m.items = append(m.items, s)
	return s
}

// memStorage records uploads.
type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (m *memStorage) Upload(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	if m.err != nil {
		return m.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memStorage) PublicURL(key string) string {
	return "https://cdn.test/materials/" + key
}

func (m *memStorage) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// pngBytes encodes a small PNG.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 12))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withSession adds session data to a request using the middleware key.
func withSession(r *http.Request, data *session.Data) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.SessionKey, data))
}

func jsonUnmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// decodeBody unmarshals a recorder's JSON body into v.
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
}
