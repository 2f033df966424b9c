// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package admin

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"estudeapostilas/internal/models"
	"estudeapostilas/internal/store"
)

var errBoom = errors.New("boom")

// memHandouts is an in-memory HandoutGateway.
type memHandouts struct {
	mu      sync.Mutex
	items   []models.Handout
	subs    *memSubCategories
	listErr error
	saveErr error
	delErr  error
	calls   int
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
	m.calls++
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
	m.calls++
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
	m.calls++
	if m.delErr != nil {
		return m.delErr
	}
	for i, h := range m.items {
		if h.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			break
		}
	}
	return nil
}

// memSubCategories is an in-memory SubCategoryGateway.
type memSubCategories struct {
	mu      sync.Mutex
	items   []models.SubCategory
	listErr error
	saveErr error
	calls   int
}

func (m *memSubCategories) List(context.Context) ([]models.SubCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.SubCategory{}, m.items...), nil
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
	m.calls++
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	s := models.SubCategory{ID: uuid.New(), Name: d.Name, Category: d.Category, CreatedAt: time.Now()}
	m.items = append(m.items, s)
	return &s, nil
}

func (m *memSubCategories) Update(_ context.Context, id uuid.UUID, p models.SubCategoryPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.saveErr != nil {
		return m.saveErr
	}
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
	m.calls++
	for i, s := range m.items {
		if s.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			break
		}
	}
	return nil
}

// memStorage records uploads.
type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStorage) Upload(_ context.Context, key, contentType string, body io.Reader, size int64) error {
	if m.err != nil {
		return m.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return errors.New("size mismatch")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memStorage) PublicURL(key string) string {
	return "https://cdn.test/materials/" + key
}

func (m *memStorage) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for k := range m.objects {
		out = append(out, k)
	}
	return out
}

type fixture struct {
	handouts *memHandouts
	subs     *memSubCategories
	storage  *memStorage
	wf       *Workflow
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	subs := &memSubCategories{}
	f := &fixture{
		handouts: &memHandouts{subs: subs},
		subs:     subs,
		storage:  newMemStorage(),
	}
	f.wf = New(f.handouts, f.subs, f.storage)
	f.wf.Now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return f
}

func validDraft() models.HandoutDraft {
	return models.HandoutDraft{
		Title:       "Matemática para Concursos",
		Category:    models.CategoryConcursos,
		Description: "Aritmética e álgebra",
		Author:      "Prof. Carlos",
		Pages:       245,
		Year:        2024,
		Rating:      4.8,
		DownloadURL: "https://example.com/mat.pdf",
	}
}

func pngCover(t *testing.T) *Cover {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 12))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return &Cover{Filename: "capa.png", Data: buf.Bytes()}
}
