// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"estudeapostilas/internal/catalog"
	"estudeapostilas/internal/models"
)

// HandoutReader is the read side of the handout table.
type HandoutReader interface {
	catalog.HandoutLister
	FindByID(ctx context.Context, id uuid.UUID) (*models.Handout, error)
}

// SubCategoryReader is the read side of the subcategory table.
type SubCategoryReader interface {
	catalog.SubCategoryLister
	ListByCategory(ctx context.Context, c models.Category) ([]models.SubCategory, error)
}

// Catalog serves the public storefront.
type Catalog struct {
	handouts      HandoutReader
	subcategories SubCategoryReader
}

// NewCatalog creates a new Catalog handler group.
func NewCatalog(handouts HandoutReader, subcategories SubCategoryReader) *Catalog {
	return &Catalog{handouts: handouts, subcategories: subcategories}
}

// Categories lists the category labels in sidebar order.
func (c *Catalog) Categories(w http.ResponseWriter, r *http.Request) {
	cats := models.Categories()
	labels := make([]string, len(cats))
	for i, cat := range cats {
		labels[i] = cat.String()
	}
	writeJSON(w, http.StatusOK, labels)
}

// SubCategories lists subcategories, optionally only those of ?category=.
// A failed fetch degrades to an empty list.
func (c *Catalog) SubCategories(w http.ResponseWriter, r *http.Request) {
	var (
		list []models.SubCategory
		err  error
	)
	if raw := r.URL.Query().Get("category"); raw != "" && raw != catalog.All {
		cat, perr := models.ParseCategory(raw)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "Categoria desconhecida.")
			return
		}
		list, err = c.subcategories.ListByCategory(r.Context(), cat)
	} else {
		list, err = c.subcategories.List(r.Context())
	}
	if err != nil {
		slog.Error("fetch subcategories failed", "error", err)
		list = nil
	}
	if list == nil {
		list = []models.SubCategory{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Catalog answers one navigation state: ?category=, ?subcategory= and
// ?q= are replayed onto a fresh navigator and the filtered view returned.
func (c *Catalog) Catalog(w http.ResponseWriter, r *http.Request) {
	snap := catalog.Load(r.Context(), c.handouts, c.subcategories)

	q := r.URL.Query()
	nav := catalog.Replay(snap.SubCategories, q.Get("category"), q.Get("subcategory"), q.Get("q"))
	writeJSON(w, http.StatusOK, nav.View(snap.Handouts))
}

// Handout returns one handout for the detail modal and online reader.
func (c *Catalog) Handout(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	h, err := c.handouts.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find handout failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "Erro ao carregar material.")
		return
	}
	if h == nil {
		writeError(w, http.StatusNotFound, "Material não encontrado.")
		return
	}
	writeJSON(w, http.StatusOK, h)
}
