// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"estudeapostilas/internal/models"
)

// HandoutStore manages handouts in the database.
type HandoutStore struct {
	db *sql.DB
}

// NewHandoutStore returns a new HandoutStore.
func NewHandoutStore(db *sql.DB) *HandoutStore {
	return &HandoutStore{db: db}
}

// handoutSelect joins the subcategory so list and detail reads carry the
// projection. The join is LEFT so dangling subcategory_id values still
// return the handout.
const handoutSelect = `
	SELECT h.id, h.title, h.category, h.subcategory_id, h.description, h.author,
	       h.pages, h.year, h.rating, h.download_url, h.thumbnail_url, h.created_at,
	       s.id, s.name, s.category, s.created_at
	FROM handouts h
	LEFT JOIN subcategories s ON s.id = h.subcategory_id`

const handoutColumns = `id, title, category, subcategory_id, description, author, pages, year, rating, download_url, thumbnail_url, created_at`

// scanHandout scans a handoutSelect row.
func scanHandout(scanner interface{ Scan(...any) error }) (*models.Handout, error) {
	var (
		h        models.Handout
		subID    uuid.NullUUID
		subName  sql.NullString
		subCat   sql.NullString
		subSince sql.NullTime
	)
	err := scanner.Scan(
		&h.ID, &h.Title, &h.Category, &h.SubCategoryID, &h.Description, &h.Author,
		&h.Pages, &h.Year, &h.Rating, &h.DownloadURL, &h.Thumbnail, &h.CreatedAt,
		&subID, &subName, &subCat, &subSince,
	)
	if err != nil {
		return nil, err
	}
	if subID.Valid {
		h.SubCategory = &models.SubCategory{
			ID:        subID.UUID,
			Name:      subName.String,
			Category:  models.Category(subCat.String),
			CreatedAt: subSince.Time,
		}
	}
	return &h, nil
}

// List returns every handout, newest first.
func (s *HandoutStore) List(ctx context.Context) ([]models.Handout, error) {
	rows, err := s.db.QueryContext(ctx, handoutSelect+` ORDER BY h.created_at DESC, h.id`)
	if err != nil {
		return nil, fmt.Errorf("list handouts: %w", err)
	}
	defer rows.Close()

	items := []models.Handout{}
	for rows.Next() {
		h, err := scanHandout(rows)
		if err != nil {
			return nil, fmt.Errorf("scan handout: %w", err)
		}
		items = append(items, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list handouts: %w", err)
	}
	return items, nil
}

// FindByID retrieves a handout by ID. Returns nil if not found.
func (s *HandoutStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Handout, error) {
	row := s.db.QueryRowContext(ctx, handoutSelect+` WHERE h.id = $1`, id)
	h, err := scanHandout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find handout by id: %w", err)
	}
	return h, nil
}

// Create inserts a new handout and returns it with its generated ID. The
// returned record carries no subcategory projection.
func (s *HandoutStore) Create(ctx context.Context, d models.HandoutDraft) (*models.Handout, error) {
	var h models.Handout
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO handouts (title, category, subcategory_id, description, author,
		                      pages, year, rating, download_url, thumbnail_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+handoutColumns,
		d.Title, d.Category, d.SubCategoryID, d.Description, d.Author,
		d.Pages, d.Year, d.Rating, d.DownloadURL, d.Thumbnail,
	).Scan(
		&h.ID, &h.Title, &h.Category, &h.SubCategoryID, &h.Description, &h.Author,
		&h.Pages, &h.Year, &h.Rating, &h.DownloadURL, &h.Thumbnail, &h.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create handout: %w", err)
	}
	return &h, nil
}

// Update writes only the fields present in the patch. An empty patch is a
// no-op. Returns ErrNotFound when no row has the given ID.
func (s *HandoutStore) Update(ctx context.Context, id uuid.UUID, p models.HandoutPatch) error {
	p = p.Normalize()

	var u updateBuilder
	if p.Title != nil {
		u.set("title", *p.Title)
	}
	if p.Category != nil {
		u.set("category", *p.Category)
	}
	if p.SubCategoryID.Set {
		u.set("subcategory_id", p.SubCategoryID.ID)
	}
	if p.Description != nil {
		u.set("description", *p.Description)
	}
	if p.Author != nil {
		u.set("author", *p.Author)
	}
	if p.Pages != nil {
		u.set("pages", *p.Pages)
	}
	if p.Year != nil {
		u.set("year", *p.Year)
	}
	if p.Rating != nil {
		u.set("rating", *p.Rating)
	}
	if p.DownloadURL != nil {
		u.set("download_url", *p.DownloadURL)
	}
	if p.Thumbnail != nil {
		u.set("thumbnail_url", *p.Thumbnail)
	}
	if u.empty() {
		return nil
	}

	query, args := u.build("handouts", id)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update handout: %w", err)
	}
	return requireRow(res, "update handout")
}

// Delete removes a handout by ID. Deleting a missing ID is not an error.
func (s *HandoutStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM handouts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete handout: %w", err)
	}
	return nil
}

// updateBuilder accumulates "col = $n" assignments for a sparse UPDATE.
type updateBuilder struct {
	sets []string
	args []any
}

func (u *updateBuilder) set(col string, v any) {
	u.args = append(u.args, v)
	u.sets = append(u.sets, fmt.Sprintf("%s = $%d", col, len(u.args)))
}

func (u *updateBuilder) empty() bool {
	return len(u.sets) == 0
}

func (u *updateBuilder) build(table string, id uuid.UUID) (string, []any) {
	args := append(u.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		table, strings.Join(u.sets, ", "), len(args))
	return query, args
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
