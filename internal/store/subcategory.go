// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"estudeapostilas/internal/models"
)

// SubCategoryStore manages subcategories in the database.
type SubCategoryStore struct {
	db *sql.DB
}

// NewSubCategoryStore returns a new SubCategoryStore.
func NewSubCategoryStore(db *sql.DB) *SubCategoryStore {
	return &SubCategoryStore{db: db}
}

const subCategoryColumns = `id, name, category, created_at`

func scanSubCategory(scanner interface{ Scan(...any) error }) (*models.SubCategory, error) {
	var c models.SubCategory
	if err := scanner.Scan(&c.ID, &c.Name, &c.Category, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all subcategories ordered by name.
func (s *SubCategoryStore) List(ctx context.Context) ([]models.SubCategory, error) {
	return s.query(ctx, "list subcategories",
		`SELECT `+subCategoryColumns+` FROM subcategories ORDER BY name, id`)
}

// ListByCategory returns the subcategories of one category ordered by name.
func (s *SubCategoryStore) ListByCategory(ctx context.Context, c models.Category) ([]models.SubCategory, error) {
	return s.query(ctx, "list subcategories by category",
		`SELECT `+subCategoryColumns+` FROM subcategories WHERE category = $1 ORDER BY name, id`, c)
}

func (s *SubCategoryStore) query(ctx context.Context, op, q string, args ...any) ([]models.SubCategory, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := []models.SubCategory{}
	for rows.Next() {
		c, err := scanSubCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// FindByID retrieves a subcategory by ID. Returns nil if not found.
func (s *SubCategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.SubCategory, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+subCategoryColumns+` FROM subcategories WHERE id = $1`, id)
	c, err := scanSubCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subcategory by id: %w", err)
	}
	return c, nil
}

// Create inserts a new subcategory and returns it.
func (s *SubCategoryStore) Create(ctx context.Context, d models.SubCategoryDraft) (*models.SubCategory, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO subcategories (name, category)
		VALUES ($1, $2)
		RETURNING `+subCategoryColumns,
		d.Name, d.Category,
	)
	c, err := scanSubCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create subcategory: %w", err)
	}
	return c, nil
}

// Update renames or moves a subcategory. Handouts linked to it are not
// touched, even when the category changes.
func (s *SubCategoryStore) Update(ctx context.Context, id uuid.UUID, p models.SubCategoryPatch) error {
	var u updateBuilder
	if p.Name != "" {
		u.set("name", p.Name)
	}
	if p.Category != "" {
		u.set("category", p.Category)
	}
	if u.empty() {
		return nil
	}

	query, args := u.build("subcategories", id)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update subcategory: %w", err)
	}
	return requireRow(res, "update subcategory")
}

// Delete removes a subcategory by ID. Handouts keep their subcategory_id,
// which then dangles: there is no foreign key to cascade or nullify it.
func (s *SubCategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM subcategories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete subcategory: %w", err)
	}
	return nil
}
