// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"estudeapostilas/internal/models"
)

//go:embed fixtures/handouts.yaml
var handoutFixture []byte

// DefaultAdminEmail is used when no ADMIN_EMAIL is configured in development.
const DefaultAdminEmail = "admin@estudeapostilas.local"

type fixtureHandout struct {
	Title       string  `yaml:"title"`
	Category    string  `yaml:"category"`
	Description string  `yaml:"description"`
	Author      string  `yaml:"author"`
	Pages       int     `yaml:"pages"`
	Year        int     `yaml:"year"`
	Rating      float64 `yaml:"rating"`
	DownloadURL string  `yaml:"downloadUrl"`
	Thumbnail   string  `yaml:"thumbnail"`
}

type fixture struct {
	Handouts []fixtureHandout `yaml:"handouts"`
}

// loadFixture parses the embedded sample catalog and rejects entries
// whose category is not one of the known labels.
func loadFixture(data []byte) ([]fixtureHandout, error) {
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	for i, h := range f.Handouts {
		if _, err := models.ParseCategory(h.Category); err != nil {
			return nil, fmt.Errorf("fixture handout %d (%q): %w", i, h.Title, err)
		}
	}
	return f.Handouts, nil
}

// Seed populates the database with initial development data: an admin
// user with the given email, and the sample catalog. Each part is only
// written when its table is empty. The admin will be prompted to set up
// 2FA on first login (totp_enabled = false).
func Seed(db *sql.DB, adminEmail string) error {
	if adminEmail == "" {
		adminEmail = DefaultAdminEmail
	}
	if err := seedAdmin(db, adminEmail); err != nil {
		return err
	}
	return seedHandouts(db)
}

func seedAdmin(db *sql.DB, email string) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("users already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, totp_enabled)
		VALUES ($1, $2, $3, $4)
	`, email, string(hash), "Admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", email,
		"password", "admin",
	)
	return nil
}

func seedHandouts(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM handouts").Scan(&count); err != nil {
		return fmt.Errorf("seed check handouts: %w", err)
	}
	if count > 0 {
		slog.Info("handouts already seeded, skipping")
		return nil
	}

	items, err := loadFixture(handoutFixture)
	if err != nil {
		return fmt.Errorf("seed handouts: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Insert in reverse so the first fixture entry ends up newest.
	for i := len(items) - 1; i >= 0; i-- {
		h := items[i]
		_, err := tx.Exec(`
			INSERT INTO handouts (title, category, description, author, pages, year,
			                      rating, download_url, thumbnail_url, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW() - make_interval(secs => $10))
		`, h.Title, h.Category, h.Description, h.Author, h.Pages, h.Year,
			h.Rating, h.DownloadURL, h.Thumbnail, float64(i))
		if err != nil {
			return fmt.Errorf("seed insert handout %q: %w", h.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}
	slog.Info("database seeded with sample handouts", "count", len(items))
	return nil
}
