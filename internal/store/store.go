// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for the catalog
// entities. Each store struct wraps a *sql.DB and exposes typed query
// methods.
package store

import "errors"

// ErrNotFound is returned by updates that match no row. Reads return
// (nil, nil) instead, and deletes of a missing row succeed.
var ErrNotFound = errors.New("record not found")
