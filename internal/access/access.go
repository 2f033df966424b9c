// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package access decides which signed-in identities may use the admin
// panel. The decision is a plain predicate so deployments can swap the
// single-admin rule for something else without touching the handlers.
package access

import "strings"

// Identity is who the session says is signed in.
type Identity struct {
	Email string
}

// Authorizer reports whether an identity may use the admin panel.
type Authorizer func(Identity) bool

// SingleAdmin grants access only to the identity whose email equals
// adminEmail exactly. An empty adminEmail or an empty identity is never
// granted.
func SingleAdmin(adminEmail string) Authorizer {
	adminEmail = strings.TrimSpace(adminEmail)
	return func(id Identity) bool {
		return adminEmail != "" && id.Email != "" && id.Email == adminEmail
	}
}

// DenyAll is the Authorizer used when no admin is configured.
func DenyAll(Identity) bool { return false }
