// auth.go
//
// An admin console for real-estate property listings and blog posts
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of realty-admin.
// realty-admin is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// realty-admin is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with realty-admin.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package middleware

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/realty-admin/internal/console"
	"github.com/localnerve/realty-admin/internal/services"
	"github.com/localnerve/realty-admin/internal/types"
)

// SessionValidator checks a session cookie for a set of roles
type SessionValidator interface {
	Validate(ctx context.Context, cookie string, roles []string) (*types.Session, error)
}

// AuthAdmin validates that the request has admin role authorization
func AuthAdmin(sessions SessionValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, sessions, services.AdminRoles, "data.authorization.admin")
	}
}

// authorize performs the authorization check
func authorize(c *fiber.Ctx, sessions SessionValidator, roles []string, errorType string) error {
	// Get session cookie
	cookie := c.Cookies(services.SessionCookie)
	if cookie == "" {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: fmt.Sprintf("Authorizer cookie %q not found", services.SessionCookie),
			Type:    errorType,
		}
	}

	// Validate session
	session, err := sessions.Validate(c.UserContext(), cookie, roles)
	if err != nil {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: fmt.Sprintf("Invalid session: %v", err),
			Type:    errorType,
		}
	}

	// Set user data in context
	c.Locals("user", session.User)

	return c.Next()
}

// GateReady renders the loading page until the gate has resolved
func GateReady(gate *console.Gate, loading fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if gate.State() == console.StateLoading {
			return loading(c)
		}
		return c.Next()
	}
}

// LoadSession exposes the current session to handlers when the request
// carries its cookie
func LoadSession(gate *console.Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if session := gate.SessionFor(c.Cookies(services.SessionCookie)); session != nil {
			c.Locals("session", session)
		}
		return c.Next()
	}
}

// RequireSession redirects to the login page unless LoadSession found
// the current session
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals("session").(*types.Session); !ok {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		return c.Next()
	}
}
