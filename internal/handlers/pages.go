// pages.go
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

package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/realty-admin/internal/console"
	"github.com/localnerve/realty-admin/internal/models"
	"github.com/localnerve/realty-admin/internal/services"
	"github.com/localnerve/realty-admin/internal/types"
)

// Sessions is the session store as seen by the page handlers
type Sessions interface {
	console.SessionStore
	Establish(ctx context.Context, cookie string) (*types.Session, error)
}

// ConsoleHandler serves the login, callback, logout and home pages
type ConsoleHandler struct {
	Gate     *console.Gate
	Sessions Sessions
}

// page fills the data every page template expects
func page(c *fiber.Ctx, title string, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}
	data["Title"] = title
	_, data["SignedIn"] = c.Locals("session").(*types.Session)
	return data
}

// Loading renders the loading indicator while the gate resolves
func Loading(c *fiber.Ctx) error {
	c.Set(fiber.HeaderRetryAfter, "1")
	return c.Status(fiber.StatusServiceUnavailable).Render("loading", page(c, "Loading", nil))
}

// renderError renders a page wide error line
func renderError(c *fiber.Ctx, status int, title string, err error, back string) error {
	return c.Status(status).Render("error", page(c, title, fiber.Map{
		"Error": err.Error(),
		"Back":  back,
	}))
}

// errorStatus maps a console error to a page status
func errorStatus(err error) int {
	var verr *types.ValidationError
	var serr *types.StoreError
	switch {
	case errors.Is(err, console.ErrSubmitting):
		return fiber.StatusConflict
	case errors.As(err, &verr):
		return fiber.StatusUnprocessableEntity
	case errors.As(err, &serr):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// LoginPage handles GET /login
func (h *ConsoleHandler) LoginPage(c *fiber.Ctx) error {
	return c.Render("login", page(c, "Login", fiber.Map{
		"Form":     console.NewLoginForm(""),
		"LinkSent": console.LinkSentMessage,
	}))
}

// Login handles POST /login
func (h *ConsoleHandler) Login(c *fiber.Ctx) error {
	form := console.NewLoginForm(c.FormValue("email"))

	status := fiber.StatusOK
	if err := form.Submit(c.UserContext(), h.Sessions); err != nil {
		status = errorStatus(err)
	}

	return c.Status(status).Render("login", page(c, "Login", fiber.Map{
		"Form":     form,
		"LinkSent": console.LinkSentMessage,
	}))
}

// Callback handles GET /auth/callback, where magic links land
func (h *ConsoleHandler) Callback(c *fiber.Ctx) error {
	if _, err := h.Sessions.Establish(c.UserContext(), c.Cookies(services.SessionCookie)); err != nil {
		log.Printf("Magic link callback rejected: %v", err)
		form := console.NewLoginForm("")
		form.Status = console.LoginError
		form.Error = err.Error()
		return c.Status(fiber.StatusUnauthorized).Render("login", page(c, "Login", fiber.Map{
			"Form":     form,
			"LinkSent": console.LinkSentMessage,
		}))
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Logout handles POST /logout
func (h *ConsoleHandler) Logout(c *fiber.Ctx) error {
	if err := h.Gate.SignOut(c.UserContext(), c.Cookies(services.SessionCookie)); err != nil {
		return renderError(c, errorStatus(err), "Logout", err, "/")
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// Home handles GET /
func (h *ConsoleHandler) Home(c *fiber.Ctx) error {
	return c.Render("home", page(c, "Home", nil))
}

// titles are the page titles per record kind
var titles = map[models.Kind]struct{ list, create, edit string }{
	models.KindProperty: {"Properties", "Add Property", "Edit Property"},
	models.KindBlog:     {"Blogs", "Add Blog", "Edit Blog"},
}
