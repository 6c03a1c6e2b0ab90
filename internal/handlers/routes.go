// routes.go
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
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/realty-admin/internal/console"
	"github.com/localnerve/realty-admin/internal/middleware"
	"github.com/localnerve/realty-admin/internal/models"
	"github.com/localnerve/realty-admin/internal/types"
	"github.com/localnerve/realty-admin/internal/utils"
)

// Deps are the collaborators the routes are built from
type Deps struct {
	Gate       *console.Gate
	Sessions   Sessions
	Validator  middleware.SessionValidator
	Properties console.RecordStore[models.Property]
	Blogs      console.RecordStore[models.Blog]
	Blobs      console.BlobStore
}

// Setup mounts the console pages and the JSON API. Routes mounted on app
// before Setup, like metrics, are served while the gate is loading.
func Setup(app *fiber.App, d Deps) {
	app.Use(middleware.GateReady(d.Gate, Loading))
	app.Use(middleware.LoadSession(d.Gate))

	// API routes under /api
	api := app.Group("/api", middleware.VersionMiddleware(), middleware.AuthAdmin(d.Validator))
	apiHandler := &APIHandler{Properties: d.Properties, Blogs: d.Blogs}
	api.Get("/properties", apiHandler.GetProperties)
	api.Get("/properties/:id", apiHandler.GetProperty)
	api.Get("/blogs", apiHandler.GetBlogs)
	api.Get("/blogs/:id", apiHandler.GetBlog)

	// Public pages
	consoleHandler := &ConsoleHandler{Gate: d.Gate, Sessions: d.Sessions}
	app.Get("/login", consoleHandler.LoginPage)
	app.Post("/login", consoleHandler.Login)
	app.Get("/auth/callback", consoleHandler.Callback)

	// Protected pages
	protected := app.Group("", middleware.RequireSession())
	protected.Get("/", consoleHandler.Home)
	protected.Post("/logout", consoleHandler.Logout)

	inFlight := console.NewInFlight()
	NewPropertyHandler(d.Properties, d.Blobs, inFlight).Register(protected)
	NewBlogHandler(d.Blogs, d.Blobs, inFlight).Register(protected)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
}

// ErrorHandler answers API requests with the JSON error envelope and
// pages with the error page
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	var fe *fiber.Error
	var ce *types.CustomError
	switch {
	case errors.As(err, &ce):
		code = ce.Code
		message = ce.Message
		errorType = ce.Type
	case errors.As(err, &fe):
		code = fe.Code
		message = fe.Message
		if code == fiber.StatusNotFound {
			message = "[404] Resource Not Found"
			errorType = "notFound"
		}
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		return utils.ErrorResponse(c, message, code, errorType)
	}
	return renderError(c, code, "Error", errors.New(message), "/")
}
