// api.go
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
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/realty-admin/internal/console"
	"github.com/localnerve/realty-admin/internal/models"
	"github.com/localnerve/realty-admin/internal/store"
	"github.com/localnerve/realty-admin/internal/utils"
)

// APIHandler serves read-only JSON views of the records
type APIHandler struct {
	Properties console.RecordStore[models.Property]
	Blogs      console.RecordStore[models.Blog]
}

// GetProperties handles GET /api/properties
// @Summary List properties
// @Description Get every property listing, in store order
// @Tags Properties
// @Produce json
// @Security CookieAuth
// @Param X-Api-Version header string false "API version" default(1.0.0)
// @Success 200 {array} models.Property
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /properties [get]
func (h *APIHandler) GetProperties(c *fiber.Ctx) error {
	properties, err := h.Properties.SelectAll(c.UserContext())
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getProperties")
	}
	return utils.SuccessResponse(c, properties, fiber.StatusOK)
}

// GetProperty handles GET /api/properties/:id
// @Summary Get a property
// @Description Get one property listing by id
// @Tags Properties
// @Produce json
// @Security CookieAuth
// @Param id path string true "Property ID"
// @Param X-Api-Version header string false "API version" default(1.0.0)
// @Success 200 {object} models.Property
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /properties/{id} [get]
func (h *APIHandler) GetProperty(c *fiber.Ctx) error {
	id := c.Params("id")
	property, err := h.Properties.SelectByID(c.UserContext(), id)
	if err != nil {
		return lookupError(c, err, models.KindProperty, id, "getProperty")
	}
	return utils.SuccessResponse(c, property, fiber.StatusOK)
}

// GetBlogs handles GET /api/blogs
// @Summary List blogs
// @Description Get every blog post, in store order
// @Tags Blogs
// @Produce json
// @Security CookieAuth
// @Param X-Api-Version header string false "API version" default(1.0.0)
// @Success 200 {array} models.Blog
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /blogs [get]
func (h *APIHandler) GetBlogs(c *fiber.Ctx) error {
	blogs, err := h.Blogs.SelectAll(c.UserContext())
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getBlogs")
	}
	return utils.SuccessResponse(c, blogs, fiber.StatusOK)
}

// GetBlog handles GET /api/blogs/:id
// @Summary Get a blog
// @Description Get one blog post by id
// @Tags Blogs
// @Produce json
// @Security CookieAuth
// @Param id path string true "Blog ID"
// @Param X-Api-Version header string false "API version" default(1.0.0)
// @Success 200 {object} models.Blog
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /blogs/{id} [get]
func (h *APIHandler) GetBlog(c *fiber.Ctx) error {
	id := c.Params("id")
	blog, err := h.Blogs.SelectByID(c.UserContext(), id)
	if err != nil {
		return lookupError(c, err, models.KindBlog, id, "getBlog")
	}
	return utils.SuccessResponse(c, blog, fiber.StatusOK)
}

func lookupError(c *fiber.Ctx, err error, kind models.Kind, id, errorType string) error {
	if errors.Is(err, store.ErrNotFound) {
		return utils.NotFoundResponse(c, fmt.Sprintf("%s '%s' not found", kind, id))
	}
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, errorType)
}
