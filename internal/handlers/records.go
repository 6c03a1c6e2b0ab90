// records.go
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
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/realty-admin/internal/console"
	"github.com/localnerve/realty-admin/internal/models"
	"github.com/localnerve/realty-admin/internal/store"
)

// RecordHandler serves the listing and editor pages for one record kind
type RecordHandler[T store.Record] struct {
	Kind    models.Kind
	Records console.RecordStore[T]
	Editor  *console.Editor[T]

	// NewForm returns an empty form, FormFor one populated from a record
	NewForm func() console.Form[T]
	FormFor func(*T) console.Form[T]
}

// NewPropertyHandler creates the property pages
func NewPropertyHandler(records console.RecordStore[models.Property], blobs console.BlobStore, inFlight *console.InFlight) *RecordHandler[models.Property] {
	return &RecordHandler[models.Property]{
		Kind:    models.KindProperty,
		Records: records,
		Editor:  console.NewEditor(models.KindProperty, records, blobs, inFlight),
		NewForm: func() console.Form[models.Property] { return &console.PropertyForm{} },
		FormFor: func(p *models.Property) console.Form[models.Property] { return console.NewPropertyForm(p) },
	}
}

// NewBlogHandler creates the blog pages
func NewBlogHandler(records console.RecordStore[models.Blog], blobs console.BlobStore, inFlight *console.InFlight) *RecordHandler[models.Blog] {
	return &RecordHandler[models.Blog]{
		Kind:    models.KindBlog,
		Records: records,
		Editor:  console.NewEditor(models.KindBlog, records, blobs, inFlight),
		NewForm: func() console.Form[models.Blog] { return &console.BlogForm{} },
		FormFor: func(b *models.Blog) console.Form[models.Blog] { return console.NewBlogForm(b) },
	}
}

// Register mounts the pages under the kind's path
func (h *RecordHandler[T]) Register(router fiber.Router) {
	group := router.Group(h.Kind.Path())
	group.Get("/", h.List)
	group.Post("/", h.Create)
	group.Get("/new", h.New)
	group.Get("/:id", h.Edit)
	group.Post("/:id", h.Update)
	group.Post("/:id/delete", h.Delete)
	group.Post("/:id/images/delete", h.DeleteImage)
}

// List handles GET /{kind}
func (h *RecordHandler[T]) List(c *fiber.Ctx) error {
	listing := console.NewListing(h.Kind, h.Records)
	if err := listing.Refresh(c.UserContext()); err != nil {
		return h.renderList(c, errorStatus(err), listing)
	}
	return h.renderList(c, fiber.StatusOK, listing)
}

// Delete handles POST /{kind}/:id/delete
func (h *RecordHandler[T]) Delete(c *fiber.Ctx) error {
	confirmed := c.FormValue("confirmed") == "yes"
	if !confirmed {
		return c.Redirect(h.Kind.Path(), fiber.StatusSeeOther)
	}

	listing := console.NewListing(h.Kind, h.Records)
	if err := listing.Delete(c.UserContext(), c.Params("id"), confirmed); err != nil {
		return h.renderList(c, errorStatus(err), listing)
	}
	return h.renderList(c, fiber.StatusOK, listing)
}

// New handles GET /{kind}/new
func (h *RecordHandler[T]) New(c *fiber.Ctx) error {
	return h.renderForm(c, fiber.StatusOK, "", h.NewForm(), nil)
}

// Create handles POST /{kind}
func (h *RecordHandler[T]) Create(c *fiber.Ctx) error {
	form := h.NewForm()
	if err := c.BodyParser(form); err != nil {
		return renderError(c, fiber.StatusBadRequest, titles[h.Kind].create, err, h.Kind.Path())
	}

	if err := h.Editor.Create(c.UserContext(), form, uploadsFrom(c)); err != nil {
		return h.renderForm(c, errorStatus(err), "", form, err)
	}
	return c.Redirect(h.Kind.Path(), fiber.StatusSeeOther)
}

// Edit handles GET /{kind}/:id
func (h *RecordHandler[T]) Edit(c *fiber.Ctx) error {
	id := c.Params("id")
	record, err := h.Editor.Load(c.UserContext(), id)
	if err != nil {
		status := errorStatus(err)
		if errors.Is(err, store.ErrNotFound) {
			status = fiber.StatusNotFound
		}
		return renderError(c, status, titles[h.Kind].edit, err, h.Kind.Path())
	}
	return h.renderForm(c, fiber.StatusOK, id, h.FormFor(record), nil)
}

// Update handles POST /{kind}/:id
func (h *RecordHandler[T]) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	form := h.NewForm()
	if err := c.BodyParser(form); err != nil {
		return renderError(c, fiber.StatusBadRequest, titles[h.Kind].edit, err, h.Kind.Path())
	}

	if err := h.Editor.Update(c.UserContext(), id, form, uploadsFrom(c)); err != nil {
		return h.renderForm(c, errorStatus(err), id, form, err)
	}
	return c.Redirect(h.Kind.Path(), fiber.StatusSeeOther)
}

// DeleteImage handles POST /{kind}/:id/images/delete?url=...
// The posted form comes back with the image gone. The record is not saved.
func (h *RecordHandler[T]) DeleteImage(c *fiber.Ctx) error {
	id := c.Params("id")
	form := h.NewForm()
	if err := c.BodyParser(form); err != nil {
		return renderError(c, fiber.StatusBadRequest, titles[h.Kind].edit, err, h.Kind.Path())
	}

	imageURL := c.Query("url")
	if imageURL == "" {
		return h.renderForm(c, fiber.StatusBadRequest, id, form, errors.New("no image selected"))
	}

	if err := h.Editor.DeleteImage(c.UserContext(), form, imageURL); err != nil {
		return h.renderForm(c, errorStatus(err), id, form, err)
	}
	return h.renderForm(c, fiber.StatusOK, id, form, nil)
}

func (h *RecordHandler[T]) renderList(c *fiber.Ctx, status int, listing *console.Listing[T]) error {
	return c.Status(status).Render(h.Kind.Collection()+"/list", page(c, titles[h.Kind].list, fiber.Map{
		"Records": listing.Records,
		"Error":   errorText(listing.Err),
		"Confirm": console.ConfirmDeleteMessage(h.Kind),
	}))
}

func (h *RecordHandler[T]) renderForm(c *fiber.Ctx, status int, id string, form console.Form[T], err error) error {
	if form.Token() == "" {
		form.SetToken(console.NewFormToken())
	}

	title, action := titles[h.Kind].create, h.Kind.Path()
	if id != "" {
		title, action = titles[h.Kind].edit, h.Kind.Path()+"/"+id
	}

	return c.Status(status).Render(h.Kind.Collection()+"/form", page(c, title, fiber.Map{
		"ID":     id,
		"Action": action,
		"Form":   form,
		"Error":  errorText(err),
	}))
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// uploadsFrom collects the selected image files in selection order
func uploadsFrom(c *fiber.Ctx) []console.Upload {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}

	var uploads []console.Upload
	for _, fh := range form.File["images"] {
		if fh.Filename == "" || fh.Size == 0 {
			continue
		}
		uploads = append(uploads, console.Upload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return uploads
}
