// handlers_test.go
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

package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/realty-admin/internal/console"
	"github.com/localnerve/realty-admin/internal/handlers"
	"github.com/localnerve/realty-admin/internal/models"
	"github.com/localnerve/realty-admin/internal/services"
	"github.com/localnerve/realty-admin/internal/store"
	"github.com/localnerve/realty-admin/internal/types"
	"github.com/localnerve/realty-admin/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	validToken  = "valid-token"
	secondToken = "second-token"
)

// fakeSessions accepts validToken and secondToken and notifies listeners
// synchronously
type fakeSessions struct {
	mu        sync.Mutex
	listeners []func(types.SessionChange)
	signIns   []string
}

func (f *fakeSessions) CurrentSessions(ctx context.Context) ([]*types.Session, error) {
	return nil, nil
}

func (f *fakeSessions) OnSessionChange(fn func(types.SessionChange)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
	return func() {}
}

func (f *fakeSessions) notify(c types.SessionChange) {
	f.mu.Lock()
	listeners := append([]func(types.SessionChange){}, f.listeners...)
	f.mu.Unlock()
	for _, fn := range listeners {
		fn(c)
	}
}

func (f *fakeSessions) SignInWithOneTimeLink(ctx context.Context, email string) error {
	f.signIns = append(f.signIns, email)
	return nil
}

func (f *fakeSessions) SignOut(ctx context.Context, token string) error {
	f.notify(types.SessionChange{Token: token})
	return nil
}

func (f *fakeSessions) Validate(ctx context.Context, cookie string, roles []string) (*types.Session, error) {
	if cookie != validToken && cookie != secondToken {
		return nil, errors.New("session is not valid")
	}
	return &types.Session{Token: cookie, ValidatedAt: time.Now()}, nil
}

func (f *fakeSessions) Establish(ctx context.Context, cookie string) (*types.Session, error) {
	session, err := f.Validate(ctx, cookie, services.AdminRoles)
	if err != nil {
		return nil, err
	}
	f.notify(types.SessionChange{Token: session.Token, Session: session})
	return session, nil
}

// memBlobs is an in-memory blob store
type memBlobs struct {
	objects map[string][]byte
	order   []string
}

func (m *memBlobs) Upload(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[bucket+"/"+key] = data
	m.order = append(m.order, key)
	return nil
}

func (m *memBlobs) PublicURL(bucket, key string) string {
	return "http://cdn.local/" + bucket + "/" + url.PathEscape(key)
}

func (m *memBlobs) Remove(ctx context.Context, bucket string, keys []string) error {
	for _, k := range keys {
		delete(m.objects, bucket+"/"+k)
	}
	return nil
}

type testEnv struct {
	app        *fiber.App
	gate       *console.Gate
	sessions   *fakeSessions
	blobs      *memBlobs
	properties *store.Records[models.Property]
	blogs      *store.Records[models.Blog]
}

// setupTestDB creates a file backed SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "console.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Property{}, &models.Blog{}))
	return db
}

func setup(t *testing.T, start bool) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	env := &testEnv{
		sessions:   &fakeSessions{},
		blobs:      &memBlobs{objects: make(map[string][]byte)},
		properties: store.New[models.Property](db, models.KindProperty),
		blogs:      store.New[models.Blog](db, models.KindBlog),
	}
	env.gate = console.NewGate(env.sessions)
	if start {
		env.gate.Start(context.Background())
		t.Cleanup(env.gate.Stop)
		select {
		case <-env.gate.Ready():
		case <-time.After(2 * time.Second):
			t.Fatal("gate never resolved")
		}
	}

	env.app = fiber.New(fiber.Config{
		Views:        views.Engine(),
		ViewsLayout:  views.Layout,
		ErrorHandler: handlers.ErrorHandler,
	})
	handlers.Setup(env.app, handlers.Deps{
		Gate:       env.gate,
		Sessions:   env.sessions,
		Validator:  env.sessions,
		Properties: env.properties,
		Blogs:      env.blogs,
		Blobs:      env.blobs,
	})
	return env
}

func (e *testEnv) signIn(t *testing.T) {
	t.Helper()
	resp := e.do(t, httptest.NewRequest("GET", "/auth/callback", nil), true)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

func (e *testEnv) do(t *testing.T, req *http.Request, withCookie bool) *http.Response {
	t.Helper()
	if withCookie {
		return e.doAs(t, req, validToken)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// doAs sends req with the session cookie token
func (e *testEnv) doAs(t *testing.T, req *http.Request, token string) *http.Response {
	t.Helper()
	req.AddCookie(&http.Cookie{Name: services.SessionCookie, Value: token})
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest("POST", target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

type file struct{ name, content string }

func multipartRequest(t *testing.T, target string, values url.Values, files ...file) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, vals := range values {
		for _, v := range vals {
			require.NoError(t, w.WriteField(key, v))
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile("images", f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestLoadingUntilGateResolves(t *testing.T) {
	env := setup(t, false)

	resp := env.do(t, httptest.NewRequest("GET", "/login", nil), false)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Loading...")
}

func TestProtectedPagesRedirectToLogin(t *testing.T) {
	env := setup(t, true)

	for _, path := range []string{"/", "/properties", "/blogs/new", "/properties/abc"} {
		resp := env.do(t, httptest.NewRequest("GET", path, nil), true)
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}
}

func TestLoginPage(t *testing.T) {
	env := setup(t, true)

	resp := env.do(t, httptest.NewRequest("GET", "/login", nil), false)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, "Admin Login")
	assert.Contains(t, html, "disabled")
	assert.NotContains(t, html, "Logout")
}

func TestLoginSubmit(t *testing.T) {
	env := setup(t, true)

	resp := env.do(t, formRequest("/login", url.Values{"email": {"not-an-email"}}), false)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body(t, resp), console.InvalidEmailMessage)
	assert.Empty(t, env.sessions.signIns)

	resp = env.do(t, formRequest("/login", url.Values{"email": {"admin@example.com"}}), false)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), console.LinkSentMessage)
	assert.Equal(t, []string{"admin@example.com"}, env.sessions.signIns)
}

func TestCallbackRejectsInvalidCookie(t *testing.T) {
	env := setup(t, true)

	resp := env.do(t, httptest.NewRequest("GET", "/auth/callback", nil), false)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, console.StateUnauthenticated, env.gate.State())
}

func TestSignedInHomeAndLogout(t *testing.T) {
	env := setup(t, true)
	env.signIn(t)
	assert.Equal(t, console.StateAuthenticated, env.gate.State())

	resp := env.do(t, httptest.NewRequest("GET", "/", nil), true)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, "Manage Properties")
	assert.Contains(t, html, "Logout")

	// another browser without the cookie is still sent to login
	resp = env.do(t, httptest.NewRequest("GET", "/", nil), false)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	resp = env.do(t, httptest.NewRequest("POST", "/logout", nil), true)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Equal(t, console.StateUnauthenticated, env.gate.State())

	resp = env.do(t, httptest.NewRequest("GET", "/", nil), true)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
}

func TestAdministratorsSignedInTogether(t *testing.T) {
	env := setup(t, true)
	env.signIn(t)

	resp := env.doAs(t, httptest.NewRequest("GET", "/auth/callback", nil), secondToken)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, 2, env.gate.Count())

	for _, token := range []string{validToken, secondToken} {
		resp = env.doAs(t, httptest.NewRequest("GET", "/properties", nil), token)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, token)
	}

	// one logging out leaves the other signed in
	resp = env.doAs(t, httptest.NewRequest("POST", "/logout", nil), validToken)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	resp = env.doAs(t, httptest.NewRequest("GET", "/properties", nil), validToken)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	resp = env.doAs(t, httptest.NewRequest("GET", "/properties", nil), secondToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, console.StateAuthenticated, env.gate.State())
}

func TestFormPagesCarryToken(t *testing.T) {
	env := setup(t, true)
	env.signIn(t)

	first := body(t, env.do(t, httptest.NewRequest("GET", "/properties/new", nil), true))
	second := body(t, env.do(t, httptest.NewRequest("GET", "/properties/new", nil), true))

	token := regexp.MustCompile(`name="form_token" value="([^"]+)"`)
	a, b := token.FindStringSubmatch(first), token.FindStringSubmatch(second)
	require.Len(t, a, 2)
	require.Len(t, b, 2)
	assert.NotEqual(t, a[1], b[1])
}

func TestPropertyCreateEditDelete(t *testing.T) {
	env := setup(t, true)
	env.signIn(t)
	ctx := context.Background()

	req := multipartRequest(t, "/properties", url.Values{
		"project_name": {"Green Meadows"},
		"amenities":    {"Pool, Gym"},
	}, file{"front.jpg", "front"}, file{"back.jpg", "back"})
	resp := env.do(t, req, true)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/properties", resp.Header.Get("Location"))

	all, err := env.properties.SelectAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	created := all[0]
	assert.Equal(t, models.StringList{"Pool", "Gym"}, created.Amenities)
	assert.Equal(t, models.StringList{""}, created.ConnectivityInfo)
	require.Len(t, created.ImageURLs, 2)
	assert.True(t, strings.HasSuffix(created.ImageURLs[0], "_front.jpg"))
	assert.True(t, strings.HasSuffix(created.ImageURLs[1], "_back.jpg"))

	// edit form joins lists back
	resp = env.do(t, httptest.NewRequest("GET", "/properties/"+created.ID, nil), true)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, `value="Pool, Gym"`)
	assert.Contains(t, html, "Update Property")

	// update with no image changes keeps the images
	resp = env.do(t, formRequest("/properties/"+created.ID, url.Values{
		"project_name": {"Green Meadows II"},
		"amenities":    {"Pool, Gym"},
		"image_urls":   created.ImageURLs,
	}), true)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	updated, err := env.properties.SelectByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Green Meadows II", updated.ProjectName)
	assert.Equal(t, created.ImageURLs, updated.ImageURLs)

	// listing shows the record with a confirmed delete action
	resp = env.do(t, httptest.NewRequest("GET", "/properties", nil), true)
	html = body(t, resp)
	assert.Contains(t, html, "Green Meadows II")
	assert.Contains(t, html, "Are you sure you want to delete this property?")

	// unconfirmed delete does nothing
	resp = env.do(t, formRequest("/properties/"+created.ID+"/delete", url.Values{}), true)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	_, err = env.properties.SelectByID(ctx, created.ID)
	require.NoError(t, err)

	resp = env.do(t, formRequest("/properties/"+created.ID+"/delete", url.Values{"confirmed": {"yes"}}), true)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "No properties yet.")
	_, err = env.properties.SelectByID(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPropertyDeleteImage(t *testing.T) {
	env := setup(t, true)
	env.signIn(t)
	ctx := context.Background()

	require.NoError(t, env.blobs.Upload(ctx, "property-images", "1_a.jpg", strings.NewReader("a"), 1, "image/jpeg"))
	keep := "http://cdn.local/property-images/2_b.jpg"
	drop := "http://cdn.local/property-images/1_a.jpg"
	p := &models.Property{ProjectName: "Lake View", ImageURLs: models.StringList{drop, keep}}
	require.NoError(t, env.properties.Insert(ctx, p))

	target := "/properties/" + p.ID + "/images/delete?url=" + url.QueryEscape(drop)
	resp := env.do(t, formRequest(target, url.Values{
		"project_name": {"Lake View"},
		"image_urls":   {drop, keep},
	}), true)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, keep)
	assert.NotContains(t, html, `value="`+drop+`"`)
	assert.NotContains(t, env.blobs.objects, "property-images/1_a.jpg")

	// the stored record is untouched until the form is submitted
	stored, err := env.properties.SelectByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StringList{drop, keep}, stored.ImageURLs)
}

func TestEditMissingRecord(t *testing.T) {
	env := setup(t, true)
	env.signIn(t)

	resp := env.do(t, httptest.NewRequest("GET", "/blogs/does-not-exist", nil), true)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body(t, resp), "record not found")
}

func TestBlogCreateWithoutImage(t *testing.T) {
	env := setup(t, true)
	env.signIn(t)

	resp := env.do(t, multipartRequest(t, "/blogs", url.Values{"blog_title": {"Market update"}}), true)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	all, err := env.blogs.SelectAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Nil(t, all[0].ImageURL)
	assert.Equal(t, "", all[0].BlogTitleTelugu)
}

func TestAPI(t *testing.T) {
	env := setup(t, true)
	ctx := context.Background()
	p := &models.Property{ProjectName: "Green Meadows", Amenities: models.StringList{"Pool"}}
	require.NoError(t, env.properties.Insert(ctx, p))

	// no cookie
	resp := env.do(t, httptest.NewRequest("GET", "/api/properties", nil), false)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body(t, resp)), &envelope))
	assert.Equal(t, "data.authorization.admin", envelope["type"])

	resp = env.do(t, httptest.NewRequest("GET", "/api/properties", nil), true)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "1.0.0", resp.Header.Get("X-Api-Version"))
	var properties []models.Property
	require.NoError(t, json.Unmarshal([]byte(body(t, resp)), &properties))
	require.Len(t, properties, 1)
	assert.Equal(t, models.StringList{"Pool"}, properties[0].Amenities)

	resp = env.do(t, httptest.NewRequest("GET", "/api/properties/"+p.ID, nil), true)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.do(t, httptest.NewRequest("GET", "/api/blogs/nope", nil), true)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	req := httptest.NewRequest("GET", "/api/blogs", nil)
	req.Header.Set("X-Api-Version", "2.0.0")
	resp = env.do(t, req, true)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
