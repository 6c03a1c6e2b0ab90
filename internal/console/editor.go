// editor.go
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

package console

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/localnerve/realty-admin/internal/blobstore"
	"github.com/localnerve/realty-admin/internal/models"
	"github.com/localnerve/realty-admin/internal/store"
	"github.com/localnerve/realty-admin/internal/types"
)

// ErrSubmitting rejects a submit while the same rendered form is still submitting
var ErrSubmitting = errors.New("this form is already being submitted")

// BlobStore is the image storage collaborator
type BlobStore interface {
	Upload(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error
	PublicURL(bucket, key string) string
	Remove(ctx context.Context, bucket string, keys []string) error
}

// Upload is one newly selected image file
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// Form is the editable state of one record. Record builds the record to
// write from the form fields, the kept images and the newly uploaded URLs.
// Token identifies one rendered copy of the form.
type Form[T store.Record] interface {
	Record(uploaded []string) T
	Images() []string
	DropImage(url string)
	Token() string
	SetToken(token string)
}

// NewFormToken issues the token for a freshly rendered form
func NewFormToken() string {
	return uuid.NewString()
}

// InFlight holds the tokens of forms with a submit in progress. Different
// forms never block each other, even for the same record.
type InFlight struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewInFlight() *InFlight {
	return &InFlight{keys: make(map[string]struct{})}
}

// Acquire claims key. ok is false if it is already claimed.
func (f *InFlight) Acquire(key string) (release func(), ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, busy := f.keys[key]; busy {
		return nil, false
	}
	f.keys[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.keys, key)
			f.mu.Unlock()
		})
	}, true
}

// Editor runs the create, edit and per-image delete workflows for one kind
type Editor[T store.Record] struct {
	Kind models.Kind

	records  RecordStore[T]
	blobs    BlobStore
	inFlight *InFlight
	now      func() time.Time
}

// NewEditor creates an editor. inFlight is shared by every editor of the process.
func NewEditor[T store.Record](kind models.Kind, records RecordStore[T], blobs BlobStore, inFlight *InFlight) *Editor[T] {
	return &Editor[T]{
		Kind:     kind,
		records:  records,
		blobs:    blobs,
		inFlight: inFlight,
		now:      time.Now,
	}
}

// Load fetches the record being edited
func (e *Editor[T]) Load(ctx context.Context, id string) (*T, error) {
	record, err := e.records.SelectByID(ctx, id)
	if err != nil {
		return nil, upstream("selectById", e.Kind, err)
	}
	return record, nil
}

// Create uploads the new images in order, then inserts the record
func (e *Editor[T]) Create(ctx context.Context, form Form[T], uploads []Upload) error {
	return e.submit(ctx, form, uploads, func(record *T) error {
		return upstream("insert", e.Kind, e.records.Insert(ctx, record))
	})
}

// Update uploads the new images in order, then replaces record id with
// the kept images followed by the new ones
func (e *Editor[T]) Update(ctx context.Context, id string, form Form[T], uploads []Upload) error {
	return e.submit(ctx, form, uploads, func(record *T) error {
		return upstream("updateById", e.Kind, e.records.UpdateByID(ctx, id, record))
	})
}

func (e *Editor[T]) submit(ctx context.Context, form Form[T], uploads []Upload, write func(*T) error) error {
	// an untokened form cannot collide with anything
	if form.Token() == "" {
		form.SetToken(NewFormToken())
	}

	release, ok := e.inFlight.Acquire(form.Token())
	if !ok {
		return ErrSubmitting
	}
	defer release()

	// Uploaded blobs are kept if a later upload or the write fails
	uploaded := make([]string, 0, len(uploads))
	seqs := make(map[string]int, len(uploads))
	for _, u := range uploads {
		url, err := e.upload(ctx, u, seqs)
		if err != nil {
			return upstream("upload", e.Kind, err)
		}
		uploaded = append(uploaded, url)
	}

	record := form.Record(uploaded)
	return write(&record)
}

// upload stores one file. seqs counts keys already used by this submit.
func (e *Editor[T]) upload(ctx context.Context, u Upload, seqs map[string]int) (string, error) {
	body, err := u.Open()
	if err != nil {
		return "", err
	}
	defer body.Close()

	now := e.now()
	base := blobstore.StorageKey(now, u.Name, 0)
	key := blobstore.StorageKey(now, u.Name, seqs[base])
	seqs[base]++

	if err := e.blobs.Upload(ctx, e.Kind.Bucket(), key, body, u.Size, u.ContentType); err != nil {
		return "", err
	}
	return e.blobs.PublicURL(e.Kind.Bucket(), key), nil
}

// DeleteImage removes the blob behind url right away and drops url from
// the form. The stored record still references it until the next submit.
func (e *Editor[T]) DeleteImage(ctx context.Context, form Form[T], url string) error {
	key := blobstore.KeyFromURL(url)
	if err := e.blobs.Remove(ctx, e.Kind.Bucket(), []string{key}); err != nil {
		return upstream("remove", e.Kind, err)
	}
	form.DropImage(url)
	return nil
}

// upstream logs a store failure once and wraps it for display
func upstream(op string, kind models.Kind, err error) error {
	if err == nil {
		return nil
	}
	log.Printf("%s %s failed: %v", kind.Collection(), op, err)
	return types.Upstream(op, err)
}
