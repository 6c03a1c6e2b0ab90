// fakes_test.go
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
	"strconv"
	"strings"
	"sync"

	"github.com/localnerve/realty-admin/internal/models"
	"github.com/localnerve/realty-admin/internal/store"
	"github.com/localnerve/realty-admin/internal/types"
)

// fakeSessions is an in-memory SessionStore
type fakeSessions struct {
	mu        sync.Mutex
	probe     func(ctx context.Context) ([]*types.Session, error)
	listeners []func(types.SessionChange)
	unsubbed  int
	signIns   []string
	signInErr error
	signOuts  []string
}

func (f *fakeSessions) CurrentSessions(ctx context.Context) ([]*types.Session, error) {
	if f.probe == nil {
		return nil, nil
	}
	return f.probe(ctx)
}

func (f *fakeSessions) OnSessionChange(fn func(types.SessionChange)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.unsubbed++
	}
}

func (f *fakeSessions) notify(c types.SessionChange) {
	f.mu.Lock()
	listeners := append([]func(types.SessionChange){}, f.listeners...)
	f.mu.Unlock()
	for _, fn := range listeners {
		fn(c)
	}
}

// signIn and signOut notify as the session store would
func (f *fakeSessions) signIn(token string) {
	f.notify(types.SessionChange{Token: token, Session: &types.Session{Token: token}})
}

func (f *fakeSessions) signOut(token string) {
	f.notify(types.SessionChange{Token: token})
}

func (f *fakeSessions) SignInWithOneTimeLink(ctx context.Context, email string) error {
	f.signIns = append(f.signIns, email)
	return f.signInErr
}

func (f *fakeSessions) SignOut(ctx context.Context, token string) error {
	f.signOuts = append(f.signOuts, token)
	return nil
}

// call is one recorded store call, in order
type call struct {
	op  string
	arg string
}

// fakeRecords is an in-memory RecordStore that records call order
type fakeRecords[T store.Record] struct {
	rows   []T
	calls  *[]call
	nextID int

	selectErr error
	insertErr error
	updateErr error
	deleteErr error

	inserted []T
	updated  map[string]T
	setID    func(*T, string)
}

func newFakeRecords[T store.Record](calls *[]call, setID func(*T, string), rows ...T) *fakeRecords[T] {
	return &fakeRecords[T]{rows: rows, calls: calls, updated: make(map[string]T), setID: setID}
}

func (f *fakeRecords[T]) record(op, arg string) {
	*f.calls = append(*f.calls, call{op, arg})
}

func (f *fakeRecords[T]) SelectAll(ctx context.Context) ([]T, error) {
	f.record("selectAll", "")
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	return append([]T(nil), f.rows...), nil
}

func (f *fakeRecords[T]) SelectByID(ctx context.Context, id string) (*T, error) {
	f.record("selectById", id)
	for i := range f.rows {
		if f.rows[i].RecordID() == id {
			row := f.rows[i]
			return &row, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeRecords[T]) Insert(ctx context.Context, record *T) error {
	f.record("insert", "")
	if f.insertErr != nil {
		return f.insertErr
	}
	f.nextID++
	f.setID(record, "id-"+strconv.Itoa(f.nextID))
	f.inserted = append(f.inserted, *record)
	f.rows = append(f.rows, *record)
	return nil
}

func (f *fakeRecords[T]) UpdateByID(ctx context.Context, id string, record *T) error {
	f.record("updateById", id)
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated[id] = *record
	return nil
}

func (f *fakeRecords[T]) DeleteByID(ctx context.Context, id string) error {
	f.record("deleteById", id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.rows {
		if f.rows[i].RecordID() == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeRecords[T]) count(op string) int {
	n := 0
	for _, c := range *f.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

func setPropertyID(p *models.Property, id string) { p.ID = id }
func setBlogID(b *models.Blog, id string)         { b.ID = id }

// fakeBlobs is an in-memory BlobStore that records call order
type fakeBlobs struct {
	calls   *[]call
	objects map[string][]byte

	// failOn makes the upload of the named file fail
	failOn    string
	removeErr error
	removed   []string

	// onUpload runs inside Upload, before it returns
	onUpload func()
}

func newFakeBlobs(calls *[]call) *fakeBlobs {
	return &fakeBlobs{calls: calls, objects: make(map[string][]byte)}
}

func (f *fakeBlobs) Upload(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error {
	*f.calls = append(*f.calls, call{"upload", key})
	if f.onUpload != nil {
		f.onUpload()
	}
	if f.failOn != "" && strings.HasSuffix(key, "_"+f.failOn) {
		return errors.New("The resource already exists")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[bucket+"/"+key] = data
	return nil
}

func (f *fakeBlobs) PublicURL(bucket, key string) string {
	return "http://cdn.local/" + bucket + "/" + key
}

func (f *fakeBlobs) Remove(ctx context.Context, bucket string, keys []string) error {
	*f.calls = append(*f.calls, call{"remove", bucket + "/" + keys[0]})
	if f.removeErr != nil {
		return f.removeErr
	}
	for _, k := range keys {
		delete(f.objects, bucket+"/"+k)
		f.removed = append(f.removed, k)
	}
	return nil
}

// fileUpload is an Upload backed by an in-memory file
func fileUpload(name, content string) Upload {
	return Upload{
		Name:        name,
		ContentType: "image/jpeg",
		Size:        int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}
