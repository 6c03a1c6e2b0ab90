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

// Package store is the record store: whole-record CRUD over one collection
// per record kind. Every call is a single independent request; there is no
// version column, so concurrent writers resolve as last writer wins.
package store

import (
	"context"
	"errors"

	"github.com/localnerve/realty-admin/internal/models"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// ErrNotFound is returned by SelectByID when no record has the id
var ErrNotFound = errors.New("record not found")

// Record constrains the record kinds the store can hold
type Record interface {
	models.Property | models.Blog
	RecordID() string
}

// Records is the GORM backed record store for one kind
type Records[T Record] struct {
	db   *gorm.DB
	kind models.Kind
}

// New creates a record store for kind
func New[T Record](db *gorm.DB, kind models.Kind) *Records[T] {
	return &Records[T]{db: db, kind: kind}
}

// Kind returns the record kind served by this store
func (r *Records[T]) Kind() models.Kind {
	return r.kind
}

// SelectAll returns every record in store order
func (r *Records[T]) SelectAll(ctx context.Context) ([]T, error) {
	var records []T
	err := r.db.WithContext(ctx).
		Clauses(hints.Comment("select", "console:list "+r.kind.Collection())).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// SelectByID returns the single record with id
func (r *Records[T]) SelectByID(ctx context.Context, id string) (*T, error) {
	var record T
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Insert stores a new record. The id is assigned on insert.
func (r *Records[T]) Insert(ctx context.Context, record *T) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// UpdateByID replaces every editable field of the record with id
func (r *Records[T]) UpdateByID(ctx context.Context, id string, record *T) error {
	return r.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at").
		Updates(record).Error
}

// DeleteByID removes the record with id. Referenced blobs are left in place.
func (r *Records[T]) DeleteByID(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T)).Error
}
