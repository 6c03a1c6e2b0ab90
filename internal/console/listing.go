// listing.go
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
	"fmt"

	"github.com/localnerve/realty-admin/internal/models"
	"github.com/localnerve/realty-admin/internal/store"
)

// RecordStore is the record collaborator for one record kind
type RecordStore[T store.Record] interface {
	SelectAll(ctx context.Context) ([]T, error)
	SelectByID(ctx context.Context, id string) (*T, error)
	Insert(ctx context.Context, record *T) error
	UpdateByID(ctx context.Context, id string, record *T) error
	DeleteByID(ctx context.Context, id string) error
}

// ConfirmDeleteMessage is the delete confirmation prompt for kind
func ConfirmDeleteMessage(kind models.Kind) string {
	return fmt.Sprintf("Are you sure you want to delete this %s?", kind)
}

// Listing is a snapshot of every record of one kind. Records is in store
// order. Err, when set, replaces the whole listing.
type Listing[T store.Record] struct {
	Kind    models.Kind
	Records []T
	Err     error

	records RecordStore[T]
}

// NewListing returns an empty listing; call Refresh to fetch
func NewListing[T store.Record](kind models.Kind, records RecordStore[T]) *Listing[T] {
	return &Listing[T]{Kind: kind, records: records}
}

// Refresh replaces the snapshot with a full fetch
func (l *Listing[T]) Refresh(ctx context.Context) error {
	records, err := l.records.SelectAll(ctx)
	if err != nil {
		l.Err = upstream("selectAll", l.Kind, err)
		return l.Err
	}
	l.Records = records
	l.Err = nil
	return nil
}

// Delete removes the record with id once confirmed, then refreshes.
// A failed delete keeps the snapshot and sets Err.
func (l *Listing[T]) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return nil
	}
	if err := l.records.DeleteByID(ctx, id); err != nil {
		l.Err = upstream("deleteById", l.Kind, err)
		return l.Err
	}
	return l.Refresh(ctx)
}
