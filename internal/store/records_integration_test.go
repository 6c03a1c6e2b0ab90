// records_integration_test.go
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

package store

import (
	"context"
	"testing"

	"github.com/localnerve/realty-admin/internal/database"
	"github.com/localnerve/realty-admin/internal/models"
	"github.com/localnerve/realty-admin/internal/testenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordsMariaDB(t *testing.T) {
	testenv.SkipUnlessEnabled(t)
	ctx := context.Background()

	tc, err := testenv.New(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { tc.Terminate(t) })
	require.NoError(t, tc.StartMariaDB(ctx, t))

	db, err := database.Connect(tc.Config())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.AutoMigrate(db))

	properties := New[models.Property](db, models.KindProperty)
	p := &models.Property{
		ProjectName:   "Green Meadows",
		ProjectNameTe: "గ్రీన్ మెడోస్",
		Amenities:     models.StringList{"Pool", "Gym"},
	}
	require.NoError(t, properties.Insert(ctx, p))

	got, err := properties.SelectByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "గ్రీన్ మెడోస్", got.ProjectNameTe)
	assert.Equal(t, models.StringList{"Pool", "Gym"}, got.Amenities)
	assert.Empty(t, got.ImageURLs)

	require.NoError(t, properties.UpdateByID(ctx, p.ID, &models.Property{ProjectName: "Green Meadows II"}))
	got, err = properties.SelectByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Green Meadows II", got.ProjectName)
	assert.Empty(t, got.ProjectNameTe)

	blogs := New[models.Blog](db, models.KindBlog)
	b := &models.Blog{BlogTitle: "Market update"}
	require.NoError(t, blogs.Insert(ctx, b))
	all, err := blogs.SelectAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Nil(t, all[0].ImageURL)

	require.NoError(t, properties.DeleteByID(ctx, p.ID))
	_, err = properties.SelectByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
