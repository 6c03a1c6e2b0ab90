// login_test.go
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
	"testing"

	"github.com/localnerve/realty-admin/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "admin@example.com", "first.last+tag@sub.domain.in", "x@y.z.w"}
	invalid := []string{"", "plain", "a@b", "@b.co", "a@.co", "a@b.", "a b@c.de", "a@@b.co", "a@b c.de", " a@b.co"}

	for _, email := range valid {
		assert.True(t, ValidEmail(email), email)
	}
	for _, email := range invalid {
		assert.False(t, ValidEmail(email), email)
	}
}

func TestLoginForm_InvalidEmailNeverSent(t *testing.T) {
	sessions := &fakeSessions{}
	form := NewLoginForm("not-an-email")

	err := form.Submit(context.Background(), sessions)

	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, InvalidEmailMessage, err.Error())
	assert.Equal(t, LoginError, form.Status)
	assert.Equal(t, InvalidEmailMessage, form.Error)
	assert.Empty(t, sessions.signIns)
}

func TestLoginForm_Success(t *testing.T) {
	sessions := &fakeSessions{}
	form := NewLoginForm("admin@example.com")
	require.True(t, form.CanSubmit())

	require.NoError(t, form.Submit(context.Background(), sessions))
	assert.Equal(t, LoginSuccess, form.Status)
	assert.Empty(t, form.Error)
	assert.Equal(t, []string{"admin@example.com"}, sessions.signIns)
}

func TestLoginForm_UpstreamErrorVerbatim(t *testing.T) {
	sessions := &fakeSessions{signInErr: errors.New("Email rate limit exceeded")}
	form := NewLoginForm("admin@example.com")

	err := form.Submit(context.Background(), sessions)

	var serr *types.StoreError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Email rate limit exceeded", err.Error())
	assert.Equal(t, LoginError, form.Status)
	assert.Equal(t, "Email rate limit exceeded", form.Error)
	assert.True(t, form.CanSubmit(), "form stays editable after an error")
}

func TestLoginForm_EditResetsToIdle(t *testing.T) {
	for _, next := range []string{"", "still-bad", "admin@example.com"} {
		form := NewLoginForm("bad")
		_ = form.Submit(context.Background(), &fakeSessions{})
		require.Equal(t, LoginError, form.Status)

		form.SetEmail(next)
		assert.Equal(t, LoginIdle, form.Status, next)
		assert.Empty(t, form.Error, next)
		assert.Equal(t, next, form.Email)
	}
}

func TestLoginForm_CanSubmit(t *testing.T) {
	assert.False(t, NewLoginForm("").CanSubmit())
	assert.True(t, NewLoginForm("a").CanSubmit())

	form := NewLoginForm("a@b.co")
	form.Status = LoginSubmitting
	assert.False(t, form.CanSubmit())
}
