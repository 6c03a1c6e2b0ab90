// login.go
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
	"regexp"

	"github.com/localnerve/realty-admin/internal/types"
)

// InvalidEmailMessage is shown when the email fails the syntax check
const InvalidEmailMessage = "Please enter a valid email address."

// LinkSentMessage replaces the login form once a link is requested
const LinkSentMessage = "Check your email for the login link!"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail is a syntax check only
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// LoginStatus is the state of the login form
type LoginStatus string

const (
	LoginIdle       LoginStatus = "idle"
	LoginSubmitting LoginStatus = "submitting"
	LoginSuccess    LoginStatus = "success"
	LoginError      LoginStatus = "error"
)

// LinkSender requests a one time sign in link
type LinkSender interface {
	SignInWithOneTimeLink(ctx context.Context, email string) error
}

// LoginForm is the passwordless login form
type LoginForm struct {
	Email  string
	Status LoginStatus
	Error  string
}

// NewLoginForm returns an idle form
func NewLoginForm(email string) *LoginForm {
	return &LoginForm{Email: email, Status: LoginIdle}
}

// SetEmail changes the email and resets the form to idle
func (f *LoginForm) SetEmail(email string) {
	f.Email = email
	f.Status = LoginIdle
	f.Error = ""
}

// CanSubmit is false while a request is in flight or the email is empty
func (f *LoginForm) CanSubmit() bool {
	return f.Status != LoginSubmitting && f.Email != ""
}

// Submit validates the email and requests a link. Invalid input never
// reaches the sender.
func (f *LoginForm) Submit(ctx context.Context, sender LinkSender) error {
	if !ValidEmail(f.Email) {
		f.Status = LoginError
		f.Error = InvalidEmailMessage
		return &types.ValidationError{Field: "email", Message: InvalidEmailMessage}
	}

	f.Status = LoginSubmitting
	f.Error = ""

	if err := sender.SignInWithOneTimeLink(ctx, f.Email); err != nil {
		f.Status = LoginError
		f.Error = err.Error()
		return types.Upstream("signInWithOneTimeLink", err)
	}

	f.Status = LoginSuccess
	return nil
}
