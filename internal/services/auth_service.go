// auth_service.go
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

package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/localnerve/authorizer-go"
	"github.com/localnerve/realty-admin/internal/config"
	"github.com/localnerve/realty-admin/internal/types"
	"github.com/localnerve/realty-admin/internal/utils"
)

// CallbackPath is where magic links land after the Authorizer verifies them
const CallbackPath = "/auth/callback"

// AdminRoles are the roles a console session must hold
var AdminRoles = []string{"admin"}

// authClient is the subset of the Authorizer API the session store uses
type authClient interface {
	SendMagicLink(email, redirectURI string) error
	Validate(cookie string, roles []string) (bool, any, error)
	Logout(cookie string) error
}

// sdkClient adapts the authorizer-go SDK to authClient
type sdkClient struct {
	client *authorizer.AuthorizerClient
}

func (s *sdkClient) SendMagicLink(email, redirectURI string) error {
	_, err := s.client.MagicLinkLogin(&authorizer.MagicLinkLoginInput{
		Email:       email,
		RedirectURI: &redirectURI,
	})
	return err
}

func (s *sdkClient) Validate(cookie string, roles []string) (bool, any, error) {
	// Convert roles to []*string
	rolesPtrs := make([]*string, len(roles))
	for i := range roles {
		rolesPtrs[i] = &roles[i]
	}

	res, err := s.client.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: cookie,
		Roles:  rolesPtrs,
	})
	if err != nil {
		return false, nil, err
	}
	if res == nil {
		return false, nil, nil
	}
	return res.IsValid, res.User, nil
}

func (s *sdkClient) Logout(cookie string) error {
	_, err := s.client.Logout(map[string]string{
		"Cookie": SessionCookie + "=" + cookie,
	})
	return err
}

// SessionCookie is the Authorizer session cookie name
const SessionCookie = "cookie_session"

// SessionStore holds the console sessions of every signed in administrator,
// keyed by session cookie, and tells subscribers whenever one starts or ends.
type SessionStore struct {
	client      authClient
	redirectURL string

	mu        sync.Mutex
	sessions  map[string]*types.Session
	listeners map[int]func(types.SessionChange)
	nextID    int
}

// NewSessionStore pings the Authorizer service and creates its client
func NewSessionStore(cfg *config.Config) (*SessionStore, error) {
	if err := utils.PingAuthorizer(cfg.AuthzURL); err != nil {
		return nil, fmt.Errorf("authorizer ping failed: %w", err)
	}

	log.Printf("Initializing Authorizer: authorizerURL=%s, clientID=%s, redirectURL=%s",
		cfg.AuthzURL, cfg.AuthzClientID, cfg.BaseURL)

	client, err := authorizer.NewAuthorizerClient(cfg.AuthzClientID, cfg.AuthzURL, cfg.BaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorizer client: %w", err)
	}

	return newSessionStore(&sdkClient{client: client}, cfg.BaseURL+CallbackPath), nil
}

func newSessionStore(client authClient, redirectURL string) *SessionStore {
	return &SessionStore{
		client:      client,
		redirectURL: redirectURL,
		sessions:    make(map[string]*types.Session),
		listeners:   make(map[int]func(types.SessionChange)),
	}
}

// CurrentSessions returns the held sessions. Each is re-validated and
// dropped if the Authorizer rejects it.
func (s *SessionStore) CurrentSessions(ctx context.Context) ([]*types.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	held := make([]*types.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		held = append(held, session)
	}
	s.mu.Unlock()

	current := make([]*types.Session, 0, len(held))
	for _, session := range held {
		valid, _, err := s.client.Validate(session.Token, AdminRoles)
		if err != nil {
			return nil, err
		}
		if !valid {
			s.drop(session.Token)
			continue
		}
		current = append(current, session)
	}
	return current, nil
}

// OnSessionChange registers fn for every session change and returns the
// function that removes it.
func (s *SessionStore) OnSessionChange(fn func(types.SessionChange)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// SignInWithOneTimeLink asks the Authorizer to email a magic link
func (s *SessionStore) SignInWithOneTimeLink(ctx context.Context, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.client.SendMagicLink(email, s.redirectURL)
}

// SignOut ends the session proven by token with the Authorizer, then
// notifies subscribers. Other sessions are untouched.
func (s *SessionStore) SignOut(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	_, held := s.sessions[token]
	s.mu.Unlock()

	if held {
		if err := s.client.Logout(token); err != nil {
			return err
		}
	}

	s.drop(token)
	return nil
}

// Establish validates a session cookie presented at the magic link callback
// and adds it to the held sessions.
func (s *SessionStore) Establish(ctx context.Context, cookie string) (*types.Session, error) {
	session, err := s.Validate(ctx, cookie, AdminRoles)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	s.notify(types.SessionChange{Token: session.Token, Session: session})
	return session, nil
}

// Validate checks a session cookie for the given roles without changing
// the held sessions.
func (s *SessionStore) Validate(ctx context.Context, cookie string, roles []string) (*types.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cookie == "" {
		return nil, fmt.Errorf("session cookie is empty")
	}

	valid, user, err := s.client.Validate(cookie, roles)
	if err != nil {
		return nil, fmt.Errorf("session validation failed: %w", err)
	}
	if !valid {
		return nil, fmt.Errorf("session is not valid")
	}

	return &types.Session{
		Token:       cookie,
		User:        user,
		ValidatedAt: time.Now(),
	}, nil
}

func (s *SessionStore) drop(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()

	s.notify(types.SessionChange{Token: token})
}

// notify calls listeners outside the lock
func (s *SessionStore) notify(change types.SessionChange) {
	s.mu.Lock()
	listeners := make([]func(types.SessionChange), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(change)
	}
}
