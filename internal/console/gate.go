// gate.go
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

// Package console holds the admin console workflows: the auth gate, the
// login form, record listings and the record editors. Pages in the handlers
// package are thin renderings of these.
package console

import (
	"context"
	"log"
	"sync"

	"github.com/localnerve/realty-admin/internal/types"
)

// SessionStore is the session collaborator the console depends on.
// CurrentSessions lists the sessions still held; changes arrive one
// token at a time through OnSessionChange.
type SessionStore interface {
	CurrentSessions(ctx context.Context) ([]*types.Session, error)
	OnSessionChange(fn func(types.SessionChange)) func()
	SignInWithOneTimeLink(ctx context.Context, email string) error
	SignOut(ctx context.Context, token string) error
}

// State is the auth gate state
type State int

const (
	StateLoading State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "loading"
	}
}

// Gate tracks the console sessions of every signed in administrator. It
// is created once at startup, started, and stopped on shutdown. After the
// initial probe the sessions only change through session change
// notifications, each adding or removing one token.
type Gate struct {
	sessions SessionStore

	mu          sync.RWMutex
	state       State
	held        map[string]*types.Session
	notified    bool
	unsubscribe func()

	ready     chan struct{}
	readyOnce sync.Once
}

// NewGate creates a gate in the Loading state
func NewGate(sessions SessionStore) *Gate {
	return &Gate{
		sessions: sessions,
		state:    StateLoading,
		held:     make(map[string]*types.Session),
		ready:    make(chan struct{}),
	}
}

// Start subscribes to session changes and probes the held sessions in
// the background. A failed probe resolves to Unauthenticated.
func (g *Gate) Start(ctx context.Context) {
	g.mu.Lock()
	g.unsubscribe = g.sessions.OnSessionChange(g.onChange)
	g.mu.Unlock()

	go g.probe(ctx)
}

func (g *Gate) probe(ctx context.Context) {
	sessions, err := g.sessions.CurrentSessions(ctx)
	if err != nil {
		log.Printf("Initial session probe failed, continuing unauthenticated: %v", err)
		sessions = nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// a notification that arrived first is newer than the probe
	if g.notified {
		return
	}
	for _, session := range sessions {
		if session != nil && session.Token != "" {
			g.held[session.Token] = session
		}
	}
	g.resolve()
}

func (g *Gate) onChange(change types.SessionChange) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.notified = true
	if change.Session != nil {
		g.held[change.Token] = change.Session
	} else {
		delete(g.held, change.Token)
	}
	g.resolve()
}

// resolve must be called with mu held
func (g *Gate) resolve() {
	if len(g.held) > 0 {
		g.state = StateAuthenticated
	} else {
		g.state = StateUnauthenticated
	}
	g.readyOnce.Do(func() { close(g.ready) })
}

// Stop drops the session change subscription
func (g *Gate) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.unsubscribe != nil {
		g.unsubscribe()
		g.unsubscribe = nil
	}
}

// Ready is closed once the gate leaves Loading
func (g *Gate) Ready() <-chan struct{} {
	return g.ready
}

func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Count is the number of sessions held
func (g *Gate) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.held)
}

// Allows reports whether a request carrying token may see protected pages
func (g *Gate) Allows(token string) bool {
	return g.SessionFor(token) != nil
}

// SessionFor returns the held session token proves, else nil
func (g *Gate) SessionFor(token string) *types.Session {
	if token == "" {
		return nil
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.held[token]
}

// SignOut asks the session store to end the session token proves. The
// gate drops it when the store reports the change, not here.
func (g *Gate) SignOut(ctx context.Context, token string) error {
	return types.Upstream("signOut", g.sessions.SignOut(ctx, token))
}
