// Intermezzo
// Copyright (c) 2025 The Intermezzo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Intermezzo.
//
// Intermezzo is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Intermezzo is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Intermezzo.  If not, see <http://www.gnu.org/licenses/>.

// Package session tracks the state of the running game session: the
// active core and game, the pending load slot, menu visibility, and the
// event stream consumed by the service loop.
package session

import (
	"context"
	"time"

	"github.com/IntermezzoProject/intermezzo/pkg/cores"
	"github.com/IntermezzoProject/intermezzo/pkg/helpers/syncutil"
	"github.com/IntermezzoProject/intermezzo/pkg/platforms"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// EventType identifies what a session event reports.
type EventType string

const (
	// EventQuit asks the service to quit the core and, when the platform
	// allows it, exit.
	EventQuit EventType = "quit"
	// EventReturnToLauncher asks the service to quit the core and hand
	// control back to the platform launcher.
	EventReturnToLauncher EventType = "returnToLauncher"
	// EventMenuOpened reports the overlay menu becoming visible.
	EventMenuOpened EventType = "menuOpened"
	// EventMenuClosed reports the overlay menu going away.
	EventMenuClosed EventType = "menuClosed"
	// EventStateSaved reports a completed save from the menu, with
	// StateSavedParams attached.
	EventStateSaved EventType = "stateSaved"
	// EventGameChanged reports the active game changing, with the new
	// *platforms.GameInfo attached (nil when returning to the menu core).
	EventGameChanged EventType = "gameChanged"
)

// Event is one occurrence pushed at the service loop.
type Event struct {
	Params any
	Type   EventType
}

// StateSavedParams describes a save recorded through the menu.
type StateSavedParams struct {
	Description string
	Slot        int
}

// NoLoadSlot marks that no state load is pending.
const NoLoadSlot = -1

// MenuRequest asks the service loop to open the menu overlay. Source
// names what triggered it, for the log.
type MenuRequest struct {
	Source string
}

// Session holds the runtime state of one game session.
//
// LOCKING RULES: The mu mutex protects all mutable fields. Never send
// on the event channel while holding the lock: lock, modify state, copy
// what the event needs, unlock, then push.
type Session struct {
	platform       platforms.Platform
	core           cores.Core
	clock          clockwork.Clock
	ctx            context.Context
	ctxCancelFunc  context.CancelFunc
	events         chan<- Event
	game           *platforms.GameInfo
	menuCloser     func()
	startedAt      time.Time
	gameToLoadSlot int
	mu             syncutil.RWMutex
	menuOpen       bool
	stopService    bool
}

// NewSession creates a session for a platform and returns the receive
// side of its event stream. A nil clock falls back to the real clock.
func NewSession(platform platforms.Platform, clock clockwork.Clock) (session *Session, eventCh <-chan Event) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	// Menu events are low volume; a small buffer absorbs a burst of
	// pushes without blocking the UI loop.
	events := make(chan Event, 64)
	ctx, ctxCancelFunc := context.WithCancel(context.Background())
	return &Session{
		platform:       platform,
		clock:          clock,
		ctx:            ctx,
		ctxCancelFunc:  ctxCancelFunc,
		events:         events,
		startedAt:      clock.Now(),
		gameToLoadSlot: NoLoadSlot,
	}, events
}

func (s *Session) GetContext() context.Context {
	return s.ctx
}

// StartedAt is when this service session began, for the status endpoint.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

func (s *Session) Uptime() time.Duration {
	return s.clock.Since(s.startedAt)
}

// StopService marks the service as stopping and cancels the session
// context.
func (s *Session) StopService() {
	s.mu.Lock()
	s.stopService = true
	s.mu.Unlock()
	s.ctxCancelFunc()
}

// ShouldStopService reports whether a deliberate stop was requested, as
// opposed to the context dying some other way.
func (s *Session) ShouldStopService() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stopService
}

// SetCore attaches the core adapter driving this session.
func (s *Session) SetCore(core cores.Core) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.core = core
}

// Core returns the active core adapter, nil before SetCore.
func (s *Session) Core() cores.Core {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.core
}

// ActiveGame returns the game the platform reports as running, nil when
// the platform is sitting in its own menu.
func (s *Session) ActiveGame() *platforms.GameInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game
}

// ActiveDomain returns the config domain of the active game, empty when
// no game is running.
func (s *Session) ActiveDomain() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.game == nil {
		return ""
	}
	return s.game.Domain
}

// SetActiveGame records a game change reported by the platform and
// pushes EventGameChanged. Duplicate reports are ignored.
func (s *Session) SetActiveGame(game *platforms.GameInfo) {
	s.mu.Lock()

	old := s.game
	if old == nil && game == nil {
		s.mu.Unlock()
		return
	}
	if old != nil && game != nil && *old == *game {
		// ignore duplicate reports
		s.mu.Unlock()
		return
	}
	s.game = game
	// A game change invalidates any load queued for the previous game
	s.gameToLoadSlot = NoLoadSlot

	s.mu.Unlock()

	// Push outside the lock to prevent deadlock
	if game == nil {
		log.Info().Msg("active game cleared")
	} else {
		log.Info().Str("domain", game.Domain).Str("name", game.Name).Msg("active game changed")
	}
	s.push(Event{Type: EventGameChanged, Params: game})
}

// SetGameToLoadSlot records which slot the core should load next.
// The load chooser records NoLoadSlot on cancel as well, so the value
// always reflects the outcome of the most recent chooser session.
func (s *Session) SetGameToLoadSlot(slot int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameToLoadSlot = slot
}

// GameToLoadSlot returns the pending load slot, NoLoadSlot when none.
func (s *Session) GameToLoadSlot() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gameToLoadSlot
}

// TakeGameToLoadSlot returns the pending load slot and clears it, so a
// confirmed load is applied exactly once.
func (s *Session) TakeGameToLoadSlot() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot := s.gameToLoadSlot
	s.gameToLoadSlot = NoLoadSlot
	return slot
}

func (s *Session) IsMenuOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.menuOpen
}

// MenuOpened marks the overlay menu visible and pushes EventMenuOpened.
// Reports false if the menu was already open.
func (s *Session) MenuOpened() bool {
	s.mu.Lock()
	if s.menuOpen {
		s.mu.Unlock()
		return false
	}
	s.menuOpen = true
	s.mu.Unlock()

	s.push(Event{Type: EventMenuOpened})
	return true
}

// MenuClosed marks the overlay menu hidden and pushes EventMenuClosed.
func (s *Session) MenuClosed() {
	s.mu.Lock()
	if !s.menuOpen {
		s.mu.Unlock()
		return
	}
	s.menuOpen = false
	s.menuCloser = nil
	s.mu.Unlock()

	s.push(Event{Type: EventMenuClosed})
}

// SetMenuCloser registers the callback that dismisses the open menu UI.
// The menu registers it on open; MenuClosed clears it.
func (s *Session) SetMenuCloser(closer func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menuCloser = closer
}

// CloseMenu asks the open menu to dismiss itself, for callers outside
// the UI loop such as the control API. Reports false when no menu is
// open or the menu registered no closer. The menu-closed event fires
// when the UI actually shuts down, not here.
func (s *Session) CloseMenu() bool {
	s.mu.RLock()
	closer := s.menuCloser
	open := s.menuOpen
	s.mu.RUnlock()

	if !open || closer == nil {
		return false
	}
	closer()
	return true
}

// PushQuit asks the service loop to shut the core down.
func (s *Session) PushQuit() {
	s.push(Event{Type: EventQuit})
}

// PushReturnToLauncher asks the service loop to hand control back to
// the platform launcher.
func (s *Session) PushReturnToLauncher() {
	s.push(Event{Type: EventReturnToLauncher})
}

// PushStateSaved reports a completed save to the service loop.
func (s *Session) PushStateSaved(slot int, description string) {
	s.push(Event{Type: EventStateSaved, Params: StateSavedParams{
		Slot:        slot,
		Description: description,
	}})
}

// push delivers an event without ever blocking a UI callback: when the
// buffer is full the event is dropped and logged instead.
func (s *Session) push(event Event) {
	select {
	case s.events <- event:
	default:
		log.Warn().Str("type", string(event.Type)).Msg("session event dropped, channel full")
	}
}
