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

package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

const (
	NotificationMenuOpened  = "menu.opened"
	NotificationMenuClosed  = "menu.closed"
	NotificationStateSaved  = "state.saved"
	NotificationGameStarted = "game.started"
	NotificationGameStopped = "game.stopped"
)

const (
	MethodMenuOpen           = "menu.open"
	MethodMenuClose          = "menu.close"
	MethodStatus             = "status"
	MethodSettings           = "settings"
	MethodSettingsUpdate     = "settings.update"
	MethodSettingsReload     = "settings.reload"
	MethodVersion            = "version"
	MethodAchievements       = "achievements"
	MethodAchievementsUnlock = "achievements.unlock"
	MethodAchievementsStat   = "achievements.stat"
	MethodAchievementsReset  = "achievements.reset"
)

// Notification is an internal event on its way out to API consumers.
// Params must marshal to JSON.
type Notification struct {
	Params any
	Method string
}

type RequestObject struct {
	ID      *uuid.UUID      `json:"id,omitempty"`
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type ErrorObject struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type ResponseObject struct {
	Result  any          `json:"result"`
	Error   *ErrorObject `json:"error,omitempty"`
	JSONRPC string       `json:"jsonrpc"`
	ID      uuid.UUID    `json:"id"`
}

// ResponseErrorObject exists for sending errors, so we can omit result from
// the response, but so nil responses are still returned when using the main
// ResponseObject.
type ResponseErrorObject struct {
	Error   *ErrorObject `json:"error"`
	JSONRPC string       `json:"jsonrpc"`
	ID      uuid.UUID    `json:"id"`
}
