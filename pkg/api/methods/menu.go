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

package methods

import (
	"errors"

	"github.com/IntermezzoProject/intermezzo/pkg/api/models/requests"
	"github.com/IntermezzoProject/intermezzo/pkg/session"
	"github.com/rs/zerolog/log"
)

var (
	ErrMenuAlreadyOpen = errors.New("menu is already open")
	ErrMenuNotOpen     = errors.New("menu is not open")
	ErrMenuPending     = errors.New("menu open already pending")
)

// HandleMenuOpen queues a request for the service loop to open the menu
// overlay. The send must not block: the loop is busy running the menu UI
// while one is open, so a second request would wedge the API worker.
func HandleMenuOpen(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received menu open request")

	if env.Session.IsMenuOpen() {
		return nil, ErrMenuAlreadyOpen
	}

	select {
	case env.MenuQueue <- session.MenuRequest{Source: "api"}:
	default:
		return nil, ErrMenuPending
	}

	return NoContent{}, nil
}

// HandleMenuClose asks the open menu to dismiss itself. The menu.closed
// notification fires when the UI actually shuts down.
func HandleMenuClose(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received menu close request")

	if !env.Session.CloseMenu() {
		return nil, ErrMenuNotOpen
	}

	return NoContent{}, nil
}
