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

package requests

import (
	"encoding/json"

	"github.com/IntermezzoProject/intermezzo/pkg/achievements"
	"github.com/IntermezzoProject/intermezzo/pkg/config"
	"github.com/IntermezzoProject/intermezzo/pkg/database"
	"github.com/IntermezzoProject/intermezzo/pkg/platforms"
	"github.com/IntermezzoProject/intermezzo/pkg/session"
	"github.com/google/uuid"
)

// RequestEnv carries everything a method handler may touch. MenuQueue
// feeds the service loop, which owns opening the menu overlay.
// Achievements is nil when the progress store failed to open.
type RequestEnv struct {
	Platform     platforms.Platform
	Config       *config.Instance
	Session      *session.Session
	Database     *database.Database
	Achievements *achievements.Manager
	MenuQueue    chan<- session.MenuRequest
	Params       json.RawMessage
	ID           uuid.UUID
	IsLocal      bool
}
