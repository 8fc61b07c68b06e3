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

// Package notifications pushes typed events onto the outgoing
// notification stream consumed by the API server and publishers.
package notifications

import "github.com/IntermezzoProject/intermezzo/pkg/api/models"

func MenuOpened(ns chan<- models.Notification) {
	ns <- models.Notification{
		Method: models.NotificationMenuOpened,
	}
}

func MenuClosed(ns chan<- models.Notification) {
	ns <- models.Notification{
		Method: models.NotificationMenuClosed,
	}
}

func StateSaved(ns chan<- models.Notification, payload models.StateSavedParams) {
	ns <- models.Notification{
		Method: models.NotificationStateSaved,
		Params: payload,
	}
}

func GameStarted(ns chan<- models.Notification, payload models.GameResponse) {
	ns <- models.Notification{
		Method: models.NotificationGameStarted,
		Params: payload,
	}
}

func GameStopped(ns chan<- models.Notification) {
	ns <- models.Notification{
		Method: models.NotificationGameStopped,
	}
}
