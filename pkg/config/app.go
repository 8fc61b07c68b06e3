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

package config

import "time"

// AppVersion is overridden at build time via ldflags.
var AppVersion = "DEVELOPMENT"

const (
	AppName            = "intermezzo"
	LogFile            = "intermezzo.log"
	PidFile            = "intermezzo.pid"
	CfgFile            = "config.toml"
	UserDir            = "user"
	AchievementsDbFile = "achievements.db"
	SlotIndexFile      = "slots.toml"
	ApiRequestTimeout  = 30 * time.Second
)
