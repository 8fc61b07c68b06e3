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

//go:build linux

package mister

import "github.com/IntermezzoProject/intermezzo/pkg/config"

const (
	SDRootDir    = "/media/fat"
	DataDir      = SDRootDir + "/" + config.AppName
	TempDir      = "/tmp/" + config.AppName
	SaveStateDir = SDRootDir + "/savestates"
	CmdInterface = "/dev/MiSTer_cmd"
	MenuCorePath = SDRootDir + "/menu.rbf"

	// MenuCore is the core name MiSTer main reports while no game core is
	// loaded.
	MenuCore = "MENU"

	// MiSTer main rewrites these on every core and content change.
	CoreNameFile    = "/tmp/CORENAME"
	CurrentPathFile = "/tmp/CURRENTPATH"
)

const (
	// f9ConsoleVT is the VT MiSTer main switches to when F9 releases the
	// framebuffer. The overlay renders on overlayVT instead so getty output
	// on tty1 never bleeds into it.
	f9ConsoleVT = "1"
	overlayVT   = "2"
)
