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

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// fb_cmd1 <fmt> <rb> <width> <height> switches the scaled framebuffer to an
// exact resolution. fmt 8888 is RGB32, rb is the red/blue swap flag.
const (
	fbFormatRGB32 = "8888"
	fbSwapRB      = "1"

	// MiSTer main bumps this counter once the new mode is live.
	fbResCountFile = "/sys/module/MiSTer_fb/parameters/res_count"
)

// OverlayResolutions are the framebuffer sizes offered for overlay sessions.
// All are modes MiSTer main's scaler accepts for fb_cmd1.
var OverlayResolutions = []string{"640x480", "960x540", "1280x720"}

// SetVideoMode asks MiSTer main to switch the framebuffer to an exact width
// and height, then waits for the mode change to take effect.
func SetVideoMode(width, height int) error {
	resCount := readResCount()

	if _, err := os.Stat(CmdInterface); err != nil {
		return fmt.Errorf("command interface not accessible: %w", err)
	}

	cmd, err := os.OpenFile(CmdInterface, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("failed to open command interface: %w", err)
	}

	_, err = fmt.Fprintf(cmd, "fb_cmd1 %s %s %d %d\n", fbFormatRGB32, fbSwapRB, width, height)
	if closeErr := cmd.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write video mode command: %w", err)
	}

	waitForResCountChange(resCount)
	return nil
}

// readResCount returns the current framebuffer mode change counter, or empty
// when the module parameter is unavailable.
func readResCount() string {
	data, err := os.ReadFile(fbResCountFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// waitForResCountChange polls the mode change counter until it moves on from
// the given value. Gives up quietly after a few polls, as the vmode script
// does, since some main builds never expose the counter.
func waitForResCountChange(previous string) {
	if previous == "" {
		return
	}
	for range 5 {
		time.Sleep(200 * time.Millisecond)
		if readResCount() != previous {
			return
		}
	}
}

// parseResolution splits a "WIDTHxHEIGHT" string into its dimensions.
func parseResolution(res string) (width, height int, err error) {
	parts := strings.SplitN(res, "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid resolution: %s", res)
	}
	width, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid resolution width: %s", res)
	}
	height, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid resolution height: %s", res)
	}
	return width, height, nil
}

// applyOverlayResolution parses and applies a configured overlay resolution.
func applyOverlayResolution(res string) error {
	width, height, err := parseResolution(res)
	if err != nil {
		return err
	}
	return SetVideoMode(width, height)
}
