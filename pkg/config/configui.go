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

// Theme returns the active UI theme name.
func (c *Instance) Theme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Ui.Theme
}

// SetTheme sets the active UI theme name.
func (c *Instance) SetTheme(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Ui.Theme = name
}

// Language returns the UI language tag (BCP 47, e.g. "en", "de").
func (c *Instance) Language() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Ui.Language
}

// SetLanguage sets the UI language tag.
func (c *Instance) SetLanguage(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Ui.Language = tag
}

// Mouse reports whether mouse support is enabled in the menu.
func (c *Instance) Mouse() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Ui.Mouse
}

// SetMouse enables or disables mouse support in the menu.
func (c *Instance) SetMouse(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Ui.Mouse = enabled
}

// ShowMenuLogo reports whether the menu title area shows the logo banner
// instead of a plain text title.
func (c *Instance) ShowMenuLogo() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Ui.ShowMenuLogo
}

// SetShowMenuLogo toggles the menu logo banner.
func (c *Instance) SetShowMenuLogo(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Ui.ShowMenuLogo = enabled
}

// OverlayResolution returns the framebuffer resolution requested for menu
// overlay sessions as "WIDTHxHEIGHT", or empty to leave the display mode
// alone.
func (c *Instance) OverlayResolution() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Ui.OverlayResolution
}

// SetOverlayResolution sets the overlay framebuffer resolution.
func (c *Instance) SetOverlayResolution(res string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Ui.OverlayResolution = res
}

// CompactWidth returns the terminal column count at or below which the menu
// switches to compact labels.
func (c *Instance) CompactWidth() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Ui.CompactWidth <= 0 {
		return BaseDefaults.Ui.CompactWidth
	}
	return c.vals.Ui.CompactWidth
}

// SetCompactWidth sets the compact layout threshold. Zero or negative
// restores the default.
func (c *Instance) SetCompactWidth(cols int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Ui.CompactWidth = cols
}

// ReturnToLauncherAtExit reports whether quitting a game should return to
// the platform launcher instead of exiting, for cores that support it.
func (c *Instance) ReturnToLauncherAtExit() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Ui.ReturnToLauncherAtExit
}

// SetReturnToLauncherAtExit sets the return-to-launcher-at-exit behavior.
func (c *Instance) SetReturnToLauncherAtExit(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Ui.ReturnToLauncherAtExit = enabled
}
