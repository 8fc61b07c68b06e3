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

import (
	"strconv"

	"github.com/rs/zerolog/log"
)

// Game options are stored per domain, where a domain is the config section
// for one game (usually its core ID plus content name). Keys are declared by
// core adapters and opaque to the service; values are stored as strings the
// way they arrived.

// ActiveGame returns the domain name of the game currently being played.
// The active game is runtime state and is not persisted to disk.
func (c *Instance) ActiveGame() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.activeGame
}

// SetActiveGame sets the active game domain name.
func (c *Instance) SetActiveGame(domain string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeGame = domain
}

// GameOption returns the raw value of a key in a game domain and whether the
// key is present.
func (c *Instance) GameOption(domain, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	opts, ok := c.vals.Games[domain]
	if !ok {
		return "", false
	}
	v, ok := opts[key]
	return v, ok
}

// SetGameOption sets a key in a game domain, creating the domain if needed.
func (c *Instance) SetGameOption(domain, key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.vals.Games == nil {
		c.vals.Games = make(map[string]map[string]string)
	}
	if c.vals.Games[domain] == nil {
		c.vals.Games[domain] = make(map[string]string)
	}
	c.vals.Games[domain][key] = value
}

// GameOptionBool returns a key in a game domain parsed as a boolean. The
// second return is false when the key is absent or unparseable.
func (c *Instance) GameOptionBool(domain, key string) (value, ok bool) {
	raw, ok := c.GameOption(domain, key)
	if !ok {
		return false, false
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warn().Msgf("game option %s.%s is not a boolean: %q", domain, key, raw)
		return false, false
	}
	return parsed, true
}

// SetGameOptionBool sets a boolean key in a game domain.
func (c *Instance) SetGameOptionBool(domain, key string, value bool) {
	c.SetGameOption(domain, key, strconv.FormatBool(value))
}

// GameOptionInt returns a key in a game domain parsed as an integer, or
// fallback when the key is absent or unparseable.
func (c *Instance) GameOptionInt(domain, key string, fallback int) int {
	raw, ok := c.GameOption(domain, key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Msgf("game option %s.%s is not an integer: %q", domain, key, raw)
		return fallback
	}
	return parsed
}

// SetGameOptionInt sets an integer key in a game domain.
func (c *Instance) SetGameOptionInt(domain, key string, value int) {
	c.SetGameOption(domain, key, strconv.Itoa(value))
}
