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

package retroarch

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"gopkg.in/ini.v1"

	"github.com/IntermezzoProject/intermezzo/pkg/cores"
)

func init() {
	// Frontend config files are line-based "key = value", no column
	// alignment.
	ini.PrettyFormat = false
	ini.PrettyEqual = true
}

const (
	// coreConfigDirName is the subdirectory of the platform config dir
	// holding the managed RetroArch files the frontend is launched with.
	coreConfigDirName = "cores"
	// frontendConfigFile is the managed RetroArch config with input binds.
	frontendConfigFile = "retroarch.cfg"
	optFileExt         = ".opt"
)

func (c *Core) optPath(domain string) string {
	return filepath.Join(c.configDir, coreConfigDirName,
		filepath.FromSlash(domain)+optFileExt)
}

func (c *Core) frontendConfigPath() string {
	return filepath.Join(c.configDir, coreConfigDirName, frontendConfigFile)
}

func (c *Core) loadOptFile(domain string) (*ini.File, error) {
	data, err := afero.ReadFile(c.fs, c.optPath(domain))
	if err != nil {
		return nil, fmt.Errorf("failed to read core options: %w", err)
	}
	file, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse core options: %w", err)
	}
	return file, nil
}

// ExtraOptions reads the domain's core option file and returns its boolean
// options as checkboxes. Multi-choice options stay out of the menu and
// survive saves untouched.
func (c *Core) ExtraOptions(domain string) []cores.ExtraOption {
	if domain == "" {
		return nil
	}
	file, err := c.loadOptFile(domain)
	if err != nil {
		log.Debug().Err(err).Str("domain", domain).Msg("no core options file")
		return nil
	}

	keys := file.Section("").Keys()
	prefix := sharedKeyPrefix(keys)
	opts := make([]cores.ExtraOption, 0, len(keys))
	for _, key := range keys {
		state, ok := parseOptionBool(key.Value())
		if !ok {
			continue
		}
		name := strings.TrimPrefix(key.Name(), prefix)
		if name == "" {
			name = key.Name()
		}
		opts = append(opts, cores.ExtraOption{
			Label:        optionLabel(name),
			ConfigKey:    key.Name(),
			DefaultState: state,
		})
	}
	if len(opts) == 0 {
		return nil
	}
	return opts
}

// SyncOptions writes the stored checkbox states for a domain back into its
// core option file so the frontend picks them up on the next content load.
// Keys the config domain has no value for keep their file value.
func (c *Core) SyncOptions(domain string) error {
	if domain == "" {
		return nil
	}
	file, err := c.loadOptFile(domain)
	if err != nil {
		return err
	}

	changed := false
	for _, key := range file.Section("").Keys() {
		current, isBool := parseOptionBool(key.Value())
		if !isBool {
			continue
		}
		stored, ok := c.cfg.GameOptionBool(domain, key.Name())
		if !ok || stored == current {
			continue
		}
		key.SetValue(optionValue(stored))
		changed = true
	}
	if !changed {
		return nil
	}

	var buf bytes.Buffer
	_, err = file.WriteTo(&buf)
	if err != nil {
		return fmt.Errorf("failed to encode core options: %w", err)
	}
	err = afero.WriteFile(c.fs, c.optPath(domain), buf.Bytes(), 0o644)
	if err != nil {
		return fmt.Errorf("failed to write core options: %w", err)
	}
	log.Info().Str("domain", domain).Msg("core options synced")
	return nil
}

// sharedKeyPrefix finds the "corename_" prefix every option key carries, or
// empty when the keys disagree. Labels drop it, config keys keep it.
func sharedKeyPrefix(keys []*ini.Key) string {
	if len(keys) < 2 {
		return ""
	}
	first, _, found := strings.Cut(keys[0].Name(), "_")
	if !found {
		return ""
	}
	prefix := first + "_"
	for _, key := range keys[1:] {
		if !strings.HasPrefix(key.Name(), prefix) {
			return ""
		}
	}
	return prefix
}

// parseOptionBool maps RetroArch's toggle spellings onto bool. The second
// return is false for multi-choice option values.
func parseOptionBool(value string) (state, ok bool) {
	switch strings.ToLower(value) {
	case "enabled", "true", "on", "yes":
		return true, true
	case "disabled", "false", "off", "no":
		return false, true
	default:
		return false, false
	}
}

// optionValue renders a bool in the spelling option files use.
func optionValue(state bool) string {
	if state {
		return "enabled"
	}
	return "disabled"
}

// optionLabel turns an option key like "reduce_sprite_flicker" into menu
// text.
func optionLabel(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-'
	})
	for i, word := range words {
		words[i] = upperFirst(word)
	}
	return strings.Join(words, " ")
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// maxPlayers caps how many of RetroArch's sixteen player slots the keymap
// list shows.
const maxPlayers = 4

// retroPadBinds lists RetroPad inputs in controller layout order.
var retroPadBinds = []struct {
	id    string
	label string
}{
	{"up", "D-Pad Up"},
	{"down", "D-Pad Down"},
	{"left", "D-Pad Left"},
	{"right", "D-Pad Right"},
	{"a", "A"},
	{"b", "B"},
	{"x", "X"},
	{"y", "Y"},
	{"start", "Start"},
	{"select", "Select"},
	{"l", "L"},
	{"r", "R"},
	{"l2", "L2"},
	{"r2", "R2"},
	{"l3", "L3"},
	{"r3", "R3"},
}

// hotkeyBinds lists the frontend hotkeys worth surfacing in the menu.
var hotkeyBinds = []struct {
	id    string
	label string
}{
	{"input_save_state", "Save State"},
	{"input_load_state", "Load State"},
	{"input_state_slot_increase", "Next State Slot"},
	{"input_state_slot_decrease", "Previous State Slot"},
	{"input_pause_toggle", "Pause"},
	{"input_menu_toggle", "Menu"},
	{"input_exit_emulator", "Quit"},
}

// Keymaps reads input binds from the managed frontend config. Binds are
// frontend-global, so the game domain is ignored. Players with no binds are
// omitted.
func (c *Core) Keymaps(_ string) []cores.Keymap {
	data, err := afero.ReadFile(c.fs, c.frontendConfigPath())
	if err != nil {
		log.Debug().Err(err).Msg("no frontend config for keymaps")
		return nil
	}
	file, err := ini.Load(data)
	if err != nil {
		log.Warn().Err(err).Msg("failed to parse frontend config")
		return nil
	}
	section := file.Section("")

	var maps []cores.Keymap
	for player := 1; player <= maxPlayers; player++ {
		prefix := fmt.Sprintf("input_player%d_", player)
		var actions []cores.KeymapAction
		for _, bind := range retroPadBinds {
			keys := bindKeys(section, prefix+bind.id)
			if len(keys) == 0 {
				continue
			}
			actions = append(actions, cores.KeymapAction{
				ID:    bind.id,
				Label: bind.label,
				Keys:  keys,
			})
		}
		if len(actions) > 0 {
			maps = append(maps, cores.Keymap{
				ID:      fmt.Sprintf("player%d", player),
				Label:   fmt.Sprintf("Player %d", player),
				Actions: actions,
			})
		}
	}

	var hotkeys []cores.KeymapAction
	for _, bind := range hotkeyBinds {
		keys := bindKeys(section, bind.id)
		if len(keys) == 0 {
			continue
		}
		hotkeys = append(hotkeys, cores.KeymapAction{
			ID:    strings.TrimPrefix(bind.id, "input_"),
			Label: bind.label,
			Keys:  keys,
		})
	}
	if len(hotkeys) > 0 {
		maps = append(maps, cores.Keymap{
			ID:      "hotkeys",
			Label:   "Hotkeys",
			Actions: hotkeys,
		})
	}
	return maps
}

// bindKeys collects the keyboard, button and axis binds for one input in
// display form. RetroArch marks unbound inputs with "nul".
func bindKeys(section *ini.Section, name string) []string {
	var keys []string
	for _, suffix := range []string{"", "_btn", "_axis"} {
		key, err := section.GetKey(name + suffix)
		if err != nil {
			continue
		}
		value := key.Value()
		if value == "" || value == "nul" {
			continue
		}
		keys = append(keys, displayBind(suffix, value))
	}
	return keys
}

// displayBind renders one bind value for the keymap list.
func displayBind(suffix, value string) string {
	switch suffix {
	case "_btn":
		return "Button " + value
	case "_axis":
		return "Axis " + value
	default:
		return upperFirst(value)
	}
}
