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

package tui

import (
	"github.com/IntermezzoProject/intermezzo/pkg/config"
	"github.com/IntermezzoProject/intermezzo/pkg/cores"
)

// ExtraOptionsWidget shows a core's extra options as a checkbox list and
// maps them onto the game's config domain.
//
// Options can form groups: toggling a group leader enables or disables all
// checkboxes whose GroupID matches the leader's GroupLeaderID. Disabling
// never clears a member's check, and a disabled option always persists as
// false until its group is enabled again.
type ExtraOptionsWidget struct {
	*CheckList
	cfg     *config.Instance
	domain  string
	options []cores.ExtraOption
}

// NewExtraOptionsWidget builds the widget for a core's options in the given
// game domain. Invalid option lists (duplicate or empty config keys, groups
// led by their own member) are rejected so callers can drop the tab instead
// of showing a broken one.
func NewExtraOptionsWidget(
	cfg *config.Instance,
	domain string,
	options []cores.ExtraOption,
) (*ExtraOptionsWidget, error) {
	if err := cores.ValidateExtraOptions(options); err != nil {
		return nil, err
	}

	ow := &ExtraOptionsWidget{
		CheckList: NewCheckList(),
		cfg:       cfg,
		domain:    domain,
		options:   options,
	}

	for _, opt := range options {
		ow.AddCheck(opt.Label, opt.Tooltip, ow.storedState(opt))
	}
	ow.SetOnToggle(ow.syncGroup)

	return ow, nil
}

// storedState resolves an option's initial check: the stored config value
// when the key exists, the option's default otherwise.
func (ow *ExtraOptionsWidget) storedState(opt cores.ExtraOption) bool {
	if v, ok := ow.cfg.GameOptionBool(ow.domain, opt.ConfigKey); ok {
		return v
	}
	return opt.DefaultState
}

// syncGroup applies a group leader's new state to its members. Members keep
// their checks while disabled so re-enabling restores the previous choice.
func (ow *ExtraOptionsWidget) syncGroup(index int, checked bool) {
	leader := ow.options[index]
	if leader.GroupLeaderID == 0 {
		return
	}
	for i, opt := range ow.options {
		if opt.GroupID == leader.GroupLeaderID {
			ow.SetItemEnabled(i, checked)
		}
	}
}

// Load re-reads every option from config. All checkboxes start enabled;
// group state only changes once a leader is toggled.
func (ow *ExtraOptionsWidget) Load() {
	for i, opt := range ow.options {
		ow.SetItemEnabled(i, true)
		ow.SetItemChecked(i, ow.storedState(opt))
	}
}

// Save writes every option to config as enabled AND checked, so options in
// a disabled group persist as off regardless of their kept check marks.
func (ow *ExtraOptionsWidget) Save() {
	for i, opt := range ow.options {
		ow.cfg.SetGameOptionBool(ow.domain, opt.ConfigKey, ow.IsEnabled(i) && ow.IsChecked(i))
	}
}
