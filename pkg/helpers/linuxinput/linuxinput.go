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

// Package linuxinput drives a uinput virtual keyboard. The MiSTer platform
// uses it to send the hotkeys that make the FPGA main process release and
// reclaim the framebuffer around overlay sessions.
package linuxinput

import (
	"fmt"
	"time"

	"github.com/bendahl/uinput"
)

const (
	DeviceName     = "Intermezzo"
	DefaultTimeout = 40 * time.Millisecond
	uinputDev      = "/dev/uinput"
)

// keyboardCodes maps key names in brace form to Linux input event codes.
// Only the keys the service actually presses are mapped.
var keyboardCodes = map[string]int{
	"{enter}": 28,
	"{esc}":   1,
	"{f9}":    67,
	"{f10}":   68,
	"{f11}":   87,
	"{f12}":   88,
}

// toKeyboardCode resolves a key name to its Linux input event code.
func toKeyboardCode(name string) (int, bool) {
	code, ok := keyboardCodes[name]
	return code, ok
}

type Keyboard struct {
	Device uinput.Keyboard
	Delay  time.Duration
}

// NewKeyboard returns a uinput virtual keyboard device. It takes a delay
// duration which is used between presses to avoid overloading the OS or user
// applications. This device must be closed when the service stops.
func NewKeyboard(delay time.Duration) (Keyboard, error) {
	kbd, err := uinput.CreateKeyboard(uinputDev, []byte(DeviceName))
	if err != nil {
		return Keyboard{}, fmt.Errorf("failed to create keyboard device: %w", err)
	}
	return Keyboard{
		Device: kbd,
		Delay:  delay,
	}, nil
}

func (k *Keyboard) Close() error {
	if k.Device == nil {
		return nil
	}
	if err := k.Device.Close(); err != nil {
		return fmt.Errorf("failed to close keyboard device: %w", err)
	}
	return nil
}

// Press taps a single key by name, holding it for the configured delay.
func (k *Keyboard) Press(name string) error {
	code, ok := toKeyboardCode(name)
	if !ok {
		return fmt.Errorf("unknown keyboard key: %s", name)
	}

	if err := k.Device.KeyDown(code); err != nil {
		return fmt.Errorf("failed to press key down: %w", err)
	}

	time.Sleep(k.Delay)

	if err := k.Device.KeyUp(code); err != nil {
		return fmt.Errorf("failed to release key: %w", err)
	}
	return nil
}
