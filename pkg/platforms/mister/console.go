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
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ConsoleManager drives MiSTer main's framebuffer handover so the menu
// overlay can render on the Linux console.
type ConsoleManager struct {
	platform *Platform
	active   bool
	mu       sync.RWMutex
}

func newConsoleManager(p *Platform) *ConsoleManager {
	return &ConsoleManager{platform: p}
}

// Active reports whether the console is currently held for an overlay
// session.
func (m *ConsoleManager) Active() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// reset clears the active flag without touching the display, for when a core
// change already handed the framebuffer back to the FPGA.
func (m *ConsoleManager) reset() {
	m.mu.Lock()
	m.active = false
	m.mu.Unlock()
}

// Open switches to console mode on the specified VT.
func (m *ConsoleManager) Open(ctx context.Context, vt string) error {
	if m.Active() {
		log.Debug().Msg("console already active, skipping F9 sequence")
		return nil
	}

	// F9 signals MiSTer main to release the framebuffer and allow Linux
	// console access. When main "sleeps" the keypress can be eaten and the
	// switch never happens, so the press is retried with backoff until the
	// active VT confirms console mode.

	chvtCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := exec.CommandContext(chvtCtx, "chvt", vt).Run(); err != nil {
		log.Debug().Err(err).Msg("open console: error running chvt")
		return fmt.Errorf("failed to run chvt: %w", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	backoff := 50 * time.Millisecond
	maxBackoff := 500 * time.Millisecond

	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("open console cancelled: %w", err)
		}

		// Press F9 to signal MiSTer main to release the framebuffer
		if err := m.platform.KeyboardPress("{f9}"); err != nil {
			return fmt.Errorf("failed to press F9 key: %w", err)
		}

		time.Sleep(backoff)
		backoff = time.Duration(float64(backoff) * 1.5)
		if backoff > maxBackoff {
			backoff = maxBackoff
		}

		// Verify console mode active by checking VT state
		tty, err := m.getTTY()
		if err != nil {
			return err
		}
		if tty != "tty"+f9ConsoleVT {
			continue
		}
		log.Debug().Msg("console mode confirmed")

		// Wait for framebuffer to be ready
		if err := m.waitForFramebuffer(time.Until(deadline)); err != nil {
			return err
		}

		if res := m.platform.overlayResolution(); res != "" {
			if err := applyOverlayResolution(res); err != nil {
				log.Warn().Err(err).Msg("failed to set overlay video mode")
			}
		}

		// Switch to target VT
		if vt != f9ConsoleVT {
			chvtCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			err := exec.CommandContext(chvtCtx, "chvt", vt).Run()
			cancel()
			if err != nil {
				log.Debug().Err(err).Msgf("failed to switch to tty%s", vt)
			}
		}

		m.mu.Lock()
		m.active = true
		m.mu.Unlock()
		return nil
	}

	return errors.New("open console: timeout waiting for console switch after 5s")
}

// Close exits console mode and returns the display to the running core.
func (m *ConsoleManager) Close() error {
	if !m.Active() {
		log.Debug().Msg("console already inactive, skipping close")
		return nil
	}

	// Restore console cursor state on both TTYs
	if err := m.Restore(f9ConsoleVT); err != nil {
		log.Debug().Err(err).Msg("failed to restore tty1 state")
	}
	if err := m.Restore(overlayVT); err != nil {
		log.Debug().Err(err).Msgf("failed to restore tty%s state", overlayVT)
	}

	// Press F12 to return to FPGA framebuffer
	if err := m.platform.KeyboardPress("{f12}"); err != nil {
		return fmt.Errorf("failed to press F12 key: %w", err)
	}

	m.reset()

	log.Debug().Msg("console closed, returned to FPGA mode")
	return nil
}

// Clean prepares a console for use (clears screen, hides cursor).
func (*ConsoleManager) Clean(vt string) error {
	// Clear screen and reset
	if err := writeTty(vt, "\033[2J\033[H"); err != nil {
		return err
	}

	// Disable cursor blinking
	if err := echoFile("/sys/class/graphics/fbcon/cursor_blink", "0"); err != nil {
		return err
	}

	// Hide cursor
	return writeTty(vt, "\033[?25l")
}

// Restore restores console cursor state.
func (*ConsoleManager) Restore(vt string) error {
	if err := writeTty(vt, "\033[?25h"); err != nil {
		return err
	}

	return echoFile("/sys/class/graphics/fbcon/cursor_blink", "1")
}

// getTTY returns the currently active TTY.
func (*ConsoleManager) getTTY() (string, error) {
	sys := "/sys/devices/virtual/tty/tty0/active"
	if _, err := os.Stat(sys); err != nil {
		return "", fmt.Errorf("failed to stat tty active file: %w", err)
	}

	tty, err := os.ReadFile(sys)
	if err != nil {
		return "", fmt.Errorf("failed to read tty active file: %w", err)
	}

	return string(tty[:len(tty)-1]), nil
}

// waitForFramebuffer waits for the framebuffer device to become accessible.
func (*ConsoleManager) waitForFramebuffer(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, err := os.Stat("/dev/fb0"); err == nil {
			if _, err := os.Stat("/sys/class/graphics/fbcon/cursor_blink"); err == nil {
				return nil
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	return errors.New("framebuffer not ready")
}

func echoFile(path, s string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0) //nolint:gosec // fixed sysfs and tty paths
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}

	if _, err := f.WriteString(s); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write to %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func writeTty(id, s string) error {
	return echoFile("/dev/tty"+id, s)
}
