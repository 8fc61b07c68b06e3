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
	"testing"

	"pgregory.net/rapid"
)

// ============================================================================
// Game Option Property Tests
// ============================================================================

// TestPropertyGameOptionRoundTrip verifies any stored option value is returned
// verbatim for its own domain and invisible to every other domain.
func TestPropertyGameOptionRoundTrip(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		domain := rapid.StringMatching(`[a-z0-9]{2,8}/[a-z0-9-]{2,12}`).Draw(t, "domain")
		other := rapid.StringMatching(`[a-z0-9]{2,8}/[a-z0-9-]{2,12}`).Draw(t, "other")
		key := rapid.StringMatching(`[a-z_]{2,16}`).Draw(t, "key")
		value := rapid.StringMatching(`[ -~]{0,32}`).Draw(t, "value")

		cfg := &Instance{}
		cfg.SetGameOption(domain, key, value)

		got, ok := cfg.GameOption(domain, key)
		if !ok {
			t.Fatalf("option %s.%s missing after set", domain, key)
		}
		if got != value {
			t.Fatalf("option %s.%s = %q, want %q", domain, key, got, value)
		}

		if other != domain {
			if _, ok := cfg.GameOption(other, key); ok {
				t.Fatalf("option leaked from domain %q into %q", domain, other)
			}
		}
	})
}

// TestPropertyGameOptionBoolRoundTrip verifies bools survive the string store.
func TestPropertyGameOptionBoolRoundTrip(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		domain := rapid.StringMatching(`[a-z0-9]{2,8}/[a-z0-9-]{2,12}`).Draw(t, "domain")
		key := rapid.StringMatching(`[a-z_]{2,16}`).Draw(t, "key")
		value := rapid.Bool().Draw(t, "value")

		cfg := &Instance{}
		cfg.SetGameOptionBool(domain, key, value)

		got, ok := cfg.GameOptionBool(domain, key)
		if !ok {
			t.Fatalf("bool option %s.%s missing after set", domain, key)
		}
		if got != value {
			t.Fatalf("bool option %s.%s = %v, want %v", domain, key, got, value)
		}
	})
}

// ============================================================================
// Volume Property Tests
// ============================================================================

// TestPropertyVolumeAlwaysInRange verifies volumes read back within 0..VolumeMax
// no matter what was written.
func TestPropertyVolumeAlwaysInRange(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		domain := rapid.StringMatching(`[a-z0-9]{2,8}/[a-z0-9-]{2,12}`).Draw(t, "domain")
		set := rapid.IntRange(-1000, 1000).Draw(t, "set")

		cfg := &Instance{}
		cfg.SetMusicVolume(domain, set)

		got := cfg.MusicVolume(domain)
		if got < 0 || got > VolumeMax {
			t.Fatalf("volume %d out of range after setting %d", got, set)
		}

		// Setting the clamped value again must be a fixed point.
		cfg.SetMusicVolume(domain, got)
		if again := cfg.MusicVolume(domain); again != got {
			t.Fatalf("clamp not idempotent: %d then %d", got, again)
		}
	})
}

// TestPropertyVolumeFallbackToGlobal verifies domains without an override
// always read the global mixer value.
func TestPropertyVolumeFallbackToGlobal(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		domain := rapid.StringMatching(`[a-z0-9]{2,8}/[a-z0-9-]{2,12}`).Draw(t, "domain")
		global := rapid.IntRange(0, VolumeMax).Draw(t, "global")

		cfg := &Instance{}
		cfg.SetSpeechVolume("", global)

		if got := cfg.SpeechVolume(domain); got != global {
			t.Fatalf("domain %q read %d, want global %d", domain, got, global)
		}
	})
}
