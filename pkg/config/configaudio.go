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

import "path/filepath"

// Audio settings resolve per game domain with the global [audio] section as
// fallback, so one game can run quiet subtitles-on without touching the rest.
const (
	KeyMusicVolume  = "music_volume"
	KeySfxVolume    = "sfx_volume"
	KeySpeechVolume = "speech_volume"
	KeySubtitles    = "subtitles"
	KeySpeechMute   = "speech_mute"
	KeyTalkSpeed    = "talkspeed"
)

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > VolumeMax {
		return VolumeMax
	}
	return v
}

// MusicVolume returns the effective music volume for a domain. An empty
// domain reads the global default.
func (c *Instance) MusicVolume(domain string) int {
	return clampVolume(c.domainInt(domain, KeyMusicVolume, c.globalAudio().MusicVolume))
}

// SetMusicVolume sets the music volume for a domain, or the global default
// when domain is empty.
func (c *Instance) SetMusicVolume(domain string, v int) {
	v = clampVolume(v)
	if domain == "" {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.vals.Audio.MusicVolume = v
		return
	}
	c.SetGameOptionInt(domain, KeyMusicVolume, v)
}

// SfxVolume returns the effective sound-effect volume for a domain.
func (c *Instance) SfxVolume(domain string) int {
	return clampVolume(c.domainInt(domain, KeySfxVolume, c.globalAudio().SfxVolume))
}

// SetSfxVolume sets the sound-effect volume for a domain, or the global
// default when domain is empty.
func (c *Instance) SetSfxVolume(domain string, v int) {
	v = clampVolume(v)
	if domain == "" {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.vals.Audio.SfxVolume = v
		return
	}
	c.SetGameOptionInt(domain, KeySfxVolume, v)
}

// SpeechVolume returns the effective speech volume for a domain.
func (c *Instance) SpeechVolume(domain string) int {
	return clampVolume(c.domainInt(domain, KeySpeechVolume, c.globalAudio().SpeechVolume))
}

// SetSpeechVolume sets the speech volume for a domain, or the global default
// when domain is empty.
func (c *Instance) SetSpeechVolume(domain string, v int) {
	v = clampVolume(v)
	if domain == "" {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.vals.Audio.SpeechVolume = v
		return
	}
	c.SetGameOptionInt(domain, KeySpeechVolume, v)
}

// Subtitles returns the effective subtitles toggle for a domain.
func (c *Instance) Subtitles(domain string) bool {
	return c.domainBool(domain, KeySubtitles, c.globalAudio().Subtitles)
}

// SetSubtitles sets the subtitles toggle for a domain, or the global default
// when domain is empty.
func (c *Instance) SetSubtitles(domain string, enabled bool) {
	if domain == "" {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.vals.Audio.Subtitles = enabled
		return
	}
	c.SetGameOptionBool(domain, KeySubtitles, enabled)
}

// SpeechMute returns the effective speech mute toggle for a domain.
func (c *Instance) SpeechMute(domain string) bool {
	return c.domainBool(domain, KeySpeechMute, c.globalAudio().SpeechMute)
}

// SetSpeechMute sets the speech mute toggle for a domain, or the global
// default when domain is empty.
func (c *Instance) SetSpeechMute(domain string, muted bool) {
	if domain == "" {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.vals.Audio.SpeechMute = muted
		return
	}
	c.SetGameOptionBool(domain, KeySpeechMute, muted)
}

// TalkSpeed returns the effective subtitle speed for a domain, on the 0-255
// scale.
func (c *Instance) TalkSpeed(domain string) int {
	return clampVolume(c.domainInt(domain, KeyTalkSpeed, c.globalAudio().TalkSpeed))
}

// SetTalkSpeed sets the subtitle speed for a domain, or the global default
// when domain is empty.
func (c *Instance) SetTalkSpeed(domain string, v int) {
	v = clampVolume(v)
	if domain == "" {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.vals.Audio.TalkSpeed = v
		return
	}
	c.SetGameOptionInt(domain, KeyTalkSpeed, v)
}

// AudioFeedback reports whether menu feedback sounds are enabled.
func (c *Instance) AudioFeedback() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Audio.Feedback
}

// SetAudioFeedback enables or disables menu feedback sounds.
func (c *Instance) SetAudioFeedback(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Audio.Feedback = enabled
}

// FeedbackSoundPath returns the resolved path to the feedback sound file and
// whether playback is enabled. Returns ("", true) if unset (use the embedded
// default), ("", false) if disabled by an empty string, or (resolved_path,
// true) for a custom path. Relative paths resolve against dataDir.
func (c *Instance) FeedbackSoundPath(dataDir string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.vals.Audio.FeedbackSound == nil {
		return "", true
	}
	path := *c.vals.Audio.FeedbackSound
	if path == "" {
		return "", false
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(dataDir, path)
	}
	return path, true
}

func (c *Instance) globalAudio() Audio {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Audio
}

func (c *Instance) domainInt(domain, key string, fallback int) int {
	if domain == "" {
		return fallback
	}
	return c.GameOptionInt(domain, key, fallback)
}

func (c *Instance) domainBool(domain, key string, fallback bool) bool {
	if domain == "" {
		return fallback
	}
	if v, ok := c.GameOptionBool(domain, key); ok {
		return v
	}
	return fallback
}
