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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/IntermezzoProject/intermezzo/pkg/helpers/syncutil"
	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	SchemaVersion = 1
	CfgEnv        = "INTERMEZZO_CFG"
	AppEnv        = "INTERMEZZO_APP"
)

type Values struct {
	Games        map[string]map[string]string `toml:"games,omitempty"`
	Ui           Ui                           `toml:"ui,omitempty"`
	Audio        Audio                        `toml:"audio,omitempty"`
	Service      Service                      `toml:"service,omitempty"`
	Telemetry    Telemetry                    `toml:"telemetry,omitempty"`
	ConfigSchema int                          `toml:"config_schema"`
	DebugLogging bool                         `toml:"debug_logging"`
}

type Ui struct {
	Theme                  string `toml:"theme,omitempty"`
	Language               string `toml:"language,omitempty"`
	OverlayResolution      string `toml:"overlay_resolution,omitempty"`
	CompactWidth           int    `toml:"compact_width,omitempty"`
	ShowMenuLogo           bool   `toml:"show_menu_logo"`
	Mouse                  bool   `toml:"mouse"`
	ReturnToLauncherAtExit bool   `toml:"return_to_launcher_at_exit"`
}

type Audio struct {
	FeedbackSound *string `toml:"feedback_sound,omitempty"`
	MusicVolume   int     `toml:"music_volume"`
	SfxVolume     int     `toml:"sfx_volume"`
	SpeechVolume  int     `toml:"speech_volume"`
	TalkSpeed     int     `toml:"talkspeed"`
	Feedback      bool    `toml:"feedback"`
	Subtitles     bool    `toml:"subtitles"`
	SpeechMute    bool    `toml:"speech_mute"`
}

type Service struct {
	DeviceID        string   `toml:"device_id"`
	MqttBroker      string   `toml:"mqtt_broker,omitempty"`
	MqttTopic       string   `toml:"mqtt_topic,omitempty"`
	CoreCommand     string   `toml:"core_command,omitempty"`
	CoreAddr        string   `toml:"core_addr,omitempty"`
	LauncherCommand string   `toml:"launcher_command,omitempty"`
	DiscoveryName   string   `toml:"discovery_name,omitempty"`
	MqttFilter      []string `toml:"mqtt_filter,omitempty"`
	ApiPort         int      `toml:"api_port,omitempty"`
	Discovery       bool     `toml:"discovery"`
}

type Telemetry struct {
	Dsn     string `toml:"dsn,omitempty"`
	Enabled bool   `toml:"enabled"`
}

// Volume values follow the 0-255 range games conventionally use for mixer
// levels; VolumeMax is also the default talkspeed scale ceiling.
const (
	VolumeMax          = 255
	DefaultVolume      = 192
	DefaultTalkSpeed   = 60
	DefaultApiPort     = 7525
	DefaultCoreCommand = "retroarch"
	// DefaultCoreAddr is RetroArch's network command interface on its stock
	// network_cmd_port.
	DefaultCoreAddr = "127.0.0.1:55355"
)

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Ui: Ui{
		Theme:        "default",
		Language:     "en",
		CompactWidth: 60,
		ShowMenuLogo: true,
		Mouse:        true,
	},
	Audio: Audio{
		Feedback:     true,
		MusicVolume:  DefaultVolume,
		SfxVolume:    DefaultVolume,
		SpeechVolume: DefaultVolume,
		TalkSpeed:    DefaultTalkSpeed,
	},
	Service: Service{
		ApiPort:   DefaultApiPort,
		Discovery: true,
	},
}

type Instance struct {
	appPath    string
	cfgPath    string
	activeGame string
	vals       Values
	defaults   Values
	mu         syncutil.RWMutex
}

//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		mu:       syncutil.RWMutex{},
		appPath:  os.Getenv(AppEnv),
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")

		err := os.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		err = cfg.Save()
		if err != nil {
			return nil, err
		}
	}

	err := cfg.Load()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	if _, err := os.Stat(c.cfgPath); err != nil {
		return fmt.Errorf("failed to stat config file: %w", err)
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then unmarshal file values on top.
	// This ensures fields not present in the file retain their default values.
	newVals := c.defaults
	err = toml.Unmarshal(data, &newVals)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return errors.New("schema version mismatch")
	}

	c.vals = newVals

	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	// set current schema version
	c.vals.ConfigSchema = SchemaVersion

	// generate a device id if one doesn't exist
	if c.vals.Service.DeviceID == "" {
		newID := uuid.New().String()
		c.vals.Service.DeviceID = newID
		log.Info().Msgf("generated new device id: %s", newID)
	}

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Instance) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfgPath
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
	if enabled {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
