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

package methods

import (
	"errors"
	"fmt"

	"github.com/IntermezzoProject/intermezzo/pkg/api/models"
	"github.com/IntermezzoProject/intermezzo/pkg/api/models/requests"
	"github.com/IntermezzoProject/intermezzo/pkg/api/validation"
	"github.com/IntermezzoProject/intermezzo/pkg/audio"
	"github.com/rs/zerolog/log"
)

func HandleSettings(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received settings request")

	return models.SettingsResponse{
		Theme:                  env.Config.Theme(),
		Language:               env.Config.Language(),
		OverlayResolution:      env.Config.OverlayResolution(),
		CompactWidth:           env.Config.CompactWidth(),
		DebugLogging:           env.Config.DebugLogging(),
		AudioFeedback:          env.Config.AudioFeedback(),
		Mouse:                  env.Config.Mouse(),
		ShowMenuLogo:           env.Config.ShowMenuLogo(),
		ReturnToLauncherAtExit: env.Config.ReturnToLauncherAtExit(),
	}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleSettingsReload(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received settings reload request")

	err := env.Config.Load()
	if err != nil {
		log.Error().Err(err).Msg("error loading settings")
		return nil, errors.New("error loading settings")
	}

	// A reload may point at a replaced feedback sound file.
	audio.ClearFileCache()

	return NoContent{}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleSettingsUpdate(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received settings update request")

	var params models.UpdateSettingsParams
	err := validation.ValidateAndUnmarshal(env.Params, &params)
	if err != nil {
		return nil, err
	}

	if params.Theme != nil {
		log.Info().Str("theme", *params.Theme).Msg("update")
		env.Config.SetTheme(*params.Theme)
	}

	if params.Language != nil {
		log.Info().Str("language", *params.Language).Msg("update")
		env.Config.SetLanguage(*params.Language)
	}

	if params.OverlayResolution != nil {
		log.Info().Str("overlayResolution", *params.OverlayResolution).Msg("update")
		env.Config.SetOverlayResolution(*params.OverlayResolution)
	}

	if params.CompactWidth != nil {
		log.Info().Int("compactWidth", *params.CompactWidth).Msg("update")
		env.Config.SetCompactWidth(*params.CompactWidth)
	}

	if params.DebugLogging != nil {
		log.Info().Bool("debugLogging", *params.DebugLogging).Msg("update")
		env.Config.SetDebugLogging(*params.DebugLogging)
	}

	if params.AudioFeedback != nil {
		log.Info().Bool("audioFeedback", *params.AudioFeedback).Msg("update")
		env.Config.SetAudioFeedback(*params.AudioFeedback)
	}

	if params.Mouse != nil {
		log.Info().Bool("mouse", *params.Mouse).Msg("update")
		env.Config.SetMouse(*params.Mouse)
	}

	if params.ShowMenuLogo != nil {
		log.Info().Bool("showMenuLogo", *params.ShowMenuLogo).Msg("update")
		env.Config.SetShowMenuLogo(*params.ShowMenuLogo)
	}

	if params.ReturnToLauncherAtExit != nil {
		log.Info().Bool("returnToLauncherAtExit", *params.ReturnToLauncherAtExit).Msg("update")
		env.Config.SetReturnToLauncherAtExit(*params.ReturnToLauncherAtExit)
	}

	err = env.Config.Save()
	if err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}
	return NoContent{}, nil
}
