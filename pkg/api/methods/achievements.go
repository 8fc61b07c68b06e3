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
	"github.com/IntermezzoProject/intermezzo/pkg/helpers"
	"github.com/rs/zerolog/log"
)

// ErrNoAchievements is returned when the progress store failed to open
// and achievement tracking is disabled for this run.
var ErrNoAchievements = errors.New("achievement tracking is not available")

// HandleAchievements reports the active set's progress. With no set
// active for the running game the response is empty rather than an
// error, matching how the config dialog treats the same state.
func HandleAchievements(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received achievements request")

	if env.Achievements == nil {
		return nil, ErrNoAchievements
	}

	set, ok := env.Achievements.ActiveSet()
	if !ok {
		return models.AchievementsResponse{}, nil
	}

	resp := models.AchievementsResponse{
		SetID:    set.ID,
		GameName: set.GameName,
	}

	for _, status := range env.Achievements.Achievements() {
		ach := models.AchievementResponse{
			ID:          status.ID,
			Title:       status.Title,
			Description: status.Description,
			Hidden:      status.Hidden,
			Unlocked:    status.Unlocked,
		}
		// Unlocks recorded while the board clock was unset carry an
		// epoch timestamp not worth reporting.
		if status.Unlocked && helpers.IsClockReliable(status.UnlockedAt) {
			ach.UnlockedAt = status.UnlockedAt.Unix()
		}
		resp.Achievements = append(resp.Achievements, ach)
	}

	for _, status := range env.Achievements.Stats() {
		resp.Stats = append(resp.Stats, models.StatResponse{
			ID:    status.ID,
			Label: status.Label,
			Value: status.Value,
		})
	}

	return resp, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleAchievementsUnlock(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received achievement unlock request")

	if env.Achievements == nil {
		return nil, ErrNoAchievements
	}

	var params models.UnlockAchievementParams
	err := validation.ValidateAndUnmarshal(env.Params, &params)
	if err != nil {
		return nil, err
	}

	if err := env.Achievements.Unlock(params.ID); err != nil {
		return nil, fmt.Errorf("failed to unlock achievement: %w", err)
	}
	return NoContent{}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleAchievementsStat(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received achievement stat request")

	if env.Achievements == nil {
		return nil, ErrNoAchievements
	}

	var params models.UpdateStatParams
	err := validation.ValidateAndUnmarshal(env.Params, &params)
	if err != nil {
		return nil, err
	}

	if err := env.Achievements.SetStat(params.ID, params.Value); err != nil {
		return nil, fmt.Errorf("failed to update stat: %w", err)
	}
	return NoContent{}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleAchievementsReset(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received achievement reset request")

	if env.Achievements == nil {
		return nil, ErrNoAchievements
	}

	if err := env.Achievements.ClearProgress(); err != nil {
		return nil, fmt.Errorf("failed to reset progress: %w", err)
	}
	return NoContent{}, nil
}
