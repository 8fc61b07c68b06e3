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
	"github.com/IntermezzoProject/intermezzo/pkg/api/models"
	"github.com/IntermezzoProject/intermezzo/pkg/api/models/requests"
	"github.com/IntermezzoProject/intermezzo/pkg/config"
	"github.com/mackerelio/go-osstat/loadavg"
	"github.com/mackerelio/go-osstat/memory"
	"github.com/mackerelio/go-osstat/uptime"
	"github.com/rs/zerolog/log"
)

func HandleStatus(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received status request")

	resp := models.StatusResponse{
		Version:       config.AppVersion,
		Platform:      env.Platform.ID(),
		MenuOpen:      env.Session.IsMenuOpen(),
		StartedAt:     env.Session.StartedAt().Unix(),
		UptimeSeconds: int64(env.Session.Uptime().Seconds()),
		System:        readSystemStats(),
	}

	if game := env.Session.ActiveGame(); game != nil {
		resp.Game = &models.GameResponse{
			Domain: game.Domain,
			Name:   game.Name,
			CoreID: game.CoreID,
			Path:   game.Path,
		}
	}

	return resp, nil
}

// readSystemStats collects host stats for the status response. Each stat
// degrades to zero on error so status never fails outright.
func readSystemStats() models.SystemStats {
	var stats models.SystemStats

	up, err := uptime.Get()
	if err != nil {
		log.Warn().Err(err).Msg("failed to get system uptime, using 0")
	} else {
		stats.UptimeSeconds = int64(up.Seconds())
	}

	mem, err := memory.Get()
	if err != nil {
		log.Warn().Err(err).Msg("failed to get memory stats, using 0")
	} else {
		stats.MemoryTotal = mem.Total
		stats.MemoryUsed = mem.Used
	}

	la, err := loadavg.Get()
	if err != nil {
		log.Warn().Err(err).Msg("failed to get load average, using 0")
	} else {
		stats.LoadAverage1 = la.Loadavg1
	}

	return stats
}
