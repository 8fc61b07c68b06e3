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

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/IntermezzoProject/intermezzo/pkg/cli"
	"github.com/IntermezzoProject/intermezzo/pkg/config"
	"github.com/IntermezzoProject/intermezzo/pkg/helpers"
	"github.com/IntermezzoProject/intermezzo/pkg/platforms/mister"
	"github.com/IntermezzoProject/intermezzo/pkg/platforms/mister/startup"
	"github.com/IntermezzoProject/intermezzo/pkg/service"
	"github.com/rs/zerolog/log"
)

// addToStartup registers the service in user-startup.sh without prompting,
// for scripted installs.
func addToStartup() error {
	var boot startup.Script
	if err := boot.Load(); err != nil {
		return fmt.Errorf("failed to load startup script: %w", err)
	}

	if boot.Exists(config.AppName) {
		return nil
	}
	if err := boot.AddService(config.AppName); err != nil {
		return fmt.Errorf("failed to add service to startup: %w", err)
	}
	if err := boot.Save(); err != nil {
		return fmt.Errorf("failed to save startup script: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := cli.SetupFlags()
	serviceFlag := flag.String(
		"service",
		"",
		"manage the Intermezzo service (start|stop|restart|status)",
	)
	addStartupFlag := flag.Bool(
		"add-startup",
		false,
		"add the Intermezzo service to MiSTer startup if not already added",
	)

	pl := mister.NewPlatform()
	flags.Pre(pl)

	if *addStartupFlag {
		if err := addToStartup(); err != nil {
			return fmt.Errorf("error adding to startup: %w", err)
		}
		return nil
	}

	cfg := cli.Setup(pl, config.BaseDefaults, nil)

	defer func() {
		if err := recover(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %v\n", err)
			log.Fatal().Msgf("panic: %v", err)
		}
	}()

	svc, err := helpers.NewService(helpers.ServiceArgs{
		Entry: func() (func() error, <-chan struct{}, error) {
			return service.Start(pl, cfg)
		},
		Platform: pl,
	})
	if err != nil {
		log.Error().Err(err).Msg("error creating service")
		return fmt.Errorf("error creating service: %w", err)
	}
	err = svc.ServiceHandler(serviceFlag)
	if err != nil {
		return fmt.Errorf("service handler failed: %w", err)
	}

	flags.Post(cfg, pl)

	// offer to add the service to MiSTer startup if it's not there yet
	err = tryAddStartup()
	if err != nil {
		log.Error().Err(err).Msg("error updating startup script")
	}

	// launched from the Scripts menu with no arguments: make sure the
	// service is up, then show the status screen
	if !svc.Running() {
		startErr := svc.Start()
		if startErr != nil {
			log.Error().Err(startErr).Msg("could not start service")
		}
		time.Sleep(1 * time.Second)
	}

	err = displayServiceInfo(pl, cfg, svc)
	if err != nil {
		return fmt.Errorf("error displaying status screen: %w", err)
	}

	return nil
}
