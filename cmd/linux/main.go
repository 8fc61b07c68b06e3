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
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/IntermezzoProject/intermezzo/pkg/cli"
	"github.com/IntermezzoProject/intermezzo/pkg/config"
	"github.com/IntermezzoProject/intermezzo/pkg/helpers"
	"github.com/IntermezzoProject/intermezzo/pkg/platforms/linux"
	"github.com/IntermezzoProject/intermezzo/pkg/service"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	pl := linux.NewPlatform()
	flags := cli.SetupFlags()

	daemonMode := flag.Bool(
		"daemon",
		false,
		"log to file only, for running under an init system",
	)

	flags.Pre(pl)

	// The service drives virtual input devices and switches VTs, which work
	// fine with the user's groups. Running as root would scatter root-owned
	// state under the user's home.
	if os.Geteuid() == 0 {
		return errors.New("intermezzo cannot be run as root")
	}

	var logWriters []io.Writer
	if !*daemonMode {
		logWriters = []io.Writer{os.Stderr}
	}

	cfg := cli.Setup(
		pl,
		config.BaseDefaults,
		logWriters,
	)

	defer func() {
		if err := recover(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %s\n", err)
			log.Fatal().Msgf("panic: %v", err)
		}
	}()

	flags.Post(cfg, pl)

	if helpers.IsServiceRunning(cfg) {
		return errors.New("intermezzo service is already running")
	}

	stopSvc, done, err := service.Start(pl, cfg)
	if err != nil {
		log.Error().Msgf("error starting service: %s", err)
		return fmt.Errorf("error starting service: %w", err)
	}

	defer func() {
		if stopErr := stopSvc(); stopErr != nil {
			log.Error().Msgf("error stopping service: %s", stopErr)
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	// Exits on a signal or when the service stops itself, e.g. quit was
	// chosen from the menu.
	select {
	case <-sigs:
	case <-done:
	}

	return nil
}
