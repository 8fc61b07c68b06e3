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
	"fmt"
	"os"
	"path/filepath"

	"github.com/IntermezzoProject/intermezzo/pkg/config"
	"github.com/IntermezzoProject/intermezzo/pkg/helpers"
	"github.com/IntermezzoProject/intermezzo/pkg/platforms"
	"github.com/IntermezzoProject/intermezzo/pkg/platforms/mister/startup"
	"github.com/IntermezzoProject/intermezzo/pkg/ui/tui"
	"github.com/rivo/tview"
)

func buildStartupPromptApp(boot *startup.Script) (*tview.Application, error) {
	app := tview.NewApplication()
	modal := tview.NewModal()
	modal.SetTitle("Autostart Service").
		SetBorder(true).
		SetTitleAlign(tview.AlignCenter)
	modal.SetText("Add Intermezzo to MiSTer startup?\nThe menu overlay only works while the service is running.").
		AddButtons([]string{"Yes", "No"}).
		SetDoneFunc(func(_ int, buttonLabel string) {
			if buttonLabel == "Yes" {
				if err := boot.AddService(config.AppName); err != nil {
					_, _ = fmt.Fprintf(os.Stderr, "Error adding to startup: %v\n", err)
					os.Exit(1)
				}
				if err := boot.Save(); err != nil {
					_, _ = fmt.Fprintf(os.Stderr, "Error saving startup: %v\n", err)
					os.Exit(1)
				}
			}
			app.Stop()
		})

	return app.SetRoot(modal, true).EnableMouse(true), nil
}

// tryAddStartup prompts to register the service in user-startup.sh, unless
// it already is.
func tryAddStartup() error {
	var boot startup.Script
	if err := boot.Load(); err != nil {
		return fmt.Errorf("failed to load startup script: %w", err)
	}

	if boot.Exists(config.AppName) {
		return nil
	}

	return tui.BuildAndRetry(func() (*tview.Application, error) {
		return buildStartupPromptApp(&boot)
	})
}

func buildInfoApp(
	pl platforms.Platform,
	cfg *config.Instance,
	svc *helpers.Service,
) (*tview.Application, error) {
	status := "not running"
	if svc.Running() {
		status = "running"
	}

	text := fmt.Sprintf(
		"Intermezzo v%s\n\nService: %s\nAPI port: %d\nConfig: %s\nLog: %s\n\n"+
			"Open the overlay during a game with \"intermezzo -menu\",\n"+
			"or through the API from another device.",
		config.AppVersion,
		status,
		cfg.ApiPort(),
		filepath.Join(helpers.ConfigDir(pl), config.CfgFile),
		filepath.Join(pl.Settings().TempDir, config.LogFile),
	)

	app := tview.NewApplication()
	modal := tview.NewModal()
	modal.SetTitle("Intermezzo").
		SetBorder(true).
		SetTitleAlign(tview.AlignCenter)
	modal.SetText(text).
		AddButtons([]string{"Exit"}).
		SetDoneFunc(func(_ int, _ string) {
			app.Stop()
		})

	return app.SetRoot(modal, true).EnableMouse(true), nil
}

func displayServiceInfo(pl platforms.Platform, cfg *config.Instance, svc *helpers.Service) error {
	return tui.BuildAndRetry(func() (*tview.Application, error) {
		return buildInfoApp(pl, cfg, svc)
	})
}
