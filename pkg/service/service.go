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

// Package service assembles and runs the menu service: session state, the
// control API, discovery, publishers, and the loops that react to session
// events and menu open requests.
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/IntermezzoProject/intermezzo/pkg/achievements"
	"github.com/IntermezzoProject/intermezzo/pkg/api"
	"github.com/IntermezzoProject/intermezzo/pkg/api/models"
	"github.com/IntermezzoProject/intermezzo/pkg/api/notifications"
	"github.com/IntermezzoProject/intermezzo/pkg/assets"
	"github.com/IntermezzoProject/intermezzo/pkg/config"
	"github.com/IntermezzoProject/intermezzo/pkg/cores"
	"github.com/IntermezzoProject/intermezzo/pkg/cores/retroarch"
	"github.com/IntermezzoProject/intermezzo/pkg/database"
	"github.com/IntermezzoProject/intermezzo/pkg/database/progressdb"
	"github.com/IntermezzoProject/intermezzo/pkg/helpers"
	"github.com/IntermezzoProject/intermezzo/pkg/platforms"
	"github.com/IntermezzoProject/intermezzo/pkg/service/broker"
	"github.com/IntermezzoProject/intermezzo/pkg/service/discovery"
	"github.com/IntermezzoProject/intermezzo/pkg/service/publishers"
	"github.com/IntermezzoProject/intermezzo/pkg/session"
	"github.com/IntermezzoProject/intermezzo/pkg/ui/tui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// menuVT is the virtual terminal the menu overlay renders on. The game's
// display stays on whatever the platform uses; the console manager
// switches here for the overlay and back afterwards.
const menuVT = "2"

// coreQuitTimeout bounds the quit command sent to the core, which may be
// unreachable by the time we ask.
const coreQuitTimeout = 5 * time.Second

// loadStateTimeout bounds the state load applied after the menu closes.
const loadStateTimeout = 10 * time.Second

func setupEnvironment(pl platforms.Platform) error {
	if _, ok := helpers.HasUserDir(); ok {
		log.Info().Msg("using 'user' directory for storage")
	}

	log.Info().Msg("creating platform directories")
	dirs := []string{
		helpers.ConfigDir(pl),
		pl.Settings().TempDir,
		helpers.DataDir(pl),
		filepath.Join(helpers.DataDir(pl), assets.AchievementsDir),
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		err := os.MkdirAll(dir, 0o750)
		if err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

func makeDatabase(ctx context.Context, pl platforms.Platform) (*database.Database, error) {
	db := &database.Database{
		Progress: nil,
	}

	log.Debug().Msg("opening progress database")
	progressDB, err := progressdb.OpenProgressDB(ctx, pl)
	if err != nil {
		return db, fmt.Errorf("failed to open progress database: %w", err)
	}

	log.Debug().Msg("running progress database migrations")
	err = progressDB.MigrateUp()
	if err != nil {
		return db, fmt.Errorf("error migrating progressdb: %w", err)
	}

	db.Progress = progressDB

	return db, nil
}

// openAchievements builds the achievement manager from bundled and user
// set definitions. Any failure degrades to a nil manager: the menu then
// shows no achievement tabs instead of refusing to open.
func openAchievements(pl platforms.Platform, db *database.Database) *achievements.Manager {
	if db == nil || db.Progress == nil {
		return nil
	}

	bundled, err := achievements.LoadBundledSets(assets.Achievements, assets.AchievementsDir)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load bundled achievement sets")
	}

	userDir := filepath.Join(helpers.DataDir(pl), assets.AchievementsDir)
	user, err := achievements.LoadDataDirSets(afero.NewOsFs(), userDir)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load user achievement sets")
	}

	library := achievements.NewLibrary(bundled, user)
	log.Info().Int("sets", library.Len()).Msg("achievement library loaded")
	return achievements.NewManager(db.Progress, library, nil)
}

// startPublisher starts the MQTT publisher when one is configured. The
// broker subscription is only created for an active publisher, so there
// is never an unconsumed channel to drain.
func startPublisher(cfg *config.Instance, notifBroker *broker.Broker) *publishers.MQTTPublisher {
	brokerAddr := cfg.MqttBroker()
	if brokerAddr == "" {
		return nil
	}

	log.Info().Msgf("starting MQTT publisher: %s (topic: %s)", brokerAddr, cfg.MqttTopic())

	notifChan, id := notifBroker.Subscribe(100)
	publisher := publishers.NewMQTTPublisher(brokerAddr, cfg.MqttTopic(), cfg.MqttFilter())
	if err := publisher.Start(notifChan); err != nil {
		log.Error().Err(err).Msg("failed to start MQTT publisher (continuing without MQTT)")
		notifBroker.Unsubscribe(id)
		return nil
	}

	return publisher
}

// Start brings the whole service up and returns a stop function plus a
// channel closed once shutdown has finished. Start does not block; the
// session context owns the lifetime of everything started here.
func Start(
	pl platforms.Platform,
	cfg *config.Instance,
) (stop func() error, done <-chan struct{}, err error) {
	log.Info().Msgf("version: %s", config.AppVersion)

	sess, events := session.NewSession(pl, nil)

	// Source channel for outgoing notifications; the broker fans it out
	// to the API server and publishers.
	ns := make(chan models.Notification, 64)
	notifBroker := broker.NewBroker(sess.GetContext(), ns)
	notifBroker.Start()

	// One pending open request at most. The menu loop blocks inside the
	// overlay while the menu is up, so senders must never block on this.
	menuQueue := make(chan session.MenuRequest, 1)

	err = setupEnvironment(pl)
	if err != nil {
		log.Error().Err(err).Msg("error setting up environment")
		return nil, nil, err
	}

	log.Info().Msg("running platform pre start")
	err = pl.StartPre(cfg)
	if err != nil {
		log.Error().Err(err).Msg("platform start pre error")
		return nil, nil, fmt.Errorf("platform start pre failed: %w", err)
	}

	log.Info().Msg("opening progress database")
	db, dbErr := makeDatabase(sess.GetContext(), pl)
	if dbErr != nil {
		// The menu works without progress storage, achievement tabs are
		// simply absent.
		log.Error().Err(dbErr).Msg("error opening progress database, achievements disabled")
	}
	ach := openAchievements(pl, db)

	log.Info().Msg("attaching core adapter")
	sess.SetCore(retroarch.NewCore(cfg, pl, nil))

	log.Info().Msg("starting mDNS discovery service")
	discoveryService := discovery.New(cfg, pl.ID())
	if discoveryErr := discoveryService.Start(); discoveryErr != nil {
		log.Error().Err(discoveryErr).Msg("mDNS discovery failed to start (continuing without discovery)")
	}

	log.Info().Msg("starting API service")
	apiNotifications, _ := notifBroker.Subscribe(100)
	go api.Start(pl, cfg, sess, menuQueue, db, ach, apiNotifications)

	publisher := startPublisher(cfg, notifBroker)

	log.Info().Msg("starting service loops")
	go eventLoop(pl, cfg, sess, ach, events, ns)
	go menuLoop(pl, cfg, sess, ach, menuQueue)

	log.Info().Msg("running platform post start")
	err = pl.StartPost(cfg, sess.ActiveGame, sess.SetActiveGame)
	if err != nil {
		log.Error().Err(err).Msg("platform post start error")
		return nil, nil, fmt.Errorf("platform start post failed: %w", err)
	}
	log.Info().Msg("platform post start completed, service fully initialized")

	doneCh := make(chan struct{})
	go func() {
		<-sess.GetContext().Done()
		log.Info().Msg("service context cancelled, running cleanup")

		// These three can each block on the network; stop them together.
		var g errgroup.Group
		g.Go(func() error {
			discoveryService.Stop()
			return nil
		})
		if publisher != nil {
			g.Go(func() error {
				publisher.Stop()
				return nil
			})
		}
		g.Go(pl.Stop)
		if stopErr := g.Wait(); stopErr != nil {
			log.Warn().Err(stopErr).Msg("error stopping platform")
		}

		notifBroker.Stop()

		if db != nil && db.Progress != nil {
			if closeErr := db.Progress.Close(); closeErr != nil {
				log.Warn().Err(closeErr).Msg("error closing progress database")
			}
		}

		log.Info().Msg("service cleanup completed")
		close(doneCh)
	}()

	stop = func() error {
		sess.StopService()
		<-doneCh
		return nil
	}
	done = doneCh
	return stop, done, nil
}

// eventLoop turns session events into actions and outgoing notifications.
// It runs until the session context is cancelled.
func eventLoop(
	pl platforms.Platform,
	cfg *config.Instance,
	sess *session.Session,
	ach *achievements.Manager,
	events <-chan session.Event,
	ns chan<- models.Notification,
) {
	for {
		select {
		case <-sess.GetContext().Done():
			log.Debug().Msg("event loop: context cancelled")
			return
		case event, ok := <-events:
			if !ok {
				log.Debug().Msg("event loop: event channel closed")
				return
			}
			handleEvent(pl, cfg, sess, ach, ns, event)
		}
	}
}

func handleEvent(
	pl platforms.Platform,
	cfg *config.Instance,
	sess *session.Session,
	ach *achievements.Manager,
	ns chan<- models.Notification,
	event session.Event,
) {
	switch event.Type {
	case session.EventQuit:
		log.Info().Msg("quit requested from menu")
		quitCore(sess)
		if pl.SupportsQuit() {
			sess.StopService()
		}

	case session.EventReturnToLauncher:
		log.Info().Msg("return to launcher requested")
		quitCore(sess)
		if rtlErr := pl.ReturnToLauncher(cfg); rtlErr != nil {
			log.Error().Err(rtlErr).Msg("failed to return to launcher")
		}

	case session.EventMenuOpened:
		notifications.MenuOpened(ns)

	case session.EventMenuClosed:
		notifications.MenuClosed(ns)

	case session.EventStateSaved:
		params, ok := event.Params.(session.StateSavedParams)
		if !ok {
			log.Warn().Msg("state saved event with unexpected params")
			return
		}
		notifications.StateSaved(ns, models.StateSavedParams{
			Slot:        params.Slot,
			Description: params.Description,
		})

	case session.EventGameChanged:
		game, _ := event.Params.(*platforms.GameInfo)
		updateAchievements(sess, ach, game)
		if game == nil {
			notifications.GameStopped(ns)
			return
		}
		notifications.GameStarted(ns, models.GameResponse{
			Domain: game.Domain,
			Name:   game.Name,
			CoreID: game.CoreID,
			Path:   game.Path,
		})

	default:
		log.Warn().Str("type", string(event.Type)).Msg("unhandled session event")
	}
}

// updateAchievements rescopes the achievement manager to the new game:
// the core's declared set ID first, then a title match, else no set.
func updateAchievements(sess *session.Session, ach *achievements.Manager, game *platforms.GameInfo) {
	if ach == nil {
		return
	}
	if game == nil {
		ach.ClearActive()
		return
	}

	if core := sess.Core(); core != nil {
		if ach.SetActiveDomain(core.AchievementsID(game.Domain)) {
			return
		}
	}
	ach.SetActiveGame(game.Name)
}

// quitCore sends the quit command to the attached core with its own
// timeout, since the session context may already be on its way down.
func quitCore(sess *session.Session) {
	core := sess.Core()
	if core == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), coreQuitTimeout)
	defer cancel()
	if err := core.Quit(ctx); err != nil {
		log.Error().Err(err).Msg("failed to quit core")
	}
}

// menuLoop serves menu open requests one at a time. It blocks inside the
// overlay for as long as the menu stays open, which is why requests reach
// it through a buffered queue.
func menuLoop(
	pl platforms.Platform,
	cfg *config.Instance,
	sess *session.Session,
	ach *achievements.Manager,
	menuQueue <-chan session.MenuRequest,
) {
	for {
		select {
		case <-sess.GetContext().Done():
			log.Debug().Msg("menu loop: context cancelled")
			return
		case req, ok := <-menuQueue:
			if !ok {
				log.Debug().Msg("menu loop: queue closed")
				return
			}
			log.Info().Str("source", req.Source).Msg("opening menu overlay")
			openMenu(pl, cfg, sess, ach)
		}
	}
}

// openMenu takes over the console, runs the overlay until it closes,
// restores the console, and applies a load the user confirmed in the
// menu. The load runs after the console is back with the game so the
// restored state is what the player sees.
func openMenu(
	pl platforms.Platform,
	cfg *config.Instance,
	sess *session.Session,
	ach *achievements.Manager,
) {
	core := sess.Core()
	if core == nil {
		log.Warn().Msg("menu requested with no core attached")
		return
	}

	console := pl.Console()
	if err := console.Open(sess.GetContext(), menuVT); err != nil {
		log.Error().Err(err).Msg("failed to take over console for menu")
		return
	}
	if err := console.Clean(menuVT); err != nil {
		log.Warn().Err(err).Msg("failed to clean console")
	}

	runErr := tui.Run(cfg, pl, sess, core, ach)

	if err := console.Restore(menuVT); err != nil {
		log.Warn().Err(err).Msg("failed to restore console")
	}
	if err := console.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close console")
	}

	if runErr != nil {
		log.Error().Err(runErr).Msg("menu overlay failed")
	}

	applyPendingLoad(sess, core)
}

// applyPendingLoad runs the load the user confirmed in the menu. Taking
// the slot consumes it, so a second call is a no-op.
func applyPendingLoad(sess *session.Session, core cores.Core) {
	slot := sess.TakeGameToLoadSlot()
	if slot == session.NoLoadSlot {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), loadStateTimeout)
	defer cancel()
	if err := core.LoadState(ctx, slot); err != nil {
		log.Error().Err(err).Int("slot", slot).Msg("failed to load state after menu")
	}
}
