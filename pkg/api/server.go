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

// Package api exposes the control API: JSON-RPC 2.0 over WebSocket plus a
// small REST bridge, with notifications broadcast to connected clients.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/IntermezzoProject/intermezzo/pkg/achievements"
	"github.com/IntermezzoProject/intermezzo/pkg/api/methods"
	"github.com/IntermezzoProject/intermezzo/pkg/api/middleware"
	"github.com/IntermezzoProject/intermezzo/pkg/api/models"
	"github.com/IntermezzoProject/intermezzo/pkg/api/models/requests"
	"github.com/IntermezzoProject/intermezzo/pkg/api/validation"
	"github.com/IntermezzoProject/intermezzo/pkg/config"
	"github.com/IntermezzoProject/intermezzo/pkg/database"
	"github.com/IntermezzoProject/intermezzo/pkg/platforms"
	"github.com/IntermezzoProject/intermezzo/pkg/session"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"
)

var JSONRPCErrorParseError = models.ErrorObject{
	Code:    -32700,
	Message: "Parse error",
}
var JSONRPCErrorInvalidRequest = models.ErrorObject{
	Code:    -32600,
	Message: "Invalid Request",
}
var JSONRPCErrorMethodNotFound = models.ErrorObject{
	Code:    -32601,
	Message: "Method not found",
}
var JSONRPCErrorInvalidParams = models.ErrorObject{
	Code:    -32602,
	Message: "Invalid params",
}
var JSONRPCErrorInternalError = models.ErrorObject{
	Code:    -32603,
	Message: "Internal error",
}
var JSONRPCErrorServerError = models.ErrorObject{
	Code:    -32000,
	Message: "Server error",
}

func maybeUUID(req models.RequestObject) uuid.UUID {
	if req.ID == nil {
		return uuid.Nil
	}
	return *req.ID
}

var methodMap = map[string]func(requests.RequestEnv) (any, error){
	// menu
	models.MethodMenuOpen:  methods.HandleMenuOpen,
	models.MethodMenuClose: methods.HandleMenuClose,
	// settings
	models.MethodSettings:       methods.HandleSettings,
	models.MethodSettingsUpdate: methods.HandleSettingsUpdate,
	models.MethodSettingsReload: methods.HandleSettingsReload,
	// achievements
	models.MethodAchievements:       methods.HandleAchievements,
	models.MethodAchievementsUnlock: methods.HandleAchievementsUnlock,
	models.MethodAchievementsStat:   methods.HandleAchievementsStat,
	models.MethodAchievementsReset:  methods.HandleAchievementsReset,
	// utils
	models.MethodStatus:  methods.HandleStatus,
	models.MethodVersion: methods.HandleVersion,
}

// localOnlyMethods mutate stored state and are refused for clients
// outside the loopback interface. Menu control stays open: toggling the
// menu from another device is the point of the network API.
var localOnlyMethods = map[string]bool{
	models.MethodSettingsUpdate:     true,
	models.MethodSettingsReload:     true,
	models.MethodAchievementsUnlock: true,
	models.MethodAchievementsStat:   true,
	models.MethodAchievementsReset:  true,
}

var errUnknownMethod = errors.New("unknown method")
var errLocalOnly = errors.New("method is restricted to local clients")

func handleRequest(env requests.RequestEnv, req models.RequestObject) (any, error) {
	log.Debug().Str("method", req.Method).Msg("received request")

	method := strings.ToLower(req.Method)
	fn, ok := methodMap[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownMethod, req.Method)
	}

	if localOnlyMethods[method] && !env.IsLocal {
		log.Warn().Str("method", req.Method).Msg("refusing remote request")
		return nil, fmt.Errorf("%w: %s", errLocalOnly, req.Method)
	}

	if req.ID == nil {
		return nil, fmt.Errorf("missing ID for request: %s", req.Method)
	}

	env.ID = *req.ID
	env.Params = req.Params

	return fn(env)
}

// errorObjectFor maps a handler error to a JSON-RPC error object, so
// param problems come back as invalid params rather than a bare server
// error.
func errorObjectFor(err error) models.ErrorObject {
	if errors.Is(err, errUnknownMethod) {
		return JSONRPCErrorMethodNotFound
	}

	if errors.Is(err, validation.ErrMissingParams) || errors.Is(err, validation.ErrInvalidParams) {
		return models.ErrorObject{Code: JSONRPCErrorInvalidParams.Code, Message: err.Error()}
	}

	var ve *validation.Error
	if errors.As(err, &ve) {
		return models.ErrorObject{Code: JSONRPCErrorInvalidParams.Code, Message: ve.Error()}
	}

	return models.ErrorObject{Code: JSONRPCErrorServerError.Code, Message: err.Error()}
}

func sendResponse(s *melody.Session, id uuid.UUID, result any) error {
	log.Debug().Interface("result", result).Msg("sending response")

	resp := models.ResponseObject{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("error marshalling response: %w", err)
	}

	if err := s.Write(data); err != nil {
		return fmt.Errorf("error writing response: %w", err)
	}
	return nil
}

func sendError(s *melody.Session, id uuid.UUID, errObj models.ErrorObject) error {
	log.Debug().Int("code", errObj.Code).Str("message", errObj.Message).Msg("sending error")

	resp := models.ResponseErrorObject{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &errObj,
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("error marshalling error response: %w", err)
	}

	if err := s.Write(data); err != nil {
		return fmt.Errorf("error writing error response: %w", err)
	}
	return nil
}

func handleResponse(resp models.ResponseObject) error {
	log.Debug().Interface("response", resp).Msg("received response")
	return nil
}

func broadcastNotifications(
	sess *session.Session,
	m *melody.Melody,
	notifications <-chan models.Notification,
) {
	for {
		select {
		case <-sess.GetContext().Done():
			log.Debug().Msg("stopping API notification broadcast")
			return
		case notif, ok := <-notifications:
			if !ok {
				return
			}

			req := models.RequestObject{
				JSONRPC: "2.0",
				Method:  notif.Method,
			}
			if notif.Params != nil {
				params, err := json.Marshal(notif.Params)
				if err != nil {
					log.Error().Err(err).Msg("marshalling notification params")
					continue
				}
				req.Params = params
			}

			data, err := json.Marshal(req)
			if err != nil {
				log.Error().Err(err).Msg("marshalling notification request")
				continue
			}

			err = m.Broadcast(data)
			if err != nil {
				log.Error().Err(err).Msg("broadcasting notification")
			}
		}
	}
}

func handleWSMessage(
	pl platforms.Platform,
	cfg *config.Instance,
	sess *session.Session,
	menuQueue chan<- session.MenuRequest,
	db *database.Database,
	ach *achievements.Manager,
) func(s *melody.Session, msg []byte) {
	return func(s *melody.Session, msg []byte) {
		// ping command for heartbeat operation
		if bytes.Equal(msg, []byte("ping")) {
			err := s.Write([]byte("pong"))
			if err != nil {
				log.Error().Err(err).Msg("sending pong")
			}
			return
		}

		if !json.Valid(msg) {
			log.Error().Msg("data not valid json")
			err := sendError(s, uuid.Nil, JSONRPCErrorParseError)
			if err != nil {
				log.Error().Err(err).Msg("error sending error response")
			}
			return
		}

		// try parse a request first, which has a method field
		var req models.RequestObject
		err := json.Unmarshal(msg, &req)

		if err == nil && req.JSONRPC != "2.0" {
			log.Error().Str("jsonrpc", req.JSONRPC).Msg("unsupported payload version")
			sendErr := sendError(s, maybeUUID(req), JSONRPCErrorInvalidRequest)
			if sendErr != nil {
				log.Error().Err(sendErr).Msg("error sending error response")
			}
			return
		}

		if err == nil && req.Method != "" {
			if req.ID == nil {
				// request is notification
				log.Info().Str("method", req.Method).Msg("received notification, ignoring")
				return
			}

			resp, handleErr := handleRequest(requests.RequestEnv{
				Platform:     pl,
				Config:       cfg,
				Session:      sess,
				Database:     db,
				Achievements: ach,
				MenuQueue:    menuQueue,
				IsLocal:      middleware.IsLoopbackAddr(s.Request.RemoteAddr),
			}, req)
			if handleErr != nil {
				sendErr := sendError(s, *req.ID, errorObjectFor(handleErr))
				if sendErr != nil {
					log.Error().Err(sendErr).Msg("error sending error response")
				}
				return
			}

			sendErr := sendResponse(s, *req.ID, resp)
			if sendErr != nil {
				log.Error().Err(sendErr).Msg("error sending response")
			}
			return
		}

		// otherwise try parse a response, which has an id field
		var resp models.ResponseObject
		err = json.Unmarshal(msg, &resp)
		if err == nil && resp.ID != uuid.Nil {
			err := handleResponse(resp)
			if err != nil {
				log.Error().Err(err).Msg("error handling response")
			}
			return
		}

		log.Error().Err(err).Msg("message does not match known types")
		err = sendError(s, uuid.Nil, JSONRPCErrorInvalidRequest)
		if err != nil {
			log.Error().Err(err).Msg("error sending error response")
		}
	}
}

// handleRESTRequest adapts a method handler to a plain HTTP endpoint for
// clients that do not speak the WebSocket protocol. It bypasses the
// local-only gate, so only methods safe for remote clients get mounted.
func handleRESTRequest(
	fn func(requests.RequestEnv) (any, error),
	pl platforms.Platform,
	cfg *config.Instance,
	sess *session.Session,
	menuQueue chan<- session.MenuRequest,
	db *database.Database,
	ach *achievements.Manager,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env := requests.RequestEnv{
			Platform:     pl,
			Config:       cfg,
			Session:      sess,
			Database:     db,
			Achievements: ach,
			MenuQueue:    menuQueue,
			ID:           uuid.New(),
			IsLocal:      middleware.IsLoopbackAddr(r.RemoteAddr),
		}

		resp, err := fn(env)
		if err != nil {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("rest request error")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(resp)
		if err != nil {
			log.Error().Err(err).Msg("encoding rest response")
		}
	}
}

// Start runs the API server on the configured port until the session
// context is cancelled. It blocks, so run it on its own goroutine.
func Start(
	pl platforms.Platform,
	cfg *config.Instance,
	sess *session.Session,
	menuQueue chan<- session.MenuRequest,
	db *database.Database,
	ach *achievements.Manager,
	notifications <-chan models.Notification,
) {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.NoCache)
	r.Use(chimiddleware.Timeout(config.ApiRequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{},
	}))

	rateLimiter := middleware.NewIPRateLimiter()
	rateLimiter.StartCleanup(sess.GetContext())

	m := melody.New()
	m.Upgrader.CheckOrigin = func(_ *http.Request) bool { return true }
	go broadcastNotifications(sess, m, notifications)

	m.HandleMessage(middleware.WebSocketRateLimitHandler(
		rateLimiter,
		handleWSMessage(pl, cfg, sess, menuQueue, db, ach),
	))

	wsUpgrade := func(w http.ResponseWriter, r *http.Request) {
		err := m.HandleRequest(w, r)
		if err != nil {
			log.Error().Err(err).Msg("handling websocket request")
		}
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.HTTPRateLimitMiddleware(rateLimiter))

		r.Get("/api", wsUpgrade)
		r.Get("/api/v0.1", wsUpgrade)

		r.Post("/api/menu/open", handleRESTRequest(methods.HandleMenuOpen, pl, cfg, sess, menuQueue, db, ach))
		r.Post("/api/menu/close", handleRESTRequest(methods.HandleMenuClose, pl, cfg, sess, menuQueue, db, ach))
		r.Get("/api/status", handleRESTRequest(methods.HandleStatus, pl, cfg, sess, menuQueue, db, ach))
		r.Get("/api/version", handleRESTRequest(methods.HandleVersion, pl, cfg, sess, menuQueue, db, ach))
		r.Get("/api/achievements", handleRESTRequest(methods.HandleAchievements, pl, cfg, sess, menuQueue, db, ach))
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ApiPort()),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-sess.GetContext().Done()
		log.Debug().Msg("shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := m.Close()
		if err != nil {
			log.Debug().Err(err).Msg("closing websocket sessions")
		}
		err = srv.Shutdown(shutdownCtx)
		if err != nil {
			log.Error().Err(err).Msg("error shutting down API server")
		}
	}()

	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("error starting API server")
	}
}
