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
	"testing"

	"github.com/IntermezzoProject/intermezzo/pkg/api/models/requests"
	"github.com/IntermezzoProject/intermezzo/pkg/session"
	"github.com/IntermezzoProject/intermezzo/pkg/testing/mocks"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMenuOpenQueuesRequest(t *testing.T) {
	t.Parallel()

	mockPlatform := mocks.NewMockPlatform()
	sess, _ := session.NewSession(mockPlatform, clockwork.NewFakeClock())
	queue := make(chan session.MenuRequest, 1)

	env := requests.RequestEnv{
		Platform:  mockPlatform,
		Session:   sess,
		MenuQueue: queue,
	}

	result, err := HandleMenuOpen(env)
	require.NoError(t, err)
	assert.Equal(t, NoContent{}, result)

	select {
	case req := <-queue:
		assert.Equal(t, "api", req.Source)
	default:
		t.Fatal("expected a queued menu request")
	}
}

func TestHandleMenuOpenWhileAlreadyOpen(t *testing.T) {
	t.Parallel()

	mockPlatform := mocks.NewMockPlatform()
	sess, _ := session.NewSession(mockPlatform, clockwork.NewFakeClock())
	require.True(t, sess.MenuOpened())

	queue := make(chan session.MenuRequest, 1)
	env := requests.RequestEnv{
		Platform:  mockPlatform,
		Session:   sess,
		MenuQueue: queue,
	}

	_, err := HandleMenuOpen(env)
	require.ErrorIs(t, err, ErrMenuAlreadyOpen)
	assert.Empty(t, queue)
}

func TestHandleMenuOpenWhilePending(t *testing.T) {
	t.Parallel()

	mockPlatform := mocks.NewMockPlatform()
	sess, _ := session.NewSession(mockPlatform, clockwork.NewFakeClock())

	// A full queue means a request is already waiting on the service loop.
	queue := make(chan session.MenuRequest, 1)
	queue <- session.MenuRequest{Source: "test"}

	env := requests.RequestEnv{
		Platform:  mockPlatform,
		Session:   sess,
		MenuQueue: queue,
	}

	_, err := HandleMenuOpen(env)
	require.ErrorIs(t, err, ErrMenuPending)
}

func TestHandleMenuCloseNotOpen(t *testing.T) {
	t.Parallel()

	mockPlatform := mocks.NewMockPlatform()
	sess, _ := session.NewSession(mockPlatform, clockwork.NewFakeClock())

	env := requests.RequestEnv{
		Platform: mockPlatform,
		Session:  sess,
	}

	_, err := HandleMenuClose(env)
	require.ErrorIs(t, err, ErrMenuNotOpen)
}

func TestHandleMenuCloseInvokesCloser(t *testing.T) {
	t.Parallel()

	mockPlatform := mocks.NewMockPlatform()
	sess, _ := session.NewSession(mockPlatform, clockwork.NewFakeClock())

	require.True(t, sess.MenuOpened())
	closed := false
	sess.SetMenuCloser(func() { closed = true })

	env := requests.RequestEnv{
		Platform: mockPlatform,
		Session:  sess,
	}

	result, err := HandleMenuClose(env)
	require.NoError(t, err)
	assert.Equal(t, NoContent{}, result)
	assert.True(t, closed, "menu closer should have been invoked")
}
