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

package broker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/IntermezzoProject/intermezzo/pkg/api/models"
	"github.com/stretchr/testify/assert"
)

func TestNewBroker(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := make(chan models.Notification)
	b := NewBroker(ctx, source)

	assert.NotNil(t, b)
	assert.NotNil(t, b.subscribers)
	assert.Equal(t, 0, b.nextID)
}

func TestBrokerSubscribe(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := make(chan models.Notification)
	b := NewBroker(ctx, source)

	ch, id := b.Subscribe(10)

	assert.NotNil(t, ch)
	assert.Equal(t, 0, id)
	assert.Len(t, b.subscribers, 1)

	ch2, id2 := b.Subscribe(20)

	assert.NotNil(t, ch2)
	assert.Equal(t, 1, id2)
	assert.Len(t, b.subscribers, 2)
}

func TestBrokerUnsubscribe(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := make(chan models.Notification)
	b := NewBroker(ctx, source)

	ch, id := b.Subscribe(10)

	b.Unsubscribe(id)

	assert.Empty(t, b.subscribers)

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed")

	// Second unsubscribe is a no-op.
	b.Unsubscribe(id)
}

func TestBrokerBroadcastToMultipleSubscribers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := make(chan models.Notification, 10)
	b := NewBroker(ctx, source)
	b.Start()

	sub1, _ := b.Subscribe(10)
	sub2, _ := b.Subscribe(10)
	sub3, _ := b.Subscribe(10)

	notif := models.Notification{
		Method: models.NotificationMenuOpened,
	}

	source <- notif

	received1 := <-sub1
	received2 := <-sub2
	received3 := <-sub3

	assert.Equal(t, notif.Method, received1.Method)
	assert.Equal(t, notif.Method, received2.Method)
	assert.Equal(t, notif.Method, received3.Method)
}

func TestBrokerSlowConsumerDoesNotBlockFastConsumer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := make(chan models.Notification, 100)
	b := NewBroker(ctx, source)
	b.Start()

	fastConsumer, _ := b.Subscribe(10)

	// Slow consumer with a tiny buffer that fills up immediately.
	_, _ = b.Subscribe(2)

	sentCount := 20
	for range sentCount {
		source <- models.Notification{Method: models.NotificationStateSaved}
	}

	time.Sleep(50 * time.Millisecond)

	fastReceived := 0
	fastTimeout := time.After(100 * time.Millisecond)
	for {
		select {
		case <-fastConsumer:
			fastReceived++
		case <-fastTimeout:
			goto checkResults
		}
	}

checkResults:
	assert.Greater(t, fastReceived, 5, "fast consumer should have received several notifications")
}

func TestBrokerNonBlockingSendDropsWhenFull(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := make(chan models.Notification, 100)
	b := NewBroker(ctx, source)
	b.Start()

	subscriber, _ := b.Subscribe(2)

	// Never read from the subscriber so its buffer stays full.
	for range 10 {
		source <- models.Notification{Method: models.NotificationGameStarted}
	}

	time.Sleep(100 * time.Millisecond)

	received := 0
	timeout := time.After(50 * time.Millisecond)
drainLoop:
	for {
		select {
		case <-subscriber:
			received++
		case <-timeout:
			break drainLoop
		}
	}

	assert.LessOrEqual(t, received, 3, "should have dropped excess notifications")
}

func TestBrokerContextCancellationStopsBroker(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	source := make(chan models.Notification, 10)
	b := NewBroker(ctx, source)
	b.Start()

	subscriber, _ := b.Subscribe(10)

	cancel()

	time.Sleep(50 * time.Millisecond)

	_, ok := <-subscriber
	assert.False(t, ok, "subscriber channel should be closed on context cancellation")
}

func TestBrokerSourceChannelClosureStopsBroker(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := make(chan models.Notification, 10)
	b := NewBroker(ctx, source)
	b.Start()

	subscriber, _ := b.Subscribe(10)

	close(source)

	time.Sleep(50 * time.Millisecond)

	_, ok := <-subscriber
	assert.False(t, ok, "subscriber channel should be closed when source closes")
}

func TestBrokerConcurrentSubscribeUnsubscribe(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := make(chan models.Notification, 100)
	b := NewBroker(ctx, source)
	b.Start()

	var wg sync.WaitGroup
	subscriberCount := 10

	for range subscriberCount {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, id := b.Subscribe(5)
			time.Sleep(10 * time.Millisecond)
			b.Unsubscribe(id)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 20 {
			source <- models.Notification{Method: models.NotificationMenuClosed}
			time.Sleep(5 * time.Millisecond)
		}
	}()

	wg.Wait()
}

func TestBrokerSubscriberReceivesInOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := make(chan models.Notification, 100)
	b := NewBroker(ctx, source)
	b.Start()

	subscriber, _ := b.Subscribe(100)

	methods := []string{
		models.NotificationGameStarted,
		models.NotificationMenuOpened,
		models.NotificationStateSaved,
		models.NotificationMenuClosed,
		models.NotificationGameStopped,
	}
	for _, method := range methods {
		source <- models.Notification{Method: method}
	}

	for i, expectedMethod := range methods {
		notif := <-subscriber
		assert.Equal(t, expectedMethod, notif.Method, "notification %d should maintain order", i)
	}
}

func TestBrokerCarriesParamsThrough(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := make(chan models.Notification, 10)
	b := NewBroker(ctx, source)
	b.Start()

	subscriber, _ := b.Subscribe(10)

	notifications := []models.Notification{
		{Method: models.NotificationStateSaved, Params: models.StateSavedParams{Slot: 2, Description: "Checkpoint"}},
		{Method: models.NotificationGameStarted, Params: models.GameResponse{Domain: "snes", Name: "Terranigma"}},
		{Method: models.NotificationMenuClosed},
	}

	for _, notif := range notifications {
		source <- notif
	}

	for i := range notifications {
		received := <-subscriber
		assert.Equal(t, notifications[i].Method, received.Method)
		assert.Equal(t, notifications[i].Params, received.Params)
	}
}
