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

package retroarch

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/IntermezzoProject/intermezzo/pkg/config"
)

const (
	cmdGetStatus     = "GET_STATUS"
	cmdGetVersion    = "VERSION"
	cmdSaveStateSlot = "SAVE_STATE_SLOT"
	cmdLoadStateSlot = "LOAD_STATE_SLOT"
	cmdQuit          = "QUIT"

	// replyTimeout bounds how long a query waits for the frontend to answer.
	replyTimeout = 2 * time.Second
	// replyBufferSize fits every reply the frontend sends, status lines
	// included.
	replyBufferSize = 4096
)

// CommandClient speaks RetroArch's UDP network command interface. Every
// command is a single datagram and queries read a single datagram back, so
// the client dials a fresh connection per call and holds no state.
type CommandClient struct {
	addr    string
	timeout time.Duration
}

// NewCommandClient returns a client for the network command interface at
// addr. An empty addr uses the stock port on localhost.
func NewCommandClient(addr string) *CommandClient {
	if addr == "" {
		addr = config.DefaultCoreAddr
	}
	return &CommandClient{
		addr:    addr,
		timeout: replyTimeout,
	}
}

// Addr returns the interface address the client sends to.
func (c *CommandClient) Addr() string {
	return c.addr
}

func (c *CommandClient) dial(ctx context.Context) (net.Conn, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "udp", c.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial frontend at %s: %w", c.addr, err)
	}
	return conn, nil
}

// Send fires a command that expects no reply.
func (c *CommandClient) Send(ctx context.Context, command string) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close command connection")
		}
	}()

	_, err = conn.Write([]byte(command))
	if err != nil {
		return fmt.Errorf("failed to send %s: %w", command, err)
	}
	return nil
}

// Query sends a command and waits for the reply datagram. The wait is capped
// by the client timeout or the context deadline, whichever comes first.
func (c *CommandClient) Query(ctx context.Context, command string) (string, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close command connection")
		}
	}()

	_, err = conn.Write([]byte(command))
	if err != nil {
		return "", fmt.Errorf("failed to send %s: %w", command, err)
	}

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	err = conn.SetReadDeadline(deadline)
	if err != nil {
		return "", fmt.Errorf("failed to set read deadline: %w", err)
	}

	buf := make([]byte, replyBufferSize)
	n, err := conn.Read(buf)
	if err != nil {
		return "", fmt.Errorf("no reply to %s: %w", command, err)
	}
	return strings.TrimSpace(string(buf[:n])), nil
}

// Status is the decoded reply to a GET_STATUS query.
type Status struct {
	// Core is the name of the loaded libretro core.
	Core string
	// Content is the loaded content's name without its file extension. State
	// files on disk share this base name.
	Content string
	// CRC32 is the content checksum the frontend reports, possibly empty.
	CRC32   string
	Playing bool
	Paused  bool
}

// ContentLoaded reports whether any game is loaded, running or paused.
func (s Status) ContentLoaded() bool {
	return s.Playing || s.Paused
}

// Status queries the frontend for what is currently running.
func (c *CommandClient) Status(ctx context.Context) (Status, error) {
	reply, err := c.Query(ctx, cmdGetStatus)
	if err != nil {
		return Status{}, err
	}
	return parseStatus(reply)
}

// Version queries the frontend's version string.
func (c *CommandClient) Version(ctx context.Context) (string, error) {
	return c.Query(ctx, cmdGetVersion)
}

// parseStatus decodes a GET_STATUS reply. The frontend answers with
// "GET_STATUS CONTENTLESS" when nothing is loaded, otherwise with
// "GET_STATUS PLAYING core,content,crc32=..." or the PAUSED equivalent.
func parseStatus(reply string) (Status, error) {
	rest, found := strings.CutPrefix(reply, cmdGetStatus)
	if !found {
		return Status{}, fmt.Errorf("unexpected status reply: %q", reply)
	}

	state, info, _ := strings.Cut(strings.TrimSpace(rest), " ")
	status := Status{}
	switch state {
	case "CONTENTLESS":
		return status, nil
	case "PLAYING":
		status.Playing = true
	case "PAUSED":
		status.Paused = true
	default:
		return Status{}, fmt.Errorf("unexpected status reply: %q", reply)
	}

	parts := strings.Split(info, ",")
	if len(parts) > 0 {
		status.Core = strings.TrimSpace(parts[0])
	}
	if len(parts) > 1 {
		status.Content = strings.TrimSpace(parts[1])
	}
	for _, part := range parts[2:] {
		if value, ok := strings.CutPrefix(strings.TrimSpace(part), "crc32="); ok {
			status.CRC32 = value
		}
	}
	return status, nil
}
