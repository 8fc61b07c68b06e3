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

package config

// DeviceID returns the unique ID for this install, generated on first save.
func (c *Instance) DeviceID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service.DeviceID
}

// ApiPort returns the TCP port for the control API.
func (c *Instance) ApiPort() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Service.ApiPort <= 0 {
		return DefaultApiPort
	}
	return c.vals.Service.ApiPort
}

// SetApiPort sets the TCP port for the control API.
func (c *Instance) SetApiPort(port int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Service.ApiPort = port
}

// MqttBroker returns the MQTT broker URI, empty if publishing is disabled.
func (c *Instance) MqttBroker() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service.MqttBroker
}

// MqttTopic returns the topic prefix for MQTT event publishing.
func (c *Instance) MqttTopic() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Service.MqttTopic == "" {
		return AppName
	}
	return c.vals.Service.MqttTopic
}

// MqttFilter returns the notification methods published over MQTT, empty
// meaning all of them.
func (c *Instance) MqttFilter() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service.MqttFilter
}

// DiscoveryEnabled reports whether the service advertises itself over mDNS.
func (c *Instance) DiscoveryEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service.Discovery
}

// DiscoveryInstanceName returns the configured mDNS instance name, empty
// when a generated one should be used.
func (c *Instance) DiscoveryInstanceName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service.DiscoveryName
}

// CoreCommand returns the process name of the emulation core the platform
// watches for liveness.
func (c *Instance) CoreCommand() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Service.CoreCommand == "" {
		return DefaultCoreCommand
	}
	return c.vals.Service.CoreCommand
}

// CoreAddr returns the UDP address of the core's network command interface.
func (c *Instance) CoreAddr() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Service.CoreAddr == "" {
		return DefaultCoreAddr
	}
	return c.vals.Service.CoreAddr
}

// LauncherCommand returns the shell command that restarts the platform's
// game launcher, empty when none is configured.
func (c *Instance) LauncherCommand() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service.LauncherCommand
}

// TelemetryEnabled reports whether opt-in crash reporting is active.
func (c *Instance) TelemetryEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Telemetry.Enabled
}

// SetTelemetryEnabled toggles opt-in crash reporting.
func (c *Instance) SetTelemetryEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Telemetry.Enabled = enabled
}

// TelemetryDsn returns the crash reporting DSN, empty for the default.
func (c *Instance) TelemetryDsn() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Telemetry.Dsn
}
