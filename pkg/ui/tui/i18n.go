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

package tui

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// supportedLanguages lists the locales the menu ships strings for. The
// first entry is the fallback for unknown tags.
var supportedLanguages = []language.Tag{
	language.English,
	language.German,
}

var languageMatcher = language.NewMatcher(supportedLanguages)

// NewPrinter returns a message printer for a BCP 47 tag such as "de" or
// "de-AT". Unknown or malformed tags fall back to English. English strings
// are the catalog keys themselves, so an English printer never misses.
func NewPrinter(lang string) *message.Printer {
	tag, _ := language.MatchStrings(languageMatcher, lang)
	return message.NewPrinter(tag)
}

func mustSetString(tag language.Tag, key, msg string) {
	if err := message.SetString(tag, key, msg); err != nil {
		panic(err)
	}
}

//nolint:funlen // one entry per UI string
func init() {
	for key, msg := range map[string]string{
		// Main menu buttons.
		"Resume":             "Fortsetzen",
		"Load":               "Laden",
		"Save":               "Speichern",
		"Options":            "Optionen",
		"Help":               "Hilfe",
		"About":              "Über",
		"Return to Launcher": "Zurück zum Launcher",
		"Launcher":           "Launcher",
		"Quit":               "Beenden",

		// Main menu help line.
		"Close the menu and keep playing":            "Menü schließen und weiterspielen",
		"Load a saved game":                          "Einen Spielstand laden",
		"Save your game":                             "Das Spiel speichern",
		"Change game, audio and platform settings":   "Spiel-, Audio- und Plattformeinstellungen ändern",
		"Show help for this game":                    "Hilfe zu diesem Spiel anzeigen",
		"About Intermezzo":                           "Über Intermezzo",
		"Exit to the game launcher":                  "Zum Spiele-Launcher zurückkehren",
		"Exit the game":                              "Das Spiel beenden",
		"Not supported by the running core":          "Vom laufenden Kern nicht unterstützt",

		// Save and load gate messages.
		"This game does not support saving from the menu. Use in-game interface": "Dieses Spiel unterstützt kein Speichern über das Menü. Bitte die spieleigene Oberfläche verwenden",
		"This game cannot be saved at this time. Please try again later":         "Dieses Spiel kann gerade nicht gespeichert werden. Bitte später erneut versuchen",
		"Failed to save game (%s)! Please consult the README for basic information, and for instructions on how to obtain further assistance.": "Speichern fehlgeschlagen (%s)! Grundlegende Informationen und Hinweise auf weitere Unterstützung finden sich in der README.",
		"This game does not support loading from the menu. Use in-game interface": "Dieses Spiel unterstützt kein Laden über das Menü. Bitte die spieleigene Oberfläche verwenden",
		"This game cannot be loaded at this time. Please try again later":         "Dieses Spiel kann gerade nicht geladen werden. Bitte später erneut versuchen",
		"Sorry, this core does not currently provide in-game help. Please consult the README for basic information, and for instructions on how to obtain further assistance.": "Dieser Kern bietet leider keine spielinterne Hilfe. Grundlegende Informationen und Hinweise auf weitere Unterstützung finden sich in der README.",

		// Save and load choosers.
		"Save game:":       "Spiel speichern:",
		"Load game:":       "Spiel laden:",
		"New slot":         "Neuer Spielstand",
		"Slot %d":          "Platz %d",
		"Description:":     "Beschreibung:",
		"OK":               "OK",
		"Cancel":           "Abbrechen",
		"(no saved games)": "(keine Spielstände)",
		"Saved: %s":        "Gespeichert: %s",

		// Config dialog tabs.
		"Game":         "Spiel",
		"Audio":        "Audio",
		"Keymaps":      "Tastenbelegung",
		"Backend":      "Backend",
		"Achievements": "Errungenschaften",
		"Statistics":   "Statistiken",

		// Audio tab.
		"Music volume":  "Musiklautstärke",
		"SFX volume":    "Effektlautstärke",
		"Speech volume": "Sprachlautstärke",
		"Subtitles":     "Untertitel",
		"Mute speech":   "Sprache stummschalten",
		"Talk speed":    "Sprechgeschwindigkeit",

		"Background music volume":             "Lautstärke der Hintergrundmusik",
		"Sound effect volume":                 "Lautstärke der Soundeffekte",
		"Voice and dialogue volume":           "Lautstärke von Stimmen und Dialogen",
		"Show subtitles for spoken dialogue":  "Untertitel für gesprochene Dialoge anzeigen",
		"Turn off all speech audio":           "Sämtliche Sprachausgabe abschalten",
		"How long subtitles stay on screen":   "Wie lange Untertitel angezeigt werden",

		// Achievements tab.
		"Achievements unlocked: %d / %d": "Freigeschaltete Errungenschaften: %d / %d",
		"Hidden achievement":             "Verborgene Errungenschaft",
	} {
		mustSetString(language.German, key, msg)
	}
}
