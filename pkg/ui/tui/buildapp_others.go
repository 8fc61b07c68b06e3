//go:build !linux

package tui

import "github.com/rivo/tview"

// tryRunApp runs the application directly. The overlay console fallback
// only exists on Linux targets.
func tryRunApp(
	app *tview.Application,
	_ func() (*tview.Application, error),
) error {
	return app.Run()
}
