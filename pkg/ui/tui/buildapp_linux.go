package tui

import (
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// tryRunApp runs the application and, when the controlling terminal is not
// usable (service started without one), rebuilds it against the overlay
// console so the menu still renders on the box's own display.
func tryRunApp(
	app *tview.Application,
	builder func() (*tview.Application, error),
) error {
	if err := app.Run(); err != nil {
		retryApp, err := builder()
		if err != nil {
			return err
		}

		ttyPath := os.Getenv("INTERMEZZO_MENU_TTY")
		if ttyPath == "" {
			ttyPath = "/dev/tty2"
		}

		tty, err := tcell.NewDevTtyFromDev(ttyPath)
		if err != nil {
			return err
		}

		screen, err := tcell.NewTerminfoScreenFromTty(tty)
		if err != nil {
			return err
		}

		retryApp.SetScreen(screen)

		if err := retryApp.Run(); err != nil {
			return err
		}
	}
	return nil
}
