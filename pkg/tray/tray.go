package tray

import (
	"context"

	"github.com/getlantern/systray"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battpanel/pkg/events"
	"github.com/charlie0129/battpanel/pkg/format"
	"github.com/charlie0129/battpanel/pkg/panel"
)

// Controller receives the user's actions. panel.Panel implements it.
type Controller interface {
	ToggleColor()
	SetVisible(visible bool)
}

// Run shows the panel in the system tray until ctx is done, the stream
// closes or the user quits. It must be called from the main goroutine.
func Run(ctx context.Context, stream <-chan events.Event, ctrl Controller, language string) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	onReady := func() {
		systray.SetTitle("🔋")
		systray.SetTooltip("battpanel")

		localizer := format.NewLocalizer(language)
		mColor := systray.AddMenuItemCheckbox("Colour", "Colour the battery level", false)
		systray.AddSeparator()

		m := newMenu(
			func(title string) item {
				it := systray.AddMenuItem(title, "")
				it.Disable()
				return it
			},
			systray.AddSeparator,
			systray.SetTitle,
			mColor,
			localizer,
		)
		mQuit := systray.AddMenuItem("Quit", "Quit battpanel")

		go func() {
			<-ctx.Done()
			systray.Quit()
		}()

		go func() {
			for {
				select {
				case <-mColor.ClickedCh:
					ctrl.ToggleColor()
				case <-mQuit.ClickedCh:
					cancel()
					return
				case <-ctx.Done():
					return
				}
			}
		}()

		go func() {
			defer cancel()
			mirror := &panel.Mirror{}
			for ev := range stream {
				if err := mirror.Apply(ev); err != nil {
					logrus.WithError(err).Warn("failed to apply panel event")
					continue
				}
				m.render(mirror)
			}
		}()

		// The menu is only populated while it is shown.
		ctrl.SetVisible(true)
	}

	onExit := func() {
		ctrl.SetVisible(false)
		logrus.Info("tray exiting")
	}

	systray.Run(onReady, onExit)
}
