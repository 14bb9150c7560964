// Package desktop shows push notifications as native desktop notifications.
package desktop

import (
	"context"

	"fulfillmentpro-push/internal/client/display"
	"fulfillmentpro-push/internal/client/foreground"

	"github.com/gen2brain/beeep"
)

type notifyFunc func(title, message, icon string) error

// Sink implements foreground.Sink and background.Registration.
type Sink struct {
	scope    string
	iconPath string
	notify   notifyFunc
	alert    notifyFunc
}

// NewSink returns a sink that renders through beeep. iconPath is a local file
// used in place of the web icon.
func NewSink(scope, iconPath string) *Sink {
	return &Sink{
		scope:    scope,
		iconPath: iconPath,
		notify:   func(title, message, icon string) error { return beeep.Notify(title, message, icon) },
		alert:    func(title, message, icon string) error { return beeep.Alert(title, message, icon) },
	}
}

func (s *Sink) Scope() string {
	return s.scope
}

// ShowNotification uses an alert, which also plays a sound, for
// notifications that require interaction.
func (s *Sink) ShowNotification(ctx context.Context, n display.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.RequireInteraction {
		return s.alert(n.Title, n.Body, s.iconPath)
	}
	return s.notify(n.Title, n.Body, s.iconPath)
}

func (s *Sink) Show(ctx context.Context, n display.Notification) (foreground.Display, error) {
	if err := s.ShowNotification(ctx, n); err != nil {
		return nil, err
	}
	return shown{}, nil
}

// shown is a fire-and-forget desktop notification. The desktop daemon owns
// its lifetime, so clicks are not reported back and Close has nothing to do.
type shown struct{}

func (shown) OnClick(func()) {}

func (shown) Close() error { return nil }
