// Package background renders push messages delivered while no page has focus
// and routes notification clicks back to a window.
package background

import (
	"context"
	"strings"

	"fulfillmentpro-push/internal/client/display"
	"fulfillmentpro-push/internal/client/lifecycle"

	"go.uber.org/zap"
)

// Registration is the worker registration the notifier runs under.
type Registration interface {
	Scope() string
	ShowNotification(ctx context.Context, n display.Notification) error
}

type ClientType string

const (
	ClientTypeWindow ClientType = "window"
	ClientTypeAll    ClientType = "all"
)

type MatchOptions struct {
	Type                ClientType
	IncludeUncontrolled bool
}

// WindowClient is an open window of the application.
type WindowClient interface {
	URL() string
	Focus(ctx context.Context) error
}

// Clients enumerates and opens windows.
type Clients interface {
	MatchAll(ctx context.Context, opts MatchOptions) ([]WindowClient, error)
	OpenWindow(ctx context.Context, url string) (WindowClient, error)
}

// ClosableNotification is the notification a click event refers to.
type ClosableNotification interface {
	Close()
}

type ClickEvent struct {
	Notification ClosableNotification
	Action       string
}

type Notifier struct {
	registration Registration
	clients      Clients
	log          *zap.Logger
}

func New(registration Registration, clients Clients, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{
		registration: registration,
		clients:      clients,
		log:          log.Named("background"),
	}
}

// HandleMessage displays msg. The host must wait on the returned task before
// tearing the worker down.
func (n *Notifier) HandleMessage(ctx context.Context, msg display.Message) *lifecycle.Task {
	n.log.Info("received background message", zap.String("type", msg.Type()))

	notification := display.Background(msg)
	return lifecycle.Go(ctx, func(ctx context.Context) error {
		return n.registration.ShowNotification(ctx, notification)
	})
}

// HandleClick closes the clicked notification and focuses an open window in
// the registration scope, or opens one at the application root.
func (n *Notifier) HandleClick(ctx context.Context, ev ClickEvent) *lifecycle.Task {
	n.log.Info("notification clicked", zap.String("action", ev.Action))
	if ev.Notification != nil {
		ev.Notification.Close()
	}

	return lifecycle.Go(ctx, func(ctx context.Context) error {
		windows, err := n.clients.MatchAll(ctx, MatchOptions{Type: ClientTypeWindow, IncludeUncontrolled: true})
		if err != nil {
			return err
		}

		scope := n.registration.Scope()
		for _, w := range windows {
			if strings.Contains(w.URL(), scope) {
				n.log.Debug("focusing open window", zap.String("url", w.URL()))
				return w.Focus(ctx)
			}
		}

		n.log.Debug("no open window, opening a new one", zap.String("url", display.RootURL))
		_, err = n.clients.OpenWindow(ctx, display.RootURL)
		return err
	})
}
