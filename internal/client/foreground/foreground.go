// Package foreground implements the in-page push client: it asks for
// notification permission, registers the delivery token with the backend and
// renders messages that arrive while the page has focus.
package foreground

import (
	"context"
	"time"

	"fulfillmentpro-push/internal/client/display"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const (
	SuccessBannerTTL      = 3 * time.Second
	DeniedBannerTTL       = 5 * time.Second
	NotificationAutoClose = 10 * time.Second

	SuccessText = "✅ Push notifications enabled!"
	DeniedText  = "🚫 Notifications blocked. Enable in browser settings."
)

// Permissions is the host permission state.
type Permissions interface {
	Current() display.Permission
	// Request prompts the user. It returns the resulting state; a dismissed
	// prompt leaves the state at default.
	Request(ctx context.Context) (display.Permission, error)
}

// TokenSource issues delivery tokens from the messaging provider.
type TokenSource interface {
	Token(ctx context.Context, vapidKey string) (string, error)
}

type BannerKind int

const (
	BannerSuccess BannerKind = iota
	BannerDenied
)

type Banner interface {
	Remove()
}

// Banners renders transient status banners in the page.
type Banners interface {
	Show(kind BannerKind, text string) Banner
}

// Display is a notification currently on screen.
type Display interface {
	OnClick(fn func())
	Close() error
}

// Sink hands notifications to the host notification subsystem.
type Sink interface {
	Show(ctx context.Context, n display.Notification) (Display, error)
}

type Window interface {
	Focus()
}

// Navigator switches the host page to another view.
type Navigator interface {
	ShowPage(view string)
}

// NopNavigator is used when the host page has no navigation hook.
type NopNavigator struct{}

func (NopNavigator) ShowPage(string) {}

type nopWindow struct{}

func (nopWindow) Focus() {}

// Options configures a Client. Permissions, Tokens, Registrar, Banners and
// Sink are required; the rest have defaults.
type Options struct {
	Permissions Permissions
	Tokens      TokenSource
	Registrar   Registrar
	Banners     Banners
	Sink        Sink
	Window      Window
	Navigator   Navigator
	Clock       clockwork.Clock
	Logger      *zap.Logger

	VapidKey  string
	Platform  string
	UserAgent string
}

type Client struct {
	permissions Permissions
	tokens      TokenSource
	registrar   Registrar
	banners     Banners
	sink        Sink
	window      Window
	navigator   Navigator
	clock       clockwork.Clock
	log         *zap.Logger

	vapidKey    string
	deviceLabel string
}

func New(opts Options) *Client {
	c := &Client{
		permissions: opts.Permissions,
		tokens:      opts.Tokens,
		registrar:   opts.Registrar,
		banners:     opts.Banners,
		sink:        opts.Sink,
		window:      opts.Window,
		navigator:   opts.Navigator,
		clock:       opts.Clock,
		log:         opts.Logger,
		vapidKey:    opts.VapidKey,
		deviceLabel: DeviceLabel(opts.Platform, opts.UserAgent),
	}
	if c.window == nil {
		c.window = nopWindow{}
	}
	if c.navigator == nil {
		c.navigator = NopNavigator{}
	}
	if c.clock == nil {
		c.clock = clockwork.NewRealClock()
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	c.log = c.log.Named("foreground")
	return c
}

// RequestPermission runs the whole enable-push flow. It returns the delivery
// token only when permission was granted, a token was issued and the backend
// accepted the registration. Every failure is logged and reported as ok=false.
func (c *Client) RequestPermission(ctx context.Context) (token string, ok bool) {
	c.log.Info("requesting notification permission")

	permission := c.permissions.Current()
	if permission == display.PermissionDefault {
		var err error
		permission, err = c.permissions.Request(ctx)
		if err != nil {
			c.log.Error("permission request failed", zap.Error(err))
			return "", false
		}
	}

	switch permission {
	case display.PermissionGranted:
		c.log.Info("notification permission granted")
	case display.PermissionDenied:
		c.log.Warn("notification permission denied")
		c.flash(BannerDenied, DeniedText, DeniedBannerTTL)
		return "", false
	default:
		c.log.Info("notification permission dismissed")
		return "", false
	}

	token, err := c.tokens.Token(ctx, c.vapidKey)
	if err != nil {
		c.log.Error("failed to obtain delivery token", zap.Error(err))
		return "", false
	}
	if token == "" {
		c.log.Error("no delivery token received")
		return "", false
	}
	c.log.Info("delivery token issued", zap.String("token", shorten(token)))

	if err := c.registrar.Register(ctx, Registration{Token: token, DeviceLabel: c.deviceLabel}); err != nil {
		c.log.Error("failed to register token with backend", zap.Error(err))
		return "", false
	}

	c.log.Info("push notifications enabled and registered")
	c.flash(BannerSuccess, SuccessText, SuccessBannerTTL)
	return token, true
}

func (c *Client) flash(kind BannerKind, text string, ttl time.Duration) {
	banner := c.banners.Show(kind, text)
	if banner == nil {
		return
	}
	c.clock.AfterFunc(ttl, banner.Remove)
}

// HandleMessage renders a message received while the page has focus. Nothing
// is shown unless permission is currently granted.
func (c *Client) HandleMessage(ctx context.Context, msg display.Message) {
	c.log.Info("foreground push notification received",
		zap.String("type", msg.Type()))

	if c.permissions.Current() != display.PermissionGranted {
		c.log.Debug("permission not granted, dropping notification")
		return
	}

	shown, err := c.sink.Show(ctx, display.Foreground(msg))
	if err != nil {
		c.log.Error("failed to show notification", zap.Error(err))
		return
	}

	shown.OnClick(func() {
		c.log.Info("notification clicked", zap.String("type", msg.Type()))
		c.window.Focus()
		if view, ok := display.View(msg); ok {
			c.navigator.ShowPage(view)
		}
		c.close(shown)
	})
	c.clock.AfterFunc(NotificationAutoClose, func() { c.close(shown) })
}

func (c *Client) close(d Display) {
	if err := d.Close(); err != nil {
		c.log.Debug("closing notification failed", zap.Error(err))
	}
}

// Run feeds messages from the provider's live channel into HandleMessage
// until the channel closes or ctx ends.
func (c *Client) Run(ctx context.Context, messages <-chan display.Message) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			c.HandleMessage(ctx, msg)
		}
	}
}

func shorten(token string) string {
	if len(token) <= 20 {
		return token
	}
	return token[:20] + "..."
}
