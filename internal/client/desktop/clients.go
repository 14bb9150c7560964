package desktop

import (
	"context"
	"strings"

	"fulfillmentpro-push/internal/client/background"

	"github.com/pkg/browser"
)

// Clients opens the dashboard in the system browser. A desktop session has no
// window it can enumerate, so MatchAll is always empty.
type Clients struct {
	baseURL string
	open    func(url string) error
}

func NewClients(baseURL string) *Clients {
	return &Clients{baseURL: strings.TrimRight(baseURL, "/"), open: browser.OpenURL}
}

func (c *Clients) MatchAll(ctx context.Context, opts background.MatchOptions) ([]background.WindowClient, error) {
	return nil, nil
}

func (c *Clients) OpenWindow(ctx context.Context, url string) (background.WindowClient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target := c.baseURL + url
	if err := c.open(target); err != nil {
		return nil, err
	}
	return browserWindow(target), nil
}

type browserWindow string

func (w browserWindow) URL() string { return string(w) }

func (w browserWindow) Focus(ctx context.Context) error { return nil }
