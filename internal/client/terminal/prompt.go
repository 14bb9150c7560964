// Package terminal adapts the foreground client to an interactive terminal:
// a huh confirm form stands in for the permission prompt and lipgloss renders
// the status banners.
package terminal

import (
	"context"
	"errors"
	"sync"

	"fulfillmentpro-push/internal/client/display"

	"github.com/charmbracelet/huh"
)

// Prompt keeps the permission decision for the lifetime of the process.
type Prompt struct {
	mu      sync.Mutex
	state   display.Permission
	confirm func(ctx context.Context, allow *bool) error
}

func NewPrompt(initial display.Permission) *Prompt {
	if initial == "" {
		initial = display.PermissionDefault
	}
	return &Prompt{state: initial, confirm: runConfirm}
}

func (p *Prompt) Current() display.Permission {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Request asks the operator. Aborting the form (esc / ctrl+c) dismisses the
// prompt and leaves the state undecided.
func (p *Prompt) Request(ctx context.Context) (display.Permission, error) {
	var allow bool
	err := p.confirm(ctx, &allow)
	if errors.Is(err, huh.ErrUserAborted) {
		return p.Current(), nil
	}
	if err != nil {
		return p.Current(), err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if allow {
		p.state = display.PermissionGranted
	} else {
		p.state = display.PermissionDenied
	}
	return p.state, nil
}

func runConfirm(ctx context.Context, allow *bool) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(display.AppName + " wants to show notifications").
				Description("Order, verification and worker alerts are delivered as push notifications.").
				Affirmative("Allow").
				Negative("Block").
				Value(allow),
		),
	).RunWithContext(ctx)
}
