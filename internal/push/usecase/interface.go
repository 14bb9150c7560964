package usecase

import (
	"context"
	"time"

	"fulfillmentpro-push/pkg/fcm"
)

// PushUsecase defines the push registration and delivery logic
type PushUsecase interface {
	// Subscribe registers a delivery token, replacing the label of a known one
	Subscribe(token, deviceLabel string) error

	// Unsubscribe forgets a delivery token
	Unsubscribe(token string) error

	// Broadcast pushes a notice to every registered token and mails it when
	// the e-mail fallback is enabled
	Broadcast(ctx context.Context, notice Notice) (*Result, error)

	// PruneStale forgets tokens that have not been re-registered within
	// maxAge and returns how many were removed
	PruneStale(maxAge time.Duration) (int64, error)
}

// Sender delivers to device tokens. Implemented by *fcm.Client.
type Sender interface {
	SendToDevices(ctx context.Context, tokens []string, n fcm.NotificationData) (*fcm.Result, error)
}

// Mailer delivers the e-mail fallback. Implemented by *mailer.Mailer.
type Mailer interface {
	Send(subject, body string) error
}

// Notice is an application event to fan out
type Notice struct {
	Title     string            `json:"title" binding:"required"`
	Body      string            `json:"body"`
	EmailBody string            `json:"email_body,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
}

// Result reports what a broadcast reached
type Result struct {
	PushSent      bool `json:"push_sent"`
	Devices       int  `json:"devices"`
	Delivered     int  `json:"delivered"`
	RemovedTokens int  `json:"removed_tokens"`
	EmailSent     bool `json:"email_sent"`
}
