package fcm

import (
	"context"
	"fmt"

	"fulfillmentpro-push/internal/client/display"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Client wraps Firebase Cloud Messaging functionality
type Client struct {
	messagingClient *messaging.Client
	log             *zap.Logger
}

// NewClient creates a new FCM client using the provided credentials file
func NewClient(ctx context.Context, credentialsFile string, log *zap.Logger) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	log = log.Named("fcm")
	log.Info("client initialized")
	return &Client{
		messagingClient: messagingClient,
		log:             log,
	}, nil
}

// NotificationData contains the data to send in a push notification
type NotificationData struct {
	Title string
	Body  string
	Data  map[string]string // data.type drives client-side routing
}

// Result summarises a multicast send.
type Result struct {
	SuccessCount int
	FailureCount int
	// StaleTokens were rejected as unregistered or malformed and should be
	// forgotten.
	StaleTokens []string
}

// BuildMulticast builds the message for tokens. The Webpush block carries the
// same presentation the background notifier derives on the device.
func BuildMulticast(tokens []string, n NotificationData) *messaging.MulticastMessage {
	shown := display.Background(display.Message{
		Notification: &display.Payload{Title: n.Title, Body: n.Body},
		Data:         n.Data,
	})

	var actions []*messaging.WebpushNotificationAction
	for _, a := range shown.Actions {
		actions = append(actions, &messaging.WebpushNotificationAction{Action: a.Action, Title: a.Title})
	}

	return &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data: n.Data,
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title:              shown.Title,
				Body:               shown.Body,
				Icon:               shown.Icon,
				Badge:              shown.Badge,
				Tag:                shown.Tag,
				RequireInteraction: shown.RequireInteraction,
				Actions:            actions,
			},
		},
	}
}

// SendToDevices sends a push notification to multiple device tokens
func (c *Client) SendToDevices(ctx context.Context, tokens []string, n NotificationData) (*Result, error) {
	if len(tokens) == 0 {
		return &Result{}, nil
	}

	response, err := c.messagingClient.SendEachForMulticast(ctx, BuildMulticast(tokens, n))
	if err != nil {
		return nil, fmt.Errorf("failed to send FCM multicast message: %w", err)
	}

	c.log.Info("multicast sent",
		zap.Int("success", response.SuccessCount),
		zap.Int("failure", response.FailureCount))

	result := &Result{SuccessCount: response.SuccessCount, FailureCount: response.FailureCount}
	for i, resp := range response.Responses {
		if resp.Success {
			continue
		}
		c.log.Warn("send to token failed", zap.String("token", redact(tokens[i])), zap.Error(resp.Error))
		if messaging.IsUnregistered(resp.Error) || messaging.IsInvalidArgument(resp.Error) {
			result.StaleTokens = append(result.StaleTokens, tokens[i])
		}
	}
	return result, nil
}

func redact(token string) string {
	if len(token) <= 20 {
		return token
	}
	return token[:20] + "..."
}
