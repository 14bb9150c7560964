// Package display holds the push message model shared by the foreground
// client, the background notifier and the server-side FCM builder, and the
// rules that turn a message into a notification.
package display

const (
	AppName     = "FulfillmentPro"
	DefaultBody = "New notification"
	DefaultTag  = "general"
	Icon        = "/icon-192.png"
	RootURL     = "/"
)

// Values carried in Message.Data["type"].
const (
	TypeNewOrder             = "new_order"
	TypeNeedsMapping         = "needs_mapping"
	TypeVerificationRequired = "verification_required"
	TypeTaskFailed           = "task_failed"
	TypePurchased            = "purchased"
	TypeWorkerOffline        = "worker_offline"
)

// ActionOpen is the only action a background notification may carry.
var ActionOpen = Action{Action: "open", Title: "🔐 Open Dashboard"}

// Permission mirrors the host notification permission states.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Payload is the notification block of a provider message.
type Payload struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
}

// Message is a message delivered by the messaging provider.
type Message struct {
	Notification *Payload          `json:"notification,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
}

// Type returns data.type, or "" when absent.
func (m Message) Type() string {
	if m.Data == nil {
		return ""
	}
	return m.Data["type"]
}

type Action struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

// Notification is what gets handed to the host notification subsystem.
type Notification struct {
	Title              string            `json:"title"`
	Body               string            `json:"body"`
	Icon               string            `json:"icon"`
	Badge              string            `json:"badge"`
	Tag                string            `json:"tag"`
	RequireInteraction bool              `json:"requireInteraction"`
	Actions            []Action          `json:"actions,omitempty"`
	Data               map[string]string `json:"data,omitempty"`
}

func Title(m Message) string {
	if m.Notification != nil && m.Notification.Title != "" {
		return m.Notification.Title
	}
	return AppName
}

func Body(m Message) string {
	if m.Notification != nil && m.Notification.Body != "" {
		return m.Notification.Body
	}
	return DefaultBody
}

func Tag(m Message) string {
	if t := m.Type(); t != "" {
		return t
	}
	return DefaultTag
}

// Foreground builds the notification shown while a page has focus.
func Foreground(m Message) Notification {
	return Notification{
		Title: Title(m),
		Body:  Body(m),
		Icon:  Icon,
		Badge: Icon,
		Tag:   Tag(m),
		Data:  m.Data,
	}
}

// Background builds the notification shown when no page has focus.
// Verification requests stay on screen until acted on and carry the open
// action; everything else behaves like a foreground notification.
func Background(m Message) Notification {
	n := Foreground(m)
	if m.Type() == TypeVerificationRequired {
		n.RequireInteraction = true
		n.Actions = []Action{ActionOpen}
	}
	return n
}

// View returns the page a click on a message of this type should navigate to.
func View(m Message) (string, bool) {
	switch m.Type() {
	case TypeVerificationRequired:
		return "verification", true
	case TypeNewOrder:
		return "orders", true
	}
	return "", false
}
