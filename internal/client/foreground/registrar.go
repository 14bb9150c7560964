package foreground

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SubscribePath is the backend registration endpoint.
const SubscribePath = "/api/push/subscribe"

const userAgentLimit = 50

// Registration is the body posted to the backend.
type Registration struct {
	Token       string `json:"token"`
	DeviceLabel string `json:"device_label"`
}

type Registrar interface {
	Register(ctx context.Context, reg Registration) error
}

// DeviceLabel builds "<platform> - <user agent>", with the user agent cut to
// 50 characters.
func DeviceLabel(platform, userAgent string) string {
	ua := []rune(userAgent)
	if len(ua) > userAgentLimit {
		ua = ua[:userAgentLimit]
	}
	return platform + " - " + string(ua)
}

// HTTPRegistrar posts registrations to the backend over HTTP.
type HTTPRegistrar struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPRegistrar(baseURL string, httpClient *http.Client) *HTTPRegistrar {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPRegistrar{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Register succeeds on any 2xx response.
func (r *HTTPRegistrar) Register(ctx context.Context, reg Registration) error {
	body, err := json.Marshal(reg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+SubscribePath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("registration request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("registration rejected with status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
