package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"fulfillmentpro-push/internal/client/background"
	"fulfillmentpro-push/internal/client/desktop"
	"fulfillmentpro-push/internal/client/display"
	"fulfillmentpro-push/internal/client/foreground"
	"fulfillmentpro-push/internal/client/lifecycle"
	"fulfillmentpro-push/internal/client/terminal"
	"fulfillmentpro-push/internal/push/usecase"
	"fulfillmentpro-push/pkg/config"

	"go.uber.org/zap"
)

var errNotEnabled = errors.New("push notifications were not enabled")

// staticToken hands out a token issued elsewhere (for example copied from
// the browser console), since only the provider's web SDK can mint one.
type staticToken string

func (s staticToken) Token(ctx context.Context, vapidKey string) (string, error) {
	if s == "" {
		return "", errors.New("no delivery token: pass -token or set PUSH_TOKEN")
	}
	return string(s), nil
}

func userAgent() string {
	return fmt.Sprintf("pushctl (%s; %s) %s", runtime.GOOS, runtime.GOARCH, runtime.Version())
}

func runSubscribe(ctx context.Context, cfg *config.Config, log *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("subscribe", flag.ContinueOnError)
	token := fs.String("token", os.Getenv("PUSH_TOKEN"), "delivery token issued by the messaging provider")
	backend := fs.String("backend", cfg.BackendURL, "backend base URL")
	icon := fs.String("icon", "", "local icon file for desktop notifications")
	if err := fs.Parse(args); err != nil {
		return err
	}

	banners := terminal.NewBanners(os.Stdout)
	client := foreground.New(foreground.Options{
		Permissions: terminal.NewPrompt(display.PermissionDefault),
		Tokens:      staticToken(*token),
		Registrar:   foreground.NewHTTPRegistrar(*backend, nil),
		Banners:     banners,
		Sink:        desktop.NewSink(display.RootURL, *icon),
		Logger:      log,
		VapidKey:    cfg.PushVapidKey,
		Platform:    runtime.GOOS,
		UserAgent:   userAgent(),
	})

	_, ok := client.RequestPermission(ctx)
	banners.Wait()
	if !ok {
		return errNotEnabled
	}
	return nil
}

func runShow(ctx context.Context, cfg *config.Config, log *zap.Logger, in io.Reader, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	inBackground := fs.Bool("background", false, "render as the background notifier would")
	click := fs.Bool("click", false, "with -background, simulate a click and open the dashboard")
	icon := fs.String("icon", "", "local icon file")
	backend := fs.String("backend", cfg.BackendURL, "dashboard base URL opened on click")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var msg display.Message
	if err := json.NewDecoder(in).Decode(&msg); err != nil {
		return fmt.Errorf("reading message: %w", err)
	}

	sink := desktop.NewSink(*backend, *icon)
	if !*inBackground {
		client := foreground.New(foreground.Options{
			Permissions: terminal.NewPrompt(display.PermissionGranted),
			Sink:        sink,
			Logger:      log,
		})
		client.HandleMessage(ctx, msg)
		return nil
	}

	notifier := background.New(sink, desktop.NewClients(*backend), log)
	return showInBackground(ctx, notifier, msg, *click)
}

// showInBackground displays msg and, when click is set, clicks it once the
// notification is up.
func showInBackground(ctx context.Context, notifier *background.Notifier, msg display.Message, click bool) error {
	scope := lifecycle.NewScope()
	shown := notifier.HandleMessage(ctx, msg)
	scope.WaitUntil(shown)
	if click {
		if err := shown.Wait(ctx); err != nil {
			return err
		}
		scope.WaitUntil(notifier.HandleClick(ctx, background.ClickEvent{Action: display.ActionOpen.Action}))
	}
	return scope.Drain(ctx)
}

func runSend(ctx context.Context, cfg *config.Config, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	title := fs.String("title", "", "notification title")
	body := fs.String("body", "", "notification body")
	typ := fs.String("type", "", "data.type, e.g. new_order or verification_required")
	backend := fs.String("backend", cfg.BackendURL, "backend base URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *title == "" {
		return errors.New("-title is required")
	}

	notice := usecase.Notice{Title: *title, Body: *body}
	if *typ != "" {
		notice.Data = map[string]string{"type": *typ}
	}
	payload, err := json.Marshal(notice)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(*backend, "/")+"/api/push/send", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.WorkerAuthToken)

	resp, err := (&http.Client{Timeout: 30 * time.Second}).Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend answered %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result usecase.Result
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	fmt.Fprintf(out, "push sent: %v (%d/%d devices, %d stale removed), email sent: %v\n",
		result.PushSent, result.Delivered, result.Devices, result.RemovedTokens, result.EmailSent)
	return nil
}
