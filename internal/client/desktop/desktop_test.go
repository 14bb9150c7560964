package desktop

import (
	"context"
	"errors"
	"testing"

	"fulfillmentpro-push/internal/client/display"
)

type call struct {
	kind, title, message, icon string
}

func recordingSink(calls *[]call, err error) *Sink {
	s := NewSink("/", "/usr/share/icons/fulfillmentpro.png")
	s.notify = func(title, message, icon string) error {
		*calls = append(*calls, call{"notify", title, message, icon})
		return err
	}
	s.alert = func(title, message, icon string) error {
		*calls = append(*calls, call{"alert", title, message, icon})
		return err
	}
	return s
}

func TestShowNotificationPicksAlertForInteraction(t *testing.T) {
	var calls []call
	s := recordingSink(&calls, nil)

	verification := display.Background(display.Message{Data: map[string]string{"type": display.TypeVerificationRequired}})
	order := display.Background(display.Message{Data: map[string]string{"type": display.TypeNewOrder}})

	if err := s.ShowNotification(context.Background(), verification); err != nil {
		t.Fatalf("ShowNotification() = %v", err)
	}
	if err := s.ShowNotification(context.Background(), order); err != nil {
		t.Fatalf("ShowNotification() = %v", err)
	}

	if len(calls) != 2 || calls[0].kind != "alert" || calls[1].kind != "notify" {
		t.Fatalf("calls = %+v", calls)
	}
	if calls[1].title != display.AppName || calls[1].icon != "/usr/share/icons/fulfillmentpro.png" {
		t.Fatalf("unexpected call %+v", calls[1])
	}
}

func TestShowReturnsClosableDisplay(t *testing.T) {
	var calls []call
	d, err := recordingSink(&calls, nil).Show(context.Background(), display.Foreground(display.Message{}))
	if err != nil {
		t.Fatalf("Show() = %v", err)
	}
	d.OnClick(func() { t.Fatal("desktop notifications never report clicks") })
	for i := 0; i < 2; i++ {
		if err := d.Close(); err != nil {
			t.Fatalf("Close() #%d = %v", i+1, err)
		}
	}
	if _, ok := d.(shown); !ok {
		t.Fatalf("Show() returned %T, want stateless shown", d)
	}
}

func TestShowPropagatesErrors(t *testing.T) {
	var calls []call
	want := errors.New("dbus unavailable")
	if _, err := recordingSink(&calls, want).Show(context.Background(), display.Notification{}); !errors.Is(err, want) {
		t.Fatalf("Show() = %v, want %v", err, want)
	}
}

func TestShowNotificationCancelledContext(t *testing.T) {
	var calls []call
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := recordingSink(&calls, nil).ShowNotification(ctx, display.Notification{}); err == nil {
		t.Fatal("expected context error")
	}
	if len(calls) != 0 {
		t.Fatal("nothing should be shown after cancellation")
	}
}
