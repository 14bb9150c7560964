package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"fulfillmentpro-push/internal/push/domain"
	"fulfillmentpro-push/pkg/fcm"
)

type fakeRepo struct {
	tokens  map[string]string
	order   []string
	listErr error
	deleted []string
	cutoff  time.Time
	pruned  int64
}

func newFakeRepo(tokens ...string) *fakeRepo {
	r := &fakeRepo{tokens: map[string]string{}}
	for _, t := range tokens {
		_ = r.SaveToken(t, "label")
	}
	return r
}

func (r *fakeRepo) SaveToken(token, label string) error {
	if _, ok := r.tokens[token]; !ok {
		r.order = append(r.order, token)
	}
	r.tokens[token] = label
	return nil
}

func (r *fakeRepo) ListTokens() ([]domain.PushToken, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []domain.PushToken
	for _, t := range r.order {
		if label, ok := r.tokens[t]; ok {
			out = append(out, domain.PushToken{Token: t, DeviceLabel: label})
		}
	}
	return out, nil
}

func (r *fakeRepo) DeleteToken(token string) error {
	r.deleted = append(r.deleted, token)
	delete(r.tokens, token)
	return nil
}

func (r *fakeRepo) DeleteTokens(tokens []string) error {
	for _, t := range tokens {
		_ = r.DeleteToken(t)
	}
	return nil
}

func (r *fakeRepo) DeleteTokensOlderThan(cutoff time.Time) (int64, error) {
	r.cutoff = cutoff
	return r.pruned, nil
}

type fakeSender struct {
	tokens []string
	sent   fcm.NotificationData
	result *fcm.Result
	err    error
	calls  int
}

func (s *fakeSender) SendToDevices(ctx context.Context, tokens []string, n fcm.NotificationData) (*fcm.Result, error) {
	s.calls++
	s.tokens = tokens
	s.sent = n
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &fcm.Result{SuccessCount: len(tokens)}, nil
}

type fakeMailer struct {
	subject, body string
	err           error
	calls         int
}

func (m *fakeMailer) Send(subject, body string) error {
	m.calls++
	m.subject, m.body = subject, body
	return m.err
}

func TestSubscribe(t *testing.T) {
	repo := newFakeRepo()
	uc := NewPushUsecase(repo, nil, nil, nil)

	if err := uc.Subscribe("  ", "label"); !errors.Is(err, ErrTokenRequired) {
		t.Fatalf("Subscribe(blank) = %v, want ErrTokenRequired", err)
	}
	if err := uc.Subscribe("tok", ""); err != nil {
		t.Fatalf("Subscribe() = %v", err)
	}
	if repo.tokens["tok"] != unknownDevice {
		t.Fatalf("label = %q, want %q", repo.tokens["tok"], unknownDevice)
	}
}

func TestUnsubscribe(t *testing.T) {
	repo := newFakeRepo("tok")
	uc := NewPushUsecase(repo, nil, nil, nil)
	if err := uc.Unsubscribe(""); !errors.Is(err, ErrTokenRequired) {
		t.Fatalf("Unsubscribe(\"\") = %v", err)
	}
	if err := uc.Unsubscribe("tok"); err != nil {
		t.Fatalf("Unsubscribe() = %v", err)
	}
	if _, ok := repo.tokens["tok"]; ok {
		t.Fatal("token should be gone")
	}
}

func TestBroadcastSendsToAllTokens(t *testing.T) {
	repo := newFakeRepo("a", "b", "c")
	sender := &fakeSender{}
	uc := NewPushUsecase(repo, sender, nil, nil)

	res, err := uc.Broadcast(context.Background(), Notice{
		Title: "New Order Received",
		Body:  "Order #1001 - 2 item(s)",
		Data:  map[string]string{"type": "new_order", "order_id": "1001"},
	})
	if err != nil {
		t.Fatalf("Broadcast() = %v", err)
	}
	if !res.PushSent || res.Devices != 3 || res.Delivered != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(sender.tokens) != 3 || sender.sent.Data["type"] != "new_order" {
		t.Fatalf("unexpected send %+v / %v", sender.sent, sender.tokens)
	}
}

func TestBroadcastRemovesStaleTokens(t *testing.T) {
	repo := newFakeRepo("a", "b", "c")
	sender := &fakeSender{result: &fcm.Result{SuccessCount: 1, FailureCount: 2, StaleTokens: []string{"b", "c"}}}
	uc := NewPushUsecase(repo, sender, nil, nil)

	res, err := uc.Broadcast(context.Background(), Notice{Title: "Task Failed"})
	if err != nil {
		t.Fatalf("Broadcast() = %v", err)
	}
	if res.RemovedTokens != 2 {
		t.Fatalf("RemovedTokens = %d, want 2", res.RemovedTokens)
	}
	if len(repo.tokens) != 1 {
		t.Fatalf("remaining tokens = %v", repo.tokens)
	}
}

func TestBroadcastWithoutTokensOrSender(t *testing.T) {
	sender := &fakeSender{}
	res, err := NewPushUsecase(newFakeRepo(), sender, nil, nil).Broadcast(context.Background(), Notice{Title: "x"})
	if err != nil {
		t.Fatalf("Broadcast() = %v", err)
	}
	if res.PushSent || sender.calls != 0 {
		t.Fatalf("nothing should be sent without tokens: %+v calls=%d", res, sender.calls)
	}

	res, err = NewPushUsecase(newFakeRepo("a"), nil, nil, nil).Broadcast(context.Background(), Notice{Title: "x"})
	if err != nil || res.PushSent {
		t.Fatalf("Broadcast() without FCM = %+v, %v", res, err)
	}
}

func TestBroadcastSendErrorIsNotFatal(t *testing.T) {
	mailer := &fakeMailer{}
	uc := NewPushUsecase(newFakeRepo("a"), &fakeSender{err: errors.New("quota exceeded")}, mailer, nil)
	res, err := uc.Broadcast(context.Background(), Notice{Title: "Worker Offline", Body: "short", EmailBody: "long details"})
	if err != nil {
		t.Fatalf("Broadcast() = %v", err)
	}
	if res.PushSent {
		t.Fatal("push should be reported as not sent")
	}
	if !res.EmailSent || mailer.subject != "Worker Offline" || mailer.body != "long details" {
		t.Fatalf("mail fallback not used: %+v %+v", res, mailer)
	}
}

func TestBroadcastMailFallsBackToBody(t *testing.T) {
	mailer := &fakeMailer{}
	uc := NewPushUsecase(newFakeRepo(), nil, mailer, nil)
	if _, err := uc.Broadcast(context.Background(), Notice{Title: "t", Body: "b"}); err != nil {
		t.Fatalf("Broadcast() = %v", err)
	}
	if mailer.body != "b" {
		t.Fatalf("mail body = %q, want b", mailer.body)
	}
}

func TestBroadcastMailErrorIsLogged(t *testing.T) {
	uc := NewPushUsecase(newFakeRepo(), nil, &fakeMailer{err: errors.New("smtp down")}, nil)
	res, err := uc.Broadcast(context.Background(), Notice{Title: "t"})
	if err != nil || res.EmailSent {
		t.Fatalf("Broadcast() = %+v, %v", res, err)
	}
}

func TestBroadcastValidation(t *testing.T) {
	uc := NewPushUsecase(newFakeRepo(), nil, nil, nil)
	if _, err := uc.Broadcast(context.Background(), Notice{}); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("Broadcast() = %v, want ErrTitleRequired", err)
	}
}

func TestBroadcastListError(t *testing.T) {
	repo := newFakeRepo()
	repo.listErr = errors.New("db gone")
	if _, err := NewPushUsecase(repo, &fakeSender{}, nil, nil).Broadcast(context.Background(), Notice{Title: "t"}); err == nil {
		t.Fatal("expected storage error")
	}
}

func TestPruneStale(t *testing.T) {
	repo := newFakeRepo()
	repo.pruned = 3
	uc := NewPushUsecase(repo, nil, nil, nil)

	before := time.Now()
	removed, err := uc.PruneStale(24 * time.Hour)
	if err != nil {
		t.Fatalf("PruneStale: %v", err)
	}
	if removed != 3 {
		t.Fatalf("removed = %d, want 3", removed)
	}
	if want := before.Add(-24 * time.Hour); repo.cutoff.Before(want) {
		t.Fatalf("cutoff %v is earlier than %v", repo.cutoff, want)
	}
}
