package qstash

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type capturedRequest struct {
	path   string
	auth   string
	kind   string
	event  Event
	called bool
}

func newQStashServer(t *testing.T, status int, got *capturedRequest) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.called = true
		got.path = r.URL.Path
		got.auth = r.Header.Get("Authorization")
		got.kind = r.Header.Get(eventKindHeader)
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got.event)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"messageId":"msg_1"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPublish(t *testing.T) {
	t.Parallel()

	var got capturedRequest
	srv := newQStashServer(t, http.StatusCreated, &got)
	client := MustNew(Config{URL: srv.URL, Token: "tok"})

	res, err := client.Publish(context.Background(), "orders-topic", map[string]string{"id": "ORD-1"}, nil)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if res.MessageID != "msg_1" {
		t.Fatalf("MessageID = %q", res.MessageID)
	}
	if got.path != "/v2/publish/orders-topic" || got.auth != "Bearer tok" {
		t.Fatalf("unexpected request: %+v", got)
	}
}

func TestPublishErrorStatus(t *testing.T) {
	t.Parallel()

	var got capturedRequest
	srv := newQStashServer(t, http.StatusUnauthorized, &got)
	client := MustNew(Config{URL: srv.URL, Token: "tok"})

	if _, err := client.Publish(context.Background(), "orders-topic", "x", nil); err == nil {
		t.Fatal("expected error on 401")
	}
	if _, err := client.Publish(context.Background(), " ", "x", nil); err == nil {
		t.Fatal("expected error on empty destination")
	}
}

func TestNotifierEnvelope(t *testing.T) {
	t.Parallel()

	var got capturedRequest
	srv := newQStashServer(t, http.StatusOK, &got)
	n := NewNotifier(MustNew(Config{URL: srv.URL, Token: "tok"}), "leads-topic")
	n.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	if err := n.Notify(context.Background(), "lead.submitted", map[string]string{"name": "Ava"}); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if got.kind != "lead.submitted" || got.event.Kind != "lead.submitted" {
		t.Fatalf("unexpected event kind: header=%q body=%q", got.kind, got.event.Kind)
	}
	if !got.event.OccurredAt.Equal(n.now()) {
		t.Fatalf("OccurredAt = %v", got.event.OccurredAt)
	}
}

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{URL: "", Token: "t"}); err == nil {
		t.Fatal("expected url error")
	}
	if _, err := NewClient(Config{URL: "https://qstash.upstash.io", Token: ""}); err == nil {
		t.Fatal("expected token error")
	}
}
