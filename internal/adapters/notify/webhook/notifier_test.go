package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"profile-visibility/internal/ports/notify"
)

func TestNotifier_PublishPostsJSON(t *testing.T) {
	var got notify.Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := New(srv.URL, time.Second)
	ev := notify.Event{
		Type:        notify.EventRequestSubmitted,
		Owner:       "sarah",
		Counterpart: "john",
		RequestID:   "r1",
		OccurredAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := n.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	if got.Type != ev.Type || got.Owner != ev.Owner || got.RequestID != ev.RequestID {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestNotifier_PublishSurfacesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := New(srv.URL, time.Second)
	if err := n.Publish(context.Background(), notify.Event{Type: notify.EventGrantRevoked}); err == nil {
		t.Fatalf("expected error on 500 response")
	}
}
