package stream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	uierrors "github.com/udyoghq/udyog/internal/app/features/errors"
	"github.com/udyoghq/udyog/internal/app/features/stream"
	"github.com/udyoghq/udyog/internal/app/store/live"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// staticFeed delivers the given snapshots then closes, recording whether the
// handler released the subscription.
func staticFeed(snaps []live.Snapshot, cancelled *bool) stream.SubscribeFunc {
	return func(_ context.Context) (<-chan live.Snapshot, func(), error) {
		ch := make(chan live.Snapshot, len(snaps))
		for _, s := range snaps {
			ch <- s
		}
		close(ch)
		return ch, func() { *cancelled = true }, nil
	}
}

func newStreamRouter(feeds map[string]stream.SubscribeFunc) http.Handler {
	logger := zap.NewNop()
	h := stream.NewHandler(feeds, uierrors.NewErrorLogger(logger), logger)
	return stream.Routes(h)
}

func TestHandleStream_DeliversSnapshots(t *testing.T) {
	var cancelled bool
	feeds := map[string]stream.SubscribeFunc{
		"works": staticFeed([]live.Snapshot{
			{Docs: []bson.M{{"customer_name": "Priya"}}},
			{Docs: []bson.M{{"customer_name": "Priya"}, {"customer_name": "Ravi"}}},
		}, &cancelled),
	}
	router := newStreamRouter(feeds)

	req := httptest.NewRequest("GET", "/works", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}
	body := rec.Body.String()
	if n := strings.Count(body, "event: snapshot"); n != 2 {
		t.Errorf("expected 2 snapshot events, got %d in %q", n, body)
	}
	if !strings.Contains(body, `"customer_name":"Ravi"`) {
		t.Errorf("second snapshot missing from body: %q", body)
	}
	if !cancelled {
		t.Error("subscription was not released when the feed closed")
	}
}

func TestHandleStream_ErrorEvent(t *testing.T) {
	var cancelled bool
	feeds := map[string]stream.SubscribeFunc{
		"works": staticFeed([]live.Snapshot{
			{Err: context.DeadlineExceeded},
		}, &cancelled),
	}
	router := newStreamRouter(feeds)

	req := httptest.NewRequest("GET", "/works", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "event: error") {
		t.Errorf("expected an error event, got %q", rec.Body.String())
	}
}

func TestHandleStream_UnknownName(t *testing.T) {
	router := newStreamRouter(map[string]stream.SubscribeFunc{})

	req := httptest.NewRequest("GET", "/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleIndex_ListsStreamsSorted(t *testing.T) {
	var cancelled bool
	feeds := map[string]stream.SubscribeFunc{
		"works":   staticFeed(nil, &cancelled),
		"members": staticFeed(nil, &cancelled),
	}
	router := newStreamRouter(feeds)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	want := `{"streams":["members","works"]}`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}
