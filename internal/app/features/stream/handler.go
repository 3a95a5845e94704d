// internal/app/features/stream/handler.go

// Package stream exposes the live collection feeds over server-sent events.
// Each named stream is an initial snapshot followed by change-driven
// snapshots; the connection stays open until the client goes away.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	uierrors "github.com/udyoghq/udyog/internal/app/features/errors"
	"github.com/udyoghq/udyog/internal/app/store/live"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// keepAliveInterval is how often an idle connection gets a comment line so
// proxies do not reap it.
const keepAliveInterval = 25 * time.Second

// SubscribeFunc opens a live feed for one named stream. The returned cancel
// must release the underlying change stream.
type SubscribeFunc func(ctx context.Context) (<-chan live.Snapshot, func(), error)

// CollectionFeed adapts a MongoDB collection into a SubscribeFunc.
func CollectionFeed(coll *mongo.Collection, cfg live.Config, logger *zap.Logger) SubscribeFunc {
	return func(ctx context.Context) (<-chan live.Snapshot, func(), error) {
		sub, err := live.Subscribe(ctx, coll, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return sub.C, sub.Cancel, nil
	}
}

type Handler struct {
	Feeds  map[string]SubscribeFunc
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(feeds map[string]SubscribeFunc, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Feeds: feeds, ErrLog: errLog, Log: logger}
}

// HandleIndex answers GET /stream: the available stream names.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(h.Feeds))
	for name := range h.Feeds {
		names = append(names, name)
	}
	sort.Strings(names)
	uierrors.JSON(w, http.StatusOK, map[string][]string{"streams": names})
}

// HandleStream answers GET /stream/{name} with a server-sent event feed:
// one "snapshot" event per delivered state, "error" events when the feed
// degrades, and comment keep-alives in between.
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	feed, ok := h.Feeds[name]
	if !ok {
		h.ErrLog.NotFound(w, "No such stream.")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		uierrors.Message(w, http.StatusInternalServerError, "Streaming is not supported on this connection.")
		return
	}

	ctx := r.Context()
	events, cancel, err := feed(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "open stream "+name, err, "Could not open the live feed.")
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case snap, open := <-events:
			if !open {
				return
			}
			if snap.Err != nil {
				h.Log.Warn("live feed degraded", zap.String("stream", name), zap.Error(snap.Err))
				fmt.Fprint(w, "event: error\ndata: {\"error\":\"The live feed was interrupted.\"}\n\n")
				flusher.Flush()
				continue
			}
			payload, err := json.Marshal(snap.Docs)
			if err != nil {
				h.Log.Warn("snapshot encode failed", zap.String("stream", name), zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
