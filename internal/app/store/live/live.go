// internal/app/store/live/live.go

// Package live provides a push-based view over a MongoDB collection: an
// initial snapshot followed by change-stream updates, delivered as ordered,
// deduplicated-by-id document sets.
//
// The consumer owns the subscription lifetime and must call Cancel when the
// page is no longer shown.
package live

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/udyoghq/udyog/internal/app/system/opserr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Config controls snapshot ordering.
type Config struct {
	SortField  string // document field to order by, e.g. "created_at"
	Descending bool
}

// Snapshot is one delivered state of the collection. When Err is non-nil the
// previous snapshot remains valid; the page stays usable with stale data.
type Snapshot struct {
	Docs []bson.M
	Err  error
}

// Subscription is a live feed over one collection. Events arrives on C;
// Cancel releases the change stream and closes C.
type Subscription struct {
	C <-chan Snapshot

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Cancel stops the feed and waits for the stream goroutine to exit.
func (s *Subscription) Cancel() {
	s.cancel()
	s.wg.Wait()
}

// Subscribe opens a change stream on coll, loads the initial snapshot, and
// starts pushing ordered snapshots. The change stream is opened before the
// initial read so no write can fall between the two.
func Subscribe(ctx context.Context, coll *mongo.Collection, cfg Config, logger *zap.Logger) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	cs, err := coll.Watch(ctx, mongo.Pipeline{},
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		cancel()
		return nil, opserr.Read("open change stream "+coll.Name(), err)
	}

	cur, err := coll.Find(ctx, bson.M{})
	if err != nil {
		_ = cs.Close(ctx)
		cancel()
		return nil, opserr.Read("initial snapshot "+coll.Name(), err)
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		_ = cs.Close(ctx)
		cancel()
		return nil, opserr.Read("decode snapshot "+coll.Name(), err)
	}

	st := newState(cfg)
	for _, d := range docs {
		st.upsert(d)
	}

	ch := make(chan Snapshot, 1)
	sub := &Subscription{C: ch, cancel: cancel}

	push(ch, Snapshot{Docs: st.sorted()})

	sub.wg.Add(1)
	go func() {
		defer sub.wg.Done()
		defer close(ch)
		defer func() {
			closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer closeCancel()
			_ = cs.Close(closeCtx)
		}()

		for cs.Next(ctx) {
			var ev changeEvent
			if err := cs.Decode(&ev); err != nil {
				logger.Warn("change event decode failed",
					zap.String("collection", coll.Name()), zap.Error(err))
				continue
			}
			if st.apply(ev) {
				push(ch, Snapshot{Docs: st.sorted()})
			}
		}

		if err := cs.Err(); err != nil && ctx.Err() == nil {
			logger.Warn("change stream ended",
				zap.String("collection", coll.Name()), zap.Error(err))
			push(ch, Snapshot{Err: opserr.Read("change stream "+coll.Name(), err)})
		}
	}()

	return sub, nil
}

// push delivers latest-wins: a slow consumer sees the newest snapshot, never
// a backlog.
func push(ch chan Snapshot, s Snapshot) {
	for {
		select {
		case ch <- s:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// changeEvent is the subset of the change-stream document we consume.
type changeEvent struct {
	OperationType string `bson:"operationType"`
	FullDocument  bson.M `bson:"fullDocument"`
	DocumentKey   struct {
		ID interface{} `bson:"_id"`
	} `bson:"documentKey"`
}

// state is the in-memory, deduplicated-by-id view of the collection.
// It is not safe for concurrent use; only the stream goroutine touches it.
type state struct {
	cfg  Config
	byID map[string]bson.M
}

func newState(cfg Config) *state {
	if cfg.SortField == "" {
		cfg.SortField = "created_at"
	}
	return &state{cfg: cfg, byID: make(map[string]bson.M)}
}

func docKey(id interface{}) string {
	return fmt.Sprintf("%v", id)
}

func (s *state) upsert(doc bson.M) {
	id, ok := doc["_id"]
	if !ok {
		return
	}
	s.byID[docKey(id)] = doc
}

func (s *state) remove(id interface{}) {
	delete(s.byID, docKey(id))
}

// apply folds one change event into the state and reports whether anything
// changed.
func (s *state) apply(ev changeEvent) bool {
	switch ev.OperationType {
	case "insert", "update", "replace":
		if ev.FullDocument == nil {
			return false
		}
		s.upsert(ev.FullDocument)
		return true
	case "delete":
		key := docKey(ev.DocumentKey.ID)
		if _, ok := s.byID[key]; !ok {
			return false
		}
		s.remove(ev.DocumentKey.ID)
		return true
	}
	return false
}

// sorted returns the documents ordered by the configured sort field.
func (s *state) sorted() []bson.M {
	out := make([]bson.M, 0, len(s.byID))
	for _, d := range s.byID {
		out = append(out, d)
	}
	field := s.cfg.SortField
	sort.SliceStable(out, func(i, j int) bool {
		less := valueLess(out[i][field], out[j][field])
		if s.cfg.Descending {
			return !less && !valueEqual(out[i][field], out[j][field])
		}
		return less
	})
	return out
}

// valueLess compares the value types our documents sort on: timestamps,
// date strings, and numbers. Unknown types compare as equal.
func valueLess(a, b interface{}) bool {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Before(bv)
		}
	case primitive.DateTime:
		if bv, ok := b.(primitive.DateTime); ok {
			return av < bv
		}
	case string:
		if bv, ok := b.(string); ok {
			return av < bv
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return av < bv
		}
	case int32:
		if bv, ok := b.(int32); ok {
			return av < bv
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return av < bv
		}
	}
	return false
}

func valueEqual(a, b interface{}) bool {
	return !valueLess(a, b) && !valueLess(b, a)
}
