package live

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func doc(id primitive.ObjectID, name string, created time.Time) bson.M {
	return bson.M{"_id": id, "name": name, "created_at": created}
}

func insertEvent(d bson.M) changeEvent {
	return changeEvent{OperationType: "insert", FullDocument: d}
}

func TestState_DedupesById(t *testing.T) {
	st := newState(Config{SortField: "created_at"})
	id := primitive.NewObjectID()
	now := time.Now()

	st.upsert(doc(id, "first", now))
	st.upsert(doc(id, "second", now))

	got := st.sorted()
	if len(got) != 1 {
		t.Fatalf("expected 1 document after duplicate upsert, got %d", len(got))
	}
	if got[0]["name"] != "second" {
		t.Errorf("expected latest document to win, got %v", got[0]["name"])
	}
}

func TestState_OrdersBySortField(t *testing.T) {
	st := newState(Config{SortField: "created_at"})
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	late := doc(primitive.NewObjectID(), "late", base.Add(2*time.Hour))
	early := doc(primitive.NewObjectID(), "early", base)
	mid := doc(primitive.NewObjectID(), "mid", base.Add(time.Hour))

	st.upsert(late)
	st.upsert(early)
	st.upsert(mid)

	got := st.sorted()
	want := []string{"early", "mid", "late"}
	for i, name := range want {
		if got[i]["name"] != name {
			t.Errorf("position %d: got %v, want %q", i, got[i]["name"], name)
		}
	}
}

func TestState_Descending(t *testing.T) {
	st := newState(Config{SortField: "date", Descending: true})

	st.upsert(bson.M{"_id": primitive.NewObjectID(), "date": "2025-01-01"})
	st.upsert(bson.M{"_id": primitive.NewObjectID(), "date": "2025-03-01"})
	st.upsert(bson.M{"_id": primitive.NewObjectID(), "date": "2025-02-01"})

	got := st.sorted()
	want := []string{"2025-03-01", "2025-02-01", "2025-01-01"}
	for i, date := range want {
		if got[i]["date"] != date {
			t.Errorf("position %d: got %v, want %q", i, got[i]["date"], date)
		}
	}
}

func TestState_ApplyInsertUpdateDelete(t *testing.T) {
	st := newState(Config{SortField: "created_at"})
	id := primitive.NewObjectID()
	now := time.Now()

	if changed := st.apply(insertEvent(doc(id, "v1", now))); !changed {
		t.Error("insert should report a change")
	}

	update := changeEvent{OperationType: "update", FullDocument: doc(id, "v2", now)}
	if changed := st.apply(update); !changed {
		t.Error("update should report a change")
	}
	if got := st.sorted(); got[0]["name"] != "v2" {
		t.Errorf("expected updated document, got %v", got[0]["name"])
	}

	del := changeEvent{OperationType: "delete"}
	del.DocumentKey.ID = id
	if changed := st.apply(del); !changed {
		t.Error("delete should report a change")
	}
	if got := st.sorted(); len(got) != 0 {
		t.Errorf("expected empty state after delete, got %d docs", len(got))
	}
}

func TestState_DeleteUnknownIdIsNoop(t *testing.T) {
	st := newState(Config{})

	del := changeEvent{OperationType: "delete"}
	del.DocumentKey.ID = primitive.NewObjectID()
	if changed := st.apply(del); changed {
		t.Error("deleting an unknown id should not report a change")
	}
}

func TestState_UpdateWithoutFullDocumentIsNoop(t *testing.T) {
	st := newState(Config{})

	ev := changeEvent{OperationType: "update"}
	if changed := st.apply(ev); changed {
		t.Error("update without fullDocument should not report a change")
	}
}

func TestPush_LatestWins(t *testing.T) {
	ch := make(chan Snapshot, 1)

	push(ch, Snapshot{Docs: []bson.M{{"n": "old"}}})
	push(ch, Snapshot{Docs: []bson.M{{"n": "new"}}})

	got := <-ch
	if got.Docs[0]["n"] != "new" {
		t.Errorf("expected newest snapshot, got %v", got.Docs[0]["n"])
	}
	select {
	case extra := <-ch:
		t.Errorf("expected single buffered snapshot, got extra %v", extra)
	default:
	}
}
