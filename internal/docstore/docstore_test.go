package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupStores returns one instance of every backend so each behavior is
// verified against both implementations.
func setupStores(t *testing.T) map[string]Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&Document{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return map[string]Store{
		"memory": NewMemoryStore(),
		"gorm":   NewGormStore(db),
	}
}

func TestReadMissingDocument(t *testing.T) {
	ctx := context.Background()
	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			doc, err := store.Read(ctx, CollectionBudgets, "nope")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if doc.Exists {
				t.Error("expected Exists=false for a missing document")
			}
		})
	}
}

func TestSetAndRead(t *testing.T) {
	ctx := context.Background()
	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			data := []byte(`{"name":"Household","total_available":"1234.56"}`)
			if err := store.Set(ctx, CollectionBudgets, "b1", "u1 u2", data); err != nil {
				t.Fatalf("set failed: %v", err)
			}

			doc, err := store.Read(ctx, CollectionBudgets, "b1")
			if err != nil {
				t.Fatalf("read failed: %v", err)
			}
			if !doc.Exists {
				t.Fatal("expected document to exist")
			}
			if doc.Owner != "u1 u2" {
				t.Errorf("owner = %q, want %q", doc.Owner, "u1 u2")
			}

			var got map[string]any
			if err := json.Unmarshal(doc.Data, &got); err != nil {
				t.Fatalf("stored data is not valid JSON: %v", err)
			}
			if got["total_available"] != "1234.56" {
				t.Errorf("total_available = %v, want the exact string", got["total_available"])
			}
		})
	}
}

func TestSetOverwrites(t *testing.T) {
	ctx := context.Background()
	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Set(ctx, CollectionBudgets, "b1", "u1", []byte(`{"name":"Old","extra":true}`)); err != nil {
				t.Fatalf("set failed: %v", err)
			}
			if err := store.Set(ctx, CollectionBudgets, "b1", "u1 u3", []byte(`{"name":"New"}`)); err != nil {
				t.Fatalf("overwrite failed: %v", err)
			}

			doc, err := store.Read(ctx, CollectionBudgets, "b1")
			if err != nil {
				t.Fatalf("read failed: %v", err)
			}
			if doc.Owner != "u1 u3" {
				t.Errorf("owner = %q, want updated member list", doc.Owner)
			}

			var got map[string]any
			if err := json.Unmarshal(doc.Data, &got); err != nil {
				t.Fatal(err)
			}
			if got["name"] != "New" {
				t.Errorf("name = %v, want New", got["name"])
			}
			if _, ok := got["extra"]; ok {
				t.Error("full overwrite kept a field from the previous document")
			}
		})
	}
}

func TestUpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			seed := []byte(`{"name":"Household","is_needs_recalculation":false,"position":3,"total_available":"99.99"}`)
			if err := store.Set(ctx, CollectionBudgets, "b1", "u1", seed); err != nil {
				t.Fatalf("set failed: %v", err)
			}

			err := store.Update(ctx, CollectionBudgets, "b1", map[string]any{
				"is_needs_recalculation": true,
				"position":               nil,
			})
			if err != nil {
				t.Fatalf("update failed: %v", err)
			}

			doc, err := store.Read(ctx, CollectionBudgets, "b1")
			if err != nil {
				t.Fatalf("read failed: %v", err)
			}
			var got map[string]any
			if err := json.Unmarshal(doc.Data, &got); err != nil {
				t.Fatal(err)
			}
			if got["is_needs_recalculation"] != true {
				t.Error("updated field did not change")
			}
			if got["name"] != "Household" {
				t.Error("untouched field was lost")
			}
			if got["total_available"] != "99.99" {
				t.Errorf("decimal string changed across update: %v", got["total_available"])
			}
			if _, ok := got["position"]; ok {
				t.Error("nil field value should delete the field")
			}
		})
	}
}

func TestUpdateMissingDocument(t *testing.T) {
	ctx := context.Background()
	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			err := store.Update(ctx, CollectionMonths, "nope", map[string]any{"x": 1})
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Set(ctx, CollectionFeedback, "f1", "u1", []byte(`{}`)); err != nil {
				t.Fatal(err)
			}
			if err := store.Delete(ctx, CollectionFeedback, "f1"); err != nil {
				t.Fatalf("delete failed: %v", err)
			}
			doc, err := store.Read(ctx, CollectionFeedback, "f1")
			if err != nil {
				t.Fatal(err)
			}
			if doc.Exists {
				t.Error("document still exists after delete")
			}

			// Deleting again is a no-op.
			if err := store.Delete(ctx, CollectionFeedback, "f1"); err != nil {
				t.Errorf("repeat delete errored: %v", err)
			}
		})
	}
}

func TestDeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			seed := map[string]string{
				"b1_2025-01": "b1",
				"b1_2025-02": "b1",
				"b2_2025-01": "b2",
			}
			for key, owner := range seed {
				if err := store.Set(ctx, CollectionMonths, key, owner, []byte(`{}`)); err != nil {
					t.Fatal(err)
				}
			}

			if err := store.DeleteByPrefix(ctx, CollectionMonths, "b1_"); err != nil {
				t.Fatalf("delete by prefix failed: %v", err)
			}

			for key, want := range map[string]bool{
				"b1_2025-01": false,
				"b1_2025-02": false,
				"b2_2025-01": true,
			} {
				doc, err := store.Read(ctx, CollectionMonths, key)
				if err != nil {
					t.Fatal(err)
				}
				if doc.Exists != want {
					t.Errorf("after prefix delete, %s exists=%v, want %v", key, doc.Exists, want)
				}
			}
		})
	}
}

func TestListByMember(t *testing.T) {
	ctx := context.Background()
	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			for key, owner := range map[string]string{
				"b1": "u1",
				"b2": "u2 u1",
				"b3": "u2",
			} {
				if err := store.Set(ctx, CollectionBudgets, key, owner, []byte(`{"id":"`+key+`"}`)); err != nil {
					t.Fatal(err)
				}
			}

			docs, total, err := store.List(ctx, CollectionBudgets, "u1", 10, 0)
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if total != 2 {
				t.Errorf("total = %d, want 2", total)
			}
			if len(docs) != 2 || docs[0].Key != "b1" || docs[1].Key != "b2" {
				t.Errorf("unexpected docs: %+v", docs)
			}

			// A member id that is a substring of another must not match.
			docs, total, err = store.List(ctx, CollectionBudgets, "u", 10, 0)
			if err != nil {
				t.Fatal(err)
			}
			if total != 0 || len(docs) != 0 {
				t.Errorf("substring member matched %d docs", total)
			}
		})
	}
}

func TestListPaging(t *testing.T) {
	ctx := context.Background()
	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			keys := []string{"a", "b", "c", "d", "e"}
			for _, key := range keys {
				if err := store.Set(ctx, CollectionFeedback, key, "admin", []byte(`{}`)); err != nil {
					t.Fatal(err)
				}
			}

			docs, total, err := store.List(ctx, CollectionFeedback, "", 2, 2)
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if total != 5 {
				t.Errorf("total = %d, want 5", total)
			}
			if len(docs) != 2 || docs[0].Key != "c" || docs[1].Key != "d" {
				t.Errorf("page = %+v, want keys c,d", docs)
			}

			docs, total, err = store.List(ctx, CollectionFeedback, "", 10, 10)
			if err != nil {
				t.Fatal(err)
			}
			if total != 5 || len(docs) != 0 {
				t.Errorf("expected empty page past the end, got %d docs", len(docs))
			}
		})
	}
}
