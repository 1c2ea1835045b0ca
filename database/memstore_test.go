package database

import (
	"context"
	"errors"
	"testing"
)

type doc struct {
	Key   string `json:"_key,omitempty"`
	Name  string `json:"name"`
	Group string `json:"group"`
}

func TestMemStoreFindOne(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	if err := store.InsertOne(ctx, "things", doc{Key: "a", Name: "first", Group: "g1"}); err != nil {
		t.Fatalf("InsertOne: %v", err)
	}

	var got doc
	if err := store.FindOne(ctx, "things", Filter{"group": "g1"}, nil, &got); err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if got.Name != "first" {
		t.Errorf("name = %q", got.Name)
	}

	err := store.FindOne(ctx, "things", Filter{"group": "missing"}, nil, &got)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemStoreFindManySortsByKeyByDefault(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	for _, d := range []doc{
		{Key: "c", Name: "third"},
		{Key: "a", Name: "first"},
		{Key: "b", Name: "second"},
	} {
		if err := store.InsertOne(ctx, "things", d); err != nil {
			t.Fatalf("InsertOne: %v", err)
		}
	}

	var got []doc
	if err := store.FindMany(ctx, "things", nil, nil, nil, &got); err != nil {
		t.Fatalf("FindMany: %v", err)
	}
	if len(got) != 3 || got[0].Key != "a" || got[2].Key != "c" {
		t.Fatalf("order = %+v, want sorted by _key", got)
	}
}

func TestMemStoreProjection(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	if err := store.InsertOne(ctx, "things", doc{Key: "a", Name: "kept", Group: "dropped"}); err != nil {
		t.Fatalf("InsertOne: %v", err)
	}

	var got doc
	if err := store.FindOne(ctx, "things", Filter{"_key": "a"}, []string{"name"}, &got); err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if got.Name != "kept" || got.Group != "" {
		t.Errorf("projected doc = %+v, want only name", got)
	}
}

func TestMemStoreReplaceOneKeepsKey(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	if err := store.InsertOne(ctx, "things", doc{Key: "a", Name: "before"}); err != nil {
		t.Fatalf("InsertOne: %v", err)
	}

	var replaced doc
	err := store.ReplaceOne(ctx, "things", Filter{"_key": "a"}, doc{Name: "after"}, &replaced)
	if err != nil {
		t.Fatalf("ReplaceOne: %v", err)
	}
	if replaced.Key != "a" || replaced.Name != "after" {
		t.Errorf("replaced = %+v, want _key kept", replaced)
	}

	err = store.ReplaceOne(ctx, "things", Filter{"_key": "ghost"}, doc{Name: "x"}, nil)
	if !errors.Is(err, ErrNotModified) {
		t.Fatalf("err = %v, want ErrNotModified", err)
	}
}

func TestMemStoreDeleteOne(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	if err := store.InsertOne(ctx, "things", doc{Key: "a"}); err != nil {
		t.Fatalf("InsertOne: %v", err)
	}
	if err := store.DeleteOne(ctx, "things", Filter{"_key": "a"}); err != nil {
		t.Fatalf("DeleteOne: %v", err)
	}
	if err := store.DeleteOne(ctx, "things", Filter{"_key": "a"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}
