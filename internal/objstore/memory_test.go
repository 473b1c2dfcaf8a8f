package objstore

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestMemoryBackendRoundTrip(t *testing.T) {
	b := NewMemory()
	ctx := context.Background()

	if _, err := b.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := b.Put(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, err := b.Get(ctx, "k")
	if err != nil || string(data) != "v1" {
		t.Errorf("Get = %q, %v; want v1", data, err)
	}

	// Returned bytes are a copy; mutating them must not corrupt storage.
	data[0] = 'X'
	data2, _ := b.Get(ctx, "k")
	if string(data2) != "v1" {
		t.Error("stored bytes were mutated through a Get result")
	}

	if err := b.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := b.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete error = %v, want ErrNotFound", err)
	}
}

func TestMemoryBackendDeleteMissingIsNoop(t *testing.T) {
	b := NewMemory()
	if err := b.Delete(context.Background(), "never-existed"); err != nil {
		t.Errorf("Delete(missing) = %v, want nil", err)
	}
}

func TestMemoryBackendList(t *testing.T) {
	b := NewMemory()
	ctx := context.Background()

	for _, key := range []string{"a/2", "a/1", "b/1"} {
		if err := b.Put(ctx, key, []byte("x")); err != nil {
			t.Fatal(err)
		}
	}

	keys, err := b.List(ctx, "a/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"a/1", "a/2"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("List = %v, want %v (sorted)", keys, want)
	}
}

func TestGetJSONMissingKey(t *testing.T) {
	b := NewMemory()

	var v map[string]string
	found, err := GetJSON(context.Background(), b, "missing", &v)
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if found {
		t.Error("found = true for a missing key")
	}
}

func TestPutJSONGetJSON(t *testing.T) {
	b := NewMemory()
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	in := payload{Name: "shelf", Count: 3}

	if err := PutJSON(ctx, b, "p", in); err != nil {
		t.Fatalf("PutJSON: %v", err)
	}

	var out payload
	found, err := GetJSON(ctx, b, "p", &out)
	if err != nil || !found {
		t.Fatalf("GetJSON: found=%v err=%v", found, err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestGetJSONCorruptObject(t *testing.T) {
	b := NewMemory()
	ctx := context.Background()

	if err := b.Put(ctx, "bad", []byte("{not json")); err != nil {
		t.Fatal(err)
	}

	var v map[string]string
	if _, err := GetJSON(ctx, b, "bad", &v); err == nil {
		t.Error("GetJSON on corrupt object returned nil error")
	}
}
