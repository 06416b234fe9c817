package kvstore

import (
	"context"
	"errors"
	"testing"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCodecRoundTrip(t *testing.T) {
	ctx := context.Background()
	codec := NewCodec(NewMemoryStore(), nil)

	in := record{Name: "draft", Count: 3}
	if err := codec.Write(ctx, "rec", in); err != nil {
		t.Fatalf("write: %v", err)
	}

	out := Read(ctx, codec, "rec", record{})
	if out != in {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestCodecReadMissingReturnsDefault(t *testing.T) {
	ctx := context.Background()
	codec := NewCodec(NewMemoryStore(), nil)

	def := record{Name: "fallback"}
	if got := Read(ctx, codec, "absent", def); got != def {
		t.Fatalf("got %+v, want default %+v", got, def)
	}
}

func TestCodecReadCorruptReturnsDefault(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	codec := NewCodec(store, nil)

	if err := store.Set(ctx, "rec", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	def := record{Name: "fallback"}
	if got := Read(ctx, codec, "rec", def); got != def {
		t.Fatalf("corrupt record should fall back to default, got %+v", got)
	}
}

func TestCodecWriteFailure(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.FailWrites = true
	codec := NewCodec(store, nil)

	err := codec.Write(ctx, "rec", record{Name: "x"})
	if !errors.Is(err, ErrWriteFailed) {
		t.Fatalf("got %v, want ErrWriteFailed", err)
	}
}

func TestCodecDeleteMissingKey(t *testing.T) {
	ctx := context.Background()
	codec := NewCodec(NewMemoryStore(), nil)

	if err := codec.Delete(ctx, "never-written"); err != nil {
		t.Fatalf("delete of missing key should succeed: %v", err)
	}
}

func TestCodecKeysPrefix(t *testing.T) {
	ctx := context.Background()
	codec := NewCodec(NewMemoryStore(), nil)

	for _, key := range []string{"draft:a", "draft:b", "prefs"} {
		if err := codec.Write(ctx, key, record{}); err != nil {
			t.Fatalf("write %s: %v", key, err)
		}
	}

	keys, err := codec.Keys(ctx, "draft:")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("got %d keys, want 2: %v", len(keys), keys)
	}
	for _, k := range keys {
		if k != "draft:a" && k != "draft:b" {
			t.Fatalf("unexpected key %q", k)
		}
	}
}
