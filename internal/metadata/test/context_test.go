package metadata_test

import (
	"context"
	"testing"

	"github.com/miravio/services-catalog/internal/metadata"

	"github.com/google/uuid"
)

func TestInjectAndFromContext(t *testing.T) {
	meta := metadata.HandlerMetadata{
		IdempotencyKey: "req-1",
		UserID:         uuid.New().String(),
	}

	ctx := metadata.Inject(context.Background(), meta)
	got, ok := metadata.FromContext(ctx)
	if !ok {
		t.Fatal("metadata should be present after Inject")
	}
	if got != meta {
		t.Fatalf("got %+v want %+v", got, meta)
	}
}

func TestInjectZeroMetadataIsNoop(t *testing.T) {
	base := context.Background()
	ctx := metadata.Inject(base, metadata.HandlerMetadata{})
	if ctx != base {
		t.Fatal("empty metadata should not wrap the context")
	}
	if _, ok := metadata.FromContext(ctx); ok {
		t.Fatal("empty metadata should not be retrievable")
	}
}

func TestUserUUID(t *testing.T) {
	id := uuid.New()
	meta := metadata.HandlerMetadata{UserID: "  " + id.String() + "  "}
	got, ok := meta.UserUUID()
	if !ok || got != id {
		t.Fatalf("got %s ok=%v want %s", got, ok, id)
	}

	if _, ok := (metadata.HandlerMetadata{UserID: "not-a-uuid"}).UserUUID(); ok {
		t.Fatal("invalid uuid should not parse")
	}
	if _, ok := (metadata.HandlerMetadata{}).UserUUID(); ok {
		t.Fatal("blank user id should not parse")
	}
}

func TestOperator(t *testing.T) {
	ctx := metadata.Inject(context.Background(), metadata.HandlerMetadata{UserID: "admin-7"})
	if got := metadata.Operator(ctx); got != "admin-7" {
		t.Fatalf("operator: %q", got)
	}
	if got := metadata.Operator(context.Background()); got != "unknown" {
		t.Fatalf("missing metadata should fall back to unknown, got %q", got)
	}
}
