package services_test

import (
	"context"
	"testing"

	"docscan/internal/services"
)

func TestContextAnnotations(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithSessionID(ctx, "sess-1")
	ctx = services.WithFolder(ctx, "/scans/a")
	ctx = services.WithFile(ctx, "/scans/a/001.jpg")
	ctx = services.WithRequestID(ctx, "req-1")

	if id, ok := services.SessionIDFromContext(ctx); !ok || id != "sess-1" {
		t.Fatalf("session id = %q ok=%v", id, ok)
	}
	if folder, ok := services.FolderFromContext(ctx); !ok || folder != "/scans/a" {
		t.Fatalf("folder = %q ok=%v", folder, ok)
	}
	if file, ok := services.FileFromContext(ctx); !ok || file != "/scans/a/001.jpg" {
		t.Fatalf("file = %q ok=%v", file, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-1" {
		t.Fatalf("request id = %q ok=%v", rid, ok)
	}
}

func TestEmptyValuesAreNotStored(t *testing.T) {
	ctx := services.WithSessionID(context.Background(), "")
	if _, ok := services.SessionIDFromContext(ctx); ok {
		t.Fatal("empty session id should not be stored")
	}
}
