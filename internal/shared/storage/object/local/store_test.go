package local

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir())

	key, size, mimeType, err := store.Save(context.Background(), "Invoice 001.txt", strings.NewReader("Invoice from Acme"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len("Invoice from Acme")) {
		t.Fatalf("expected size %d, got %d", len("Invoice from Acme"), size)
	}
	if !strings.HasPrefix(mimeType, "text/plain") {
		t.Fatalf("expected text/plain mime, got %q", mimeType)
	}
	if !strings.HasSuffix(key, "_invoice_001.txt") {
		t.Fatalf("unexpected storage key %q", key)
	}

	rc, err := store.Open(context.Background(), key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "Invoice from Acme" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "../secret"); err == nil {
		t.Fatalf("expected error for traversal key")
	}
}
