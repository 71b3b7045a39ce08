package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := context.Background()
	ctx = log.WithSellerID(ctx, "seller-123")
	ctx = log.WithListingID(ctx, "listing-456")

	log.Error(ctx, "boom", errors.New("boom"))

	if !bytes.Contains(buf.Bytes(), []byte("\"seller_id\"")) {
		t.Fatalf("expected seller_id to be preserved; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("\"listing_id\"")) {
		t.Fatalf("expected listing_id to be preserved; entry=%s", buf.String())
	}
}

func TestLoggerOperationField(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})
	ctx := log.WithOperation(context.Background(), "create_listing")
	log.Info(ctx, "submitting")
	if !bytes.Contains(buf.Bytes(), []byte("\"operation\":\"create_listing\"")) {
		t.Fatalf("expected operation field; entry=%s", buf.String())
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if lvl := ParseLevel("warn"); lvl.String() != "warn" {
		t.Fatalf("expected warn, got %v", lvl)
	}
	if lvl := ParseLevel("not-a-level"); lvl.String() != "info" {
		t.Fatalf("invalid level should fall back to info, got %v", lvl)
	}
}
