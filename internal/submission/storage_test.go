package submission

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStoragePutGetResult(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	ctx := context.Background()

	data := []byte(`{"total_score":60}`)
	if err := s.PutResult(ctx, "user1", "res1", data); err != nil {
		t.Fatalf("PutResult: %v", err)
	}

	got, err := s.GetResult(ctx, "user1", "res1")
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("GetResult = %q, want %q", got, data)
	}

	// Verify file path layout
	expectedPath := filepath.Join(dir, "user1", "results", "res1.json")
	if _, err := os.Stat(expectedPath); err != nil {
		t.Errorf("expected file at %s: %v", expectedPath, err)
	}
}

func TestLocalStorageGetNotFound(t *testing.T) {
	s := NewLocalStorage(t.TempDir())

	_, err := s.GetResult(context.Background(), "user1", "nonexistent")
	if !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("GetResult err = %v, want ErrBlobNotFound", err)
	}
}

func TestLocalStorageIsolatesUsers(t *testing.T) {
	s := NewLocalStorage(t.TempDir())
	ctx := context.Background()

	if err := s.PutResult(ctx, "alice", "res1", []byte("a")); err != nil {
		t.Fatalf("PutResult: %v", err)
	}
	if _, err := s.GetResult(ctx, "bob", "res1"); err == nil {
		t.Error("expected bob not to see alice's archive")
	}
}

func TestObjectKey(t *testing.T) {
	if got, want := objectKey("u1", "r1"), "users/u1/results/r1.json"; got != want {
		t.Errorf("objectKey = %q, want %q", got, want)
	}
}

func TestNewS3StorageRequiresBucket(t *testing.T) {
	if _, err := NewS3Storage(context.Background(), S3Config{}); err == nil {
		t.Fatal("expected error without bucket")
	}
}

func TestNewGCSStorageRequiresBucket(t *testing.T) {
	if _, err := NewGCSStorage(context.Background(), ""); err == nil {
		t.Fatal("expected error without bucket")
	}
}
