package kv

import (
	"context"
	"errors"
	"testing"

	domain "billit-client/internal/domain/store"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	s, err := NewStore(gdb)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestPutGetRemove(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	v1, err := s.Put(ctx, "loan/draft/abc", []byte(`{"state":"input"}`), 0)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if v1 != 1 {
		t.Fatalf("first version = %d, want 1", v1)
	}

	val, ver, err := s.Get(ctx, "loan/draft/abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(val) != `{"state":"input"}` || ver != 1 {
		t.Fatalf("Get = (%s, %d)", val, ver)
	}

	if err := s.Remove(ctx, "loan/draft/abc"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, _, err := s.Get(ctx, "loan/draft/abc"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get after Remove err = %v, want ErrNotFound", err)
	}
	// idempotent
	if err := s.Remove(ctx, "loan/draft/abc"); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
}

func TestPut_CreateRequiresAbsent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Put(ctx, "k", []byte("a"), 0); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := s.Put(ctx, "k", []byte("b"), 0); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("second create err = %v, want ErrVersionConflict", err)
	}
}

func TestPut_OptimisticVersioning(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	v1, _ := s.Put(ctx, "k", []byte("a"), 0)
	v2, err := s.Put(ctx, "k", []byte("b"), v1)
	if err != nil {
		t.Fatalf("versioned Put: %v", err)
	}
	if v2 != v1+1 {
		t.Fatalf("version = %d, want %d", v2, v1+1)
	}

	// A writer holding the stale version loses.
	if _, err := s.Put(ctx, "k", []byte("c"), v1); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("stale Put err = %v, want ErrVersionConflict", err)
	}

	// Updating an absent key with a positive version also conflicts.
	if _, err := s.Put(ctx, "missing", []byte("x"), 3); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("absent-key Put err = %v, want ErrVersionConflict", err)
	}
}

func TestPut_AnyVersion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Put(ctx, "k", []byte("a"), domain.AnyVersion); err != nil {
		t.Fatalf("AnyVersion create: %v", err)
	}
	v, err := s.Put(ctx, "k", []byte("b"), domain.AnyVersion)
	if err != nil {
		t.Fatalf("AnyVersion update: %v", err)
	}
	if v != 2 {
		t.Fatalf("version = %d, want 2", v)
	}
}
