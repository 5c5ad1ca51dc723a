package graph

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()

	path := filepath.Join(t.TempDir(), "graph.db")
	store, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return store
}

func TestSQLite_AddClaim_Upsert(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := store.AddClaim(ctx, claimAt("c1", base)); err != nil {
		t.Fatalf("AddClaim: %v", err)
	}

	updated := claimAt("c1", base)
	updated.Platform = "facebook"
	if err := store.AddClaim(ctx, updated); err != nil {
		t.Fatalf("AddClaim upsert: %v", err)
	}

	family, err := store.FindFamily(ctx, "c1", 5, 100)
	if err != nil {
		t.Fatalf("FindFamily: %v", err)
	}
	if len(family) != 1 {
		t.Fatalf("Expected single node after upsert, got %d", len(family))
	}
	if family[0].Platform != "facebook" {
		t.Errorf("Expected last-write-wins platform facebook, got %s", family[0].Platform)
	}
}

func TestSQLite_AddMutationEdge_MissingNode(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	if err := store.AddClaim(ctx, claimAt("c1", time.Now())); err != nil {
		t.Fatalf("AddClaim: %v", err)
	}

	err := store.AddMutationEdge(ctx, "ghost", "c1", 0.9)
	if !errors.Is(err, ErrMissingNode) {
		t.Fatalf("Expected ErrMissingNode, got %v", err)
	}
}

func TestSQLite_FamilyTraversal(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"A", "B", "C"} {
		if err := store.AddClaim(ctx, claimAt(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("AddClaim(%s): %v", id, err)
		}
	}
	if err := store.AddMutationEdge(ctx, "A", "B", 0.9); err != nil {
		t.Fatalf("AddMutationEdge: %v", err)
	}
	if err := store.AddMutationEdge(ctx, "B", "C", 0.9); err != nil {
		t.Fatalf("AddMutationEdge: %v", err)
	}

	// Reachability is undirected: C reaches A through B
	family, err := store.FindFamily(ctx, "C", 5, 100)
	if err != nil {
		t.Fatalf("FindFamily: %v", err)
	}
	if len(family) != 3 {
		t.Fatalf("Expected family of 3, got %d", len(family))
	}
	if family[0].ID != "C" || family[0].Distance != 0 {
		t.Errorf("Expected seed C at distance 0, got %s at %d", family[0].ID, family[0].Distance)
	}

	zero, err := store.FindPatientZero(ctx, "C", 10)
	if err != nil {
		t.Fatalf("FindPatientZero: %v", err)
	}
	if zero == nil || zero.ID != "A" {
		t.Errorf("Expected patient zero A, got %+v", zero)
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.db")
	ctx := context.Background()

	store, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	if err := store.AddClaim(ctx, claimAt("persisted", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))); err != nil {
		t.Fatalf("AddClaim: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite reopen: %v", err)
	}
	defer reopened.Close()

	family, err := reopened.FindFamily(ctx, "persisted", 5, 100)
	if err != nil {
		t.Fatalf("FindFamily: %v", err)
	}
	if len(family) != 1 {
		t.Errorf("Expected claim to survive reopen, got family of %d", len(family))
	}
}
